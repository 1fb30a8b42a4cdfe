package calculation

import (
	"sort"

	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
)

// OUT-OF-POCKET ASSUMPTIONS:
//
// 1. Usage is an annual visit count per service; each visit costs the
//    service's unit cost
// 2. Services are processed in name order, one visit at a time
// 3. A copay not marked copay_after_deductible is charged per visit and does
//    not count toward the deductible
// 4. Otherwise the deductible absorbs the visit first; the remainder is
//    charged the copay (copay_after_deductible) or coinsurance
// 5. The annual total is capped at the coverage level's out-of-pocket maximum

// OutOfPocketEstimator turns usage counts into an annual cost-sharing estimate
type OutOfPocketEstimator interface {
	Estimate(req OutOfPocketRequest) domain.OutOfPocketEstimate
}

// OutOfPocketRequest carries everything an estimator may look at
type OutOfPocketRequest struct {
	Plan     domain.Plan
	Coverage domain.CoverageLevel
	Services map[string]domain.Service
	Usage    map[string]int
}

// StandardOutOfPocket is the default deductible/copay/coinsurance model
type StandardOutOfPocket struct{}

// Estimate implements OutOfPocketEstimator
func (StandardOutOfPocket) Estimate(req OutOfPocketRequest) domain.OutOfPocketEstimate {
	plan := req.Plan
	remainingDeductible := nonNegative(plan.DeductibleFor(req.Coverage))

	names := make([]string, 0, len(req.Usage))
	for name := range req.Usage {
		names = append(names, name)
	}
	sort.Strings(names)

	total := decimal.Zero
	eligible := decimal.Zero
	for _, name := range names {
		visits := req.Usage[name]
		svc, ok := req.Services[name]
		if !ok || visits <= 0 {
			continue
		}
		unitCost := nonNegative(svc.UnitCost)
		provision := plan.Provisions[name]
		coinsurance := plan.Coinsurance
		if provision.Coinsurance != nil {
			coinsurance = *provision.Coinsurance
		}

		serviceCost := decimal.Zero
		for i := 0; i < visits; i++ {
			var paid decimal.Decimal
			paid, remainingDeductible = visitCost(provision, unitCost, coinsurance, remainingDeductible)
			serviceCost = serviceCost.Add(paid)
		}
		total = total.Add(serviceCost)
		if svc.LimitedPurposeEligible {
			eligible = eligible.Add(serviceCost)
		}
	}

	est := domain.OutOfPocketEstimate{Amount: total, LimitedPurposeEligible: eligible}
	if hasOutOfPocketMaximum(plan, req.Coverage) {
		oopMax := nonNegative(plan.OutOfPocketMaximumFor(req.Coverage))
		if est.Amount.GreaterThan(oopMax) {
			est.Amount = oopMax
			est.CappedAtMaximum = true
		}
	}
	est.LimitedPurposeEligible = decimal.Min(est.LimitedPurposeEligible, est.Amount)
	return est
}

// visitCost returns the member's share of one visit and the deductible left
func visitCost(p domain.Provision, unitCost, coinsurance, remainingDeductible decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if p.NoCharge {
		return decimal.Zero, remainingDeductible
	}
	if p.Copay != nil && !p.CopayAfterDeductible {
		return decimal.Min(nonNegative(*p.Copay), unitCost), remainingDeductible
	}

	toDeductible := decimal.Min(unitCost, remainingDeductible)
	remainingDeductible = remainingDeductible.Sub(toDeductible)
	rest := unitCost.Sub(toDeductible)
	if !rest.IsPositive() {
		return toDeductible, remainingDeductible
	}
	if p.Copay != nil {
		return toDeductible.Add(decimal.Min(nonNegative(*p.Copay), rest)), remainingDeductible
	}
	return toDeductible.Add(rest.Mul(clampRate(coinsurance))), remainingDeductible
}

func hasOutOfPocketMaximum(plan domain.Plan, coverage domain.CoverageLevel) bool {
	return domain.CoverageValue{Flat: plan.OutOfPocketMaximum, PerLevel: plan.OutOfPocketMaximums}.Has(coverage)
}

// WorstCaseEstimate returns the plan's maximum out-of-pocket exposure. The
// limited-purpose share is carried over from the expected estimate.
func WorstCaseEstimate(plan domain.Plan, coverage domain.CoverageLevel, expected domain.OutOfPocketEstimate) domain.OutOfPocketEstimate {
	oopMax := nonNegative(plan.OutOfPocketMaximumFor(coverage))
	if !hasOutOfPocketMaximum(plan, coverage) {
		oopMax = expected.Amount
	}
	return domain.OutOfPocketEstimate{
		Amount:                 oopMax,
		LimitedPurposeEligible: decimal.Min(expected.LimitedPurposeEligible, oopMax),
		CappedAtMaximum:        true,
	}
}

func clampRate(r decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if r.IsNegative() {
		return decimal.Zero
	}
	if r.GreaterThan(one) {
		return one
	}
	return r
}
