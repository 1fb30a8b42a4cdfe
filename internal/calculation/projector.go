package calculation

import (
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectionInput is everything needed to cost one plan for one person
type ProjectionInput struct {
	Plan        domain.Plan
	Profile     domain.PersonProfile
	Usage       map[string]int
	Adjustments domain.AdjustmentResult
	// Allocation is nil when the plan has no savings account
	Allocation *domain.Allocation
	WorstCase  bool
}

// PlanCostProjector combines premiums, adjustments, cost sharing and account
// funding into a PlanResult
type PlanCostProjector struct {
	Services map[string]domain.Service
	Hooks    Hooks
}

// NewPlanCostProjector creates a projector using the given hooks
func NewPlanCostProjector(services map[string]domain.Service, hooks Hooks) *PlanCostProjector {
	if hooks.OutOfPocket == nil {
		hooks.OutOfPocket = StandardOutOfPocket{}
	}
	if hooks.FundOrder == nil {
		hooks.FundOrder = EmployerFirst{}
	}
	return &PlanCostProjector{Services: services, Hooks: hooks}
}

// EstimateOutOfPocket runs the configured estimator, or returns the worst case
func (pcp *PlanCostProjector) EstimateOutOfPocket(plan domain.Plan, coverage domain.CoverageLevel, usage map[string]int, worstCase bool) domain.OutOfPocketEstimate {
	expected := pcp.Hooks.OutOfPocket.Estimate(OutOfPocketRequest{
		Plan:     plan,
		Coverage: coverage,
		Services: pcp.Services,
		Usage:    usage,
	})
	if worstCase {
		return WorstCaseEstimate(plan, coverage, expected)
	}
	return expected
}

// Project computes the complete cost breakdown for one plan
func (pcp *PlanCostProjector) Project(in ProjectionInput) domain.PlanResult {
	plan := in.Plan
	coverage := in.Profile.EffectiveCoverageLevel()
	option := in.Profile.FundOption()

	result := domain.PlanResult{
		PlanID:          plan.ID,
		PlanName:        plan.Name,
		CoverageLevel:   coverage,
		WorstCase:       in.WorstCase,
		FundApplication: option,
		Adjustments:     in.Adjustments.Named,
		OutOfPocketMax:  nonNegative(plan.OutOfPocketMaximumFor(coverage)),
	}

	// Premiums
	result.EmployeeBasePremium = plan.MonthlyEmployeePremium(coverage).Mul(monthsPerYear)
	result.EmployerBasePremium = plan.MonthlyEmployerPremium(coverage).Mul(monthsPerYear)
	result.EmployeePremium = result.EmployeeBasePremium.Add(in.Adjustments.EmployeeDelta)
	result.EmployerPremium = result.EmployerBasePremium.Add(in.Adjustments.EmployerDelta)

	// Cost of care
	oop := pcp.EstimateOutOfPocket(plan, coverage, in.Usage, in.WorstCase)
	result.OutOfPocket = oop.Amount

	alloc := domain.Allocation{}
	if in.Allocation != nil {
		alloc = *in.Allocation
	}
	result.AccountTypeID = alloc.AccountTypeID
	result.PlanFund = alloc.PlanFund
	result.EmployeeContribution = alloc.EmployeeContribution
	result.EmployerMatch = alloc.EmployerMatch
	result.EffectiveMaximum = alloc.EffectiveMaximum
	result.RolloverEligibleAmount = alloc.RolloverEligibleAmount

	pcp.applyFunds(&result, alloc, oop, option)

	// Totals
	result.TotalCosts = result.EmployeePremium.Add(result.EmployerPremium).Add(result.OutOfPocket)
	result.EmployerOrPlanTotalCosts = result.EmployerPremium.Add(result.EmployerFundsApplied)
	result.EmployeeTotalCosts = result.EmployeePremium.Add(result.OutOfPocket).Sub(result.EmployerFundsApplied)

	return result
}

// applyFunds offsets cost of care with account money according to the fund
// application option. Money not spent lands in the unused bucket and is split
// into rollover and forfeiture.
func (pcp *PlanCostProjector) applyFunds(result *domain.PlanResult, alloc domain.Allocation, oop domain.OutOfPocketEstimate, option domain.FundApplicationOption) {
	offsettable := oop.Amount
	if alloc.RuleSet == domain.RulesLPFSA {
		offsettable = oop.LimitedPurposeEligible
	}

	employerAvailable := decimal.Zero
	if option.AppliesEmployerFunds() {
		employerAvailable = alloc.EmployerFunds()
	}
	employeeAvailable := decimal.Zero
	if option.AppliesEmployeeFunds() {
		employeeAvailable = alloc.EmployeeFunds()
	}

	erApplied, eeApplied := pcp.Hooks.FundOrder.Apply(offsettable, employerAvailable, employeeAvailable)
	result.EmployerFundsApplied = erApplied
	result.EmployeeFundsApplied = eeApplied
	result.EmployeeNetOutOfPocket = oop.Amount.Sub(erApplied).Sub(eeApplied)

	// Plan fund is drawn before match
	planFundApplied := decimal.Min(erApplied, alloc.PlanFund)
	matchApplied := erApplied.Sub(planFundApplied)
	unusedPlanFund := alloc.PlanFund.Sub(planFundApplied)
	unusedMatch := alloc.EmployerMatch.Sub(matchApplied)
	unusedEmployee := alloc.EmployeeContribution.Sub(eeApplied)

	result.UnusedFunds = unusedEmployee.Add(unusedMatch).Add(unusedPlanFund)

	switch {
	case alloc.Unlimited:
		result.RolloverAmount = result.UnusedFunds
	default:
		pool := unusedEmployee
		if alloc.CompanyFundsRollOver {
			pool = pool.Add(unusedMatch)
			if !alloc.PlanFundOutsideCap {
				pool = pool.Add(unusedPlanFund)
			}
		}
		result.RolloverAmount = decimal.Min(pool, alloc.RolloverEligibleAmount)
		if alloc.PlanFundOutsideCap && alloc.CompanyFundsRollOver {
			result.RolloverAmount = result.RolloverAmount.Add(unusedPlanFund)
		}
	}
	result.ForfeitedAmount = result.UnusedFunds.Sub(result.RolloverAmount)
}
