package calculation

import (
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
)

// AllocationRequest is the input to one savings account allocation
type AllocationRequest struct {
	Account      domain.AccountType
	Coverage     domain.CoverageLevel
	Desired      decimal.Decimal
	Age55OrOlder bool
	PlanFund     decimal.Decimal
	// MatchRate overrides the account's employer match rate when set
	MatchRate *decimal.Decimal
}

// SavingsAccountAllocator computes contribution limits, employer match and
// rollover eligibility. It never fails: out-of-range requests are clamped.
type SavingsAccountAllocator struct {
	Rules domain.AccountRules
}

// NewSavingsAccountAllocator creates an allocator with statutory constants
func NewSavingsAccountAllocator(rules domain.AccountRules) *SavingsAccountAllocator {
	return &SavingsAccountAllocator{Rules: rules}
}

// EffectiveMaximum resolves the coverage-level maximum plus any age-55 catch-up
func (sa *SavingsAccountAllocator) EffectiveMaximum(account domain.AccountType, coverage domain.CoverageLevel, age55OrOlder bool) decimal.Decimal {
	maximum := account.Maximum().Resolve(coverage)
	if account.FollowRulesFor == domain.RulesHSA && age55OrOlder {
		maximum = maximum.Add(sa.Rules.HSACatchUpContribution)
	}
	if maximum.IsNegative() {
		return decimal.Zero
	}
	return maximum
}

// Allocate computes the funding outcome for a desired contribution
func (sa *SavingsAccountAllocator) Allocate(req AllocationRequest) domain.Allocation {
	account := req.Account
	planFund := nonNegative(req.PlanFund)
	maximum := sa.EffectiveMaximum(account, req.Coverage, req.Age55OrOlder)

	rate := account.EmployerMatchRate
	if req.MatchRate != nil {
		rate = *req.MatchRate
	}
	rate = nonNegative(rate)
	maxMatch := account.MaxMatch()

	// Room shared by the employee and the match
	room := maximum
	if !account.MaximumExcludesCompanyFunds {
		room = nonNegative(maximum.Sub(planFund))
	}

	desired := nonNegative(req.Desired)
	if desired.IsPositive() && desired.LessThan(account.ContributionMinimum) {
		desired = account.ContributionMinimum
	}

	// The match shares the maximum with the employee whether or not company funds count
	limit := employeeLimit(room, rate, maxMatch, req.Coverage)
	employee := floorCents(decimal.Min(desired, limit))
	if employee.LessThan(account.ContributionMinimum) {
		// Too little room left to meet the minimum
		employee = decimal.Zero
	}

	match := employee.Mul(rate)
	if maxMatch.IsSet() {
		match = decimal.Min(match, nonNegative(maxMatch.Resolve(req.Coverage)))
	}
	match = floorCents(match)

	alloc := domain.Allocation{
		AccountTypeID:        account.ID,
		RuleSet:              account.FollowRulesFor,
		EmployeeContribution: employee,
		EmployerMatch:        match,
		PlanFund:             planFund,
		EffectiveMaximum:     maximum,
		CompanyFundsRollOver: !account.CompanyFundsDoNotRollOver,
	}
	sa.applyRollover(&alloc)
	return alloc
}

// employeeLimit is the largest employee contribution e with e + match(e) <= room
func employeeLimit(room, rate decimal.Decimal, maxMatch domain.CoverageValue, coverage domain.CoverageLevel) decimal.Decimal {
	if rate.IsZero() {
		return room
	}
	linear := room.Div(decimal.NewFromInt(1).Add(rate))
	if maxMatch.IsSet() {
		capAmount := nonNegative(maxMatch.Resolve(coverage))
		if linear.Mul(rate).GreaterThan(capAmount) {
			// The match is capped before room runs out
			return nonNegative(room.Sub(capAmount))
		}
	}
	return linear
}

func (sa *SavingsAccountAllocator) applyRollover(alloc *domain.Allocation) {
	if !alloc.RuleSet.IsFlexibleSpending() {
		alloc.Unlimited = true
		alloc.CompanyFundsRollOver = true
		alloc.RolloverEligibleAmount = alloc.TotalFunds()
		return
	}

	pool := alloc.EmployeeContribution
	if alloc.CompanyFundsRollOver {
		pool = pool.Add(alloc.EmployerMatch)
		if sa.Rules.FSAMaximumPermittedRolloverExcludesPlanFundAmount {
			alloc.PlanFundOutsideCap = alloc.PlanFund.IsPositive()
		} else {
			pool = pool.Add(alloc.PlanFund)
		}
	}
	alloc.RolloverEligibleAmount = decimal.Min(pool, nonNegative(sa.Rules.FSAMaximumPermittedRollover))
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func floorCents(d decimal.Decimal) decimal.Decimal {
	return d.RoundFloor(2)
}
