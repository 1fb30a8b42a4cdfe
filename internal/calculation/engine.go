package calculation

import (
	"fmt"

	"github.com/rgehrsitz/benefitcost/internal/domain"
)

// Engine orchestrates all benefit cost calculations for one configuration.
// It holds no mutable state after construction and may be shared between
// goroutines.
type Engine struct {
	Config      *domain.Configuration
	FederalTax  *FederalTaxCalculator
	FICA        *FICACalculator
	Adjustments *AdjustmentResolver
	Allocator   *SavingsAccountAllocator
	Projector   *PlanCostProjector
	TaxSavings  *TaxSavingsEstimator
	Logger      Logger
}

type engineOptions struct {
	logger   Logger
	registry *HookRegistry
}

// Option configures NewEngine
type Option func(*engineOptions)

// WithLogger sets the engine logger
func WithLogger(l Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithHookRegistry supplies a registry carrying client-specific hook
// implementations
func WithHookRegistry(r *HookRegistry) Option {
	return func(o *engineOptions) { o.registry = r }
}

// NewEngine builds an engine, resolving configured hooks once
func NewEngine(cfg *domain.Configuration, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = NopLogger{}
	}
	if o.registry == nil {
		o.registry = NewHookRegistry()
	}

	hooks, err := o.registry.Resolve(cfg.Hooks)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hooks: %w", err)
	}

	federal := NewFederalTaxCalculator(cfg.FederalIncomeTax)
	fica := NewFICACalculator(cfg.FicaPayrollTaxes)
	return &Engine{
		Config:      cfg,
		FederalTax:  federal,
		FICA:        fica,
		Adjustments: NewAdjustmentResolver(cfg.Adjustments, o.logger),
		Allocator:   NewSavingsAccountAllocator(cfg.AccountRules),
		Projector:   NewPlanCostProjector(cfg.Services, hooks),
		TaxSavings:  NewTaxSavingsEstimator(federal, fica),
		Logger:      o.logger,
	}, nil
}

// SetLogger sets the logger for the engine
func (e *Engine) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	e.Logger = logger
	e.Adjustments.Logger = logger
}

// EligiblePlans returns the plans offered in the profile's region and status,
// in configuration order
func (e *Engine) EligiblePlans(profile domain.PersonProfile) []domain.Plan {
	var plans []domain.Plan
	for _, p := range e.Config.Plans {
		if p.EligibleFor(profile.Region, profile.Status) {
			plans = append(plans, p)
		} else {
			e.Logger.Debugf("plan %s not offered for region %q status %q", p.ID, profile.Region, profile.Status)
		}
	}
	return plans
}

// AllocationFor computes the savings account funding for a plan. It returns
// nil when the plan has no account or names an unknown account type.
func (e *Engine) AllocationFor(plan domain.Plan, profile domain.PersonProfile) *domain.Allocation {
	if plan.AccountType == "" {
		return nil
	}
	account, ok := e.Config.AccountType(plan.AccountType)
	if !ok {
		e.Logger.Debugf("plan %s references unknown account type %q", plan.ID, plan.AccountType)
		return nil
	}
	if account.ID == "" {
		account.ID = plan.AccountType
	}
	coverage := profile.EffectiveCoverageLevel()
	alloc := e.Allocator.Allocate(AllocationRequest{
		Account:      account,
		Coverage:     coverage,
		Desired:      profile.DesiredContribution(account.ID),
		Age55OrOlder: profile.Age55OrOlder,
		PlanFund:     plan.PlanFund(coverage),
		MatchRate:    plan.EmployerMatchRate,
	})
	return &alloc
}

// ProjectPlan runs the full pipeline for one plan
func (e *Engine) ProjectPlan(plan domain.Plan, profile domain.PersonProfile, worstCase bool) domain.PlanResult {
	adjustments := e.Adjustments.Resolve(plan.ID, profile)
	alloc := e.AllocationFor(plan, profile)
	result := e.Projector.Project(ProjectionInput{
		Plan:        plan,
		Profile:     profile,
		Usage:       e.Config.ResolveUsage(profile),
		Adjustments: adjustments,
		Allocation:  alloc,
		WorstCase:   worstCase,
	})
	if !result.IsConserved() {
		e.Logger.Errorf("plan %s: employee %s + employer %s != total %s", plan.ID,
			result.EmployeeTotalCosts.StringFixed(2), result.EmployerOrPlanTotalCosts.StringFixed(2), result.TotalCosts.StringFixed(2))
	}
	return result
}

// ProjectPlans projects every eligible plan
func (e *Engine) ProjectPlans(profile domain.PersonProfile, worstCase bool) []domain.PlanResult {
	plans := e.EligiblePlans(profile)
	results := make([]domain.PlanResult, 0, len(plans))
	for _, p := range plans {
		results = append(results, e.ProjectPlan(p, profile, worstCase))
	}
	e.Logger.Debugf("projected %d plans (worst case: %t)", len(results), worstCase)
	return results
}

// ProjectAll returns expected and worst case results together
func (e *Engine) ProjectAll(profile domain.PersonProfile) domain.ProjectionSet {
	return domain.ProjectionSet{
		CoverageLevel: profile.EffectiveCoverageLevel(),
		Expected:      e.ProjectPlans(profile, false),
		WorstCase:     e.ProjectPlans(profile, true),
	}
}

// EstimateTaxSavings runs the tax savings estimator
func (e *Engine) EstimateTaxSavings(in domain.TaxSavingsInput) (domain.TaxSavings, error) {
	return e.TaxSavings.Estimate(in)
}
