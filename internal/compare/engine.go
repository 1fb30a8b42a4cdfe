package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/benefitcost/internal/calculation"
	"github.com/rgehrsitz/benefitcost/internal/domain"
)

// CompareEngine orchestrates plan comparison
type CompareEngine struct {
	Engine            *calculation.Engine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(engine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		Engine:            engine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BasePlanID string   // Plan the others are measured against; first eligible plan when empty
	PlanIDs    []string // Restrict the comparison to these plans; all eligible plans when empty
}

// Compare projects the profile's eligible plans and ranks them against the
// base plan
func (ce *CompareEngine) Compare(
	ctx context.Context,
	profile domain.PersonProfile,
	options CompareOptions,
) (*ComparisonSet, error) {

	plans, err := ce.selectPlans(profile, options)
	if err != nil {
		return nil, err
	}

	set := domain.ProjectionSet{CoverageLevel: profile.EffectiveCoverageLevel()}
	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("comparison cancelled: %w", err)
		}
		set.Expected = append(set.Expected, ce.Engine.ProjectPlan(plan, profile, false))
		set.WorstCase = append(set.WorstCase, ce.Engine.ProjectPlan(plan, profile, true))
	}

	return Build(set, options.BasePlanID)
}

// selectPlans returns the requested plans in configuration order, failing on
// plans that do not exist or are not offered to the profile
func (ce *CompareEngine) selectPlans(profile domain.PersonProfile, options CompareOptions) ([]domain.Plan, error) {
	eligible := ce.Engine.EligiblePlans(profile)
	if len(eligible) == 0 {
		return nil, fmt.Errorf("no plans offered for region %q status %q", profile.Region, profile.Status)
	}
	if len(options.PlanIDs) == 0 {
		return eligible, nil
	}

	wanted := make(map[string]bool, len(options.PlanIDs))
	for _, id := range options.PlanIDs {
		if _, ok := ce.Engine.Config.Plan(id); !ok {
			return nil, fmt.Errorf("plan %s not found in configuration", id)
		}
		wanted[id] = true
	}
	if options.BasePlanID != "" {
		wanted[options.BasePlanID] = true
	}

	var plans []domain.Plan
	for _, p := range eligible {
		if wanted[p.ID] {
			plans = append(plans, p)
			delete(wanted, p.ID)
		}
	}
	for id := range wanted {
		return nil, fmt.Errorf("plan %s is not offered for region %q status %q", id, profile.Region, profile.Status)
	}
	return plans, nil
}
