package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/benefitcost/internal/domain"
)

// SolveAgainst runs a break-even search for every plan offered to the
// profile against one base plan. An empty base uses the first offered plan.
func (s *Solver) SolveAgainst(
	ctx context.Context,
	profile domain.PersonProfile,
	basePlanID string,
	service string,
	maxUnits int,
) (*MultiResult, error) {

	plans := s.Engine.EligiblePlans(profile)
	if len(plans) < 2 {
		return nil, &BreakEvenError{
			Operation: "solve_against",
			Message:   fmt.Sprintf("need at least two plans offered for region %q status %q", profile.Region, profile.Status),
		}
	}
	if basePlanID == "" {
		basePlanID = plans[0].ID
	}
	offered := false
	for _, p := range plans {
		if p.ID == basePlanID {
			offered = true
		}
	}
	if !offered {
		return nil, &BreakEvenError{
			Operation: "solve_against",
			Message:   fmt.Sprintf("base plan %s is not offered for region %q status %q", basePlanID, profile.Region, profile.Status),
		}
	}

	multi := &MultiResult{BasePlanID: basePlanID, Service: service}
	for _, p := range plans {
		if p.ID == basePlanID {
			continue
		}
		result, err := s.Solve(ctx, Request{
			Profile:    profile,
			PlanID:     p.ID,
			BasePlanID: basePlanID,
			Service:    service,
			MaxUnits:   maxUnits,
		})
		if err != nil {
			return nil, err
		}
		multi.Results = append(multi.Results, *result)
	}

	multi.Recommendations = generateRecommendations(multi)
	return multi, nil
}

// generateRecommendations describes each search in one sentence
func generateRecommendations(multi *MultiResult) []string {
	var recommendations []string
	for _, r := range multi.Results {
		var rec string
		switch {
		case r.Direction == AlreadyEqual:
			rec = fmt.Sprintf("%s and %s cost the same at your expected usage", r.PlanName, r.BasePlanName)
		case r.Found && r.Direction == BaseBecomesCheaper:
			rec = fmt.Sprintf("%s stays cheaper than %s until %s usage reaches %d (%d more than you expect)",
				r.PlanName, r.BasePlanName, r.Service, r.BreakEven.Units, r.AdditionalUnits())
		case r.Found:
			rec = fmt.Sprintf("%s becomes cheaper than %s once %s usage reaches %d (%d more than you expect)",
				r.PlanName, r.BasePlanName, r.Service, r.BreakEven.Units, r.AdditionalUnits())
		case r.Start.Gap().IsNegative():
			rec = fmt.Sprintf("%s stays cheaper than %s for %s usage up to %d", r.PlanName, r.BasePlanName, r.Service, r.MaxUnits)
		default:
			rec = fmt.Sprintf("%s stays cheaper than %s for %s usage up to %d", r.BasePlanName, r.PlanName, r.Service, r.MaxUnits)
		}
		recommendations = append(recommendations, rec)
	}
	return recommendations
}
