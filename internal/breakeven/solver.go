// Package breakeven finds the usage at which one plan stops being cheaper
// than another for the employee.
package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/benefitcost/internal/calculation"
	"github.com/rgehrsitz/benefitcost/internal/domain"
)

// Solver searches service counts for break-even points
type Solver struct {
	Engine  *calculation.Engine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Solve varies the request's service count upward from the profile's own
// usage and returns the first count at which the cost gap between the two
// plans closes or reverses. The search assumes the gap changes sign at most
// once below MaxUnits.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.MaxUnits == 0 {
		req.MaxUnits = s.Options.MaxUnits
	}

	plan, ok := s.Engine.Config.Plan(req.PlanID)
	if !ok {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("plan %s not found", req.PlanID)}
	}
	base, ok := s.Engine.Config.Plan(req.BasePlanID)
	if !ok {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("base plan %s not found", req.BasePlanID)}
	}
	if _, ok := s.Engine.Config.Services[req.Service]; !ok {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("service %s not found", req.Service)}
	}

	start := s.Engine.Config.ResolveUsage(req.Profile)[req.Service]
	if start > req.MaxUnits {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("profile already uses %d %s, above the search limit of %d", start, req.Service, req.MaxUnits),
		}
	}

	result := &Result{
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		BasePlanID:   base.ID,
		BasePlanName: base.Name,
		Service:      req.Service,
		MaxUnits:     req.MaxUnits,
	}
	eval := func(units int) Point {
		result.Evaluations++
		profile := withUsage(req.Profile, req.Service, units)
		return Point{
			Units:    units,
			PlanCost: s.Engine.ProjectPlan(plan, profile, false).EmployeeTotalCosts,
			BaseCost: s.Engine.ProjectPlan(base, profile, false).EmployeeTotalCosts,
		}
	}

	result.Start = eval(start)
	startSign := result.Start.Gap().Sign()
	if startSign == 0 {
		result.Found = true
		result.Direction = AlreadyEqual
		result.BreakEven = &result.Start
		result.ConvergenceInfo = "Plans already cost the same"
		return result, nil
	}
	crossed := func(p Point) bool { return p.Gap().Sign() != startSign }

	// Widen the bracket by doubling steps, then bisect inside it
	lo, hi := start, -1
	var hiPoint Point
	for step := 1; lo < req.MaxUnits; step *= 2 {
		if err := ctx.Err(); err != nil {
			return nil, &BreakEvenError{Operation: "solve", Message: "search cancelled", Cause: err}
		}
		next := min(lo+step, req.MaxUnits)
		p := eval(next)
		if crossed(p) {
			hi, hiPoint = next, p
			break
		}
		lo = next
	}
	if hi < 0 {
		result.ConvergenceInfo = fmt.Sprintf("No break-even up to %d %s", req.MaxUnits, req.Service)
		return result, nil
	}

	for hi-lo > 1 {
		if err := ctx.Err(); err != nil {
			return nil, &BreakEvenError{Operation: "solve", Message: "search cancelled", Cause: err}
		}
		mid := lo + (hi-lo)/2
		if p := eval(mid); crossed(p) {
			hi, hiPoint = mid, p
		} else {
			lo = mid
		}
	}

	result.Found = true
	result.BreakEven = &hiPoint
	if startSign > 0 {
		result.Direction = PlanBecomesCheaper
	} else {
		result.Direction = BaseBecomesCheaper
	}
	result.ConvergenceInfo = fmt.Sprintf("Bisection converged after %d evaluations", result.Evaluations)
	return result, nil
}

// withUsage returns a copy of the profile with one service count pinned
func withUsage(profile domain.PersonProfile, service string, units int) domain.PersonProfile {
	usage := make(map[string]int, len(profile.Usage)+1)
	for k, v := range profile.Usage {
		usage[k] = v
	}
	usage[service] = units
	profile.Usage = usage
	return profile
}
