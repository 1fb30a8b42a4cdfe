package breakeven

import (
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
)

// Direction says which plan is cheaper once the break-even point is passed
type Direction string

const (
	PlanBecomesCheaper Direction = "plan_becomes_cheaper" // Plan costs more at the profile's usage, less beyond the point
	BaseBecomesCheaper Direction = "base_becomes_cheaper" // Plan costs less at the profile's usage, more beyond the point
	AlreadyEqual       Direction = "already_equal"
)

// Request asks how many units of one service it takes for two plans to cost
// the employee the same
type Request struct {
	Profile    domain.PersonProfile
	PlanID     string
	BasePlanID string
	Service    string
	MaxUnits   int // Upper bound on the service count searched; 0 uses the solver default
}

// Point is the employee total for both plans at one usage count
type Point struct {
	Units    int             `json:"units"`
	PlanCost decimal.Decimal `json:"planCost"`
	BaseCost decimal.Decimal `json:"baseCost"`
}

// Gap is the plan's cost minus the base plan's cost
func (p Point) Gap() decimal.Decimal {
	return p.PlanCost.Sub(p.BaseCost)
}

// Result is the outcome of one break-even search
type Result struct {
	PlanID          string    `json:"planId"`
	PlanName        string    `json:"planName"`
	BasePlanID      string    `json:"basePlanId"`
	BasePlanName    string    `json:"basePlanName"`
	Service         string    `json:"service"`
	Found           bool      `json:"found"`
	Direction       Direction `json:"direction,omitempty"`
	Start           Point     `json:"start"`
	BreakEven       *Point    `json:"breakEven,omitempty"`
	MaxUnits        int       `json:"maxUnits"`
	Evaluations     int       `json:"evaluations"`
	ConvergenceInfo string    `json:"convergenceInfo"`
}

// AdditionalUnits is how many units beyond the profile's own usage the
// break-even point lies
func (r *Result) AdditionalUnits() int {
	if r.BreakEven == nil {
		return 0
	}
	return r.BreakEven.Units - r.Start.Units
}

// MultiResult holds one search per alternative plan against the same base
type MultiResult struct {
	BasePlanID      string   `json:"basePlanId"`
	Service         string   `json:"service"`
	Results         []Result `json:"results"`
	Recommendations []string `json:"recommendations"`
}

// SolverOptions configures the solver
type SolverOptions struct {
	MaxUnits int // Default search limit for a service count
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{MaxUnits: 100}
}

// Validate checks the request before any projection runs
func (r *Request) Validate() error {
	if r.PlanID == "" || r.BasePlanID == "" {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "plan and base plan are required",
		}
	}
	if r.PlanID == r.BasePlanID {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "plan and base plan must differ",
		}
	}
	if r.Service == "" {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "service is required",
		}
	}
	if r.MaxUnits < 0 {
		return &BreakEvenError{
			Operation: "validate_request",
			Message:   "max units cannot be negative",
		}
	}
	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
