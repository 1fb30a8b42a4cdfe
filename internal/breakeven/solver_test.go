package breakeven

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/benefitcost/internal/calculation"
	"github.com/rgehrsitz/benefitcost/internal/config"
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Rich costs the employee $1800 at any usage. Lean costs $600 plus $100 per
// visit until its deductible is met, so the two meet at 12 visits. Middle
// costs $1200 at any usage.
const breakEvenConfig = `
services:
  visit:
    name: Office visit
    unit_cost: 100
plans:
  - id: rich
    name: Rich PPO
    employee_premium: 150
    employer_premium: 300
    deductible: 0
    out_of_pocket_maximum: 1000
    coinsurance: 0
  - id: lean
    name: Lean HDHP
    employee_premium: 50
    employer_premium: 400
    deductible: 2000
    out_of_pocket_maximum: 5000
    coinsurance: 0.2
  - id: middle
    name: Middle
    employee_premium: 100
    employer_premium: 350
    deductible: 0
    out_of_pocket_maximum: 3000
    coinsurance: 0
`

func newTestSolver(t *testing.T) *Solver {
	t.Helper()
	cfg, err := config.NewInputParser().Parse([]byte(breakEvenConfig))
	require.NoError(t, err)
	engine, err := calculation.NewEngine(cfg)
	require.NoError(t, err)
	return NewDefaultSolver(engine)
}

func testProfile(visits int) domain.PersonProfile {
	return domain.PersonProfile{
		CoverageLevel: domain.EmployeeOnly,
		Usage:         map[string]int{"visit": visits},
	}
}

func TestNewSolver(t *testing.T) {
	engine := &calculation.Engine{}
	options := SolverOptions{MaxUnits: 25}

	solver := NewSolver(engine, options)
	if solver.Engine != engine {
		t.Error("Expected Engine to match input")
	}
	if solver.Options != options {
		t.Error("Expected Options to match input")
	}

	if NewDefaultSolver(engine).Options != DefaultSolverOptions() {
		t.Error("Expected default options to be applied")
	}
}

func TestSolve_BaseBecomesCheaper(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.Solve(context.Background(), Request{
		Profile:    testProfile(0),
		PlanID:     "lean",
		BasePlanID: "rich",
		Service:    "visit",
	})
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, BaseBecomesCheaper, result.Direction)
	assert.Equal(t, 0, result.Start.Units)
	assert.True(t, result.Start.Gap().Equal(decimal.NewFromInt(-1200)), result.Start.Gap().String())

	require.NotNil(t, result.BreakEven)
	assert.Equal(t, 12, result.BreakEven.Units)
	assert.True(t, result.BreakEven.PlanCost.Equal(decimal.NewFromInt(1800)))
	assert.True(t, result.BreakEven.BaseCost.Equal(decimal.NewFromInt(1800)))
	assert.Equal(t, 12, result.AdditionalUnits())
	assert.Equal(t, 100, result.MaxUnits)
	// start, 1, 3, 7, 15, then bisection at 11, 13, 12
	assert.Equal(t, 8, result.Evaluations)
	assert.Equal(t, "Lean HDHP", result.PlanName)
	assert.Equal(t, "Rich PPO", result.BasePlanName)
}

func TestSolve_PlanBecomesCheaper(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.Solve(context.Background(), Request{
		Profile:    testProfile(0),
		PlanID:     "rich",
		BasePlanID: "lean",
		Service:    "visit",
	})
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, PlanBecomesCheaper, result.Direction)
	require.NotNil(t, result.BreakEven)
	assert.Equal(t, 12, result.BreakEven.Units)
}

func TestSolve_StartsFromProfileUsage(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.Solve(context.Background(), Request{
		Profile:    testProfile(5),
		PlanID:     "lean",
		BasePlanID: "rich",
		Service:    "visit",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Start.Units)
	assert.True(t, result.Start.PlanCost.Equal(decimal.NewFromInt(1100)))
	require.NotNil(t, result.BreakEven)
	assert.Equal(t, 12, result.BreakEven.Units)
	assert.Equal(t, 7, result.AdditionalUnits())
}

func TestSolve_AlreadyEqual(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.Solve(context.Background(), Request{
		Profile:    testProfile(12),
		PlanID:     "lean",
		BasePlanID: "rich",
		Service:    "visit",
	})
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, AlreadyEqual, result.Direction)
	assert.Equal(t, 1, result.Evaluations)
	assert.Equal(t, 0, result.AdditionalUnits())
}

func TestSolve_NoBreakEven(t *testing.T) {
	solver := newTestSolver(t)

	tests := []struct {
		name        string
		planID      string
		maxUnits    int
		evaluations int
	}{
		{"flat gap", "middle", 0, 8},
		{"limit below break-even", "lean", 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := solver.Solve(context.Background(), Request{
				Profile:    testProfile(0),
				PlanID:     tt.planID,
				BasePlanID: "rich",
				Service:    "visit",
				MaxUnits:   tt.maxUnits,
			})
			require.NoError(t, err)
			assert.False(t, result.Found)
			assert.Nil(t, result.BreakEven)
			assert.Equal(t, tt.evaluations, result.Evaluations)
			assert.Contains(t, result.ConvergenceInfo, "No break-even up to")
		})
	}
}

func TestSolve_Errors(t *testing.T) {
	solver := newTestSolver(t)

	tests := []struct {
		name    string
		req     Request
		message string
	}{
		{"missing plan", Request{BasePlanID: "rich", Service: "visit"}, "plan and base plan are required"},
		{"same plans", Request{PlanID: "rich", BasePlanID: "rich", Service: "visit"}, "must differ"},
		{"unknown plan", Request{PlanID: "gold", BasePlanID: "rich", Service: "visit"}, "plan gold not found"},
		{"unknown base", Request{PlanID: "lean", BasePlanID: "gold", Service: "visit"}, "base plan gold not found"},
		{"unknown service", Request{PlanID: "lean", BasePlanID: "rich", Service: "surgery"}, "service surgery not found"},
		{"usage above limit", Request{Profile: testProfile(50), PlanID: "lean", BasePlanID: "rich", Service: "visit", MaxUnits: 10},
			"profile already uses 50 visit, above the search limit of 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := solver.Solve(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tt.message)

			var beErr *BreakEvenError
			assert.True(t, errors.As(err, &beErr))
		})
	}
}

func TestSolve_Cancelled(t *testing.T) {
	solver := newTestSolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.Solve(ctx, Request{
		Profile:    testProfile(0),
		PlanID:     "lean",
		BasePlanID: "rich",
		Service:    "visit",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolve_DoesNotModifyProfile(t *testing.T) {
	solver := newTestSolver(t)
	profile := testProfile(3)

	_, err := solver.Solve(context.Background(), Request{
		Profile:    profile,
		PlanID:     "lean",
		BasePlanID: "rich",
		Service:    "visit",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, profile.Usage["visit"])
}

func TestSolveAgainst(t *testing.T) {
	solver := newTestSolver(t)

	multi, err := solver.SolveAgainst(context.Background(), testProfile(0), "rich", "visit", 0)
	require.NoError(t, err)

	assert.Equal(t, "rich", multi.BasePlanID)
	require.Len(t, multi.Results, 2)
	assert.Equal(t, "lean", multi.Results[0].PlanID)
	assert.Equal(t, "middle", multi.Results[1].PlanID)
	assert.Equal(t, []string{
		"Lean HDHP stays cheaper than Rich PPO until visit usage reaches 12 (12 more than you expect)",
		"Middle stays cheaper than Rich PPO for visit usage up to 100",
	}, multi.Recommendations)
}

func TestSolveAgainst_DefaultBase(t *testing.T) {
	solver := newTestSolver(t)

	multi, err := solver.SolveAgainst(context.Background(), testProfile(0), "", "visit", 0)
	require.NoError(t, err)
	assert.Equal(t, "rich", multi.BasePlanID)

	_, err = solver.SolveAgainst(context.Background(), testProfile(0), "gold", "visit", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base plan gold is not offered")
}
