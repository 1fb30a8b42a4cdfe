package compare

import (
	"fmt"

	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single plan with the metrics used to rank it
type ComparisonResult struct {
	PlanID   string `json:"planId"`
	PlanName string `json:"planName"`

	Expected  *domain.PlanResult `json:"-"`
	WorstCase *domain.PlanResult `json:"-"`

	// Key Metrics
	EmployeeCost          decimal.Decimal `json:"employeeCost"`
	WorstCaseEmployeeCost decimal.Decimal `json:"worstCaseEmployeeCost"`
	TotalCost             decimal.Decimal `json:"totalCost"`
	EmployerCost          decimal.Decimal `json:"employerCost"`
	RolloverAmount        decimal.Decimal `json:"rolloverAmount"`
	ForfeitedAmount       decimal.Decimal `json:"forfeitedAmount"`

	// Comparison to Base
	EmployeeCostDiffFromBase decimal.Decimal `json:"employeeCostDiffFromBase"`
	EmployeeCostPctFromBase  decimal.Decimal `json:"employeeCostPctFromBase"`
	WorstCaseDiffFromBase    decimal.Decimal `json:"worstCaseDiffFromBase"`
	TotalDiffFromBase        decimal.Decimal `json:"totalDiffFromBase"`
	RolloverDiffFromBase     decimal.Decimal `json:"rolloverDiffFromBase"`
}

// Label returns the name used in reports
func (cr ComparisonResult) Label() string {
	if cr.PlanName != "" && cr.PlanName != cr.PlanID {
		return cr.PlanName
	}
	return cr.PlanID
}

// ComparisonSet represents a collection of plan comparisons against a base plan
type ComparisonSet struct {
	BasePlanID         string               `json:"basePlanId"`
	CoverageLevel      domain.CoverageLevel `json:"coverageLevel"`
	BaseResult         *ComparisonResult    `json:"baseResult"`
	AlternativeResults []ComparisonResult   `json:"alternativeResults"`
	CheapestPlanID     string               `json:"cheapestPlanId"`
	Recommendations    []string             `json:"recommendations"`
	ConfigPath         string               `json:"configPath,omitempty"`
}

// All returns the base result followed by the alternatives
func (cs *ComparisonSet) All() []ComparisonResult {
	all := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		all = append(all, *cs.BaseResult)
	}
	return append(all, cs.AlternativeResults...)
}

// MetricsCalculator extracts key metrics from plan results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics for one plan. worstCase
// may be nil when only the expected projection was run.
func (mc *MetricsCalculator) CalculateMetrics(expected domain.PlanResult, worstCase *domain.PlanResult) ComparisonResult {
	result := ComparisonResult{
		PlanID:          expected.PlanID,
		PlanName:        expected.PlanName,
		Expected:        &expected,
		WorstCase:       worstCase,
		EmployeeCost:    expected.EmployeeTotalCosts,
		TotalCost:       expected.TotalCosts,
		EmployerCost:    expected.EmployerOrPlanTotalCosts,
		RolloverAmount:  expected.RolloverAmount,
		ForfeitedAmount: expected.ForfeitedAmount,
	}
	if worstCase != nil {
		result.WorstCaseEmployeeCost = worstCase.EmployeeTotalCosts
	}
	return result
}

// CalculateComparison computes comparison metrics between a plan and the base
func (mc *MetricsCalculator) CalculateComparison(plan, base ComparisonResult) ComparisonResult {
	plan.EmployeeCostDiffFromBase = plan.EmployeeCost.Sub(base.EmployeeCost)

	// Undefined against a zero base
	plan.EmployeeCostPctFromBase = decimal.Zero
	if !base.EmployeeCost.IsZero() {
		plan.EmployeeCostPctFromBase = plan.EmployeeCostDiffFromBase.
			Div(base.EmployeeCost).
			Mul(decimal.NewFromInt(100))
	}

	plan.WorstCaseDiffFromBase = plan.WorstCaseEmployeeCost.Sub(base.WorstCaseEmployeeCost)
	plan.TotalDiffFromBase = plan.TotalCost.Sub(base.TotalCost)
	plan.RolloverDiffFromBase = plan.RolloverAmount.Sub(base.RolloverAmount)

	return plan
}

// Build ranks a projection set against a base plan. An empty baseID uses the
// first expected result.
func Build(set domain.ProjectionSet, baseID string) (*ComparisonSet, error) {
	if len(set.Expected) == 0 {
		return nil, fmt.Errorf("no plan results to compare")
	}
	if baseID == "" {
		baseID = set.Expected[0].PlanID
	}

	mc := NewMetricsCalculator()
	var base *ComparisonResult
	others := make([]ComparisonResult, 0, len(set.Expected))
	for i := range set.Expected {
		result := mc.CalculateMetrics(set.Expected[i], worstCaseFor(set.WorstCase, set.Expected[i].PlanID))
		if result.PlanID == baseID && base == nil {
			base = &result
			continue
		}
		others = append(others, result)
	}
	if base == nil {
		return nil, fmt.Errorf("base plan %s not found in results", baseID)
	}

	for i := range others {
		others[i] = mc.CalculateComparison(others[i], *base)
	}

	compSet := &ComparisonSet{
		BasePlanID:         baseID,
		CoverageLevel:      set.CoverageLevel,
		BaseResult:         base,
		AlternativeResults: others,
	}
	compSet.CheapestPlanID = cheapest(compSet.All(), func(r ComparisonResult) decimal.Decimal { return r.EmployeeCost }).PlanID
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

func worstCaseFor(results []domain.PlanResult, planID string) *domain.PlanResult {
	for i := range results {
		if results[i].PlanID == planID {
			return &results[i]
		}
	}
	return nil
}

// cheapest returns the first result with the lowest metric
func cheapest(results []ComparisonResult, metric func(ComparisonResult) decimal.Decimal) ComparisonResult {
	best := results[0]
	for _, r := range results[1:] {
		if metric(r).LessThan(metric(best)) {
			best = r
		}
	}
	return best
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := *compSet.BaseResult
	all := compSet.All()

	// Lowest expected employee cost
	lowest := cheapest(all, func(r ComparisonResult) decimal.Decimal { return r.EmployeeCost })
	if lowest.PlanID != base.PlanID {
		savings := base.EmployeeCost.Sub(lowest.EmployeeCost)
		recommendations = append(recommendations,
			"Lowest Expected Cost: "+lowest.Label()+" saves "+currency(savings)+
				" per year compared to "+base.Label())
	}

	// Lowest worst case exposure
	if base.WorstCase != nil {
		safest := cheapest(all, func(r ComparisonResult) decimal.Decimal { return r.WorstCaseEmployeeCost })
		if safest.PlanID != base.PlanID {
			savings := base.WorstCaseEmployeeCost.Sub(safest.WorstCaseEmployeeCost)
			recommendations = append(recommendations,
				"Lowest Worst Case: "+safest.Label()+" limits your worst year to "+
					currency(safest.WorstCaseEmployeeCost)+", "+currency(savings)+" less than "+base.Label())
		}
	}

	// Most money carried into next year
	most := base
	for _, alt := range compSet.AlternativeResults {
		if alt.RolloverAmount.GreaterThan(most.RolloverAmount) {
			most = alt
		}
	}
	if most.PlanID != base.PlanID {
		recommendations = append(recommendations,
			"Most Rollover: "+most.Label()+" carries "+currency(most.RolloverAmount)+
				" of unused account funds into next year")
	}

	return recommendations
}

func currency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
