package domain

import (
	"github.com/shopspring/decimal"
)

// Adjustment names recognized by the engine, in application order
const (
	WellnessPremiumIncentives = "wellnessPremiumIncentives"
	TobaccoSurcharge          = "tobaccoSurcharge"
	SpouseSurcharge           = "spouseSurcharge"
)

// AdjustmentOrder is the fixed order adjustments are applied in
var AdjustmentOrder = []string{
	WellnessPremiumIncentives,
	TobaccoSurcharge,
	SpouseSurcharge,
}

// Adjustment is a configuration-driven premium rule. Amounts are monthly and
// keyed first by the answer the person gave, then by plan ID.
type Adjustment struct {
	AnswerKey string                                `yaml:"answer_key" json:"answer_key"`
	Amounts   map[string]map[string]decimal.Decimal `yaml:"amounts" json:"amounts"`
	// Credit reduces the employee premium; otherwise the amount is a surcharge.
	Credit bool `yaml:"credit" json:"credit"`
	// OffsetsEmployerPremium moves the same amount to the employer side so the
	// total premium is unchanged.
	OffsetsEmployerPremium bool `yaml:"offsets_employer_premium" json:"offsets_employer_premium"`
	RequiresSpouse         bool `yaml:"requires_spouse" json:"requires_spouse"`
}

// MonthlyAmount looks up the configured amount for an answer and plan
func (a Adjustment) MonthlyAmount(answer, planID string) (decimal.Decimal, bool) {
	byPlan, ok := a.Amounts[answer]
	if !ok {
		return decimal.Zero, false
	}
	amt, ok := byPlan[planID]
	return amt, ok
}

// DefaultAdjustment returns the documented behavior for a known adjustment
// name. Configuration fields override it.
func DefaultAdjustment(name string) Adjustment {
	switch name {
	case WellnessPremiumIncentives:
		return Adjustment{AnswerKey: "wellness", Credit: true, OffsetsEmployerPremium: true}
	case TobaccoSurcharge:
		return Adjustment{AnswerKey: "tobacco"}
	case SpouseSurcharge:
		return Adjustment{AnswerKey: "spouseSurcharge", RequiresSpouse: true}
	}
	return Adjustment{}
}

// AdjustmentAmount is one applied adjustment, annualized
type AdjustmentAmount struct {
	Name          string          `json:"name"`
	EmployeeDelta decimal.Decimal `json:"employeeDelta"`
	EmployerDelta decimal.Decimal `json:"employerDelta"`
}

// AdjustmentResult is the combined effect of all adjustments on one plan
type AdjustmentResult struct {
	EmployeeDelta decimal.Decimal    `json:"employeeDelta"`
	EmployerDelta decimal.Decimal    `json:"employerDelta"`
	Named         []AdjustmentAmount `json:"named"`
}

// Amount returns the named adjustment if it was applied
func (ar AdjustmentResult) Amount(name string) (AdjustmentAmount, bool) {
	for _, n := range ar.Named {
		if n.Name == name {
			return n, true
		}
	}
	return AdjustmentAmount{}, false
}
