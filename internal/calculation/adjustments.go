package calculation

import (
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// AdjustmentResolver applies named premium adjustments in a fixed order
type AdjustmentResolver struct {
	Adjustments map[string]domain.Adjustment
	Logger      Logger
}

// NewAdjustmentResolver creates a resolver over configured adjustments
func NewAdjustmentResolver(adjustments map[string]domain.Adjustment, logger Logger) *AdjustmentResolver {
	if logger == nil {
		logger = NopLogger{}
	}
	for name := range adjustments {
		if !isKnownAdjustment(name) {
			logger.Debugf("ignoring unknown adjustment %q", name)
		}
	}
	return &AdjustmentResolver{Adjustments: adjustments, Logger: logger}
}

// Resolve computes the annual employee and employer premium deltas for a plan.
// Each adjustment's delta is computed independently of the others; the
// fixed order only governs how they are listed.
func (ar *AdjustmentResolver) Resolve(planID string, profile domain.PersonProfile) domain.AdjustmentResult {
	result := domain.AdjustmentResult{
		EmployeeDelta: decimal.Zero,
		EmployerDelta: decimal.Zero,
	}

	for _, name := range domain.AdjustmentOrder {
		adj, ok := ar.Adjustments[name]
		if !ok {
			continue
		}
		if adj.RequiresSpouse && !profile.HasSpouse {
			continue
		}
		answer := profile.Answer(adj.AnswerKey)
		if answer == "" {
			continue
		}
		monthly, ok := adj.MonthlyAmount(answer, planID)
		if !ok || monthly.IsZero() {
			continue
		}

		annual := monthly.Mul(monthsPerYear)
		applied := domain.AdjustmentAmount{Name: name, EmployerDelta: decimal.Zero}
		if adj.Credit {
			applied.EmployeeDelta = annual.Neg()
		} else {
			applied.EmployeeDelta = annual
		}
		if adj.OffsetsEmployerPremium {
			applied.EmployerDelta = applied.EmployeeDelta.Neg()
		}

		ar.Logger.Debugf("adjustment %s on plan %s: employee %s employer %s", name, planID, applied.EmployeeDelta.StringFixed(2), applied.EmployerDelta.StringFixed(2))
		result.EmployeeDelta = result.EmployeeDelta.Add(applied.EmployeeDelta)
		result.EmployerDelta = result.EmployerDelta.Add(applied.EmployerDelta)
		result.Named = append(result.Named, applied)
	}

	return result
}

func isKnownAdjustment(name string) bool {
	for _, known := range domain.AdjustmentOrder {
		if known == name {
			return true
		}
	}
	return false
}
