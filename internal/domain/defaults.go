package domain

import (
	"github.com/shopspring/decimal"
)

var defaultRates = []float64{0.10, 0.12, 0.22, 0.24, 0.32, 0.35, 0.37}

func taxTable(stdDed int64, bounds ...int64) FederalIncomeTaxTable {
	t := FederalIncomeTaxTable{StandardDeduction: decimal.NewFromInt(stdDed)}
	for _, b := range bounds {
		t.Brackets = append(t.Brackets, decimal.NewFromInt(b))
	}
	for _, r := range defaultRates {
		t.Rates = append(t.Rates, decimal.NewFromFloat(r))
	}
	return t
}

// DefaultFederalIncomeTax returns the 2023 federal brackets and standard
// deductions. Personal exemptions are zero under current law.
func DefaultFederalIncomeTax() map[FilingStatus]FederalIncomeTaxTable {
	joint := taxTable(27700, 22000, 89450, 190750, 364200, 462500, 693750)
	return map[FilingStatus]FederalIncomeTaxTable{
		Single:                    taxTable(13850, 11000, 44725, 95375, 182100, 231250, 578125),
		MarriedFilingJointly:      joint,
		QualifyingSurvivingSpouse: joint,
		MarriedFilingSeparately:   taxTable(13850, 11000, 44725, 95375, 182100, 231250, 346875),
		HeadOfHousehold:           taxTable(20800, 15700, 59850, 95350, 182100, 231250, 578100),
	}
}

// DefaultFicaTable returns 2023 payroll tax parameters
func DefaultFicaTable() FicaTable {
	return FicaTable{
		SocialSecurityLimit: decimal.NewFromInt(160200),
		SocialSecurityRate:  decimal.NewFromFloat(0.062),
		MedicareRate:        decimal.NewFromFloat(0.0145),
	}
}
