package calculation

import (
	"testing"

	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), append([]any{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

func TestMarginalTax(t *testing.T) {
	ftc := NewFederalTaxCalculator(nil)

	tests := []struct {
		name     string
		status   domain.FilingStatus
		taxable  string
		expected string
	}{
		{"zero income", domain.Single, "0", "0"},
		{"negative income", domain.Single, "-500", "0"},
		{"first bracket", domain.Single, "10000", "1000"},
		{"first bracket bound", domain.Single, "11000", "1100"},
		// 1,100 + (44,725-11,000)*0.12 + (50,000-44,725)*0.22
		{"single 50k", domain.Single, "50000", "6307.5"},
		{"joint 50k", domain.MarriedFilingJointly, "50000", "5560"},
		// every bracket filled plus 21,875 at 37%
		{"single overflow", domain.Single, "600000", "182332"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, err := ftc.MarginalTax(tt.status, dec(tt.taxable))
			require.NoError(t, err)
			assertDecimal(t, tt.expected, tax)
		})
	}
}

func TestIncomeTaxAppliesDeductions(t *testing.T) {
	ftc := NewFederalTaxCalculator(nil)

	// 63,850 - 13,850 standard deduction = 50,000 taxable
	tax, err := ftc.IncomeTax(domain.Single, dec("63850"), 0)
	require.NoError(t, err)
	assertDecimal(t, "6307.5", tax)

	// Below the deduction nothing is owed
	tax, err = ftc.IncomeTax(domain.Single, dec("10000"), 2)
	require.NoError(t, err)
	assert.True(t, tax.IsZero())
}

func TestTaxableIncomeExemptions(t *testing.T) {
	ftc := NewFederalTaxCalculator(map[domain.FilingStatus]domain.FederalIncomeTaxTable{
		domain.Single: {
			Brackets:          []decimal.Decimal{dec("10000")},
			Rates:             []decimal.Decimal{dec("0.1"), dec("0.2")},
			StandardDeduction: dec("5000"),
			PersonalExemption: dec("1000"),
		},
	})

	taxable, err := ftc.TaxableIncome(domain.Single, dec("20000"), 2)
	require.NoError(t, err)
	// 20,000 - 5,000 - 1,000 * 3
	assertDecimal(t, "12000", taxable)

	taxable, err = ftc.TaxableIncome(domain.Single, dec("20000"), -4)
	require.NoError(t, err)
	assertDecimal(t, "14000", taxable)
}

func TestMarginalTaxMonotonic(t *testing.T) {
	ftc := NewFederalTaxCalculator(nil)
	statuses := []domain.FilingStatus{domain.Single, domain.MarriedFilingJointly, domain.MarriedFilingSeparately, domain.HeadOfHousehold}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			prev := decimal.Zero
			for income := int64(0); income <= 800000; income += 2500 {
				tax, err := ftc.MarginalTax(status, decimal.NewFromInt(income))
				require.NoError(t, err)
				assert.True(t, tax.GreaterThanOrEqual(prev), "tax decreased at %d", income)
				if income > 0 {
					assert.True(t, tax.GreaterThan(prev), "tax flat at %d", income)
				}
				prev = tax
			}
		})
	}
}

func TestMarginalTaxContinuousAtBounds(t *testing.T) {
	ftc := NewFederalTaxCalculator(nil)
	epsilon := dec("0.01")

	for status, table := range domain.DefaultFederalIncomeTax() {
		for i, bound := range table.Brackets {
			below, err := ftc.MarginalTax(status, bound.Sub(epsilon))
			require.NoError(t, err)
			at, err := ftc.MarginalTax(status, bound)
			require.NoError(t, err)
			assert.True(t, at.Sub(below).Equal(table.Rates[i].Mul(epsilon)),
				"%s bracket %d: jump of %s at %s", status, i, at.Sub(below).String(), bound.String())
		}
	}
}

func TestMarginalRate(t *testing.T) {
	ftc := NewFederalTaxCalculator(nil)

	rate, err := ftc.MarginalRate(domain.Single, dec("50000"))
	require.NoError(t, err)
	assertDecimal(t, "0.22", rate)

	rate, err = ftc.MarginalRate(domain.Single, dec("1000000"))
	require.NoError(t, err)
	assertDecimal(t, "0.37", rate)
}

func TestUnknownFilingStatus(t *testing.T) {
	ftc := NewFederalTaxCalculator(nil)
	_, err := ftc.IncomeTax("widowed", dec("50000"), 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "widowed")
}

func TestValidateTaxTable(t *testing.T) {
	valid := domain.DefaultFederalIncomeTax()[domain.Single]

	tests := []struct {
		name    string
		mutate  func(t *domain.FederalIncomeTaxTable)
		wantErr string
	}{
		{"valid", func(t *domain.FederalIncomeTaxTable) {}, ""},
		{"missing rates", func(t *domain.FederalIncomeTaxTable) { t.Rates = nil }, "rates are required"},
		{"length mismatch", func(t *domain.FederalIncomeTaxTable) { t.Rates = t.Rates[:len(t.Rates)-1] }, "expected 7 rates"},
		{"descending brackets", func(t *domain.FederalIncomeTaxTable) {
			t.Brackets = []decimal.Decimal{dec("20000"), dec("10000")}
			t.Rates = []decimal.Decimal{dec("0.1"), dec("0.2"), dec("0.3")}
		}, "must be greater than"},
		{"rate above one", func(t *domain.FederalIncomeTaxTable) {
			t.Rates = append([]decimal.Decimal{dec("1.5")}, t.Rates[1:]...)
		}, "between 0 and 1"},
		{"negative deduction", func(t *domain.FederalIncomeTaxTable) { t.StandardDeduction = dec("-1") }, "standard deduction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := domain.FederalIncomeTaxTable{
				Brackets:          append([]decimal.Decimal(nil), valid.Brackets...),
				Rates:             append([]decimal.Decimal(nil), valid.Rates...),
				StandardDeduction: valid.StandardDeduction,
			}
			tt.mutate(&table)
			err := ValidateTaxTable(table)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFICACalculate(t *testing.T) {
	fc := NewFICACalculator(domain.DefaultFicaTable())

	tests := []struct {
		name           string
		gross          string
		socialSecurity string
		medicare       string
	}{
		{"above wage base", "200000", "9932.4", "2900"},
		{"below wage base", "50000", "3100", "725"},
		{"at wage base", "160200", "9932.4", "2322.9"},
		{"zero", "0", "0", "0"},
		{"negative", "-100", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fica := fc.Calculate(dec(tt.gross))
			assertDecimal(t, tt.socialSecurity, fica.SocialSecurity)
			assertDecimal(t, tt.medicare, fica.Medicare)
			assertDecimal(t, dec(tt.socialSecurity).Add(dec(tt.medicare)).String(), fica.Total())
		})
	}
}
