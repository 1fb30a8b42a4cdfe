package calculation

import (
	"fmt"

	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal Tax Brackets: one ordered schedule per filing status
//    - Rates has one more entry than Brackets; the last rate taxes income
//      above the last bound
//    - Taxable income = gross - standard deduction - exemption * (1 + dependents)
//
// 2. FICA: Social Security capped at the wage base, Medicare uncapped
//    - The additional Medicare surtax is not modeled
//
// 3. No state or local income tax

// FederalTaxCalculator resolves filing-status tables and computes progressive tax
type FederalTaxCalculator struct {
	Tables map[domain.FilingStatus]domain.FederalIncomeTaxTable
}

// NewFederalTaxCalculator creates a calculator from configured tables, falling
// back to the built-in tables when none are supplied
func NewFederalTaxCalculator(tables map[domain.FilingStatus]domain.FederalIncomeTaxTable) *FederalTaxCalculator {
	if len(tables) == 0 {
		tables = domain.DefaultFederalIncomeTax()
	}
	return &FederalTaxCalculator{Tables: tables}
}

// ValidateTaxTable checks the bracket/rate shape invariants
func ValidateTaxTable(t domain.FederalIncomeTaxTable) error {
	if len(t.Rates) == 0 {
		return fmt.Errorf("rates are required")
	}
	if len(t.Rates) != len(t.Brackets)+1 {
		return fmt.Errorf("expected %d rates for %d brackets, got %d", len(t.Brackets)+1, len(t.Brackets), len(t.Rates))
	}
	prev := decimal.Zero
	for i, b := range t.Brackets {
		if b.LessThanOrEqual(prev) {
			return fmt.Errorf("bracket %d (%s) must be greater than %s", i, b.String(), prev.String())
		}
		prev = b
	}
	for i, r := range t.Rates {
		if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("rate %d (%s) must be between 0 and 1", i, r.String())
		}
	}
	if t.StandardDeduction.IsNegative() {
		return fmt.Errorf("standard deduction cannot be negative")
	}
	if t.PersonalExemption.IsNegative() {
		return fmt.Errorf("personal exemption cannot be negative")
	}
	return nil
}

// Table returns the schedule for a filing status
func (ftc *FederalTaxCalculator) Table(status domain.FilingStatus) (domain.FederalIncomeTaxTable, error) {
	t, ok := ftc.Tables[status]
	if !ok {
		return domain.FederalIncomeTaxTable{}, fmt.Errorf("no federal income tax table for filing status %q", status)
	}
	return t, nil
}

// TaxableIncome applies the standard deduction and personal exemptions
func (ftc *FederalTaxCalculator) TaxableIncome(status domain.FilingStatus, grossIncome decimal.Decimal, dependents int) (decimal.Decimal, error) {
	t, err := ftc.Table(status)
	if err != nil {
		return decimal.Zero, err
	}
	return taxableIncome(t, grossIncome, dependents), nil
}

func taxableIncome(t domain.FederalIncomeTaxTable, grossIncome decimal.Decimal, dependents int) decimal.Decimal {
	if dependents < 0 {
		dependents = 0
	}
	exemptions := t.PersonalExemption.Mul(decimal.NewFromInt(int64(1 + dependents)))
	taxable := grossIncome.Sub(t.StandardDeduction).Sub(exemptions)
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable
}

// MarginalTax computes progressive tax on already-taxable income
func (ftc *FederalTaxCalculator) MarginalTax(status domain.FilingStatus, taxable decimal.Decimal) (decimal.Decimal, error) {
	t, err := ftc.Table(status)
	if err != nil {
		return decimal.Zero, err
	}
	return progressiveTax(t, taxable), nil
}

// IncomeTax computes federal income tax on gross income
func (ftc *FederalTaxCalculator) IncomeTax(status domain.FilingStatus, grossIncome decimal.Decimal, dependents int) (decimal.Decimal, error) {
	t, err := ftc.Table(status)
	if err != nil {
		return decimal.Zero, err
	}
	return progressiveTax(t, taxableIncome(t, grossIncome, dependents)), nil
}

// MarginalRate returns the rate applied to the next dollar of taxable income
func (ftc *FederalTaxCalculator) MarginalRate(status domain.FilingStatus, taxable decimal.Decimal) (decimal.Decimal, error) {
	t, err := ftc.Table(status)
	if err != nil {
		return decimal.Zero, err
	}
	for i, upper := range t.Brackets {
		if taxable.LessThan(upper) {
			return t.Rates[i], nil
		}
	}
	return t.Rates[len(t.Rates)-1], nil
}

func progressiveTax(t domain.FederalIncomeTaxTable, taxable decimal.Decimal) decimal.Decimal {
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	tax := decimal.Zero
	lower := decimal.Zero
	for i, upper := range t.Brackets {
		if taxable.LessThanOrEqual(lower) {
			return tax
		}
		incomeInBracket := decimal.Min(taxable, upper).Sub(lower)
		tax = tax.Add(incomeInBracket.Mul(t.Rates[i]))
		lower = upper
	}

	// Overflow rate above the last bound
	if taxable.GreaterThan(lower) {
		tax = tax.Add(taxable.Sub(lower).Mul(t.Rates[len(t.Brackets)]))
	}
	return tax
}

// FICACalculator handles FICA tax calculations
type FICACalculator struct {
	Table domain.FicaTable
}

// NewFICACalculator creates a new FICA calculator with configurable values
func NewFICACalculator(table domain.FicaTable) *FICACalculator {
	return &FICACalculator{Table: table}
}

// Calculate computes Social Security (capped) and Medicare (uncapped) tax
func (fc *FICACalculator) Calculate(grossIncome decimal.Decimal) domain.FicaTax {
	if grossIncome.LessThanOrEqual(decimal.Zero) {
		return domain.FicaTax{SocialSecurity: decimal.Zero, Medicare: decimal.Zero}
	}
	ssWages := decimal.Min(grossIncome, fc.Table.SocialSecurityLimit)
	return domain.FicaTax{
		SocialSecurity: ssWages.Mul(fc.Table.SocialSecurityRate),
		Medicare:       grossIncome.Mul(fc.Table.MedicareRate),
	}
}
