package domain

import (
	"github.com/shopspring/decimal"
)

// FilingStatus is a federal income tax filing status
type FilingStatus string

const (
	Single                    FilingStatus = "single"
	MarriedFilingJointly      FilingStatus = "marriedFilingJointly"
	MarriedFilingSeparately   FilingStatus = "marriedFilingSeparately"
	HeadOfHousehold           FilingStatus = "headOfHousehold"
	QualifyingSurvivingSpouse FilingStatus = "qualifyingSurvivingSpouse"
)

// IsJoint reports whether the status combines both spouses' income
func (fs FilingStatus) IsJoint() bool {
	return fs == MarriedFilingJointly || fs == QualifyingSurvivingSpouse
}

// FederalIncomeTaxTable is the bracket schedule for one filing status.
// Rates has one more entry than Brackets; the last rate applies above the
// last bracket bound.
type FederalIncomeTaxTable struct {
	Brackets          []decimal.Decimal `yaml:"brackets" json:"brackets"`
	Rates             []decimal.Decimal `yaml:"rates" json:"rates"`
	StandardDeduction decimal.Decimal   `yaml:"standard_deduction" json:"standard_deduction"`
	PersonalExemption decimal.Decimal   `yaml:"personal_exemption" json:"personal_exemption"`
}

// FicaTable holds payroll tax parameters
type FicaTable struct {
	SocialSecurityLimit decimal.Decimal `yaml:"social_security_limit" json:"social_security_limit"`
	SocialSecurityRate  decimal.Decimal `yaml:"social_security_rate" json:"social_security_rate"`
	MedicareRate        decimal.Decimal `yaml:"medicare_rate" json:"medicare_rate"`
}

// FicaTax splits payroll tax into its two components
type FicaTax struct {
	SocialSecurity decimal.Decimal `json:"socialSecurity"`
	Medicare       decimal.Decimal `json:"medicare"`
}

// Total returns Social Security plus Medicare
func (f FicaTax) Total() decimal.Decimal {
	return f.SocialSecurity.Add(f.Medicare)
}

// TaxSavingsInput is the tax calculator view's input set
type TaxSavingsInput struct {
	FilingStatus        FilingStatus    `yaml:"filing_status" json:"filingStatus"`
	PrimaryIncome       decimal.Decimal `yaml:"primary_income" json:"primaryIncome"`
	SpouseIncome        decimal.Decimal `yaml:"spouse_income" json:"spouseIncome"`
	SpouseIncomeEnabled bool            `yaml:"spouse_income_enabled" json:"spouseIncomeEnabled"`
	Dependents          int             `yaml:"dependents" json:"dependents"`
	Contribution        decimal.Decimal `yaml:"contribution" json:"contribution"`
	// ExpenseEstimate is the expected eligible spending the contribution
	// is sized against. Informational only.
	ExpenseEstimate decimal.Decimal `yaml:"expense_estimate" json:"expenseEstimate"`
}

// TaxSavings is the estimated annual tax reduction from a pre-tax contribution
type TaxSavings struct {
	FilingStatus          FilingStatus    `json:"filingStatus"`
	Income                decimal.Decimal `json:"income"`
	Contribution          decimal.Decimal `json:"contribution"`
	RequestedContribution decimal.Decimal `json:"requestedContribution"`
	Clamped               bool            `json:"clamped"`
	FederalIncomeTax      decimal.Decimal `json:"federalIncomeTax"`
	SocialSecurity        decimal.Decimal `json:"socialSecurity"`
	Medicare              decimal.Decimal `json:"medicare"`
	Total                 decimal.Decimal `json:"total"`
	// MarginalRate is the federal rate on the last dollar before the contribution
	MarginalRate decimal.Decimal `json:"marginalRate"`
}

// FICA returns the combined payroll tax savings
func (ts TaxSavings) FICA() decimal.Decimal {
	return ts.SocialSecurity.Add(ts.Medicare)
}
