package calculation

import (
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxSavingsEstimator estimates the tax reduction from a pre-tax HSA/FSA
// contribution
type TaxSavingsEstimator struct {
	Federal *FederalTaxCalculator
	FICA    *FICACalculator
}

// NewTaxSavingsEstimator creates an estimator over the given calculators
func NewTaxSavingsEstimator(federal *FederalTaxCalculator, fica *FICACalculator) *TaxSavingsEstimator {
	return &TaxSavingsEstimator{Federal: federal, FICA: fica}
}

// HouseholdIncome returns the income the federal calculation is based on.
// Spouse income only counts for joint statuses when it has been enabled.
func HouseholdIncome(in domain.TaxSavingsInput) decimal.Decimal {
	income := nonNegative(in.PrimaryIncome)
	if in.FilingStatus.IsJoint() && in.SpouseIncomeEnabled {
		income = income.Add(nonNegative(in.SpouseIncome))
	}
	return income
}

// Estimate computes federal income tax and FICA savings. The contribution is
// clamped to [0, income]; Clamped is set when that changed the request.
func (tse *TaxSavingsEstimator) Estimate(in domain.TaxSavingsInput) (domain.TaxSavings, error) {
	income := HouseholdIncome(in)
	contribution := in.Contribution
	clamped := false
	if contribution.IsNegative() {
		contribution = decimal.Zero
		clamped = true
	}
	if contribution.GreaterThan(income) {
		contribution = income
		clamped = true
	}

	before, err := tse.Federal.IncomeTax(in.FilingStatus, income, in.Dependents)
	if err != nil {
		return domain.TaxSavings{}, err
	}
	after, err := tse.Federal.IncomeTax(in.FilingStatus, income.Sub(contribution), in.Dependents)
	if err != nil {
		return domain.TaxSavings{}, err
	}
	taxable, err := tse.Federal.TaxableIncome(in.FilingStatus, income, in.Dependents)
	if err != nil {
		return domain.TaxSavings{}, err
	}
	rate, err := tse.Federal.MarginalRate(in.FilingStatus, taxable)
	if err != nil {
		return domain.TaxSavings{}, err
	}

	// Payroll tax is withheld from the contributing employee's own wages
	wages := nonNegative(in.PrimaryIncome)
	ficaContribution := decimal.Min(contribution, wages)
	ficaBefore := tse.FICA.Calculate(wages)
	ficaAfter := tse.FICA.Calculate(wages.Sub(ficaContribution))

	savings := domain.TaxSavings{
		FilingStatus:          in.FilingStatus,
		Income:                income,
		Contribution:          contribution,
		RequestedContribution: in.Contribution,
		Clamped:               clamped,
		FederalIncomeTax:      nonNegative(before.Sub(after)),
		SocialSecurity:        nonNegative(ficaBefore.SocialSecurity.Sub(ficaAfter.SocialSecurity)),
		Medicare:              nonNegative(ficaBefore.Medicare.Sub(ficaAfter.Medicare)),
		MarginalRate:          rate,
	}
	savings.Total = savings.FederalIncomeTax.Add(savings.FICA())
	return savings, nil
}
