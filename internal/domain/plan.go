package domain

import (
	"github.com/shopspring/decimal"
)

// FundApplicationOption decides which account funds offset cost of care
type FundApplicationOption string

const (
	ApplyAllFunds    FundApplicationOption = "applyAllFunds"
	ApplyERFundsOnly FundApplicationOption = "applyERFundsOnly"
	ApplyEEFundsOnly FundApplicationOption = "applyEEFundsOnly"
	ApplyNoFunds     FundApplicationOption = "applyNoFunds"
)

// DefaultFundOption is used when a profile does not pick an option
const DefaultFundOption = ApplyAllFunds

// Valid reports whether the option is recognized
func (o FundApplicationOption) Valid() bool {
	switch o {
	case ApplyAllFunds, ApplyERFundsOnly, ApplyEEFundsOnly, ApplyNoFunds:
		return true
	}
	return false
}

// AppliesEmployerFunds reports whether match and plan fund offset cost
func (o FundApplicationOption) AppliesEmployerFunds() bool {
	return o == ApplyAllFunds || o == ApplyERFundsOnly
}

// AppliesEmployeeFunds reports whether the employee's contribution offsets cost
func (o FundApplicationOption) AppliesEmployeeFunds() bool {
	return o == ApplyAllFunds || o == ApplyEEFundsOnly
}

// Service is a billable unit of care used to turn usage counts into dollars
type Service struct {
	Name     string          `yaml:"name" json:"name"`
	UnitCost decimal.Decimal `yaml:"unit_cost" json:"unit_cost"`
	// Dental and vision services a limited-purpose FSA may reimburse.
	LimitedPurposeEligible bool `yaml:"limited_purpose_eligible" json:"limited_purpose_eligible"`
}

// Provision is a plan's cost-sharing rule for one service
type Provision struct {
	Copay                *decimal.Decimal `yaml:"copay" json:"copay,omitempty"`
	Coinsurance          *decimal.Decimal `yaml:"coinsurance" json:"coinsurance,omitempty"`
	CopayAfterDeductible bool             `yaml:"copay_after_deductible" json:"copay_after_deductible"`
	// Covered in full, no deductible.
	NoCharge bool `yaml:"no_charge" json:"no_charge"`
}

// Plan is one medical plan option with its pricing and provisions
type Plan struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	AccountType string   `yaml:"account_type" json:"account_type,omitempty"`
	Regions     []string `yaml:"regions" json:"regions,omitempty"`
	Statuses    []string `yaml:"statuses" json:"statuses,omitempty"`

	EmployeePremium  *decimal.Decimal                  `yaml:"employee_premium" json:"employee_premium,omitempty"`
	EmployeePremiums map[CoverageLevel]decimal.Decimal `yaml:"employee_premiums" json:"employee_premiums,omitempty"`
	EmployerPremium  *decimal.Decimal                  `yaml:"employer_premium" json:"employer_premium,omitempty"`
	EmployerPremiums map[CoverageLevel]decimal.Decimal `yaml:"employer_premiums" json:"employer_premiums,omitempty"`

	PlanFundAmount    *decimal.Decimal                  `yaml:"plan_fund_amount" json:"plan_fund_amount,omitempty"`
	PlanFundAmounts   map[CoverageLevel]decimal.Decimal `yaml:"plan_fund_amounts" json:"plan_fund_amounts,omitempty"`
	EmployerMatchRate *decimal.Decimal                  `yaml:"employer_match_rate" json:"employer_match_rate,omitempty"`

	Deductible          *decimal.Decimal                  `yaml:"deductible" json:"deductible,omitempty"`
	Deductibles         map[CoverageLevel]decimal.Decimal `yaml:"deductibles" json:"deductibles,omitempty"`
	OutOfPocketMaximum  *decimal.Decimal                  `yaml:"out_of_pocket_maximum" json:"out_of_pocket_maximum,omitempty"`
	OutOfPocketMaximums map[CoverageLevel]decimal.Decimal `yaml:"out_of_pocket_maximums" json:"out_of_pocket_maximums,omitempty"`
	Coinsurance         decimal.Decimal                   `yaml:"coinsurance" json:"coinsurance"`
	Provisions          map[string]Provision              `yaml:"provisions" json:"provisions,omitempty"`
}

// MonthlyEmployeePremium resolves the employee's monthly premium
func (p Plan) MonthlyEmployeePremium(level CoverageLevel) decimal.Decimal {
	return ResolveCoverageValue(p.EmployeePremium, p.EmployeePremiums, level)
}

// MonthlyEmployerPremium resolves the employer's monthly premium
func (p Plan) MonthlyEmployerPremium(level CoverageLevel) decimal.Decimal {
	return ResolveCoverageValue(p.EmployerPremium, p.EmployerPremiums, level)
}

// PlanFund resolves the annual non-elective employer account contribution
func (p Plan) PlanFund(level CoverageLevel) decimal.Decimal {
	return ResolveCoverageValue(p.PlanFundAmount, p.PlanFundAmounts, level)
}

// DeductibleFor resolves the annual deductible
func (p Plan) DeductibleFor(level CoverageLevel) decimal.Decimal {
	return ResolveCoverageValue(p.Deductible, p.Deductibles, level)
}

// OutOfPocketMaximumFor resolves the annual out-of-pocket maximum
func (p Plan) OutOfPocketMaximumFor(level CoverageLevel) decimal.Decimal {
	return ResolveCoverageValue(p.OutOfPocketMaximum, p.OutOfPocketMaximums, level)
}

// EligibleFor reports whether the plan is offered in the region and status.
// Empty filters match everything.
func (p Plan) EligibleFor(region, status string) bool {
	return matchesFilter(p.Regions, region) && matchesFilter(p.Statuses, status)
}

func matchesFilter(allowed []string, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
