package domain

import (
	"github.com/shopspring/decimal"
)

// AccountRuleSet names the statutory rule family a savings account follows
type AccountRuleSet string

const (
	RulesHSA   AccountRuleSet = "HSA"
	RulesFSA   AccountRuleSet = "FSA"
	RulesLPFSA AccountRuleSet = "LPFSA"
)

// Valid reports whether the rule set is one the engine knows how to apply
func (r AccountRuleSet) Valid() bool {
	switch r {
	case RulesHSA, RulesFSA, RulesLPFSA:
		return true
	}
	return false
}

// IsFlexibleSpending reports whether FSA-style rollover limits apply
func (r AccountRuleSet) IsFlexibleSpending() bool {
	return r == RulesFSA || r == RulesLPFSA
}

// AccountType describes a tax-advantaged savings account offered alongside plans
type AccountType struct {
	ID                          string                            `yaml:"id" json:"id"`
	Name                        string                            `yaml:"name" json:"name"`
	FollowRulesFor              AccountRuleSet                    `yaml:"follow_rules_for" json:"follow_rules_for"`
	ContributionMinimum         decimal.Decimal                   `yaml:"contribution_minimum" json:"contribution_minimum"`
	ContributionMaximum         *decimal.Decimal                  `yaml:"contribution_maximum" json:"contribution_maximum,omitempty"`
	ContributionMaximums        map[CoverageLevel]decimal.Decimal `yaml:"contribution_maximums" json:"contribution_maximums,omitempty"`
	MaximumExcludesCompanyFunds bool                              `yaml:"maximum_excludes_company_funds" json:"maximum_excludes_company_funds"`
	EmployerMatchRate           decimal.Decimal                   `yaml:"employer_match_rate" json:"employer_match_rate"`
	EmployerMaxMatchAmount      *decimal.Decimal                  `yaml:"employer_max_match_amount" json:"employer_max_match_amount,omitempty"`
	EmployerMaxMatchAmounts     map[CoverageLevel]decimal.Decimal `yaml:"employer_max_match_amounts" json:"employer_max_match_amounts,omitempty"`
	CompanyFundsDoNotRollOver   bool                              `yaml:"company_funds_do_not_roll_over" json:"company_funds_do_not_roll_over"`
}

// Maximum returns the contribution maximum precedence pair
func (a AccountType) Maximum() CoverageValue {
	return CoverageValue{Flat: a.ContributionMaximum, PerLevel: a.ContributionMaximums}
}

// MaxMatch returns the employer max-match precedence pair
func (a AccountType) MaxMatch() CoverageValue {
	return CoverageValue{Flat: a.EmployerMaxMatchAmount, PerLevel: a.EmployerMaxMatchAmounts}
}

// AccountRules holds statutory constants shared by every account type
type AccountRules struct {
	HSACatchUpContribution decimal.Decimal `yaml:"hsa_catch_up_contribution" json:"hsa_catch_up_contribution"`
	// Zero means FSA balances never roll over.
	FSAMaximumPermittedRollover                       decimal.Decimal `yaml:"fsa_maximum_permitted_rollover" json:"fsa_maximum_permitted_rollover"`
	FSAMaximumPermittedRolloverExcludesPlanFundAmount bool            `yaml:"fsa_maximum_permitted_rollover_excludes_plan_fund_amount" json:"fsa_maximum_permitted_rollover_excludes_plan_fund_amount"`
}

// DefaultAccountRules returns 2023 statutory values
func DefaultAccountRules() AccountRules {
	return AccountRules{
		HSACatchUpContribution:      decimal.NewFromInt(1000),
		FSAMaximumPermittedRollover: decimal.NewFromInt(610),
	}
}

// Allocation is the savings account funding outcome for one plan
type Allocation struct {
	AccountTypeID          string          `json:"accountTypeId"`
	RuleSet                AccountRuleSet  `json:"ruleSet"`
	EmployeeContribution   decimal.Decimal `json:"employeeContribution"`
	EmployerMatch          decimal.Decimal `json:"employerMatch"`
	PlanFund               decimal.Decimal `json:"planFund"`
	EffectiveMaximum       decimal.Decimal `json:"effectiveMaximum"`
	RolloverEligibleAmount decimal.Decimal `json:"rolloverEligibleAmount"`
	// Unlimited is set for HSA-type accounts where RolloverEligibleAmount
	// equals the full balance.
	Unlimited            bool `json:"unlimited"`
	CompanyFundsRollOver bool `json:"companyFundsRollOver"`
	// PlanFundOutsideCap marks plan fund money held outside the FSA rollover cap.
	PlanFundOutsideCap bool `json:"planFundOutsideCap"`
}

// EmployeeFunds returns the employee's own contribution
func (a Allocation) EmployeeFunds() decimal.Decimal {
	return a.EmployeeContribution
}

// EmployerFunds returns match plus plan fund
func (a Allocation) EmployerFunds() decimal.Decimal {
	return a.EmployerMatch.Add(a.PlanFund)
}

// TotalFunds returns all money deposited to the account for the year
func (a Allocation) TotalFunds() decimal.Decimal {
	return a.EmployeeFunds().Add(a.EmployerFunds())
}
