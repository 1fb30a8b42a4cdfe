package domain

import (
	"github.com/shopspring/decimal"
)

// PersonProfile is the resolved answer set for one person. Display logic
// has already been evaluated; everything here is a plain value.
type PersonProfile struct {
	CoverageLevel CoverageLevel `yaml:"coverage_level" json:"coverageLevel"`
	Region        string        `yaml:"region" json:"region"`
	Status        string        `yaml:"status" json:"status"`
	HasSpouse     bool          `yaml:"has_spouse" json:"hasSpouse"`
	Children      int           `yaml:"children" json:"children"`

	// CustomAnswers holds wellness, tobacco and spouse surcharge selections
	CustomAnswers map[string]string `yaml:"custom_answers" json:"customAnswers"`

	// Contributions is the desired annual contribution keyed by account type ID
	Contributions   map[string]decimal.Decimal `yaml:"contributions" json:"contributions"`
	Age55OrOlder    bool                       `yaml:"age_55_or_older" json:"age55OrOlder"`
	FundApplication FundApplicationOption      `yaml:"fund_application" json:"fundApplication"`

	UsageLevel string         `yaml:"usage_level" json:"usageLevel"`
	Usage      map[string]int `yaml:"usage" json:"usage"`

	Tax TaxSavingsInput `yaml:"tax" json:"tax"`
}

// Answer returns a custom answer, or "" when unanswered
func (p PersonProfile) Answer(key string) string {
	if p.CustomAnswers == nil {
		return ""
	}
	return p.CustomAnswers[key]
}

// DesiredContribution returns the requested amount for an account type
func (p PersonProfile) DesiredContribution(accountTypeID string) decimal.Decimal {
	if p.Contributions == nil {
		return decimal.Zero
	}
	return p.Contributions[accountTypeID]
}

// FundOption returns the fund application option, defaulting unknown values
func (p PersonProfile) FundOption() FundApplicationOption {
	if p.FundApplication.Valid() {
		return p.FundApplication
	}
	return DefaultFundOption
}

// InferCoverageLevel derives a coverage level from spouse and children answers
func InferCoverageLevel(hasSpouse bool, children int) CoverageLevel {
	switch {
	case hasSpouse && children > 0:
		return EmployeeAndFamily
	case hasSpouse:
		return EmployeeAndSpouse
	case children > 0:
		return EmployeeAndChildren
	default:
		return EmployeeOnly
	}
}

// EffectiveCoverageLevel returns the configured level, inferring it from the
// household when unset.
func (p PersonProfile) EffectiveCoverageLevel() CoverageLevel {
	if p.CoverageLevel != "" {
		return p.CoverageLevel
	}
	return InferCoverageLevel(p.HasSpouse, p.Children)
}
