package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rgehrsitz/benefitcost/internal/calculation"
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of benefits configuration and profile files
type InputParser struct {
	// Warnings collects non-fatal findings from the last load
	Warnings []string
	// Registry validates hook selections; nil means built-ins only
	Registry *calculation.HookRegistry
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// adjustmentsDocument pulls the adjustments section out as raw nodes so each
// one can be decoded over its documented defaults
type adjustmentsDocument struct {
	Adjustments map[string]yaml.Node `yaml:"adjustments"`
}

// LoadFromFile loads a benefits configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, defaults and validates a benefits configuration
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	ip.Warnings = nil

	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var adjDoc adjustmentsDocument
	if err := yaml.Unmarshal(data, &adjDoc); err != nil {
		return nil, fmt.Errorf("failed to parse adjustments: %w", err)
	}
	config.Adjustments = make(map[string]domain.Adjustment, len(adjDoc.Adjustments))
	for name, node := range adjDoc.Adjustments {
		adj := domain.DefaultAdjustment(name)
		if err := node.Decode(&adj); err != nil {
			return nil, fmt.Errorf("failed to parse adjustment %s: %w", name, err)
		}
		config.Adjustments[name] = adj
	}

	ip.applyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills sections that may be omitted entirely
func (ip *InputParser) applyDefaults(config *domain.Configuration) {
	if len(config.FederalIncomeTax) == 0 {
		config.FederalIncomeTax = domain.DefaultFederalIncomeTax()
		ip.warnf("federal_income_tax not set, using built-in 2023 tables")
	}
	if fica := config.FicaPayrollTaxes; fica.SocialSecurityLimit.IsZero() && fica.SocialSecurityRate.IsZero() && fica.MedicareRate.IsZero() {
		config.FicaPayrollTaxes = domain.DefaultFicaTable()
		ip.warnf("fica_payroll_taxes not set, using built-in 2023 values")
	}
	for i := range config.Plans {
		if config.Plans[i].Name == "" {
			config.Plans[i].Name = config.Plans[i].ID
		}
	}
	for id, at := range config.AccountTypes {
		if at.ID == "" {
			at.ID = id
			config.AccountTypes[id] = at
		}
	}
}

// ValidateConfiguration checks configuration shape. Anything that would
// produce silently wrong numbers is an error.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateTaxTables(config.FederalIncomeTax); err != nil {
		return fmt.Errorf("federal income tax validation failed: %w", err)
	}
	if err := ip.validateFica(config.FicaPayrollTaxes); err != nil {
		return fmt.Errorf("FICA validation failed: %w", err)
	}
	if err := ip.validateAccountRules(config.AccountRules); err != nil {
		return fmt.Errorf("account rules validation failed: %w", err)
	}
	for _, id := range sortedKeys(config.AccountTypes) {
		at := config.AccountTypes[id]
		if err := ip.validateAccountType(&at); err != nil {
			return fmt.Errorf("account type %s validation failed: %w", id, err)
		}
	}
	for name, svc := range config.Services {
		if svc.UnitCost.IsNegative() {
			return fmt.Errorf("service %s: unit cost cannot be negative", name)
		}
	}
	if config.DefaultUsage != "" {
		if _, ok := config.UsageLevels[config.DefaultUsage]; !ok {
			return fmt.Errorf("default usage level %s is not defined", config.DefaultUsage)
		}
	}
	if len(config.Plans) == 0 {
		return fmt.Errorf("no plans provided")
	}
	seen := make(map[string]bool, len(config.Plans))
	for i := range config.Plans {
		plan := &config.Plans[i]
		if seen[plan.ID] {
			return fmt.Errorf("plan %d: duplicate plan id %s", i, plan.ID)
		}
		seen[plan.ID] = true
		if err := ip.validatePlan(config, plan); err != nil {
			return fmt.Errorf("plan %d (%s) validation failed: %w", i, plan.ID, err)
		}
	}
	if err := ip.validateAdjustments(config); err != nil {
		return fmt.Errorf("adjustments validation failed: %w", err)
	}
	registry := ip.Registry
	if registry == nil {
		registry = calculation.NewHookRegistry()
	}
	if _, err := registry.Resolve(config.Hooks); err != nil {
		return fmt.Errorf("hooks validation failed: %w", err)
	}
	return nil
}

func (ip *InputParser) validateTaxTables(tables map[domain.FilingStatus]domain.FederalIncomeTaxTable) error {
	statuses := make([]string, 0, len(tables))
	for status := range tables {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		if err := calculation.ValidateTaxTable(tables[domain.FilingStatus(status)]); err != nil {
			return fmt.Errorf("filing status %s: %w", status, err)
		}
	}
	return nil
}

func (ip *InputParser) validateFica(t domain.FicaTable) error {
	if !t.SocialSecurityLimit.IsPositive() {
		return fmt.Errorf("social security limit must be positive")
	}
	if t.SocialSecurityRate.IsNegative() || t.SocialSecurityRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("social security rate must be between 0 and 1")
	}
	if t.MedicareRate.IsNegative() || t.MedicareRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("medicare rate must be between 0 and 1")
	}
	return nil
}

func (ip *InputParser) validateAccountRules(r domain.AccountRules) error {
	if r.HSACatchUpContribution.IsNegative() {
		return fmt.Errorf("HSA catch-up contribution cannot be negative")
	}
	if r.FSAMaximumPermittedRollover.IsNegative() {
		return fmt.Errorf("FSA maximum permitted rollover cannot be negative")
	}
	return nil
}

// validateAccountType validates a single account type
func (ip *InputParser) validateAccountType(at *domain.AccountType) error {
	if !at.FollowRulesFor.Valid() {
		return fmt.Errorf("follow_rules_for must be 'HSA', 'FSA' or 'LPFSA', got %q", at.FollowRulesFor)
	}
	if !at.Maximum().IsSet() {
		return fmt.Errorf("contribution_maximum or contribution_maximums is required")
	}
	if at.ContributionMaximum != nil && len(at.ContributionMaximums) > 0 {
		ip.warnf("account type %s: contribution_maximum overrides contribution_maximums", at.ID)
	}
	if at.EmployerMaxMatchAmount != nil && len(at.EmployerMaxMatchAmounts) > 0 {
		ip.warnf("account type %s: employer_max_match_amount overrides employer_max_match_amounts", at.ID)
	}
	if at.ContributionMinimum.IsNegative() {
		return fmt.Errorf("contribution minimum cannot be negative")
	}
	if at.EmployerMatchRate.IsNegative() {
		return fmt.Errorf("employer match rate cannot be negative")
	}
	if at.MaximumExcludesCompanyFunds && at.FollowRulesFor == domain.RulesHSA {
		return fmt.Errorf("maximum_excludes_company_funds only applies to FSA accounts")
	}
	return nil
}

// validatePlan validates a single plan
func (ip *InputParser) validatePlan(config *domain.Configuration, plan *domain.Plan) error {
	if plan.ID == "" {
		return fmt.Errorf("plan id is required")
	}
	funded := (domain.CoverageValue{Flat: plan.PlanFundAmount, PerLevel: plan.PlanFundAmounts}).IsSet() || plan.EmployerMatchRate != nil
	if plan.AccountType == "" {
		if funded {
			return fmt.Errorf("plan_fund_amount and employer_match_rate require an account_type")
		}
	} else if _, ok := config.AccountTypes[plan.AccountType]; !ok {
		if funded {
			return fmt.Errorf("account type %s is not defined but the plan funds it", plan.AccountType)
		}
		ip.warnf("plan %s: unknown account type %s, plan will have no savings account", plan.ID, plan.AccountType)
	}
	if !(domain.CoverageValue{Flat: plan.EmployeePremium, PerLevel: plan.EmployeePremiums}).IsSet() {
		return fmt.Errorf("employee_premium or employee_premiums is required")
	}
	if !(domain.CoverageValue{Flat: plan.OutOfPocketMaximum, PerLevel: plan.OutOfPocketMaximums}).IsSet() {
		return fmt.Errorf("out_of_pocket_maximum or out_of_pocket_maximums is required")
	}
	if plan.Coinsurance.IsNegative() || plan.Coinsurance.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("coinsurance must be between 0 and 1")
	}
	for _, level := range domain.StandardCoverageLevels {
		ded := plan.DeductibleFor(level)
		oopMax := plan.OutOfPocketMaximumFor(level)
		if ded.IsNegative() || oopMax.IsNegative() {
			return fmt.Errorf("%s: deductible and out-of-pocket maximum cannot be negative", level)
		}
	}
	for svc, p := range plan.Provisions {
		if _, ok := config.Services[svc]; !ok {
			ip.warnf("plan %s: provision for unknown service %s", plan.ID, svc)
		}
		if p.Coinsurance != nil && (p.Coinsurance.IsNegative() || p.Coinsurance.GreaterThan(decimal.NewFromInt(1))) {
			return fmt.Errorf("service %s: coinsurance must be between 0 and 1", svc)
		}
		if p.Copay != nil && p.Copay.IsNegative() {
			return fmt.Errorf("service %s: copay cannot be negative", svc)
		}
	}
	return nil
}

func (ip *InputParser) validateAdjustments(config *domain.Configuration) error {
	for _, name := range sortedKeys(config.Adjustments) {
		adj := config.Adjustments[name]
		known := false
		for _, k := range domain.AdjustmentOrder {
			if k == name {
				known = true
			}
		}
		if !known {
			ip.warnf("adjustment %s is not recognized and will be ignored", name)
			continue
		}
		if adj.AnswerKey == "" {
			return fmt.Errorf("%s: answer_key is required", name)
		}
		for answer, byPlan := range adj.Amounts {
			for planID, amt := range byPlan {
				if amt.IsNegative() {
					return fmt.Errorf("%s: amount for answer %s plan %s cannot be negative", name, answer, planID)
				}
			}
		}
	}
	return nil
}

// LoadProfile loads a person profile from a YAML or JSON file
func (ip *InputParser) LoadProfile(filename string) (*domain.PersonProfile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var profile domain.PersonProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	if err := ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return &profile, nil
}

// ValidateProfile rejects profiles with unrecognized enumerations. Numeric
// inputs are left alone; the engine clamps them.
func ValidateProfile(profile *domain.PersonProfile) error {
	if profile.Children < 0 {
		return fmt.Errorf("children cannot be negative")
	}
	if profile.FundApplication != "" && !profile.FundApplication.Valid() {
		return fmt.Errorf("fund_application must be 'applyAllFunds', 'applyERFundsOnly', 'applyEEFundsOnly' or 'applyNoFunds'")
	}
	for svc, n := range profile.Usage {
		if n < 0 {
			return fmt.Errorf("usage for %s cannot be negative", svc)
		}
	}
	return nil
}

func (ip *InputParser) warnf(format string, args ...any) {
	ip.Warnings = append(ip.Warnings, fmt.Sprintf(format, args...))
}

// ValidateProfileAgainst checks the profile's selections that only make sense
// for a given configuration
func ValidateProfileAgainst(config *domain.Configuration, profile *domain.PersonProfile) error {
	if profile.UsageLevel == "" {
		return nil
	}
	if _, ok := config.UsageLevels[profile.UsageLevel]; !ok {
		return fmt.Errorf("usage level %s is not defined (available: %s)",
			profile.UsageLevel, strings.Join(sortedKeys(config.UsageLevels), ", "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
