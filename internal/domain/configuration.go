package domain

// ConfigMetadata describes where a benefits configuration came from
type ConfigMetadata struct {
	Client      string `yaml:"client" json:"client"`
	PlanYear    int    `yaml:"plan_year" json:"plan_year"`
	Description string `yaml:"description" json:"description"`
}

// Configuration is a complete, immutable benefits configuration
type Configuration struct {
	Metadata         ConfigMetadata                         `yaml:"metadata" json:"metadata"`
	FederalIncomeTax map[FilingStatus]FederalIncomeTaxTable `yaml:"federal_income_tax" json:"federal_income_tax"`
	FicaPayrollTaxes FicaTable                              `yaml:"fica_payroll_taxes" json:"fica_payroll_taxes"`
	AccountRules     AccountRules                           `yaml:"account_rules" json:"account_rules"`
	AccountTypes     map[string]AccountType                 `yaml:"account_types" json:"account_types"`
	Services         map[string]Service                     `yaml:"services" json:"services"`
	UsageLevels      map[string]map[string]int              `yaml:"usage_levels" json:"usage_levels"`
	DefaultUsage     string                                 `yaml:"default_usage_level" json:"default_usage_level"`
	Plans            []Plan                                 `yaml:"plans" json:"plans"`
	// Adjustments is decoded separately so known names pick up their defaults.
	Adjustments map[string]Adjustment `yaml:"-" json:"adjustments"`
	Hooks       map[string]string     `yaml:"hooks" json:"hooks"`
}

// AccountType looks up an account type; an empty or unknown ID reports false
func (c *Configuration) AccountType(id string) (AccountType, bool) {
	if id == "" {
		return AccountType{}, false
	}
	at, ok := c.AccountTypes[id]
	return at, ok
}

// Plan looks up a plan by ID
func (c *Configuration) Plan(id string) (Plan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// ResolveUsage returns the visit counts for a profile: the named usage level
// (or the configured default) overlaid with explicit per-service counts.
func (c *Configuration) ResolveUsage(profile PersonProfile) map[string]int {
	level := profile.UsageLevel
	if level == "" {
		level = c.DefaultUsage
	}
	usage := make(map[string]int)
	for svc, n := range c.UsageLevels[level] {
		usage[svc] = n
	}
	for svc, n := range profile.Usage {
		usage[svc] = n
	}
	return usage
}
