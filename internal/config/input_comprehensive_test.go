package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/benefitcost/internal/calculation"
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
account_types:
  hsa:
    follow_rules_for: HSA
    contribution_maximum: 4150
plans:
  - id: basic
    account_type: hsa
    employee_premium: 100
    out_of_pocket_maximum: 3000
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
	assert.Empty(t, parser.Warnings)
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	config, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	invalidFile := writeTempFile(t, "invalid.yaml", "invalid: yaml: content: [unclosed")

	parser := NewInputParser()
	config, err := parser.LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadFromFile_Fixture(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("../../testdata/benefits.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Example Corp", config.Metadata.Client)
	assert.Equal(t, 2024, config.Metadata.PlanYear)
	assert.Len(t, config.FederalIncomeTax, 4)
	assert.True(t, config.FicaPayrollTaxes.SocialSecurityLimit.Equal(decimal.NewFromInt(160200)))
	assert.True(t, config.AccountRules.FSAMaximumPermittedRolloverExcludesPlanFundAmount)
	assert.Len(t, config.Plans, 4)
	assert.Equal(t, "medium", config.DefaultUsage)

	hsa, ok := config.AccountType("hsa")
	require.True(t, ok)
	assert.Equal(t, "hsa", hsa.ID, "Should default account type ID from its key")
	assert.Equal(t, domain.RulesHSA, hsa.FollowRulesFor)
	assert.True(t, hsa.Maximum().Resolve(domain.EmployeeAndFamily).Equal(decimal.NewFromInt(8300)))

	plan, ok := config.Plan("hmo-west")
	require.True(t, ok)
	assert.Equal(t, []string{"west"}, plan.Regions)
	assert.True(t, plan.Provisions["dentalCleaning"].NoCharge)

	assert.Equal(t, "employer_first", config.Hooks[calculation.HookFundOrder])
	assert.Contains(t, parser.Warnings, "adjustment legacyCredit is not recognized and will be ignored")
}

func TestInputParser_AdjustmentDefaults(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.LoadFromFile("../../testdata/benefits.yaml")
	require.NoError(t, err)

	wellness := config.Adjustments[domain.WellnessPremiumIncentives]
	assert.Equal(t, "wellness", wellness.AnswerKey)
	assert.True(t, wellness.Credit)
	assert.True(t, wellness.OffsetsEmployerPremium)
	amount, ok := wellness.MonthlyAmount("completed", "ppo")
	require.True(t, ok)
	assert.True(t, amount.Equal(decimal.NewFromInt(50)))

	tobacco := config.Adjustments[domain.TobaccoSurcharge]
	assert.Equal(t, "tobacco", tobacco.AnswerKey)
	assert.False(t, tobacco.Credit)
	assert.False(t, tobacco.OffsetsEmployerPremium)

	spouse := config.Adjustments[domain.SpouseSurcharge]
	assert.Equal(t, "spouseSurcharge", spouse.AnswerKey)
	assert.True(t, spouse.RequiresSpouse)

	legacy := config.Adjustments["legacyCredit"]
	assert.Equal(t, "legacy", legacy.AnswerKey)
	assert.True(t, legacy.Credit)
}

func TestInputParser_AdjustmentOverridesDefaults(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.Parse([]byte(minimalConfig + `
adjustments:
  wellnessPremiumIncentives:
    answer_key: biometricScreening
    offsets_employer_premium: false
    amounts:
      "done":
        basic: 20
`))
	require.NoError(t, err)

	wellness := config.Adjustments[domain.WellnessPremiumIncentives]
	assert.Equal(t, "biometricScreening", wellness.AnswerKey)
	assert.True(t, wellness.Credit, "Unset fields keep their defaults")
	assert.False(t, wellness.OffsetsEmployerPremium)
}

func TestInputParser_Parse_AppliesDefaults(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.Parse([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultFederalIncomeTax(), config.FederalIncomeTax)
	assert.Equal(t, domain.DefaultFicaTable(), config.FicaPayrollTaxes)
	assert.Equal(t, "basic", config.Plans[0].Name, "Plan name should default to its ID")
	assert.Empty(t, config.Adjustments)
	assert.Contains(t, parser.Warnings, "federal_income_tax not set, using built-in 2023 tables")
	assert.Contains(t, parser.Warnings, "fica_payroll_taxes not set, using built-in 2023 values")
}

func TestInputParser_Parse_ResetsWarnings(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.Parse([]byte(minimalConfig))
	require.NoError(t, err)
	require.NotEmpty(t, parser.Warnings)

	_, err = parser.LoadFromFile("../../testdata/benefits.yaml")
	require.NoError(t, err)
	assert.NotContains(t, parser.Warnings, "federal_income_tax not set, using built-in 2023 tables")
}

func TestInputParser_Parse_MalformedTaxTable(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.Parse([]byte(minimalConfig + `
federal_income_tax:
  single:
    brackets: [11000, 44725]
    rates: [0.10, 0.12]
    standard_deduction: 13850
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filing status single")
	assert.Contains(t, err.Error(), "expected 3 rates")
}

func TestInputParser_Parse_UnknownAccountTypeWarns(t *testing.T) {
	parser := NewInputParser()
	config, err := parser.Parse([]byte(`
plans:
  - id: basic
    account_type: hra
    employee_premium: 100
    out_of_pocket_maximum: 3000
`))
	require.NoError(t, err)
	assert.Len(t, config.Plans, 1)
	assert.Contains(t, parser.Warnings, "plan basic: unknown account type hra, plan will have no savings account")
}

func TestInputParser_Parse_PlanFundWithoutAccountFails(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.Parse([]byte(`
plans:
  - id: basic
    employee_premium: 100
    out_of_pocket_maximum: 3000
    plan_fund_amount: 1000
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan 0 (basic) validation failed")
	assert.Contains(t, err.Error(), "require an account_type")
}

func TestInputParser_Parse_CustomHookRegistry(t *testing.T) {
	doc := minimalConfig + `
hooks:
  fund_order: proportional
`
	parser := NewInputParser()
	_, err := parser.Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hooks validation failed")

	registry := calculation.NewHookRegistry()
	registry.RegisterFundOrder("proportional", calculation.EmployeeFirst{})
	parser.Registry = registry
	_, err = parser.Parse([]byte(doc))
	assert.NoError(t, err)
}

func TestInputParser_LoadProfile(t *testing.T) {
	parser := NewInputParser()
	profile, err := parser.LoadProfile("../../testdata/profile.yaml")
	require.NoError(t, err)

	assert.Equal(t, domain.EmployeeOnly, profile.CoverageLevel)
	assert.Equal(t, "completed", profile.Answer("wellness"))
	assert.Equal(t, "no", profile.Answer("tobacco"))
	assert.True(t, profile.DesiredContribution("hsa").Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, domain.ApplyAllFunds, profile.FundApplication)
	assert.Equal(t, domain.Single, profile.Tax.FilingStatus)
	assert.True(t, profile.Tax.PrimaryIncome.Equal(decimal.NewFromInt(85000)))
}

func TestInputParser_LoadProfile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad fund option", "fund_application: applySomeFunds\n", "fund_application must be"},
		{"negative children", "children: -1\n", "children cannot be negative"},
		{"negative usage", "usage:\n  primaryCare: -2\n", "usage for primaryCare"},
		{"not yaml", "coverage_level: [", "failed to parse profile YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "profile.yaml", tt.content)
			_, err := NewInputParser().LoadProfile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInputParser_LoadProfile_FileNotFound(t *testing.T) {
	_, err := NewInputParser().LoadProfile("missing-profile.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
