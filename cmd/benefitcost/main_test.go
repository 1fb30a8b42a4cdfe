package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/benefitcost/internal/breakeven"
	"github.com/rgehrsitz/benefitcost/internal/compare"
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	benefitsFile = "../../testdata/benefits.yaml"
	profileFile  = "../../testdata/profile.yaml"
)

// execute runs a fresh command tree so flag values never leak between tests
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := rootCmd

	if cmd == nil {
		t.Fatal("Expected root command to be created")
	}

	if cmd.Use != "benefitcost" {
		t.Errorf("Expected root command use to be 'benefitcost', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Expected root command to have a short description")
	}

	if cmd.Long == "" {
		t.Error("Expected root command to have a long description")
	}
}

func TestRootCommand_Execute(t *testing.T) {
	out, err := execute(t)
	if err != nil {
		t.Errorf("Expected no error for root command execution, got %v", err)
	}
	if !strings.Contains(out, "Usage:") {
		t.Error("Expected root command to show help/usage")
	}
	for _, sub := range []string{"project", "compare", "break-even", "tax-savings", "validate", "serve", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("Expected help to list %s command", sub)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "benefitcost dev (commit none, built unknown)")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "version", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level: loud")
}

func TestProjectCommand(t *testing.T) {
	out, err := execute(t, "project", "-b", benefitsFile, "-p", profileFile, "--worst-case", "--tax")
	require.NoError(t, err)

	assert.Contains(t, out, "BENEFIT COST PROJECTION - Example Corp (2024)")
	assert.Contains(t, out, "EXPECTED ANNUAL COSTS")
	assert.Contains(t, out, "WORST CASE ANNUAL COSTS")
	assert.Contains(t, out, "HDHP 1600")
	assert.Contains(t, out, "ESTIMATED TAX SAVINGS")
	assert.Contains(t, out, "$593.00")
	assert.Contains(t, out, "adjustment legacyCredit is not recognized and will be ignored")
	assert.NotContains(t, out, "HMO West", "West region plan should not be offered")
}

func TestProjectCommand_ExpectedOnly(t *testing.T) {
	out, err := execute(t, "project", "-b", benefitsFile, "-p", profileFile)
	require.NoError(t, err)
	assert.Contains(t, out, "EXPECTED ANNUAL COSTS")
	assert.NotContains(t, out, "WORST CASE ANNUAL COSTS")
	assert.NotContains(t, out, "ESTIMATED TAX SAVINGS")
}

func TestProjectCommand_CSV(t *testing.T) {
	out, err := execute(t, "project", "-b", benefitsFile, "-p", profileFile, "-f", "csv", "--worst-case")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7, "header plus three expected and three worst case rows")
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,PlanID,PlanName"))
	assert.Contains(t, lines, "expected,hdhp,HDHP 1600,employeeOnly,120.00,6360.00,1580.00,1000.00,580.00,700.00,7360.00,8060.00,1420.00,1420.00,0.00")
}

func TestProjectCommand_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	out, err := execute(t, "project", "-b", benefitsFile, "-p", profileFile, "-f", "json", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report struct {
		Expected []domain.PlanResult `json:"expected"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Expected, 3)
	assert.Equal(t, "ppo", report.Expected[0].PlanID)
	assert.True(t, report.Expected[0].EmployeeTotalCosts.Equal(decimal.NewFromInt(1760)))
}

func TestProjectCommand_Overrides(t *testing.T) {
	_, err := execute(t, "project", "-b", benefitsFile, "-p", profileFile, "--fund-application", "applySome")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fund_application must be")

	out, err := execute(t, "project", "-b", benefitsFile, "-p", profileFile, "--coverage", "employeeAndFamily")
	require.NoError(t, err)
	assert.Contains(t, out, "Coverage: employeeAndFamily")
}

func TestProjectCommand_UndefinedUsageLevel(t *testing.T) {
	_, err := execute(t, "project", "-b", benefitsFile, "-p", profileFile, "--usage", "lwo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage level lwo is not defined")

	out, err := execute(t, "project", "-b", benefitsFile, "-p", profileFile, "--usage", "low", "-f", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "expected,ppo")
}

func writeBenefits(t *testing.T, old, replacement string) string {
	t.Helper()
	data, err := os.ReadFile(benefitsFile)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "benefits.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(string(data), old, replacement, 1)), 0o600))
	return path
}

func TestProjectCommand_HookSelection(t *testing.T) {
	path := writeBenefits(t, "fund_order: employer_first", "fund_order: employee_first")
	out, err := execute(t, "project", "-b", path, "-p", profileFile)
	require.NoError(t, err)
	assert.Contains(t, out, "EXPECTED ANNUAL COSTS")

	path = writeBenefits(t, "fund_order: employer_first", "fund_order: proportional")
	_, err = execute(t, "project", "-b", path, "-p", profileFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fund_order implementation: proportional")
}

func TestProjectCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing benefits", []string{"project", "-p", profileFile}, "benefits file is required"},
		{"missing profile", []string{"project", "-b", benefitsFile}, "profile file is required"},
		{"unreadable benefits", []string{"project", "-b", "missing.yaml", "-p", profileFile}, "failed to read file missing.yaml"},
		{"unknown format", []string{"project", "-b", benefitsFile, "-p", profileFile, "-f", "pdf"}, "unsupported format: pdf"},
		{"stray argument", []string{"project", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "-b", benefitsFile, "-p", profileFile, "--base", "ppo", "-f", "json")
	require.NoError(t, err)

	var compSet compare.ComparisonSet
	require.NoError(t, json.Unmarshal([]byte(out), &compSet))
	assert.Equal(t, "ppo", compSet.BasePlanID)
	assert.Equal(t, "hdhp", compSet.CheapestPlanID)
	assert.Equal(t, benefitsFile, compSet.ConfigPath)
	require.Len(t, compSet.AlternativeResults, 2)
	assert.True(t, compSet.AlternativeResults[0].EmployeeCostDiffFromBase.Equal(decimal.NewFromInt(-1060)))
}

func TestCompareCommand_Formats(t *testing.T) {
	out, err := execute(t, "compare", "-b", benefitsFile, "-p", profileFile)
	require.NoError(t, err)
	assert.Contains(t, out, "BENEFIT PLAN COMPARISON")
	assert.Contains(t, out, "Configuration: "+benefitsFile)

	out, err = execute(t, "compare", "-b", benefitsFile, "-p", profileFile, "--plans", "hdhp", "--base", "ppo", "-f", "compact")
	require.NoError(t, err)
	assert.Equal(t, "Base: ppo | hdhp: -$1060.00\n", out)

	_, err = execute(t, "compare", "-b", benefitsFile, "-p", profileFile, "--plans", "hmo-west")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not offered")

	_, err = execute(t, "compare", "-b", benefitsFile, "-p", profileFile, "-f", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: xml")
}

func TestBreakEvenCommand(t *testing.T) {
	out, err := execute(t, "break-even", "-b", benefitsFile, "-p", profileFile, "--service", "inpatient", "--base", "ppo")
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN ANALYSIS")
	assert.Contains(t, out, "Base Plan: ppo")
	assert.Contains(t, out, "HDHP 1600")
	assert.Contains(t, out, "RECOMMENDATIONS")

	out, err = execute(t, "break-even", "-b", benefitsFile, "-p", profileFile,
		"--service", "specialist", "--base", "ppo", "--plan", "hdhp", "-f", "json")
	require.NoError(t, err)
	var result breakeven.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "hdhp", result.PlanID)
	assert.Equal(t, 2, result.Start.Units)
	assert.True(t, result.Start.PlanCost.Equal(decimal.NewFromInt(700)))
	assert.True(t, result.Start.BaseCost.Equal(decimal.NewFromInt(1760)))
}

func TestBreakEvenCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing service", []string{"--base", "ppo"}, "a service is required"},
		{"plan without base", []string{"--service", "specialist", "--plan", "hdhp"}, "--base is required with --plan"},
		{"unknown service", []string{"--service", "surgery", "--base", "ppo", "--plan", "hdhp"}, "service surgery not found"},
		{"base not offered", []string{"--service", "specialist", "--base", "hmo-west"}, "base plan hmo-west is not offered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"break-even", "-b", benefitsFile, "-p", profileFile}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestTaxSavingsCommand(t *testing.T) {
	out, err := execute(t, "tax-savings", "--status", "single", "--income", "85000", "--contribution", "2000", "-f", "json")
	require.NoError(t, err)

	var savings domain.TaxSavings
	require.NoError(t, json.Unmarshal([]byte(out), &savings))
	assert.True(t, savings.FederalIncomeTax.Equal(decimal.NewFromInt(440)))
	assert.True(t, savings.Total.Equal(decimal.NewFromInt(593)))
	assert.False(t, savings.Clamped)
}

func TestTaxSavingsCommand_FromProfile(t *testing.T) {
	out, err := execute(t, "tax-savings", "-b", benefitsFile, "-p", profileFile)
	require.NoError(t, err)
	assert.Contains(t, out, "ESTIMATED TAX SAVINGS")
	assert.Contains(t, out, "$593.00")
	assert.NotContains(t, out, "EXPECTED ANNUAL COSTS")

	out, err = execute(t, "tax-savings", "-p", profileFile, "--contribution", "90000")
	require.NoError(t, err)
	assert.Contains(t, out, "Contribution of $90,000.00 was limited to $85,000.00")
}

func TestTaxSavingsCommand_Errors(t *testing.T) {
	_, err := execute(t, "tax-savings", "--income", "85000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filing status is required")

	_, err = execute(t, "tax-savings", "--status", "single", "--income", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --income "lots"`)

	_, err = execute(t, "tax-savings", "--status", "married", "--income", "85000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to estimate tax savings")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "-b", benefitsFile, "-p", profileFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid: 4 plans")
	assert.Contains(t, out, "Warning: adjustment legacyCredit is not recognized and will be ignored")
	assert.Contains(t, out, "Profile is valid: 3 plans offered for employeeOnly")
}

func TestValidateCommand_UndefinedUsageLevel(t *testing.T) {
	data, err := os.ReadFile(profileFile)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(string(data), "usage_level: medium", "usage_level: lwo", 1)), 0o600))

	_, err = execute(t, "validate", "-b", benefitsFile, "-p", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage level lwo is not defined")
}
