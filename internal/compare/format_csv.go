package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Plan",
		"Type",
		"Employee Cost",
		"Worst Case Employee Cost",
		"Employer Cost",
		"Total Cost",
		"Rollover",
		"Forfeited",
		"Employee Cost Diff from Base",
		"Employee Cost % Change",
		"Worst Case Diff from Base",
		"Total Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, planType string) []string {
	return []string{
		result.PlanID,
		planType,
		result.EmployeeCost.StringFixed(2),
		result.WorstCaseEmployeeCost.StringFixed(2),
		result.EmployerCost.StringFixed(2),
		result.TotalCost.StringFixed(2),
		result.RolloverAmount.StringFixed(2),
		result.ForfeitedAmount.StringFixed(2),
		result.EmployeeCostDiffFromBase.StringFixed(2),
		result.EmployeeCostPctFromBase.StringFixed(2),
		result.WorstCaseDiffFromBase.StringFixed(2),
		result.TotalDiffFromBase.StringFixed(2),
	}
}
