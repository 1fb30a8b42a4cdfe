package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing plans
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("BENEFIT PLAN COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Plan: %s\n", compSet.BasePlanID))
	if compSet.CoverageLevel != "" {
		sb.WriteString(fmt.Sprintf("Coverage: %s\n", compSet.CoverageLevel))
	}
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 25
	numWidth := 13

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Plan",
		numWidth, "Your Cost",
		numWidth, "Worst Case",
		numWidth, "Total Cost",
		numWidth, "Rollover"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true, compSet.CheapestPlanID))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false, compSet.CheapestPlanID))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.Label()))
			sb.WriteString(fmt.Sprintf("  Your Cost:        %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.EmployeeCostDiffFromBase),
				alt.EmployeeCostDiffFromBase.StringFixed(2),
				alt.EmployeeCostPctFromBase.StringFixed(1)))
			if alt.WorstCase != nil {
				sb.WriteString(fmt.Sprintf("  Worst Case:       %s$%s\n",
					tf.deltaSymbol(alt.WorstCaseDiffFromBase),
					alt.WorstCaseDiffFromBase.StringFixed(2)))
			}
			if !alt.RolloverDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Rollover:         %s$%s\n",
					tf.deltaSymbol(alt.RolloverDiffFromBase),
					alt.RolloverDiffFromBase.StringFixed(2)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("* %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single plan row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool, cheapestID string) string {
	name := result.Label()
	if isBase {
		name += " (base)"
	}
	if result.PlanID == cheapestID {
		name = "* " + name
	}

	worst := "n/a"
	if result.WorstCase != nil {
		worst = "$" + tf.formatDecimal(result.WorstCaseEmployeeCost)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.EmployeeCost),
		numWidth, worst,
		numWidth, "$"+tf.formatDecimal(result.TotalCost),
		numWidth, "$"+tf.formatDecimal(result.RolloverAmount))
}

// formatDecimal formats a decimal for display, abbreviating thousands
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(10000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(2)
}

// deltaSymbol returns + for increases; decreases already carry their sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary of each plan
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BasePlanID))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.EmployeeCostDiffFromBase.IsPositive() {
			change = fmt.Sprintf("+$%s", tf.formatDecimal(alt.EmployeeCostDiffFromBase))
		} else if alt.EmployeeCostDiffFromBase.IsNegative() {
			change = fmt.Sprintf("-$%s", tf.formatDecimal(alt.EmployeeCostDiffFromBase.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.PlanID, change))
	}

	return sb.String()
}
