package breakeven

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format generates a formatted report for a single search
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Plan:         %s\n", result.PlanName))
	sb.WriteString(fmt.Sprintf("Base Plan:    %s\n", result.BasePlanName))
	sb.WriteString(fmt.Sprintf("Service:      %s\n", result.Service))
	sb.WriteString(fmt.Sprintf("Status:       %s\n", tf.formatStatus(result.Found)))
	sb.WriteString(fmt.Sprintf("Evaluations:  %d\n", result.Evaluations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:  %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-22s %8s %14s %14s %14s\n", "", "Units", "Plan Cost", "Base Cost", "Difference"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(tf.formatPoint("At expected usage", result.Start))
	if result.BreakEven != nil && result.Direction != AlreadyEqual {
		sb.WriteString(tf.formatPoint("At break-even", *result.BreakEven))
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatMulti generates a summary table for searches against one base plan
func (tf *TableFormatter) FormatMulti(multi *MultiResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Plan: %s\n", multi.BasePlanID))
	sb.WriteString(fmt.Sprintf("Service:   %s\n\n", multi.Service))

	sb.WriteString(fmt.Sprintf("%-30s %10s %12s %12s %12s\n", "Plan", "Expected", "Break-Even", "Plan Cost", "Base Cost"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range multi.Results {
		breakEven := "none"
		planCost, baseCost := r.Start.PlanCost, r.Start.BaseCost
		if r.BreakEven != nil {
			breakEven = fmt.Sprintf("%d", r.BreakEven.Units)
			planCost, baseCost = r.BreakEven.PlanCost, r.BreakEven.BaseCost
		}
		sb.WriteString(fmt.Sprintf("%-30s %10d %12s %12s %12s\n",
			tf.truncate(r.PlanName, 30), r.Start.Units, breakEven,
			"$"+tf.formatCurrency(planCost), "$"+tf.formatCurrency(baseCost)))
	}

	if len(multi.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range multi.Recommendations {
			sb.WriteString("- " + rec + "\n")
		}
	}
	return sb.String()
}

// JSONFormatter formats break-even results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for a single search
func (jf *JSONFormatter) Format(result *Result) (string, error) {
	return jf.marshal(result)
}

// FormatMulti generates JSON output for searches against one base plan
func (jf *JSONFormatter) FormatMulti(multi *MultiResult) (string, error) {
	return jf.marshal(multi)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (tf *TableFormatter) formatPoint(label string, p Point) string {
	gap := p.Gap()
	return fmt.Sprintf("%-22s %8d %14s %14s %14s\n", label, p.Units,
		"$"+tf.formatCurrency(p.PlanCost), "$"+tf.formatCurrency(p.BaseCost),
		tf.deltaSymbol(gap)+"$"+tf.formatCurrency(gap.Abs()))
}

func (tf *TableFormatter) formatStatus(found bool) string {
	if found {
		return "Break-even found"
	}
	return "No break-even in range"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// deltaSymbol returns the sign prefix for a difference
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	switch {
	case delta.IsPositive():
		return "+"
	case delta.IsNegative():
		return "-"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
