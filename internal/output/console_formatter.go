package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders the report as styled terminal tables. Verbose adds
// a per-plan breakdown of adjustments and account funds.
type ConsoleFormatter struct {
	Verbose bool
}

func (cf ConsoleFormatter) Name() string {
	if cf.Verbose {
		return "verbose"
	}
	return "table"
}

var summaryHeaders = []string{
	"Plan", "Employee Premium", "Employer Premium", "Out-of-Pocket",
	"Funds Applied", "Employee Total", "Employer Total", "Total", "Rollover",
}

func (cf ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(report.Title()) + "\n")
	if report.CoverageLevel != "" {
		sb.WriteString(MutedStyle.Render("Coverage: "+string(report.CoverageLevel)) + "\n")
	}
	sb.WriteString("\n")

	if len(report.Expected) > 0 {
		sb.WriteString(SectionStyle.Render("EXPECTED ANNUAL COSTS") + "\n")
		sb.WriteString(summaryTable(report.Expected) + "\n")
	}

	if len(report.WorstCase) > 0 {
		sb.WriteString("\n" + SectionStyle.Render("WORST CASE ANNUAL COSTS") + "\n")
		sb.WriteString(summaryTable(report.WorstCase) + "\n")
	}

	if cf.Verbose {
		for _, r := range report.Expected {
			sb.WriteString("\n" + planDetail(r))
		}
	}

	if ts := report.TaxSavings; ts != nil {
		sb.WriteString("\n" + SectionStyle.Render("ESTIMATED TAX SAVINGS") + "\n")
		sb.WriteString(taxSavingsTable(*ts) + "\n")
		if ts.Clamped {
			sb.WriteString(WarningStyle.Render(fmt.Sprintf("Contribution of %s was limited to %s",
				FormatCurrency(ts.RequestedContribution), FormatCurrency(ts.Contribution))) + "\n")
		}
	}

	if len(report.Warnings) > 0 {
		sb.WriteString("\n" + SectionStyle.Render("WARNINGS") + "\n")
		for _, w := range report.Warnings {
			sb.WriteString(WarningStyle.Render("! "+w) + "\n")
		}
	}

	if cf.Verbose && len(report.Assumptions) > 0 {
		sb.WriteString("\n" + SectionStyle.Render("ASSUMPTIONS") + "\n")
		for _, a := range report.Assumptions {
			sb.WriteString(MutedStyle.Render("- "+a) + "\n")
		}
	}

	return []byte(sb.String()), nil
}

// summaryTable builds one row per plan and highlights the lowest employee total
func summaryTable(results []domain.PlanResult) string {
	cheapest := -1
	for i, r := range results {
		if cheapest < 0 || r.EmployeeTotalCosts.LessThan(results[cheapest].EmployeeTotalCosts) {
			cheapest = i
		}
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			planLabel(r),
			FormatCurrency(r.EmployeePremium),
			FormatCurrency(r.EmployerPremium),
			FormatCurrency(r.OutOfPocket),
			FormatCurrency(r.FundsApplied()),
			FormatCurrency(r.EmployeeTotalCosts),
			FormatCurrency(r.EmployerOrPlanTotalCosts),
			FormatCurrency(r.TotalCosts),
			FormatCurrency(r.RolloverAmount),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(summaryHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case col == 0:
				return TableCellStyle
			case row == cheapest && col == 5:
				return HighlightStyle
			default:
				return TableNumberStyle
			}
		}).
		String()
}

func planDetail(r domain.PlanResult) string {
	var sb strings.Builder
	sb.WriteString(SectionStyle.Render(strings.ToUpper(planLabel(r))) + "\n")

	rows := [][]string{
		{"Employee base premium", FormatCurrency(r.EmployeeBasePremium)},
		{"Employer base premium", FormatCurrency(r.EmployerBasePremium)},
	}
	for _, adj := range r.Adjustments {
		rows = append(rows,
			[]string{adj.Name + " (employee)", signedCurrency(adj.EmployeeDelta)},
			[]string{adj.Name + " (employer)", signedCurrency(adj.EmployerDelta)})
	}
	rows = append(rows,
		[]string{"Out-of-pocket maximum", FormatCurrency(r.OutOfPocketMax)},
	)
	if r.AccountTypeID != "" {
		rows = append(rows,
			[]string{"Account", r.AccountTypeID},
			[]string{"Employee contribution", FormatCurrency(r.EmployeeContribution)},
			[]string{"Employer match", FormatCurrency(r.EmployerMatch)},
			[]string{"Plan fund", FormatCurrency(r.PlanFund)},
			[]string{"Effective maximum", FormatCurrency(r.EffectiveMaximum)},
			[]string{"Employer funds applied", FormatCurrency(r.EmployerFundsApplied)},
			[]string{"Employee funds applied", FormatCurrency(r.EmployeeFundsApplied)},
			[]string{"Net out-of-pocket", FormatCurrency(r.EmployeeNetOutOfPocket)},
			[]string{"Unused funds", FormatCurrency(r.UnusedFunds)},
			[]string{"Rollover", FormatCurrency(r.RolloverAmount)},
			[]string{"Forfeited", FormatCurrency(r.ForfeitedAmount)},
		)
	}

	sb.WriteString(keyValueTable(rows) + "\n")
	return sb.String()
}

func taxSavingsTable(ts domain.TaxSavings) string {
	return keyValueTable([][]string{
		{"Filing status", string(ts.FilingStatus)},
		{"Income", FormatCurrency(ts.Income)},
		{"Contribution", FormatCurrency(ts.Contribution)},
		{"Marginal federal rate", FormatPercentage(ts.MarginalRate.Mul(decimal.NewFromInt(100)))},
		{"Federal income tax", FormatCurrency(ts.FederalIncomeTax)},
		{"Social Security", FormatCurrency(ts.SocialSecurity)},
		{"Medicare", FormatCurrency(ts.Medicare)},
		{"Total savings", FormatCurrency(ts.Total)},
	})
}

func keyValueTable(rows [][]string) string {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return MutedStyle.Padding(0, 1)
			}
			return TableNumberStyle
		}).
		String()
}

func planLabel(r domain.PlanResult) string {
	if r.PlanName != "" && r.PlanName != r.PlanID {
		return fmt.Sprintf("%s (%s)", r.PlanName, r.PlanID)
	}
	return r.PlanID
}

// signedCurrency prefixes positive amounts with a plus sign
func signedCurrency(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + FormatCurrency(d)
	}
	return FormatCurrency(d)
}
