package output

import (
	"fmt"

	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetExpected   = "Expected"
	sheetWorstCase  = "Worst Case"
	sheetTaxSavings = "Tax Savings"
	sheetSummary    = "Summary"
)

// XLSXFormatter writes the report as an Excel workbook with one sheet per
// scenario
type XLSXFormatter struct{}

func (xf XLSXFormatter) Name() string { return "xlsx" }

func (xf XLSXFormatter) Format(report *Report) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	moneyStyle, err := wb.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	if err := writeSummarySheet(wb, report, headerStyle); err != nil {
		return nil, err
	}
	if err := writeResultSheet(wb, sheetExpected, report.Expected, headerStyle, moneyStyle); err != nil {
		return nil, err
	}
	if len(report.WorstCase) > 0 {
		if err := writeResultSheet(wb, sheetWorstCase, report.WorstCase, headerStyle, moneyStyle); err != nil {
			return nil, err
		}
	}
	if report.TaxSavings != nil {
		if err := writeTaxSavingsSheet(wb, *report.TaxSavings, headerStyle, moneyStyle); err != nil {
			return nil, err
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(wb *excelize.File, report *Report, headerStyle int) error {
	rows := [][]interface{}{
		{"Report", report.Title()},
		{"Client", report.Metadata.Client},
		{"Plan year", intToString(report.Metadata.PlanYear)},
		{"Coverage level", string(report.CoverageLevel)},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	for _, a := range report.Assumptions {
		rows = append(rows, []interface{}{"Assumption", a})
	}
	for _, w := range report.Warnings {
		rows = append(rows, []interface{}{"Warning", w})
	}
	if err := writeRows(wb, sheetSummary, rows); err != nil {
		return err
	}
	if err := wb.SetColStyle(sheetSummary, "A", headerStyle); err != nil {
		return err
	}
	return wb.SetColWidth(sheetSummary, "A", "B", 22)
}

func writeResultSheet(wb *excelize.File, sheet string, results []domain.PlanResult, headerStyle, moneyStyle int) error {
	if _, err := wb.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{toRow(csvHeader[1:])}
	for _, r := range results {
		rows = append(rows, []interface{}{
			r.PlanID,
			r.PlanName,
			string(r.CoverageLevel),
			money(r.EmployeePremium),
			money(r.EmployerPremium),
			money(r.OutOfPocket),
			money(r.EmployerFundsApplied),
			money(r.EmployeeFundsApplied),
			money(r.EmployeeTotalCosts),
			money(r.EmployerOrPlanTotalCosts),
			money(r.TotalCosts),
			money(r.UnusedFunds),
			money(r.RolloverAmount),
			money(r.ForfeitedAmount),
		})
	}
	if err := writeRows(wb, sheet, rows); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	if err := wb.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	if len(results) > 0 {
		last := fmt.Sprintf("%s%d", lastCol, len(rows))
		if err := wb.SetCellStyle(sheet, "D2", last, moneyStyle); err != nil {
			return err
		}
	}
	if err := wb.SetColWidth(sheet, "A", "C", 18); err != nil {
		return err
	}
	return wb.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeTaxSavingsSheet(wb *excelize.File, ts domain.TaxSavings, headerStyle, moneyStyle int) error {
	if _, err := wb.NewSheet(sheetTaxSavings); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetTaxSavings, err)
	}
	rows := [][]interface{}{
		{"Filing status", string(ts.FilingStatus)},
		{"Income", money(ts.Income)},
		{"Requested contribution", money(ts.RequestedContribution)},
		{"Contribution", money(ts.Contribution)},
		{"Federal income tax", money(ts.FederalIncomeTax)},
		{"Social Security", money(ts.SocialSecurity)},
		{"Medicare", money(ts.Medicare)},
		{"Total savings", money(ts.Total)},
	}
	if err := writeRows(wb, sheetTaxSavings, rows); err != nil {
		return err
	}
	if err := wb.SetColStyle(sheetTaxSavings, "A", headerStyle); err != nil {
		return err
	}
	if err := wb.SetCellStyle(sheetTaxSavings, "B2", fmt.Sprintf("B%d", len(rows)), moneyStyle); err != nil {
		return err
	}
	return wb.SetColWidth(sheetTaxSavings, "A", "B", 24)
}

func writeRows(wb *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// money converts to float64 for spreadsheet cells; amounts are already cents
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
