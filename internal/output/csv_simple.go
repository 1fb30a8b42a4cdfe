package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/benefitcost/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per plan
// and scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

var csvHeader = []string{
	"Scenario", "PlanID", "PlanName", "CoverageLevel",
	"EmployeePremium", "EmployerPremium", "OutOfPocket",
	"EmployerFundsApplied", "EmployeeFundsApplied",
	"EmployeeTotal", "EmployerOrPlanTotal", "Total",
	"UnusedFunds", "Rollover", "Forfeited",
}

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range report.Expected {
		if err := w.Write(csvRow("expected", r)); err != nil {
			return nil, err
		}
	}
	for _, r := range report.WorstCase {
		if err := w.Write(csvRow("worstCase", r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func csvRow(scenario string, r domain.PlanResult) []string {
	return []string{
		scenario,
		r.PlanID,
		r.PlanName,
		string(r.CoverageLevel),
		r.EmployeePremium.StringFixed(2),
		r.EmployerPremium.StringFixed(2),
		r.OutOfPocket.StringFixed(2),
		r.EmployerFundsApplied.StringFixed(2),
		r.EmployeeFundsApplied.StringFixed(2),
		r.EmployeeTotalCosts.StringFixed(2),
		r.EmployerOrPlanTotalCosts.StringFixed(2),
		r.TotalCosts.StringFixed(2),
		r.UnusedFunds.StringFixed(2),
		r.RolloverAmount.StringFixed(2),
		r.ForfeitedAmount.StringFixed(2),
	}
}

func intToString(i int) string { return strconv.Itoa(i) }
