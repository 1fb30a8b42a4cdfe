package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is everything a formatter renders for one person
type Report struct {
	Metadata      domain.ConfigMetadata `json:"metadata"`
	CoverageLevel domain.CoverageLevel  `json:"coverageLevel"`
	Expected      []domain.PlanResult   `json:"expected"`
	WorstCase     []domain.PlanResult   `json:"worstCase,omitempty"`
	TaxSavings    *domain.TaxSavings    `json:"taxSavings,omitempty"`
	Assumptions   []string              `json:"assumptions,omitempty"`
	Warnings      []string              `json:"warnings,omitempty"`
	GeneratedAt   time.Time             `json:"generatedAt"`
}

// NewReport builds a report from a projection set
func NewReport(metadata domain.ConfigMetadata, set domain.ProjectionSet) *Report {
	return &Report{
		Metadata:      metadata,
		CoverageLevel: set.CoverageLevel,
		Expected:      set.Expected,
		WorstCase:     set.WorstCase,
		Assumptions:   DefaultAssumptions,
		GeneratedAt:   time.Now(),
	}
}

// Title returns the report heading
func (r *Report) Title() string {
	title := "BENEFIT COST PROJECTION"
	if r.Metadata.Client != "" {
		title += " - " + r.Metadata.Client
	}
	if r.Metadata.PlanYear > 0 {
		title += fmt.Sprintf(" (%d)", r.Metadata.PlanYear)
	}
	return title
}

// WorstCaseFor returns the worst case result matching a plan, if present
func (r *Report) WorstCaseFor(planID string) (domain.PlanResult, bool) {
	for _, wc := range r.WorstCase {
		if wc.PlanID == planID {
			return wc, true
		}
	}
	return domain.PlanResult{}, false
}

// GenerateReport formats a report and writes it to w, or to path when set
func GenerateReport(w io.Writer, report *Report, format, path string) error {
	formatter, err := NewFormatter(format)
	if err != nil {
		return err
	}
	data, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", formatter.Name(), err)
	}
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// FormatCurrency formats a decimal as currency with thousands separators
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	fixed := amount.StringFixed(2)
	whole, cents := fixed[:len(fixed)-3], fixed[len(fixed)-3:]

	var sb strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	return sign + "$" + sb.String() + cents
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
