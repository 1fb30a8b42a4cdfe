package main

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/benefitcost/internal/calculation"
	"github.com/rgehrsitz/benefitcost/internal/config"
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/rgehrsitz/benefitcost/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func taxSavingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax-savings",
		Short: "Estimate tax savings from a pre-tax HSA/FSA contribution",
		Long: `Estimate federal income tax and FICA savings from a pre-tax contribution.
Tax tables come from the benefits file when one is given, otherwise the
built-in tables are used. Flags override the profile's tax section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := taxSavingsInput(cmd)
			if err != nil {
				return err
			}

			var metadata domain.ConfigMetadata
			var estimator *calculation.TaxSavingsEstimator
			if viper.GetString("benefits_file") != "" {
				engine, _, err := loadEngine()
				if err != nil {
					return err
				}
				metadata = engine.Config.Metadata
				estimator = engine.TaxSavings
			} else {
				estimator = calculation.NewTaxSavingsEstimator(
					calculation.NewFederalTaxCalculator(domain.DefaultFederalIncomeTax()),
					calculation.NewFICACalculator(domain.DefaultFicaTable()))
			}

			savings, err := estimator.Estimate(in)
			if err != nil {
				return fmt.Errorf("failed to estimate tax savings: %w", err)
			}

			format, _ := cmd.Flags().GetString("format")
			switch strings.ToLower(format) {
			case "table":
				report := &output.Report{Metadata: metadata, TaxSavings: &savings}
				data, err := output.ConsoleFormatter{}.Format(report)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			case "json":
				data, err := json.MarshalIndent(savings, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			default:
				return fmt.Errorf("unsupported format: %s (available: table, json)", format)
			}
		},
	}

	cmd.Flags().StringP("profile", "p", "", "person profile whose tax section supplies the defaults")
	cmd.Flags().String("status", "", "filing status (single, marriedFilingJointly, marriedFilingSeparately, headOfHousehold, qualifyingSurvivingSpouse)")
	cmd.Flags().String("income", "", "annual primary income")
	cmd.Flags().String("spouse-income", "", "annual spouse income, used with --include-spouse")
	cmd.Flags().Bool("include-spouse", false, "add spouse income for joint filing statuses")
	cmd.Flags().String("contribution", "", "annual pre-tax contribution")
	cmd.Flags().Int("dependents", 0, "number of dependents")
	cmd.Flags().StringP("format", "f", "table", "output format (table, json)")
	return cmd
}

// taxSavingsInput starts from the profile's tax section, if any, and applies
// every flag the user set
func taxSavingsInput(cmd *cobra.Command) (domain.TaxSavingsInput, error) {
	var in domain.TaxSavingsInput
	if path, _ := cmd.Flags().GetString("profile"); path != "" {
		profile, err := config.NewInputParser().LoadProfile(path)
		if err != nil {
			return in, err
		}
		in = profile.Tax
	}

	flags := cmd.Flags()
	if flags.Changed("status") {
		status, _ := flags.GetString("status")
		in.FilingStatus = domain.FilingStatus(status)
	}
	if flags.Changed("include-spouse") {
		in.SpouseIncomeEnabled, _ = flags.GetBool("include-spouse")
	}
	if flags.Changed("dependents") {
		in.Dependents, _ = flags.GetInt("dependents")
	}
	for name, dst := range map[string]*decimal.Decimal{
		"income":        &in.PrimaryIncome,
		"spouse-income": &in.SpouseIncome,
		"contribution":  &in.Contribution,
	} {
		if !flags.Changed(name) {
			continue
		}
		raw, _ := flags.GetString(name)
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return in, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
		}
		*dst = d
	}

	if in.FilingStatus == "" {
		return in, fmt.Errorf("a filing status is required (--status or the profile's tax section)")
	}
	return in, nil
}
