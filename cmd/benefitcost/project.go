package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/benefitcost/internal/compare"
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/rgehrsitz/benefitcost/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project annual costs for every plan offered to a person",
		Long: `Project expected annual costs for every plan offered in the profile's region
and employment status. With --worst-case, each plan is also projected at its
out-of-pocket maximum.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, parser, err := loadEngine()
			if err != nil {
				return err
			}
			profile, err := loadProfile(cmd, engine, parser)
			if err != nil {
				return err
			}

			worstCase, _ := cmd.Flags().GetBool("worst-case")
			withTax, _ := cmd.Flags().GetBool("tax")
			format, _ := cmd.Flags().GetString("format")
			outputPath, _ := cmd.Flags().GetString("output")

			set := domain.ProjectionSet{
				CoverageLevel: profile.EffectiveCoverageLevel(),
				Expected:      engine.ProjectPlans(profile, false),
			}
			if len(set.Expected) == 0 {
				return fmt.Errorf("no plans offered for region %q status %q", profile.Region, profile.Status)
			}
			if worstCase {
				set.WorstCase = engine.ProjectPlans(profile, true)
			}

			report := output.NewReport(engine.Config.Metadata, set)
			report.Warnings = parser.Warnings
			if withTax {
				savings, err := engine.EstimateTaxSavings(profile.Tax)
				if err != nil {
					return fmt.Errorf("failed to estimate tax savings: %w", err)
				}
				report.TaxSavings = &savings
			}

			// Spreadsheets never go to the terminal
			if outputPath == "" && strings.EqualFold(format, "xlsx") {
				f, err := output.NewFormatter(format)
				if err != nil {
					return err
				}
				filename, err := output.WriteFormatted(f, report, "xlsx")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
				return nil
			}
			return output.GenerateReport(cmd.OutOrStdout(), report, format, outputPath)
		},
	}

	addProfileFlags(cmd)
	cmd.Flags().Bool("worst-case", false, "also project each plan at its out-of-pocket maximum")
	cmd.Flags().Bool("tax", false, "include tax savings estimated from the profile's tax section")
	cmd.Flags().StringP("format", "f", "table", "output format ("+strings.Join(output.FormatNames(), ", ")+")")
	cmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	return cmd
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare plans against a base plan",
		Long: `Compare the plans offered to a person against a base plan on expected employee
cost, worst case employee cost and rollover, with recommendations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, parser, err := loadEngine()
			if err != nil {
				return err
			}
			profile, err := loadProfile(cmd, engine, parser)
			if err != nil {
				return err
			}

			base, _ := cmd.Flags().GetString("base")
			plans, _ := cmd.Flags().GetStringSlice("plans")
			format, _ := cmd.Flags().GetString("format")

			compSet, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), profile, compare.CompareOptions{
				BasePlanID: base,
				PlanIDs:    plans,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			compSet.ConfigPath = viper.GetString("benefits_file")

			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "table":
				formatter := &compare.TableFormatter{}
				fmt.Fprint(out, formatter.Format(compSet))
			case "compact":
				formatter := &compare.TableFormatter{}
				fmt.Fprintln(out, formatter.FormatCompact(compSet))
			case "json":
				formatter := &compare.JSONFormatter{Pretty: true}
				data, err := formatter.Format(compSet)
				if err != nil {
					return err
				}
				fmt.Fprint(out, data)
			case "csv":
				formatter := &compare.CSVFormatter{}
				data, err := formatter.Format(compSet)
				if err != nil {
					return err
				}
				fmt.Fprint(out, data)
			default:
				return fmt.Errorf("unsupported format: %s (available: table, compact, json, csv)", format)
			}
			return nil
		},
	}

	addProfileFlags(cmd)
	cmd.Flags().String("base", "", "plan ID to compare against (default: first offered plan)")
	cmd.Flags().StringSlice("plans", nil, "comma-separated plan IDs to include (default: every offered plan)")
	cmd.Flags().StringP("format", "f", "table", "output format (table, compact, json, csv)")
	return cmd
}
