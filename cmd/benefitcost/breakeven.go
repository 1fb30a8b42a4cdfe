package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/benefitcost/internal/breakeven"
	"github.com/spf13/cobra"
)

func breakEvenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break-even",
		Short: "Find the usage at which plans cost the same",
		Long: `Increase the usage of one service from the profile's own level and report
where each plan's employee cost meets the base plan's. With --plan, only that
plan is searched.`,
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

			service, _ := cmd.Flags().GetString("service")
			base, _ := cmd.Flags().GetString("base")
			planID, _ := cmd.Flags().GetString("plan")
			maxUnits, _ := cmd.Flags().GetInt("max-units")
			format, _ := cmd.Flags().GetString("format")
			if service == "" {
				return fmt.Errorf("a service is required (--service)")
			}

			solver := breakeven.NewDefaultSolver(engine)
			table := &breakeven.TableFormatter{}
			jsonFormatter := &breakeven.JSONFormatter{Pretty: true}
			out := cmd.OutOrStdout()

			if planID != "" {
				if base == "" {
					return fmt.Errorf("--base is required with --plan")
				}
				result, err := solver.Solve(cmd.Context(), breakeven.Request{
					Profile:    profile,
					PlanID:     planID,
					BasePlanID: base,
					Service:    service,
					MaxUnits:   maxUnits,
				})
				if err != nil {
					return err
				}
				switch strings.ToLower(format) {
				case "table":
					fmt.Fprint(out, table.Format(result))
				case "json":
					data, err := jsonFormatter.Format(result)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, data)
				default:
					return fmt.Errorf("unsupported format: %s (available: table, json)", format)
				}
				return nil
			}

			multi, err := solver.SolveAgainst(cmd.Context(), profile, base, service, maxUnits)
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "table":
				fmt.Fprint(out, table.FormatMulti(multi))
			case "json":
				data, err := jsonFormatter.FormatMulti(multi)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, data)
			default:
				return fmt.Errorf("unsupported format: %s (available: table, json)", format)
			}
			return nil
		},
	}

	addProfileFlags(cmd)
	cmd.Flags().String("service", "", "service whose usage is varied (required)")
	cmd.Flags().String("base", "", "plan ID to measure against (default: first offered plan)")
	cmd.Flags().String("plan", "", "search a single plan against --base")
	cmd.Flags().Int("max-units", 0, "highest service count to search (default 100)")
	cmd.Flags().StringP("format", "f", "table", "output format (table, json)")
	return cmd
}
