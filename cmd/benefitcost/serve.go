package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/rgehrsitz/benefitcost/internal/config"
	"github.com/rgehrsitz/benefitcost/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve projections over HTTP",
		Long: `Serve projections, comparisons and tax savings estimates over HTTP for the
loaded benefits file. Stops cleanly on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, parser, err := loadEngine()
			if err != nil {
				return err
			}
			for _, w := range parser.Warnings {
				slog.Warn("configuration warning", "warning", w)
			}

			srv := server.New(engine, slog.Default())
			srv.Version = version
			return srv.ListenAndServe(cmd.Context(), viper.GetString("server.addr"))
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a benefits configuration and optional profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, parser, err := loadEngine()
			if err != nil {
				return err
			}
			cfg := engine.Config
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Configuration is valid: %d plans, %d account types, %d services\n",
				len(cfg.Plans), len(cfg.AccountTypes), len(cfg.Services))
			if len(cfg.Adjustments) > 0 {
				names := make([]string, 0, len(cfg.Adjustments))
				for name := range cfg.Adjustments {
					names = append(names, name)
				}
				sort.Strings(names)
				fmt.Fprintf(out, "Adjustments: %v\n", names)
			}
			for _, w := range parser.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", w)
			}

			if path, _ := cmd.Flags().GetString("profile"); path != "" {
				profile, err := parser.LoadProfile(path)
				if err != nil {
					return err
				}
				if err := config.ValidateProfileAgainst(cfg, profile); err != nil {
					return fmt.Errorf("profile validation failed: %w", err)
				}
				eligible := engine.EligiblePlans(*profile)
				fmt.Fprintf(out, "Profile is valid: %d plans offered for %s\n", len(eligible), profile.EffectiveCoverageLevel())
			}
			return nil
		},
	}

	cmd.Flags().StringP("profile", "p", "", "person profile file to validate against the configuration")
	return cmd
}
