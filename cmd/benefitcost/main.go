package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rgehrsitz/benefitcost/internal/calculation"
	"github.com/rgehrsitz/benefitcost/internal/config"
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// slogLogger implements calculation.Logger on top of slog
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debugf(format string, args ...any) { s.l.Debug(fmt.Sprintf(format, args...)) }
func (s slogLogger) Infof(format string, args ...any)  { s.l.Info(fmt.Sprintf(format, args...)) }
func (s slogLogger) Warnf(format string, args ...any)  { s.l.Warn(fmt.Sprintf(format, args...)) }
func (s slogLogger) Errorf(format string, args ...any) { s.l.Error(fmt.Sprintf(format, args...)) }

var (
	cfgFile string
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "benefitcost",
		Short: "Benefit Cost Projection CLI",
		Long: `Projects the annual cost of each health plan an employer offers, split between
employee and employer, along with HSA/FSA funding and estimated tax savings.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/benefitcost/config.yaml)")
	root.PersistentFlags().StringP("benefits", "b", "", "benefits configuration file (YAML or JSON)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = viper.BindPFlag("benefits_file", root.PersistentFlags().Lookup("benefits"))
	_ = viper.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(projectCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(breakEvenCmd())
	root.AddCommand(taxSavingsCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		viper.AddConfigPath(fmt.Sprintf("%s/.config/benefitcost", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// BENEFITCOST_BENEFITS_FILE, BENEFITCOST_LOGGING_LEVEL, ...
	viper.SetEnvPrefix("BENEFITCOST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := setupLogging(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func setupLogging(w io.Writer) error {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	switch format {
	case "console":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// loadEngine parses the configured benefits file and builds an engine over it
func loadEngine() (*calculation.Engine, *config.InputParser, error) {
	path := viper.GetString("benefits_file")
	if path == "" {
		return nil, nil, fmt.Errorf("a benefits file is required (--benefits or BENEFITCOST_BENEFITS_FILE)")
	}

	// One registry validates hook names at load and resolves them in the engine
	registry := calculation.NewHookRegistry()
	parser := config.NewInputParser()
	parser.Registry = registry
	cfg, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("loaded benefits configuration", "path", path, "plans", len(cfg.Plans), "warnings", len(parser.Warnings))

	engine, err := calculation.NewEngine(cfg,
		calculation.WithLogger(slogLogger{l: slog.Default()}),
		calculation.WithHookRegistry(registry))
	if err != nil {
		return nil, nil, err
	}
	return engine, parser, nil
}

// loadProfile reads the --profile file, applying any command-line overrides,
// and checks it against the loaded configuration
func loadProfile(cmd *cobra.Command, engine *calculation.Engine, parser *config.InputParser) (domain.PersonProfile, error) {
	path, _ := cmd.Flags().GetString("profile")
	if path == "" {
		return domain.PersonProfile{}, fmt.Errorf("a profile file is required (--profile)")
	}
	profile, err := parser.LoadProfile(path)
	if err != nil {
		return domain.PersonProfile{}, err
	}

	if cmd.Flags().Changed("coverage") {
		level, _ := cmd.Flags().GetString("coverage")
		profile.CoverageLevel = domain.CoverageLevel(level)
	}
	if cmd.Flags().Changed("usage") {
		profile.UsageLevel, _ = cmd.Flags().GetString("usage")
	}
	if cmd.Flags().Changed("fund-application") {
		option, _ := cmd.Flags().GetString("fund-application")
		profile.FundApplication = domain.FundApplicationOption(option)
	}
	if err := config.ValidateProfile(profile); err != nil {
		return domain.PersonProfile{}, err
	}
	if err := config.ValidateProfileAgainst(engine.Config, profile); err != nil {
		return domain.PersonProfile{}, err
	}
	return *profile, nil
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("profile", "p", "", "person profile file (YAML or JSON)")
	cmd.Flags().String("coverage", "", "override the coverage level (employeeOnly, employeeAndSpouse, employeeAndChildren, employeeAndFamily)")
	cmd.Flags().String("usage", "", "override the usage level named in the profile")
	cmd.Flags().String("fund-application", "", "override fund application (applyAllFunds, applyERFundsOnly, applyEEFundsOnly, applyNoFunds)")
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "benefitcost %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}
