package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/contactkeval/option-greeks/internal/config"
	"github.com/contactkeval/option-greeks/internal/greeks"
	"github.com/contactkeval/option-greeks/internal/logger"
	"github.com/contactkeval/option-greeks/internal/report"
	"github.com/contactkeval/option-greeks/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "greeks",
		Short: "Black-Scholes Greeks for European options",
		Long: `Computes delta, gamma, theta, vega and rho (plus the theoretical price) of
European calls and puts on an underlying with a continuous dividend yield.

Theta is reported per day using the configured day-count basis; vega and rho are
per 1 percentage point of volatility and rate.`,
		Example: `  greeks --spot 64.68 --strike 65 --days 23 --rate 0.015 --div 0.021 --vol 0.5051
  greeks --spot 100 --strike 95 --t 0.5 --vol 0.3 --right put --format json
  greeks serve --listen :8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runEvaluate,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "path to YAML config file")
	pf.String("cdf", "", "normal CDF provider: erf, gonum or stats")
	pf.Int("verbosity", config.VerbosityInfo, "0=errors, 1=info, 2=debug, 3=trace")
	pf.Float64("days-per-year", 0, "day-count basis for theta and --days (default from config, 365)")
	pf.Int("precision", 0, "decimal places in output (default from config, 4)")

	f := root.Flags()
	f.Float64("spot", 0, "underlying spot price (required)")
	f.Float64("strike", 0, "strike price (required)")
	f.Float64("days", 0, "days to expiry, converted with --days-per-year")
	f.Float64("t", 0, "time to expiry in years (alternative to --days)")
	f.Float64("rate", 0, "continuously compounded risk-free rate, e.g. 0.015")
	f.Float64("div", 0, "continuously compounded dividend yield, e.g. 0.021")
	f.Float64("vol", 0, "annualised volatility, e.g. 0.5051 (required)")
	f.String("right", "both", "call, put or both")
	f.String("format", "", "output format: table, json or csv")
	root.MarkFlagsMutuallyExclusive("days", "t")
	for _, name := range []string{"spot", "strike", "vol"} {
		_ = root.MarkFlagRequired(name)
	}

	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve Greeks over HTTP (GET /greeks, GET /health)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, calc, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen, _ = cmd.Flags().GetString("listen")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(calc, cfg.DaysPerYear, cfg.Precision).Run(ctx, cfg.Listen)
		},
	}
	cmd.Flags().String("listen", "", "listen address (default from config, :8080)")
	return cmd
}

// setup loads the configuration, applies flag overrides and configures logging.
func setup(cmd *cobra.Command) (*config.Config, *greeks.Calculator, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	if flags.Changed("cdf") {
		cfg.CDF, _ = flags.GetString("cdf")
	}
	if flags.Changed("verbosity") {
		cfg.Verbosity, _ = flags.GetInt("verbosity")
	}
	if flags.Changed("days-per-year") {
		cfg.DaysPerYear, _ = flags.GetFloat64("days-per-year")
	}
	if flags.Changed("precision") {
		cfg.Precision, _ = flags.GetInt("precision")
	}
	if f := flags.Lookup("format"); f != nil && f.Changed {
		cfg.Format = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.SetVerbosity(cfg.Verbosity)
	cdf, err := cfg.Provider()
	if err != nil {
		return nil, nil, err
	}
	logger.Debugf("config: days_per_year=%v cdf=%s format=%s precision=%d", cfg.DaysPerYear, cfg.CDF, cfg.Format, cfg.Precision)
	return cfg, greeks.NewCalculator(cdf), nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, calc, err := setup(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	rightFlag, _ := flags.GetString("right")
	rights, err := greeks.ParseRights(rightFlag)
	if err != nil {
		return err
	}

	var p greeks.Params
	p.S0, _ = flags.GetFloat64("spot")
	p.X, _ = flags.GetFloat64("strike")
	p.R, _ = flags.GetFloat64("rate")
	p.Q, _ = flags.GetFloat64("div")
	p.Sigma, _ = flags.GetFloat64("vol")

	switch {
	case flags.Changed("days"):
		days, _ := flags.GetFloat64("days")
		if p.T, err = greeks.YearFraction(days, cfg.DaysPerYear); err != nil {
			return err
		}
	case flags.Changed("t"):
		p.T, _ = flags.GetFloat64("t")
	default:
		return errors.New("one of --days or --t is required")
	}

	logger.Tracef("evaluating %+v", p)
	st, err := calc.Evaluate(p)
	if err != nil {
		return err
	}
	rows, err := report.Rows(st, rights, cfg.DaysPerYear)
	if err != nil {
		return err
	}
	return report.NewWriter(cfg.Precision).Write(cmd.OutOrStdout(), cfg.Format, rows)
}
