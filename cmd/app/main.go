package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"MarketRegime/internal/di"
	"MarketRegime/pkg/config"
	"MarketRegime/pkg/server"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	format     string
	period     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "regime",
		Short:         "Market regime risk classifier",
		Long:          "Fetches daily closes for the configured instruments, computes distortion, credit and rate indicators, and prints a 4-level risk report.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "config/config.yaml", "config file path")
	addRunFlags(root, opts)

	root.AddCommand(runCmd(opts))
	root.AddCommand(serveCmd(opts))
	return root
}

func addRunFlags(cmd *cobra.Command, opts *rootOptions) {
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text or json")
	cmd.Flags().StringVar(&opts.period, "period", "", "lookback period (6mo, 1y, 2y, 5y, 10y); defaults to provider.period")
}

func runCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate the regime once and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd.Context(), opts)
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve regime reports over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := initApp(opts.configPath)
			if err != nil {
				return err
			}
			defer cleanup()
			return app.Serve(cmd.Context())
		},
	}
}

func runOnce(ctx context.Context, opts *rootOptions) error {
	app, cleanup, err := initApp(opts.configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = app.RunOnce(ctx, os.Stdout, opts.format, opts.period)
	return err
}

func initApp(path string) (*server.App, func(), error) {
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config load failed: %w", err)
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("app initialization failed: %w", err)
	}
	return app, cleanup, nil
}
