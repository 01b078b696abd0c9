package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorrc/glpi-dashboard/internal/adapters/secondary/glpi"
	"github.com/lorrc/glpi-dashboard/internal/config"
	"github.com/lorrc/glpi-dashboard/internal/core/services"
	"github.com/lorrc/glpi-dashboard/internal/infrastructure/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "glpi-report",
		Short: "Print which group each GLPI ticket is assigned to",
		Long: `glpi-report opens a GLPI session, discovers how this GLPI instance links
tickets to groups, and prints a Markdown table of every ticket with its group.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context())
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runReport(ctx context.Context) error {
	cfg, err := config.LoadGLPI()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      "text",
		Output:      os.Stdout,
		ServiceName: "glpi-report",
		OmitTime:    true,
	})

	client := glpi.NewClient(glpi.Config{
		BaseURL:           cfg.GLPI.URL,
		Timeout:           cfg.GLPI.Timeout,
		RequestsPerSecond: cfg.GLPI.RateLimit,
	}, glpi.NewSession(cfg.GLPI.AppToken, cfg.GLPI.UserToken), logger)

	logger.Info("starting glpi report", "url", cfg.GLPI.URL)
	if err := client.InitSession(ctx); err != nil {
		return err
	}
	defer func() {
		killCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.KillSession(killCtx); err != nil {
			logger.Warn("failed to close glpi session", "error", err)
		}
	}()

	report, err := services.NewReportService(client, client, logger).Build(ctx)
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)
	return nil
}
