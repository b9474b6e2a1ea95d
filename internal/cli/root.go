package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/user/urlsafety-service/internal/app"
	"github.com/user/urlsafety-service/pkg/config"
	"github.com/user/urlsafety-service/pkg/logger"
)

// NewRoot builds the urlsafety command tree.
func NewRoot(version string) *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:           "urlsafety",
		Short:         "urlsafety: hover-time URL safety checks backed by Google Safe Browsing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version
	cmd.SetVersionTemplate("urlsafety {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newClearCacheCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

// withApp loads configuration, builds the application and hands it to fn.
// Logs go to the command's stderr so stdout carries only results.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	envFile, _ := cmd.Root().PersistentFlags().GetString("env-file")
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return err
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
