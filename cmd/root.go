/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/errs"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "conferencehall",
	Short:        "Call for papers proposal lifecycle and review engine",
	Long:         "Manage CFP proposals, reviews, deliberation and organizer search. Cobra + Viper + GORM (SQLite no-cgo or MySQL).",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		logger := logging.New(cmd.ErrOrStderr(), logFormat, logLevel)
		cmdCtx := logging.WithLogger(cmd.Context(), logger)
		cmd.SetContext(logging.WithAttrs(cmdCtx, slog.String("app", "conferencehall")))
	}

	ctx = logging.WithAttrs(ctx, slog.String("app", "conferencehall"))
	rootCmd.SetContext(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default ./configs/config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text|json")
}
