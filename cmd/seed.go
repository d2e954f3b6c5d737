/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"conferencehall/internal/bootstrap"
	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/errs"
	"conferencehall/internal/infrastructure/persistence/sqlite/seed"
	"conferencehall/internal/usecase/cfp"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users, teams and events from a TOML fixture",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *cfp.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		file, _ := cmd.Flags().GetString("file")
		fixture, err := seed.LoadFile(file)
		if err != nil {
			return errs.Wrap(err, "load seed fixture")
		}

		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			if err := app.InitSchema(ctx); err != nil {
				return errs.Wrap(err, "initialize schema")
			}
		}

		counts, err := seed.Apply(ctx, app.DB, fixture, file)
		if err != nil {
			logging.Error(ctx, "apply seed fixture failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "apply seed fixture")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"seeded users=%d teams=%d members=%d events=%d formats=%d categories=%d\n",
			counts.Users,
			counts.Teams,
			counts.Members,
			counts.Events,
			counts.Formats,
			counts.Categories,
		); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("file", "configs/seed.example.toml", "Seed fixture path")
	seedCmd.Flags().Bool("migrate", false, "Run schema migration before seeding")
}
