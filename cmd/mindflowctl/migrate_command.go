package main

import (
	"fmt"

	"github.com/phrazzld/mindflow-api/internal/platform/migrations"
	"github.com/phrazzld/mindflow-api/internal/platform/storage"
	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Manage the database schema of the configured store",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{migrations.CommandUp, migrations.CommandDown, migrations.CommandStatus, migrations.CommandVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := migrations.CommandUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			st, err := storage.Open(cmd.Context(), cfg.Database, ctx.logger(cmd))
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			version, err := st.Run(cmd.Context(), command)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Backend: %s\nSchema version: %d\n", st.Dialect, version)
			return nil
		},
	}
}
