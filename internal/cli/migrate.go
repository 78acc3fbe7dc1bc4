package cli

import (
	"gift_catalog/internal/db"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, gdb, err := bootstrap(rootOpts)
			if err != nil {
				return err
			}
			defer db.Close(gdb)
			return db.Migrate(gdb, log)
		},
	}
}
