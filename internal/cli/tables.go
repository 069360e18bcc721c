package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRenameTableCommand creates the rename-table command.
func NewRenameTableCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename-table <from> <to>",
		Short: "Rename a tenant table to a numeric location id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, closeDB, err := rootOpts.locations(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := uc.RenameTable(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

// NewMigrateTableNamesCommand creates the migrate-table-names command.
func NewMigrateTableNamesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-table-names",
		Short: "Rename tables still named by a location token to the numeric id",
		Long: `Older deployments named each tenant table after the location token.
migrate-table-names renames every such table to the location's numeric id.
Locations that already have a numeric table are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, closeDB, err := rootOpts.locations(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := uc.MigrateTableNames(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration stopped after %d table(s): %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed %d table(s)\n", n)
			return nil
		},
	}
}

// NewDropCommand creates the drop command.
func NewDropCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <token>",
		Short: "Drop the tenant table of a location, keeping its registry row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := rootOpts.codec()
			if err != nil {
				return err
			}
			id, err := codec.DecodeSingle(args[0])
			if err != nil {
				return err
			}

			uc, closeDB, err := rootOpts.locations(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := uc.DropTable(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dropped table %d\n", id)
			return nil
		},
	}
}
