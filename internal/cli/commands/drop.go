package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDropCommand creates the drop command.
func NewDropCommand() *cobra.Command {
	var (
		schema string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every table in a schema",
		Long: `Drop every table in a schema.

The affected tables are listed first; pass --yes to proceed. Failures on
individual tables are reported and do not stop the remaining tables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sch := resolveSchema(cctx.Cfg, schema)
			tables, err := cctx.Service.ListTables(cmd.Context(), sch)
			if err != nil {
				return err
			}

			if len(tables) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No tables to drop in schema %q\n", sch)
				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Will drop %d table%s in schema %q: %s\n",
				len(tables), plural(len(tables)), sch, joinNames(tables))
			if !yes {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Re-run with --yes to proceed.")
				return nil
			}

			report, err := cctx.Service.DropAll(cmd.Context(), sch)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), "dropped", report)
		},
	}

	cmd.Flags().StringVarP(&schema, "schema", "s", "", "Schema to operate on")
	cmd.Flags().BoolVar(&yes, "yes", false, "Proceed without interactive confirmation")
	return cmd
}
