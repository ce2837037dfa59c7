package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCountCommand creates the count command.
func NewCountCommand() *cobra.Command {
	var schema string

	cmd := &cobra.Command{
		Use:   "count <table>",
		Short: "Count the rows in a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sch := resolveSchema(cctx.Cfg, schema)
			total, err := cctx.Service.CountRows(cmd.Context(), sch, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&schema, "schema", "s", "", "Schema containing the table")
	return cmd
}
