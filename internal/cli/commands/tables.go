package commands

import (
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tables [schema]",
		Short: "List tables in a schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			schema := resolveSchema(cctx.Cfg, argOrEmpty(args, 0))
			tables, err := cctx.Service.ListTables(cmd.Context(), schema)
			if err != nil {
				return err
			}
			return renderList(cmd.OutOrStdout(), tables, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table|json)")
	return cmd
}

func argOrEmpty(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
