package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbdeck-io/dbdeck/pkg/core"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	var (
		schema string
		format string
	)

	cmd := &cobra.Command{
		Use:   "describe <table>",
		Short: "Show the column structure of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sch := resolveSchema(cctx.Cfg, schema)
			desc, err := cctx.Service.Describe(cmd.Context(), sch, args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				return renderJSON(cmd.OutOrStdout(), desc)
			}

			cols := []string{"position", "name", "type", "nullable", "primary_key"}
			rows := make([]core.Row, 0, len(desc.Columns))
			for _, c := range desc.Columns {
				rows = append(rows, core.Row{
					"position":    strconv.Itoa(c.Position),
					"name":        c.Name,
					"type":        c.Type,
					"nullable":    strconv.FormatBool(c.Nullable),
					"primary_key": strconv.FormatBool(c.PrimaryKey),
				})
			}
			if err := renderRows(cmd.OutOrStdout(), cols, rows, format); err != nil {
				return err
			}

			if pk := desc.PrimaryKey(); len(pk) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Primary key: %s\n", strings.Join(pk, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&schema, "schema", "s", "", "Schema containing the table")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table|json|csv)")
	return cmd
}
