package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbdeck-io/dbdeck/internal/cli/config"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	var (
		schema   string
		format   string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "browse <table>",
		Short: "Read a page of rows from a table",
		Long: `Read one page of rows from a table.

Pages are zero-indexed and ordered by primary key when the table has one,
so repeated reads of the same page are stable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			size := pageSize
			if size <= 0 {
				size = cctx.Cfg.PageSize
			}

			sch := resolveSchema(cctx.Cfg, schema)
			view, err := cctx.Service.FetchPage(cmd.Context(), sch, args[0], page, size)
			if err != nil {
				return err
			}

			if format == "json" {
				return renderJSON(cmd.OutOrStdout(), view)
			}

			cols := view.Page.Descriptor.ColumnNames()
			if err := renderRows(cmd.OutOrStdout(), cols, view.Page.Rows, format); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d rows total)\n",
				page+1, view.PageCount, view.TotalRows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&schema, "schema", "s", "", "Schema containing the table")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table|json|csv)")
	cmd.Flags().IntVarP(&page, "page", "p", 0, "Zero-indexed page to fetch")
	cmd.Flags().IntVar(&pageSize, "page-size", 0,
		fmt.Sprintf("Rows per page (defaults to configured page size; common choices %v)", config.PageSizePresets))
	return cmd
}
