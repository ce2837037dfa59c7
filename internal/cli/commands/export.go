package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var (
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "export [schema]",
		Short: "Export the structure of a schema as JSON",
		Long: `Export the column structure of every table in a schema as JSON.

Tables that cannot be introspected are skipped and reported on stderr.
With --compact the export is a table-to-column-names map instead of the
full column detail.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			schema := resolveSchema(cctx.Cfg, argOrEmpty(args, 0))

			if compact {
				out, diags, err := cctx.Service.ExportSchemaJSON(cmd.Context(), schema)
				if err != nil {
					return err
				}
				printDiagnostics(cmd.ErrOrStderr(), diags)
				return renderJSON(cmd.OutOrStdout(), out)
			}

			out, diags, err := cctx.Service.ExportSchema(cmd.Context(), schema)
			if err != nil {
				return err
			}
			printDiagnostics(cmd.ErrOrStderr(), diags)
			if err := renderJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if len(diags) > 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "export finished with %d table%s skipped\n",
					len(diags), plural(len(diags)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Emit a table-to-columns map instead of full detail")
	return cmd
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
