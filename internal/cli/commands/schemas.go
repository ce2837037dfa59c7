package commands

import (
	"github.com/spf13/cobra"
)

// NewSchemasCommand creates the schemas command.
func NewSchemasCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "List schemas on the target database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			schemas, diags, err := cctx.Service.ListSchemas(cmd.Context())
			if err != nil {
				return err
			}
			printDiagnostics(cmd.ErrOrStderr(), diags)
			return renderList(cmd.OutOrStdout(), schemas, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table|json)")
	return cmd
}
