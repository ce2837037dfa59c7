package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dbdeck-io/dbdeck/internal/bulk"
)

// NewTruncateCommand creates the truncate command.
func NewTruncateCommand() *cobra.Command {
	var (
		schema string
		except []string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "truncate",
		Short: "Delete all rows from every table in a schema",
		Long: `Delete all rows from every table in a schema.

Tables named with --except are left untouched. The affected tables are
listed first; pass --yes to proceed. Failures on individual tables are
reported and do not stop the remaining tables.`,
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

			excluded := make(map[string]struct{}, len(except))
			for _, t := range except {
				excluded[t] = struct{}{}
			}
			targets := make([]string, 0, len(tables))
			for _, t := range tables {
				if _, skip := excluded[t]; !skip {
					targets = append(targets, t)
				}
			}

			if len(targets) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No tables to truncate in schema %q\n", sch)
				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Will truncate %d table%s in schema %q: %s\n",
				len(targets), plural(len(targets)), sch, joinNames(targets))
			if !yes {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Re-run with --yes to proceed.")
				return nil
			}

			report, err := cctx.Service.TruncateExcept(cmd.Context(), sch, except)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), "truncated", report)
		},
	}

	cmd.Flags().StringVarP(&schema, "schema", "s", "", "Schema to operate on")
	cmd.Flags().StringSliceVar(&except, "except", nil, "Tables to leave untouched")
	cmd.Flags().BoolVar(&yes, "yes", false, "Proceed without interactive confirmation")
	return cmd
}

// printReport summarizes a bulk operation, one line per failed table.
func printReport(w io.Writer, verb string, report *bulk.Report) error {
	failed := 0
	for _, o := range report.Outcomes {
		if o.Err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "failed: %s: %v\n", o.Table, o.Err)
		}
	}
	_, _ = fmt.Fprintf(w, "%s %d table%s", verb, report.Succeeded(), plural(report.Succeeded()))
	if failed > 0 {
		_, _ = fmt.Fprintf(w, ", %d failed", failed)
	}
	_, _ = fmt.Fprintln(w)
	if failed > 0 {
		return fmt.Errorf("%d of %d tables failed", failed, len(report.Outcomes))
	}
	return nil
}
