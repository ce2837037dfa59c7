package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// Reconciler diffs an edited page against its original snapshot and persists
// the changed rows as targeted updates inside a single transaction.
type Reconciler struct {
	drv    driver.Driver
	logger *slog.Logger
}

// NewReconciler creates a reconciler over drv. A nil logger means discard.
func NewReconciler(drv driver.Driver, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{drv: drv, logger: logger}
}

// Result reports the outcome of a successful reconciliation.
type Result struct {
	RowsUpdated int `json:"rows_updated"`
}

// Reconcile applies the differences between original and edited to the
// database. Rows are paired by position; a row counts as changed when any
// column value differs structurally. Changed rows become UPDATE statements
// targeted by the primary-key values of the original row, all executed in
// one transaction: either every changed row is persisted or none is.
//
// Tables without a primary key are refused before any statement is issued,
// since their rows cannot be addressed unambiguously.
func (r *Reconciler) Reconcile(ctx context.Context, desc *core.TableDescriptor, original, edited *core.Page) (*Result, error) {
	if original == nil || edited == nil {
		return nil, core.Errorf(core.KindInvalidInput, "both original and edited pages are required")
	}
	if original.Descriptor != nil && original.Descriptor.QualifiedName() != desc.QualifiedName() {
		return nil, core.Errorf(core.KindInvalidInput, "page belongs to %s, not %s",
			original.Descriptor.QualifiedName(), desc.QualifiedName())
	}
	if !desc.HasPrimaryKey() {
		return nil, core.Errorf(core.KindAmbiguousTarget,
			"table %s has no primary key; updates cannot be targeted", desc.QualifiedName())
	}

	deltas := ComputeDeltas(desc, original, edited)
	if len(deltas) == 0 {
		r.logger.Debug("no changes detected", "table", desc.QualifiedName())
		return &Result{RowsUpdated: 0}, nil
	}

	tx, err := r.drv.Pool().BeginTx(ctx, nil)
	if err != nil {
		return nil, core.Wrap(core.KindUpdate, err, "begin transaction on %s", desc.QualifiedName())
	}

	for _, delta := range deltas {
		stmt, args := r.buildUpdate(desc, delta)
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			_ = tx.Rollback()
			return nil, core.Wrap(core.KindUpdate, err, "update %s %s; transaction rolled back",
				desc.QualifiedName(), delta)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, core.Wrap(core.KindUpdate, err, "commit updates to %s", desc.QualifiedName())
	}

	r.logger.Info("reconciled page",
		"table", desc.QualifiedName(), "rows_updated", len(deltas))
	return &Result{RowsUpdated: len(deltas)}, nil
}

// ComputeDeltas pairs rows by position and returns one delta per changed
// row. Key values are captured from the original row, never the edited one.
// Rows present in only one of the pages have no counterpart to compare
// against and are skipped; insert and delete are not reconciliation.
func ComputeDeltas(desc *core.TableDescriptor, original, edited *core.Page) []core.RowDelta {
	keys := desc.PrimaryKey()
	names := desc.ColumnNames()

	n := len(original.Rows)
	if len(edited.Rows) < n {
		n = len(edited.Rows)
	}

	var deltas []core.RowDelta
	for i := 0; i < n; i++ {
		origRow, editRow := original.Rows[i], edited.Rows[i]
		if rowsEqual(names, origRow, editRow) {
			continue
		}

		keyVals := make(core.Row, len(keys))
		for _, k := range keys {
			keyVals[k] = origRow[k]
		}
		newVals := make(core.Row, len(names))
		for _, name := range names {
			newVals[name] = core.NormalizeValue(editRow[name])
		}
		deltas = append(deltas, core.RowDelta{Index: i, Keys: keyVals, Values: newVals})
	}
	return deltas
}

func rowsEqual(names []string, a, b core.Row) bool {
	for _, name := range names {
		if !core.ValuesEqual(a[name], b[name]) {
			return false
		}
	}
	return true
}

// buildUpdate renders one parameterized UPDATE for a delta: SET every column
// to its edited value, WHERE an AND-conjunction over the primary-key columns
// bound to the original key values.
func (r *Reconciler) buildUpdate(desc *core.TableDescriptor, delta core.RowDelta) (string, []any) {
	names := desc.ColumnNames()
	keys := desc.PrimaryKey()

	sets := make([]string, len(names))
	args := make([]any, 0, len(names)+len(keys))
	for i, name := range names {
		sets[i] = fmt.Sprintf("%s = %s", r.drv.QuoteIdent(name), r.drv.Placeholder(i+1))
		args = append(args, delta.Values[name])
	}

	conds := make([]string, len(keys))
	for i, k := range keys {
		conds[i] = fmt.Sprintf("%s = %s", r.drv.QuoteIdent(k), r.drv.Placeholder(len(names)+i+1))
		args = append(args, delta.Keys[k])
	}

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		r.qualify(desc), strings.Join(sets, ", "), strings.Join(conds, " AND "))
	return stmt, args
}

func (r *Reconciler) qualify(desc *core.TableDescriptor) string {
	if desc.Schema == "" {
		return r.drv.QuoteIdent(desc.Name)
	}
	return r.drv.QuoteIdent(desc.Schema) + "." + r.drv.QuoteIdent(desc.Name)
}
