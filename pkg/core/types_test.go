package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDescriptor() *TableDescriptor {
	return &TableDescriptor{
		Schema: "public",
		Name:   "orders",
		Columns: []Column{
			{Name: "line", Type: "integer", Position: 2, PrimaryKey: true},
			{Name: "id", Type: "integer", Position: 1, PrimaryKey: true},
			{Name: "amount", Type: "numeric", Position: 3, Nullable: true},
		},
	}
}

func TestTableDescriptor_PrimaryKey(t *testing.T) {
	tests := []struct {
		name string
		desc *TableDescriptor
		want []string
	}{
		{
			name: "composite key in ordinal order",
			desc: testDescriptor(),
			want: []string{"id", "line"},
		},
		{
			name: "no key",
			desc: &TableDescriptor{
				Name:    "logs",
				Columns: []Column{{Name: "message", Position: 1}},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.desc.PrimaryKey()
			assert.ElementsMatch(t, tt.want, got)
			if len(tt.want) > 1 {
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, len(tt.want) > 0, tt.desc.HasPrimaryKey())
		})
	}
}

func TestTableDescriptor_ColumnNames(t *testing.T) {
	desc := testDescriptor()
	assert.Equal(t, []string{"line", "id", "amount"}, desc.ColumnNames())
}

func TestTableDescriptor_QualifiedName(t *testing.T) {
	assert.Equal(t, "public.orders", testDescriptor().QualifiedName())
	assert.Equal(t, "orders", (&TableDescriptor{Name: "orders"}).QualifiedName())
}

func TestRow_Clone(t *testing.T) {
	orig := Row{"id": 1, "name": "a"}
	clone := orig.Clone()

	clone["name"] = "b"
	assert.Equal(t, "a", orig["name"])
	assert.Equal(t, "b", clone["name"])
}

func TestRowDelta_String(t *testing.T) {
	d := RowDelta{Index: 3, Keys: Row{"id": int64(7)}}
	assert.Equal(t, "row 3 (id=7)", d.String())

	d = RowDelta{Index: 0, Keys: Row{"b": "x", "a": float64(2)}}
	assert.Equal(t, "row 0 (a=2, b=x)", d.String())
}
