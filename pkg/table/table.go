// Package table implements the columnar cell table shared by every
// calibration and allocation stage. One row per populated grid cell,
// named float64 columns aligned to the row set, plus label columns for
// categorical results such as the chosen technology.
package table

import "fmt"

// CellID is the stable identity of a grid cell: its row/col index in the
// source raster. Rows appended by the allocator keep the CellID of the
// cell they were split from, so totals can be regrouped by identity.
type CellID struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (id CellID) String() string {
	return fmt.Sprintf("(%d,%d)", id.Row, id.Col)
}

// MissingColumnError reports a required column absent from the table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table: missing required column %q", e.Column)
}

// Table is a set of cells with column-aligned numeric and label data.
// It is exclusively owned by one analysis session and mutated in place
// by the pipeline stages in order.
type Table struct {
	ids    []CellID
	cols   map[string][]float64
	labels map[string][]string
}

// New creates a table over the given cell identities.
func New(ids []CellID) *Table {
	return &Table{
		ids:    ids,
		cols:   make(map[string][]float64),
		labels: make(map[string][]string),
	}
}

// SequentialIDs builds n cell identities for inputs that carry no raster
// index, numbering rows 0..n-1 in column 0.
func SequentialIDs(n int) []CellID {
	ids := make([]CellID, n)
	for i := range ids {
		ids[i] = CellID{Row: i}
	}
	return ids
}

// Len returns the number of rows, including rows appended by splits.
func (t *Table) Len() int {
	return len(t.ids)
}

// ID returns the cell identity of row i.
func (t *Table) ID(i int) CellID {
	return t.ids[i]
}

// SetColumn stores a numeric column. The values slice must match the
// current row count exactly; the table takes ownership of it.
func (t *Table) SetColumn(name string, values []float64) error {
	if len(values) != len(t.ids) {
		return fmt.Errorf("table: column %q has %d values for %d rows", name, len(values), len(t.ids))
	}
	t.cols[name] = values
	return nil
}

// FillColumn creates (or overwrites) a numeric column with a constant.
func (t *Table) FillColumn(name string, value float64) {
	values := make([]float64, len(t.ids))
	for i := range values {
		values[i] = value
	}
	t.cols[name] = values
}

// Column returns a numeric column by name. The returned slice aliases
// table storage; stages mutate it in place.
func (t *Table) Column(name string) ([]float64, error) {
	values, ok := t.cols[name]
	if !ok {
		return nil, &MissingColumnError{Column: name}
	}
	return values, nil
}

// HasColumn reports whether a numeric column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Columns lists the numeric column names in no particular order.
func (t *Table) Columns() []string {
	names := make([]string, 0, len(t.cols))
	for name := range t.cols {
		names = append(names, name)
	}
	return names
}

// SetLabelColumn stores a label (string) column.
func (t *Table) SetLabelColumn(name string, values []string) error {
	if len(values) != len(t.ids) {
		return fmt.Errorf("table: label column %q has %d values for %d rows", name, len(values), len(t.ids))
	}
	t.labels[name] = values
	return nil
}

// FillLabelColumn creates (or overwrites) a label column with a constant.
func (t *Table) FillLabelColumn(name string, value string) {
	values := make([]string, len(t.ids))
	for i := range values {
		values[i] = value
	}
	t.labels[name] = values
}

// LabelColumn returns a label column by name.
func (t *Table) LabelColumn(name string) ([]string, error) {
	values, ok := t.labels[name]
	if !ok {
		return nil, &MissingColumnError{Column: name}
	}
	return values, nil
}

// AppendRow duplicates row i across every column and returns the index
// of the new row. The new row keeps the identity of row i; callers are
// expected to rescale the duplicated values immediately.
func (t *Table) AppendRow(i int) int {
	t.ids = append(t.ids, t.ids[i])
	for name, values := range t.cols {
		t.cols[name] = append(values, values[i])
	}
	for name, values := range t.labels {
		t.labels[name] = append(values, values[i])
	}
	return len(t.ids) - 1
}

// GroupTotal sums a numeric column over all rows sharing the given cell
// identity. Used to check conservation after allocator splits.
func (t *Table) GroupTotal(column string, id CellID) (float64, error) {
	values, err := t.Column(column)
	if err != nil {
		return 0, err
	}
	var total float64
	for i, rowID := range t.ids {
		if rowID == id {
			total += values[i]
		}
	}
	return total, nil
}
