package domain

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is an ordered sequence of rows sharing a fixed column schema.
// Cells are kept as the raw text read from the source; typing happens downstream.
//
// Tables are treated as immutable once handed to the next stage. Stages that need
// a modified table build a new one (see Clone).
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		Columns: cols,
		Rows:    make([][]string, 0),
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1 when absent
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// MissingColumns returns the names that are not part of the table's schema, in the order given
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, name := range names {
		if t.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	return missing
}

// Cell returns the cell at (row, col). Out-of-range columns read as an empty cell.
func (t *Table) Cell(row, col int) string {
	cells := t.Rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}

// Append adds a row. The cells are copied.
func (t *Table) Append(cells ...string) {
	row := make([]string, len(cells))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	clone := NewTable(t.Columns...)
	clone.Rows = make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		clone.Append(row...)
	}
	return clone
}

// Frame returns the table as a dataframe with one string series per column.
// Short rows read as empty cells.
func (t *Table) Frame() (dataframe.DataFrame, error) {
	if t == nil || len(t.Columns) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("table has no columns")
	}

	cols := make([]series.Series, len(t.Columns))
	for j, name := range t.Columns {
		cells := make([]string, len(t.Rows))
		for i := range t.Rows {
			cells[i] = t.Cell(i, j)
		}
		cols[j] = series.New(cells, series.String, name)
	}

	df := dataframe.New(cols...)
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build frame: %w", err)
	}
	return df, nil
}
