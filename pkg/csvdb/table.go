package csvdb

import (
	"fmt"

	"github.com/pkg/errors"
)

// Table is an in-memory set of rows with named columns.
// Every operation that changes rows returns a new Table and leaves the receiver as is.
type Table struct {
	tableName string
	columns   []string
	colMap    map[string]int
	rows      [][]string
}

// ColumnMapping renames a source column while projecting a Table.
type ColumnMapping struct {
	From string
	To   string
}

func NewTable(tableName string, columns []string) (*Table, error) {
	t := new(Table)
	t.tableName = tableName
	t.columns = append([]string{}, columns...)
	colMap := make(map[string]int)
	for i, col := range columns {
		if _, ok := colMap[col]; ok {
			return nil, errors.New(fmt.Sprintf("column %s is duplicated", col))
		}
		colMap[col] = i
	}
	t.colMap = colMap
	t.rows = make([][]string, 0)
	return t, nil
}

// NewTableWithRows builds a Table from already split rows.
// Each row must have one value per column.
func NewTableWithRows(tableName string, columns []string, rows [][]string) (*Table, error) {
	t, err := NewTable(tableName, columns)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.Errorf("row %d has %d values while the table has %d columns",
				i, len(row), len(columns))
		}
		t.rows = append(t.rows, append([]string{}, row...))
	}
	return t, nil
}

func (t *Table) Name() string {
	return t.tableName
}

func (t *Table) Columns() []string {
	return append([]string{}, t.columns...)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Row(idx int) ([]string, error) {
	if idx < 0 || idx >= len(t.rows) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d, rows %d", idx, len(t.rows))
	}
	return append([]string{}, t.rows[idx]...), nil
}

func (t *Table) GetColIdx(colName string) int {
	i, ok := t.colMap[colName]
	if ok {
		return i
	}
	return -1
}

// withRows returns a table sharing the column definition of t.
func (t *Table) withRows(rows [][]string) *Table {
	n := new(Table)
	n.tableName = t.tableName
	n.columns = t.columns
	n.colMap = t.colMap
	n.rows = rows
	return n
}

func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = append([]string{}, row...)
	}
	return t.withRows(rows)
}

func (t *Table) Count(conditionCheckFunc func([]string) bool) int {
	if conditionCheckFunc == nil {
		return len(t.rows)
	}
	cnt := 0
	for _, v := range t.rows {
		if conditionCheckFunc(v) {
			cnt++
		}
	}
	return cnt
}

// Where returns a condition matching rows whose column equals value.
// Values are compared as plain strings.
func (t *Table) Where(column, value string) (func([]string) bool, error) {
	idx := t.GetColIdx(column)
	if idx < 0 {
		return nil, errors.Wrapf(ErrColumnNotFound, "column %q", column)
	}
	return func(v []string) bool {
		return v[idx] == value
	}, nil
}

func (t *Table) Select(conditionCheckFunc func([]string) bool) *Table {
	found := make([][]string, 0)
	for _, v := range t.rows {
		if conditionCheckFunc == nil || conditionCheckFunc(v) {
			found = append(found, append([]string{}, v...))
		}
	}
	return t.withRows(found)
}

func (t *Table) SelectRows(conditionCheckFunc func([]string) bool,
	colNames []string) (*Rows, error) {
	return newRows(conditionCheckFunc, t.columns, colNames, t.rows)
}

func (t *Table) InsertRow(columns []string, args ...interface{}) (*Table, error) {
	if columns == nil && len(args) != len(t.columns) {
		return nil, errors.New("len of args do not match to table columns")
	}
	if columns != nil && len(columns) != len(args) {
		return nil, errors.New("len of columns and args do not match")
	}

	row := make([]string, len(t.columns))
	if columns == nil {
		for i, v := range args {
			row[i] = asString(v)
		}
	} else {
		for i, col := range columns {
			j, ok := t.colMap[col]
			if !ok {
				return nil, errors.Wrapf(ErrColumnNotFound, "column %q", col)
			}
			row[j] = asString(args[i])
		}
	}

	n := t.Clone()
	n.rows = append(n.rows, row)
	return n, nil
}

func (t *Table) Update(conditionCheckFunc func([]string) bool,
	updates map[string]interface{}) (*Table, error) {
	for col := range updates {
		if _, ok := t.colMap[col]; !ok {
			return nil, errors.Wrapf(ErrColumnNotFound, "column %q", col)
		}
	}

	n := t.Clone()
	for _, v := range n.rows {
		if conditionCheckFunc == nil || conditionCheckFunc(v) {
			for col, updv := range updates {
				v[t.colMap[col]] = asString(updv)
			}
		}
	}
	return n, nil
}

// DeleteAt removes the row at the zero based position idx.
func (t *Table) DeleteAt(idx int) (*Table, error) {
	if idx < 0 || idx >= len(t.rows) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d, rows %d", idx, len(t.rows))
	}
	n := t.Clone()
	n.rows = append(n.rows[:idx], n.rows[idx+1:]...)
	return n, nil
}

func (t *Table) Delete(conditionCheckFunc func([]string) bool) *Table {
	if conditionCheckFunc == nil {
		return t.Truncate()
	}
	return t.Select(func(v []string) bool {
		return !conditionCheckFunc(v)
	})
}

func (t *Table) Truncate() *Table {
	return t.withRows(make([][]string, 0))
}

// Skip drops the first n rows.
func (t *Table) Skip(n int) *Table {
	if n <= 0 {
		return t.Clone()
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return t.Clone().sliceRows(n, len(t.rows))
}

// Head keeps the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return t.Clone().sliceRows(0, n)
}

func (t *Table) sliceRows(from, to int) *Table {
	t.rows = t.rows[from:to]
	return t
}

func (t *Table) Project(mappings []ColumnMapping) (*Table, error) {
	idxs := make([]int, len(mappings))
	columns := make([]string, len(mappings))
	for i, m := range mappings {
		j := t.GetColIdx(m.From)
		if j < 0 {
			return nil, errors.Wrapf(ErrColumnNotFound, "column %q", m.From)
		}
		idxs[i] = j
		columns[i] = m.To
	}

	n, err := NewTable(t.tableName, columns)
	if err != nil {
		return nil, err
	}
	for _, v := range t.rows {
		row := make([]string, len(idxs))
		for i, j := range idxs {
			row[i] = v[j]
		}
		n.rows = append(n.rows, row)
	}
	return n, nil
}

// Rename returns the same rows under another table name.
func (t *Table) Rename(tableName string) *Table {
	n := t.Clone()
	n.tableName = tableName
	return n
}
