package csvdb

import (
	"fmt"

	"github.com/pkg/errors"
)

type Rows struct {
	rows               [][]string
	pos                int
	values             []string
	selectedColIndexes []int
	tableCols          []string
	conditionCheckFunc func([]string) bool
}

func newRows(conditionCheckFunc func([]string) bool,
	tableCols, selectedCols []string, rows [][]string) (*Rows, error) {
	r := new(Rows)
	r.rows = rows
	r.pos = -1
	r.conditionCheckFunc = conditionCheckFunc
	r.tableCols = tableCols

	colIndexes := make([]int, len(selectedCols))
	for i, cols := range selectedCols {
		ok := false
		for j, colt := range tableCols {
			if colt == cols {
				colIndexes[i] = j
				ok = true
				break
			}
		}
		if !ok {
			return nil, errors.Wrapf(ErrColumnNotFound, "col %s is not in the table", cols)
		}
	}
	r.selectedColIndexes = colIndexes
	return r, nil
}

func (r *Rows) Next() bool {
	for r.pos+1 < len(r.rows) {
		r.pos++
		v := r.rows[r.pos]
		if r.conditionCheckFunc == nil || r.conditionCheckFunc(v) {
			r.values = v
			return true
		}
	}
	r.values = nil
	return false
}

// Values returns a copy of the current row.
func (r *Rows) Values() []string {
	return append([]string{}, r.values...)
}

func (r *Rows) Scan(args ...interface{}) error {
	v := r.values
	if v == nil {
		return errors.New("Scan called without a current row")
	}
	if len(r.selectedColIndexes) == 0 {
		if len(args) != len(r.tableCols) {
			return errors.New(fmt.Sprintf("Got %d args while expected %d",
				len(args), len(r.tableCols)))
		}
		for i := range r.tableCols {
			if err := convFromString(v[i], args[i]); err != nil {
				return err
			}
		}
	} else {
		if len(args) != len(r.selectedColIndexes) {
			return errors.New(fmt.Sprintf("Got %d args while expected %d",
				len(args), len(r.selectedColIndexes)))
		}
		for argidx, colidx := range r.selectedColIndexes {
			if err := convFromString(v[colidx], args[argidx]); err != nil {
				return err
			}
		}
	}
	return nil
}
