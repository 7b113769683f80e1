package phenology

import (
	"bufio"
	"fmt"
	"goPhenologyRecords/pkg/csvdb"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const cMenu = `
 1. Read\Reload Data
 2. Add a new row
 3. Display a record
 4. Edit a record
 5. Delete a record
 6. Exit

 Enter your choice: `

// TableReplacer replaces the persisted content of a named table.
type TableReplacer interface {
	Replace(tableName string, tb *csvdb.Table) error
}

// Console drives the numbered menu. Each action changes the working table
// and then mirrors it into the store.
type Console struct {
	scanner   *bufio.Scanner
	out       io.Writer
	loader    *Loader
	store     TableReplacer
	tableName string
	banner    string
	table     *csvdb.Table
}

func NewConsole(in io.Reader, out io.Writer,
	loader *Loader, store TableReplacer,
	tableName, banner string) (*Console, error) {
	tb, err := loader.Load()
	if err != nil {
		return nil, err
	}
	c := new(Console)
	c.scanner = bufio.NewScanner(in)
	c.out = out
	c.loader = loader
	c.store = store
	c.tableName = tableName
	c.banner = banner
	c.table = tb
	return c, nil
}

// Table returns the current working table.
func (c *Console) Table() *csvdb.Table {
	return c.table
}

// Run loops until the exit choice is made or the input ends.
func (c *Console) Run() error {
	for {
		if c.banner != "" {
			fmt.Fprintln(c.out, c.banner)
		}
		choice, err := c.prompt(cMenu)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !c.handle(choice) {
			return nil
		}
	}
}

// handle runs one menu choice and tells whether the loop goes on.
func (c *Console) handle(choice string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < cChoiceReload || n > cChoiceExit {
		fmt.Fprintln(c.out, "Invalid Option !!")
		return true
	}

	var tb *csvdb.Table
	switch n {
	case cChoiceReload:
		tb, err = c.loader.Load()
	case cChoiceAdd:
		tb, err = c.addRecord()
	case cChoiceDisplay:
		tb, err = c.displayRecord()
	case cChoiceEdit:
		tb, err = c.editRecord()
	case cChoiceDelete:
		tb, err = c.deleteRecord()
	case cChoiceExit:
		return false
	}
	if err == io.EOF {
		return false
	}
	if err != nil {
		logrus.WithError(err).WithField("choice", n).Debug("Menu action failed")
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return true
	}

	c.table = tb
	if err := c.store.Replace(c.tableName, c.table); err != nil {
		logrus.WithError(err).WithField("table", c.tableName).Error("Failed to save records")
		fmt.Fprintf(c.out, "Error: records were not saved: %v\n", err)
	}
	return true
}

func (c *Console) prompt(message string) (string, error) {
	fmt.Fprint(c.out, message)
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", errors.WithStack(err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(c.scanner.Text(), "\r"), nil
}

func (c *Console) addRecord() (*csvdb.Table, error) {
	columns := c.table.Columns()
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		v, err := c.prompt(fmt.Sprintf("Enter the value for %s column: ", col))
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	tb, err := c.table.InsertRow(nil, args...)
	if err != nil {
		return nil, err
	}
	row, _ := tb.Row(tb.Len() - 1)
	fmt.Fprintln(c.out, c.render(columns, [][]string{row}, tb.Len()-1))
	return tb, nil
}

// promptCondition asks for a column and a value and returns rows equal to it.
func (c *Console) promptCondition() (func([]string) bool, error) {
	column, err := c.prompt("Enter the column name: ")
	if err != nil {
		return nil, err
	}
	value, err := c.prompt("Enter the value: ")
	if err != nil {
		return nil, err
	}
	return c.table.Where(column, value)
}

func (c *Console) displayRecord() (*csvdb.Table, error) {
	cond, err := c.promptCondition()
	if err != nil {
		return nil, err
	}
	c.printMatches(cond)
	return c.table, nil
}

func (c *Console) editRecord() (*csvdb.Table, error) {
	cond, err := c.promptCondition()
	if err != nil {
		return nil, err
	}
	c.printMatches(cond)
	editColumn, err := c.prompt("Enter the editing column: ")
	if err != nil {
		return nil, err
	}
	editValue, err := c.prompt("Enter the value: ")
	if err != nil {
		return nil, err
	}
	return c.table.Update(cond, map[string]interface{}{editColumn: editValue})
}

func (c *Console) deleteRecord() (*csvdb.Table, error) {
	s, err := c.prompt("Enter index of record: ")
	if err != nil {
		return nil, err
	}
	idx, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Errorf("index %q is not a number", s)
	}
	return c.table.DeleteAt(idx)
}

func (c *Console) printMatches(cond func([]string) bool) {
	rows := make([][]string, 0)
	indexes := make([]int, 0)
	r, _ := c.table.SelectRows(nil, nil)
	for i := 0; r.Next(); i++ {
		v := r.Values()
		if cond(v) {
			rows = append(rows, v)
			indexes = append(indexes, i)
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "No matching records")
		return
	}
	fmt.Fprintln(c.out, c.renderIndexed(c.table.Columns(), rows, indexes))
}

func (c *Console) render(columns []string, rows [][]string, firstIdx int) string {
	indexes := make([]int, len(rows))
	for i := range rows {
		indexes[i] = firstIdx + i
	}
	return c.renderIndexed(columns, rows, indexes)
}

// renderIndexed prints rows with their position in the working table as the first column.
func (c *Console) renderIndexed(columns []string, rows [][]string, indexes []int) string {
	tw := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(append([]string{""}, columns...)...)
	for i, row := range rows {
		tw.Row(append([]string{strconv.Itoa(indexes[i])}, row...)...)
	}
	return tw.String()
}
