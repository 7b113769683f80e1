package sqlstore

import (
	"database/sql"
	"fmt"
	"goPhenologyRecords/pkg/csvdb"
	"goPhenologyRecords/pkg/utils"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Store mirrors in-memory tables into a single SQLite file.
// Every call opens its own connection and releases it before returning.
type Store struct {
	dbPath string
}

// Column is one column of a persisted table. An empty Type leaves the column untyped.
type Column struct {
	Name string
	Type string
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("database path is empty")
	}
	if err := utils.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, err
	}
	return &Store{dbPath: dbPath}, nil
}

func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open(cDriverName, s.dbPath)
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "%s: %v", s.dbPath, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(ErrConnection, "%s: %v", s.dbPath, err)
	}
	return db, nil
}

// Replace drops tableName and recreates it with the rows of tb.
// Column types are inferred from the values.
func (s *Store) Replace(tableName string, tb *csvdb.Table) error {
	return s.ReplaceWithSchema(tableName, InferColumns(tb), tb)
}

// ReplaceWithSchema drops tableName and recreates it with cols, then inserts all rows of tb.
// cols must line up with the columns of tb.
func (s *Store) ReplaceWithSchema(tableName string, cols []Column, tb *csvdb.Table) (err error) {
	if len(cols) != len(tb.Columns()) {
		return errors.Errorf("schema has %d columns while the table has %d",
			len(cols), len(tb.Columns()))
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(tableName))); err != nil {
		return errors.Wrapf(err, "drop %s", tableName)
	}
	if _, err = tx.Exec(createTableSQL(tableName, cols)); err != nil {
		return errors.Wrapf(err, "create %s", tableName)
	}

	stmt, err := tx.Prepare(insertSQL(tableName, cols))
	if err != nil {
		return errors.Wrapf(err, "prepare insert into %s", tableName)
	}
	defer stmt.Close()

	r, err := tb.SelectRows(nil, nil)
	if err != nil {
		return err
	}
	cnt := 0
	args := make([]interface{}, len(cols))
	for r.Next() {
		for i, v := range r.Values() {
			if v == "" {
				args[i] = nil
			} else {
				args[i] = v
			}
		}
		if _, err = stmt.Exec(args...); err != nil {
			return errors.Wrapf(err, "insert row %d into %s", cnt, tableName)
		}
		cnt++
	}

	if err = tx.Commit(); err != nil {
		return errors.WithStack(err)
	}
	logrus.WithFields(logrus.Fields{
		"db":    s.dbPath,
		"table": tableName,
		"rows":  cnt,
	}).Debug("Replaced table")
	return nil
}

func (s *Store) Count(tableName string) (int, error) {
	db, err := s.open()
	if err != nil {
		return -1, err
	}
	defer db.Close()

	cnt := 0
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(tableName))).Scan(&cnt); err != nil {
		return -1, errors.Wrapf(err, "count %s", tableName)
	}
	return cnt, nil
}

// SelectAll reads back every row of tableName in storage order.
// NULL values are returned as empty strings.
func (s *Store) SelectAll(tableName string) (*csvdb.Table, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", quoteIdent(tableName)))
	if err != nil {
		return nil, errors.Wrapf(err, "select %s", tableName)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	found := make([][]string, 0)
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.WithStack(err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = v.String
		}
		found = append(found, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return csvdb.NewTableWithRows(tableName, columns, found)
}

// TableExists reports whether tableName is present in the database.
func (s *Store) TableExists(tableName string) (bool, error) {
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	cnt := 0
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		tableName).Scan(&cnt)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return cnt > 0, nil
}

// InferColumns picks INTEGER, REAL or TEXT for each column of tb.
// A numeric type is chosen only when every value reads back from SQLite with
// the same text, so the stored table always equals tb.
// Empty values do not take part in the decision; a column with only empty values is TEXT.
func InferColumns(tb *csvdb.Table) []Column {
	columns := tb.Columns()
	cols := make([]Column, len(columns))
	for i, name := range columns {
		isInt := true
		isReal := true
		seen := false
		r, _ := tb.SelectRows(nil, []string{name})
		for r.Next() {
			var v string
			r.Scan(&v)
			if v == "" {
				continue
			}
			seen = true
			if !isCanonicalInt(v) {
				isInt = false
			}
			if !isCanonicalReal(v) {
				isReal = false
			}
		}
		typ := cTypeText
		switch {
		case seen && isInt:
			typ = cTypeInteger
		case seen && isReal:
			typ = cTypeReal
		}
		cols[i] = Column{Name: name, Type: typ}
	}
	return cols
}

// isCanonicalInt accepts values equal to their own int64 formatting.
func isCanonicalInt(v string) bool {
	if !utils.IsInt(v) {
		return false
	}
	i, err := strconv.ParseInt(v, 10, 64)
	return err == nil && strconv.FormatInt(i, 10) == v
}

// isCanonicalReal accepts values equal to the shortest float64 formatting,
// which is how database/sql turns a REAL back into text.
func isCanonicalReal(v string) bool {
	if !utils.IsNumeric(v) {
		return false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return strconv.FormatFloat(f, 'g', -1, 64) == v
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createTableSQL(tableName string, cols []Column) string {
	defs := make([]string, len(cols))
	for i, col := range cols {
		defs[i] = quoteIdent(col.Name)
		if col.Type != "" {
			defs[i] += " " + col.Type
		}
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(defs, ", "))
}

func insertSQL(tableName string, cols []Column) string {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, col := range cols {
		names[i] = quoteIdent(col.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(tableName),
		strings.Join(names, ", "), strings.Join(marks, ", "))
}
