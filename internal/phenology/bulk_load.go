package phenology

import (
	"goPhenologyRecords/pkg/csvdb"
	"goPhenologyRecords/pkg/sqlstore"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SchemaReplacer replaces a table using an explicit column layout.
type SchemaReplacer interface {
	ReplaceWithSchema(tableName string, cols []sqlstore.Column, tb *csvdb.Table) error
}

// InitialLoad copies every row of the raw file into tableName using the fixed
// nine column layout. Unlike Loader it keeps the unit row and all observations.
func (l *Loader) InitialLoad(store SchemaReplacer, tableName string) error {
	raw, err := csvdb.ReadCsv(l.csvPath, l.enc)
	if err != nil {
		return errors.Wrap(err, "initial load")
	}
	tb, err := raw.Project(bulkLoadColumns)
	if err != nil {
		return errors.Wrapf(err, "initial load of %s", l.csvPath)
	}
	if err := store.ReplaceWithSchema(tableName, bulkLoadSchema(), tb.Rename(tableName)); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"path":  l.csvPath,
		"table": tableName,
		"rows":  tb.Len(),
	}).Info("Initial load completed")
	return nil
}
