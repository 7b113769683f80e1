package phenology

import (
	"goPhenologyRecords/pkg/csvdb"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
)

// Loader reads the observation file into the working table.
type Loader struct {
	csvPath string
	enc     encoding.Encoding
}

func NewLoader(csvPath, encodingName string) (*Loader, error) {
	enc, err := csvdb.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	l := new(Loader)
	l.csvPath = csvPath
	l.enc = enc
	return l, nil
}

func (l *Loader) CsvPath() string {
	return l.csvPath
}

// Load returns the first ten observations after the unit row.
func (l *Loader) Load() (*csvdb.Table, error) {
	tb, err := csvdb.ReadCsv(l.csvPath, l.enc)
	if err != nil {
		return nil, errors.Wrap(err, "load observations")
	}
	tb = tb.Skip(cSkipRows).Head(cWorkingRows)
	logrus.WithFields(logrus.Fields{
		"path": l.csvPath,
		"rows": tb.Len(),
	}).Debug("Loaded observations")
	return tb, nil
}
