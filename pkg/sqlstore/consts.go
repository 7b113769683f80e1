package sqlstore

import "github.com/pkg/errors"

const (
	cDriverName  = "sqlite"
	cTypeInteger = "INTEGER"
	cTypeReal    = "REAL"
	cTypeText    = "TEXT"
)

var ErrConnection = errors.New("cannot open database")
