package csvdb

import "github.com/pkg/errors"

const (
	cRModePlain      = "plain"
	cRModeGZip       = "gzip"
	cDefaultEncoding = "utf-8"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

var (
	ErrColumnNotFound  = errors.New("column does not exist")
	ErrIndexOutOfRange = errors.New("row index out of range")
	ErrEmptyCsv        = errors.New("csv has no header line")
)
