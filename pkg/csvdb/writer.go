package csvdb

import (
	"compress/gzip"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

type Writer struct {
	fw     *os.File
	zw     *gzip.Writer
	ew     io.WriteCloser
	writer *csv.Writer
	path   string
	mode   string
}

// newWriter truncates path and writes through gzip and enc when set.
func newWriter(path string, enc encoding.Encoding) (*Writer, error) {
	ext := filepath.Ext(path)
	var fw *os.File
	var zw *gzip.Writer
	var dst io.Writer
	var ew io.WriteCloser
	mode := ""

	fw, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if ext == ".gz" || ext == ".gzip" {
		zw = gzip.NewWriter(fw)
		dst = zw
		mode = cRModeGZip
	} else {
		dst = fw
		mode = cRModePlain
	}
	if enc != nil {
		// Close flushes what the encoder still holds
		ew = transform.NewWriter(dst, enc.NewEncoder())
		dst = ew
	}

	c := new(Writer)
	c.path = path
	c.writer = csv.NewWriter(dst)
	c.fw = fw
	c.zw = zw
	c.ew = ew
	c.mode = mode

	return c, nil
}

func (c *Writer) write(record []string) error {
	return c.writer.Write(record)
}

func (c *Writer) flush() error {
	c.writer.Flush()
	return c.writer.Error()
}

func (c *Writer) close() error {
	var err error
	if c.ew != nil {
		err = c.ew.Close()
	}
	if c.zw != nil {
		if cerr := c.zw.Close(); err == nil {
			err = cerr
		}
	}
	if c.fw != nil {
		if cerr := c.fw.Close(); err == nil {
			err = cerr
		}
	}
	return errors.WithStack(err)
}

// WriteCsv stores the header and all rows of t at path, replacing its content.
func (t *Table) WriteCsv(path string, enc encoding.Encoding) (err error) {
	writer, err := newWriter(path, enc)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := writer.close(); err == nil {
			err = cerr
		}
	}()

	if err := writer.write(t.columns); err != nil {
		return errors.WithStack(err)
	}
	for _, row := range t.rows {
		if err := writer.write(row); err != nil {
			return errors.WithStack(err)
		}
	}
	return writer.flush()
}
