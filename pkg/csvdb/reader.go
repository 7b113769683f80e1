package csvdb

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"goPhenologyRecords/pkg/utils"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

type Reader struct {
	fr       *os.File
	zr       *gzip.Reader
	reader   *csv.Reader
	enc      encoding.Encoding
	values   []string
	err      error
	filename string
	mode     string
}

func newReader(filename string, enc encoding.Encoding) (*Reader, error) {
	c := new(Reader)
	c.filename = filename
	c.enc = enc
	if err := c.open(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Reader) open() error {
	ext := filepath.Ext(c.filename)
	var fr *os.File
	var zr *gzip.Reader
	var src io.Reader
	var err error
	mode := ""

	if !utils.PathExist(c.filename) {
		return errors.Wrapf(os.ErrNotExist, "open %s", c.filename)
	}

	fr, err = os.Open(c.filename)
	if err != nil {
		return errors.WithStack(err)
	}

	if ext == ".gz" || ext == ".gzip" {
		zr, err = gzip.NewReader(fr)
		if err != nil {
			fr.Close()
			return errors.WithStack(err)
		}
		src = zr
		mode = cRModeGZip
	} else {
		src = fr
		mode = cRModePlain
	}
	src, err = skipBOM(src)
	if err != nil {
		c.fr = fr
		c.zr = zr
		c.close()
		return errors.WithStack(err)
	}
	if c.enc != nil {
		src = c.enc.NewDecoder().Reader(src)
	}

	c.fr = fr
	c.zr = zr
	c.reader = csv.NewReader(src)
	c.mode = mode
	return nil
}

func (c *Reader) next() bool {
	var values []string
	var err error
	if c.reader == nil {
		err = io.EOF
	} else {
		values, err = c.reader.Read()
	}
	c.err = err
	if err != nil {
		return false
	}
	c.values = values
	return true
}

func (c *Reader) close() {
	if c.zr != nil {
		c.zr.Close()
		c.zr = nil
	}
	if c.fr != nil {
		c.fr.Close()
		c.fr = nil
	}
}

// ReadCsv loads a whole delimited file into a Table.
// The first line holds the column names.
func ReadCsv(path string, enc encoding.Encoding) (*Table, error) {
	reader, err := newReader(path, enc)
	if err != nil {
		return nil, err
	}
	defer reader.close()

	if !reader.next() {
		if reader.err == io.EOF {
			return nil, errors.Wrapf(ErrEmptyCsv, "read %s", path)
		}
		return nil, errors.Wrapf(reader.err, "read header of %s", path)
	}
	t, err := NewTable(fileBaseName(path), reader.values)
	if err != nil {
		return nil, err
	}
	for reader.next() {
		t.rows = append(t.rows, reader.values)
	}
	if reader.err != io.EOF {
		return nil, errors.Wrapf(reader.err, "parse %s", path)
	}
	return t, nil
}

// skipBOM drops a UTF-8 byte order mark before any decoding takes place.
func skipBOM(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(utf8BOM))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br, nil
}

func fileBaseName(path string) string {
	base := filepath.Base(path)
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = base[:len(base)-len(ext)]
	}
	return base
}
