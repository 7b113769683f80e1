package phenology

import (
	"bytes"
	"goPhenologyRecords/pkg/csvdb"
	"goPhenologyRecords/pkg/sqlstore"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	calls int
}

func (s *failingStore) Replace(tableName string, tb *csvdb.Table) error {
	s.calls++
	return errors.Wrap(sqlstore.ErrConnection, "test")
}

func newTestConsole(t *testing.T, input string) (*Console, *sqlstore.Store, *bytes.Buffer) {
	store, err := sqlstore.NewStore(filepath.Join(t.TempDir(), CDefaultDbPath))
	require.NoError(t, err)
	l, err := NewLoader(sampleCsv, CDefaultEncoding)
	require.NoError(t, err)
	out := new(bytes.Buffer)
	c, err := NewConsole(strings.NewReader(input), out, l, store, CDefaultTableName, CDefaultBanner)
	require.NoError(t, err)
	return c, store, out
}

func persistedCount(t *testing.T, store *sqlstore.Store) int {
	cnt, err := store.Count(CDefaultTableName)
	require.NoError(t, err)
	return cnt
}

func TestConsole_Add(t *testing.T) {
	values := []string{"Cassiope tetragona", "2017", "180", "200", "4", "2", "1", "JB", "late bloom"}
	c, store, out := newTestConsole(t, "2\n"+strings.Join(values, "\n")+"\n6\n")
	before := c.Table().Len()

	require.NoError(t, c.Run())

	assert.Equal(t, before+1, c.Table().Len())
	assert.Equal(t, before+1, persistedCount(t, store))
	row, err := c.Table().Row(before)
	require.NoError(t, err)
	assert.Equal(t, values, row)
	assert.Contains(t, out.String(), "Enter the value for Observer Comments column: ")
	assert.Contains(t, out.String(), CDefaultBanner)
}

func TestConsole_Display(t *testing.T) {
	c, store, out := newTestConsole(t, "3\nYear\n2017\n6\n")

	require.NoError(t, c.Run())

	assert.Equal(t, 10, c.Table().Len())
	assert.Equal(t, 10, persistedCount(t, store))
	assert.Contains(t, out.String(), "108")
	assert.Contains(t, out.String(), "109")
	assert.NotContains(t, out.String(), "107")
}

func TestConsole_Edit(t *testing.T) {
	c, store, _ := newTestConsole(t, "4\nObserver Initials\nML\nObserver Comments\nchecked\n6\n")
	orig := c.Table()

	require.NoError(t, c.Run())

	tb := c.Table()
	for i := 0; i < tb.Len(); i++ {
		before, _ := orig.Row(i)
		after, _ := tb.Row(i)
		if before[7] == "ML" {
			assert.Equal(t, "checked", after[8])
		} else {
			assert.Equal(t, before, after)
		}
	}

	persisted, err := store.SelectAll(CDefaultTableName)
	require.NoError(t, err)
	cond, err := persisted.Where("Observer Comments", "checked")
	require.NoError(t, err)
	assert.Equal(t, 5, persisted.Count(cond))
}

func TestConsole_Delete(t *testing.T) {
	c, store, out := newTestConsole(t, "5\n2\n5\n42\n5\nx\n6\n")
	orig := c.Table()

	require.NoError(t, c.Run())

	tb := c.Table()
	assert.Equal(t, orig.Len()-1, tb.Len())
	for i := 0; i < tb.Len(); i++ {
		src := i
		if i >= 2 {
			src = i + 1
		}
		want, _ := orig.Row(src)
		got, _ := tb.Row(i)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, orig.Len()-1, persistedCount(t, store))
	assert.Contains(t, out.String(), "out of range")
	assert.Contains(t, out.String(), "is not a number")
}

func TestConsole_ReloadAfterChanges(t *testing.T) {
	c, store, _ := newTestConsole(t, "5\n0\n5\n0\n1\n6\n")

	require.NoError(t, c.Run())

	assert.Equal(t, 10, c.Table().Len())
	assert.Equal(t, 10, persistedCount(t, store))
	row, err := c.Table().Row(0)
	require.NoError(t, err)
	assert.Equal(t, "169", row[2])
}

func TestConsole_InvalidInput(t *testing.T) {
	c, _, out := newTestConsole(t, "9\nabc\n0\n3\nGenus\nDryas\n6\n")

	require.NoError(t, c.Run())

	assert.Equal(t, 3, strings.Count(out.String(), "Invalid Option !!"))
	assert.Contains(t, out.String(), "column does not exist")
	assert.Equal(t, 10, c.Table().Len())
}

func TestConsole_EndOfInput(t *testing.T) {
	c, _, _ := newTestConsole(t, "2\nDryas integrifolia\n")
	require.NoError(t, c.Run())
	assert.Equal(t, 10, c.Table().Len())
}

func TestConsole_StoreFailureKeepsLooping(t *testing.T) {
	l, err := NewLoader(sampleCsv, CDefaultEncoding)
	require.NoError(t, err)
	store := new(failingStore)
	out := new(bytes.Buffer)
	c, err := NewConsole(strings.NewReader("5\n0\n1\n6\n"), out, l, store, CDefaultTableName, "")
	require.NoError(t, err)

	require.NoError(t, c.Run())

	assert.Equal(t, 2, store.calls)
	assert.Equal(t, 2, strings.Count(out.String(), "records were not saved"))
}

func TestNewConsole_LoadError(t *testing.T) {
	l, err := NewLoader("../../test/data/phenology/missing.csv", CDefaultEncoding)
	require.NoError(t, err)
	_, err = NewConsole(strings.NewReader(""), new(bytes.Buffer), l, new(failingStore), CDefaultTableName, "")
	assert.Error(t, err)
}
