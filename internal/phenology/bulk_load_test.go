package phenology

import (
	"goPhenologyRecords/pkg/sqlstore"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialLoad(t *testing.T) {
	store, err := sqlstore.NewStore(filepath.Join(t.TempDir(), CDefaultDbPath))
	require.NoError(t, err)
	l, err := NewLoader(sampleCsv, CDefaultEncoding)
	require.NoError(t, err)

	require.NoError(t, l.InitialLoad(store, CDefaultTableName))

	got, err := store.SelectAll(CDefaultTableName)
	require.NoError(t, err)
	// the raw load keeps the unit row and every observation
	assert.Equal(t, 15, got.Len())
	assert.Equal(t, []string{"Species", "Year_", "Julian_Day_of_Year",
		"Plant_Identification_Number", "Number_of_Buds", "Number_of_Flowers",
		"Number_of_Flowers_that_have_Reached_Maturity", "Observer_Initials",
		"Observer_Comments"}, got.Columns())

	row, err := got.Row(4)
	require.NoError(t, err)
	assert.Equal(t, "névé nearby", row[8])
	row, err = got.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "(yyyy)", row[1])
}

func TestInitialLoadMissingColumn(t *testing.T) {
	store, err := sqlstore.NewStore(filepath.Join(t.TempDir(), CDefaultDbPath))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "partial.csv")
	require.NoError(t, os.WriteFile(path, []byte("Species,Year\nDryas integrifolia,2016\n"), 0644))
	l, err := NewLoader(path, "")
	require.NoError(t, err)

	assert.Error(t, l.InitialLoad(store, CDefaultTableName))
	exists, err := store.TableExists(CDefaultTableName)
	require.NoError(t, err)
	assert.False(t, exists)
}
