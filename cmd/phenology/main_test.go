package main

import (
	"bytes"
	"goPhenologyRecords/internal/phenology"
	"goPhenologyRecords/pkg/csvdb"
	"goPhenologyRecords/pkg/sqlstore"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCsv = "../../test/data/phenology/sample.csv"

func resetFlags() {
	configPath = ""
	skipBulk = false
	csvPath = ""
	dbPath = ""
	tableName = ""
	encoding = ""
	banner = ""
	exportPath = ""
}

func Test_run(t *testing.T) {
	resetFlags()
	testDir := t.TempDir()
	csvPath = sampleCsv
	dbPath = filepath.Join(testDir, "records.db")
	exportPath = filepath.Join(testDir, "export.csv")
	setDefaults()

	out := new(bytes.Buffer)
	require.NoError(t, run(strings.NewReader("5\n0\n6\n"), out))

	store, err := sqlstore.NewStore(dbPath)
	require.NoError(t, err)
	cnt, err := store.Count(phenology.CDefaultTableName)
	require.NoError(t, err)
	assert.Equal(t, 9, cnt)

	enc, err := csvdb.GetEncoding(phenology.CDefaultEncoding)
	require.NoError(t, err)
	exported, err := csvdb.ReadCsv(exportPath, enc)
	require.NoError(t, err)
	assert.Equal(t, 9, exported.Len())
	assert.Contains(t, out.String(), phenology.CDefaultBanner)
}

func Test_run_bulkLoadOnly(t *testing.T) {
	resetFlags()
	csvPath = sampleCsv
	dbPath = filepath.Join(t.TempDir(), "records.db")
	setDefaults()

	require.NoError(t, run(strings.NewReader("6\n"), new(bytes.Buffer)))

	store, err := sqlstore.NewStore(dbPath)
	require.NoError(t, err)
	got, err := store.SelectAll(phenology.CDefaultTableName)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Len())
	assert.Equal(t, "Year_", got.Columns()[1])
}

func Test_run_missingCsv(t *testing.T) {
	resetFlags()
	csvPath = filepath.Join(t.TempDir(), "missing.csv")
	dbPath = filepath.Join(t.TempDir(), "records.db")
	setDefaults()

	assert.Error(t, run(strings.NewReader("6\n"), new(bytes.Buffer)))
}

func Test_loadConfig(t *testing.T) {
	testDir := t.TempDir()
	os.Setenv("PHENOLOGY_TEST_DIR", testDir)
	defer os.Unsetenv("PHENOLOGY_TEST_DIR")

	yamlPath := filepath.Join(testDir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`---
csvPath: sample.csv
dbPath: "{{ PHENOLOGY_TEST_DIR }}/records.db"
tableName: observations
encoding: cp1252
skipBulk: true
`), 0644))

	resetFlags()
	tableName = "fromFlag"
	require.NoError(t, loadConfig(yamlPath))
	setDefaults()
	assert.Equal(t, "sample.csv", csvPath)
	assert.Equal(t, testDir+"/records.db", dbPath)
	assert.Equal(t, "fromFlag", tableName)
	assert.Equal(t, "cp1252", encoding)
	assert.Equal(t, phenology.CDefaultBanner, banner)
	assert.True(t, skipBulk)

	iniPath := filepath.Join(testDir, "config.ini")
	require.NoError(t, os.WriteFile(iniPath, []byte(`[phenology]
csvPath = other.csv
banner = Created by: field team
exportPath = out.csv
`), 0644))

	resetFlags()
	require.NoError(t, loadConfig(iniPath))
	setDefaults()
	assert.Equal(t, "other.csv", csvPath)
	assert.Equal(t, "Created by: field team", banner)
	assert.Equal(t, "out.csv", exportPath)
	assert.Equal(t, phenology.CDefaultDbPath, dbPath)
	assert.False(t, skipBulk)

	resetFlags()
	assert.Error(t, loadConfig(filepath.Join(testDir, "missing.yaml")))
}
