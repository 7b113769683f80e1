package main

import (
	"flag"
	"goPhenologyRecords/internal/phenology"
	"goPhenologyRecords/pkg/csvdb"
	"goPhenologyRecords/pkg/sqlstore"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Define command line arguments
var (
	configPath string

	debug      bool
	silent     bool
	skipBulk   bool
	csvPath    string
	dbPath     string
	tableName  string
	encoding   string
	banner     string
	exportPath string
)

type config struct {
	CsvPath    string `yaml:"csvPath" ini:"csvPath"`
	DbPath     string `yaml:"dbPath" ini:"dbPath"`
	TableName  string `yaml:"tableName" ini:"tableName"`
	Encoding   string `yaml:"encoding" ini:"encoding"`
	Banner     string `yaml:"banner" ini:"banner"`
	ExportPath string `yaml:"exportPath" ini:"exportPath"`
	SkipBulk   bool   `yaml:"skipBulk" ini:"skipBulk"`
}

func init() {
	// Set up command line flags
	flag.StringVar(&configPath, "c", "", "Path to the configuration file (.yaml, .yml or .ini)")
	flag.BoolVar(&debug, "debug", false, "Enable debug mode")
	flag.BoolVar(&silent, "silent", false, "Enable silent mode")
	flag.BoolVar(&skipBulk, "skip-bulk", false, "Do not copy the raw CSV into the database at startup")
	flag.StringVar(&csvPath, "f", "", "Observation CSV file")
	flag.StringVar(&dbPath, "d", "", "SQLite database file")
	flag.StringVar(&tableName, "t", "", "Table name in the database")
	flag.StringVar(&encoding, "e", "", "Text encoding of the CSV file")
	flag.StringVar(&banner, "b", "", "Line shown above the menu")
	flag.StringVar(&exportPath, "o", "", "Write the working table to this CSV file on exit")

	// Set up logging format
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 1024)
			n := runtime.Stack(buf, false)
			logrus.WithFields(logrus.Fields{
				"panic": r,
				"stack": string(buf[:n]),
			}).Error("A panic occurred")
		}
	}()

	flag.CommandLine.Parse(os.Args[1:])
	setLogLevel()

	// Load configuration
	if configPath != "" {
		if err := loadConfig(configPath); err != nil {
			logrus.WithError(err).WithField("configPath", configPath).Fatal("Failed to load configuration")
		}
	}
	setDefaults()

	if err := run(os.Stdin, os.Stdout); err != nil {
		logrus.WithError(err).Fatal("Application encountered an error")
	}

	logrus.Info("Application finished successfully")
}

func setLogLevel() {
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else if silent {
		logrus.SetLevel(logrus.ErrorLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func setDefaults() {
	if csvPath == "" {
		csvPath = phenology.CDefaultCsvPath
	}
	if dbPath == "" {
		dbPath = phenology.CDefaultDbPath
	}
	if tableName == "" {
		tableName = phenology.CDefaultTableName
	}
	if encoding == "" {
		encoding = phenology.CDefaultEncoding
	}
	if banner == "" {
		banner = phenology.CDefaultBanner
	}
}

/*
*
---
csvPath: Quttinirpaaq_NP_Tundra_Plant_Phenology_2016-2017_data_1.csv
dbPath: {{ HOME }}/records.db
tableName: records
encoding: latin-1
banner: "Created by: student name"
exportPath:
skipBulk: false
*
*/
func loadConfig(path string) error {
	logrus.WithField("path", path).Info("Loading configuration")

	var c config
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		err = loadIniConfig(path, &c)
	default:
		err = loadYamlConfig(path, &c)
	}
	if err != nil {
		return err
	}

	if csvPath == "" {
		csvPath = c.CsvPath
	}
	if dbPath == "" {
		dbPath = c.DbPath
	}
	if tableName == "" {
		tableName = c.TableName
	}
	if encoding == "" {
		encoding = c.Encoding
	}
	if banner == "" {
		banner = c.Banner
	}
	if exportPath == "" {
		exportPath = c.ExportPath
	}
	if !skipBulk {
		skipBulk = c.SkipBulk
	}
	return nil
}

func loadYamlConfig(path string, c *config) error {
	replaceEnvVars := func(content string) string {
		// Regex to find placeholders of the form {{ VAR }}
		re := regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)
		return re.ReplaceAllStringFunc(content, func(placeholder string) string {
			varName := re.FindStringSubmatch(placeholder)[1]
			return os.Getenv(varName)
		})
	}

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading YAML file")
	}
	yamlContent := replaceEnvVars(string(yamlFile))

	if err := yaml.Unmarshal([]byte(yamlContent), c); err != nil {
		return errors.Wrap(err, "unmarshalling YAML")
	}
	return nil
}

// loadIniConfig reads the [phenology] section.
func loadIniConfig(path string, c *config) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := cfg.Section("phenology").MapTo(c); err != nil {
		return errors.Wrap(err, "mapping ini section")
	}
	return nil
}

func run(in io.Reader, out io.Writer) error {
	logrus.Info("Starting application")

	store, err := sqlstore.NewStore(dbPath)
	if err != nil {
		return err
	}
	loader, err := phenology.NewLoader(csvPath, encoding)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"csv": loader.CsvPath(),
		"db":  store.Path(),
	}).Info("Using files")
	if !skipBulk {
		if err := loader.InitialLoad(store, tableName); err != nil {
			return err
		}
	}

	console, err := phenology.NewConsole(in, out, loader, store, tableName, banner)
	if err != nil {
		return err
	}
	if err := console.Run(); err != nil {
		return err
	}

	if exportPath != "" {
		enc, err := csvdb.GetEncoding(encoding)
		if err != nil {
			return err
		}
		if err := console.Table().WriteCsv(exportPath, enc); err != nil {
			return err
		}
		logrus.WithField("path", exportPath).Info("Exported working table")
	}
	return nil
}
