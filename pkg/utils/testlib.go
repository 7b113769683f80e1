package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func GetGotExpErr(title string, got interface{}, exp interface{}) error {
	if got == exp {
		return nil
	}
	return errors.New(fmt.Sprintf("%s got=%v expected=%v", title, got, exp))
}

// InitTestDir returns an empty working directory for testname.
func InitTestDir(testname string) (string, error) {
	rootDir := filepath.Join(os.TempDir(), "phenology", testname)
	if _, err := os.Stat(rootDir); err == nil {
		os.RemoveAll(rootDir)
	}
	if err := EnsureDir(rootDir); err != nil {
		return "", err
	}

	return rootDir, nil
}
