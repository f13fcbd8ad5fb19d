package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Source reads a tabular file into a header and raw records.
type Source interface {
	CanRead(path string) bool
	Read(path string) (header []string, records [][]string, err error)
}

var registry []Source

// Register adds a source implementation to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

func sourceFor(path string) (Source, error) {
	for _, s := range registry {
		if s.CanRead(path) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unsupported input format: %s", filepath.Ext(path))
}

func init() {
	Register(csvSource{})
	Register(xlsxSource{})
}

func hasExt(path string, exts ...string) bool {
	name := strings.ToLower(path)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}
