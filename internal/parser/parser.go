package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/KaramelBytes/reportgen-cli/internal/analysis"
)

// Loader reads a tabular file into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string) (*analysis.Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile selects a loader based on filename and returns the parsed table.
func LoadFile(path string) (*analysis.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path)
		}
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported table format")
