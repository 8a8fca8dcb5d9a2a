package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/reportgen-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/reportgen-cli/internal/config"
	"github.com/KaramelBytes/reportgen-cli/internal/parser"
)

// inputFlags selects how a dataset file is read.
type inputFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
}

func (f *inputFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default: tab for .tsv, comma otherwise)")
	c.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	c.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (f *inputFlags) load(path string) (*analysis.Table, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return parser.LoadXLSX(path, f.sheetName, f.sheetIndex)
	case f.delimiter != "":
		var d rune
		switch f.delimiter {
		case ",":
			d = ','
		case "\t", "tab":
			d = '\t'
		case ";":
			d = ';'
		default:
			return nil, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
		}
		return parser.LoadCSV(path, d)
	}
	return parser.LoadFile(path)
}

func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

func newClassifier() *analysis.Classifier {
	return analysis.NewClassifier(currentConfig().ClassifierOptions(), logger)
}
