package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/reportgen-cli/internal/analysis"
)

// missingTokens are cell values read as missing.
var missingTokens = map[string]bool{
	"": true, "NA": true, "N/A": true, "NaN": true, "nan": true,
	"null": true, "NULL": true, "None": true,
}

// FromRecords builds a table from a header and string rows. Each column is
// stored as int when every present cell parses as an integer, as float when
// every present cell parses as a number, and as string otherwise.
func FromRecords(header []string, rows [][]string) (*analysis.Table, error) {
	t, _ := analysis.NewTable()
	seen := map[string]int{}
	for j, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", j)
		}
		// de-duplicate as a, a.1, a.2
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		cells := make([]string, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				cells[i] = strings.TrimSpace(rec[j])
			}
		}
		if err := t.AddColumn(inferColumn(name, cells)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func inferColumn(name string, cells []string) *analysis.Column {
	n := len(cells)
	valid := make([]bool, n)
	allInt, allFloat := true, true
	present := 0
	for i, s := range cells {
		if missingTokens[s] {
			continue
		}
		valid[i] = true
		present++
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				allFloat = false
			}
		}
	}
	c := &analysis.Column{Name: name, Valid: valid}
	switch {
	case present == 0:
		c.Kind = analysis.KindFloat
		c.Floats = make([]float64, n)
	case allInt:
		c.Kind = analysis.KindInt
		c.Ints = make([]int64, n)
		for i, s := range cells {
			if valid[i] {
				c.Ints[i], _ = strconv.ParseInt(s, 10, 64)
			}
		}
	case allFloat:
		c.Kind = analysis.KindFloat
		c.Floats = make([]float64, n)
		for i, s := range cells {
			if valid[i] {
				c.Floats[i], _ = strconv.ParseFloat(s, 64)
			}
		}
	default:
		c.Kind = analysis.KindString
		c.Strings = make([]string, n)
		for i, s := range cells {
			if valid[i] {
				c.Strings[i] = s
			}
		}
	}
	return c
}
