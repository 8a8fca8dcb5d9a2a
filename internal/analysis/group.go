package analysis

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

// GroupSeparator joins the first and last member names of a group.
const GroupSeparator = "-->"

var indexedName = regexp.MustCompile(`^(.*?)(\d+)`)

// SplitIndexedName splits the first "prefix + digits" occurrence of name,
// e.g. "Item12" -> ("Item", 12). ok is false when name holds no digits.
func SplitIndexedName(name string) (prefix string, index int, ok bool) {
	m := indexedName.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], n, true
}

// IsIndexedRun reports whether names share one prefix and carry suffixes
// that step by exactly one, e.g. Item1, Item2, Item3.
func IsIndexedRun(names []string) bool {
	if len(names) < 2 {
		return false
	}
	prefix, prev, ok := SplitIndexedName(names[0])
	if !ok {
		return false
	}
	for _, name := range names[1:] {
		p, idx, ok := SplitIndexedName(name)
		if !ok || p != prefix || idx != prev+1 {
			return false
		}
		prev = idx
	}
	return true
}

// Detection is the outcome of a whole-table scan.
type Detection struct {
	// Variables lists one result per column or merged group, in table order.
	Variables []Result `json:"variables" yaml:"variables"`
	// Skipped names the columns whose storage could not be classified.
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// TypeOfVar classifies every column of t in place and maps column names to
// their type. Datetime columns are never collapsed into categories here.
// Columns of unrecognized storage are left out of the map.
func (c *Classifier) TypeOfVar(t *Table) (map[string]VType, error) {
	if t == nil {
		return nil, fmt.Errorf("type of var: %w", ErrMalformedTable)
	}
	opt := c.opt
	opt.DatetimeToCategory = false
	out := make(map[string]VType, len(t.Columns()))
	for _, name := range t.Names() {
		res, err := c.classify(t, name, opt)
		if err != nil {
			if errors.Is(err, ErrUnrecognizedKind) {
				c.logger.Warn("column skipped", zap.String("column", name), zap.Error(err))
				continue
			}
			return nil, err
		}
		out[name] = res.VType
	}
	return out, nil
}

// Detect classifies every column of t in place and, when combine is set,
// merges runs of numeric columns named like Item1, Item2, Item3 into a single
// group_number variable named "Item1-->Item3".
func (c *Classifier) Detect(t *Table, combine bool) (*Detection, error) {
	if t == nil {
		return nil, fmt.Errorf("detect: %w", ErrMalformedTable)
	}
	det := &Detection{}
	var results []Result
	for _, name := range t.Names() {
		res, err := c.classify(t, name, c.opt)
		if err != nil {
			if errors.Is(err, ErrUnrecognizedKind) {
				c.logger.Warn("column skipped", zap.String("column", name), zap.Error(err))
				det.Skipped = append(det.Skipped, name)
				continue
			}
			return nil, err
		}
		results = append(results, *res)
	}
	if !combine {
		det.Variables = results
		return det, nil
	}
	det.Variables = MergeGroups(results)
	return det, nil
}

// MergeGroups scans classified results left to right and folds each run of
// numeric, consecutively indexed columns into one group_number result placed
// at the run's first position. Every input column appears in exactly one
// output result.
func MergeGroups(results []Result) []Result {
	var out []Result
	i := 0
	for i < len(results) {
		if n := indexedRunLen(results[i:]); n >= 2 {
			members := make([]string, n)
			for k := 0; k < n; k++ {
				members[k] = results[i+k].Name
			}
			out = append(out, Result{
				Name:       members[0] + GroupSeparator + members[n-1],
				VType:      VGroupNumber,
				Ordered:    true,
				Categories: members,
				Members:    append([]string(nil), members...),
			})
			i += n
			continue
		}
		r := results[i]
		r.Members = []string{r.Name}
		out = append(out, r)
		i++
	}
	return out
}

// indexedRunLen returns the length of the group starting at rs[0], or 0.
// The candidate run extends over numeric results whose names carry a digit
// run; it is accepted only as a whole.
func indexedRunLen(rs []Result) int {
	if len(rs) < 2 || rs[0].VType != VNumber || rs[1].VType != VNumber {
		return 0
	}
	var names []string
	for _, r := range rs {
		if r.VType != VNumber {
			break
		}
		if _, _, ok := SplitIndexedName(r.Name); !ok {
			break
		}
		names = append(names, r.Name)
	}
	if !IsIndexedRun(names) {
		return 0
	}
	return len(names)
}
