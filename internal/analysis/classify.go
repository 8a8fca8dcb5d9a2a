package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// VType is the semantic type inferred for a variable.
type VType string

const (
	VNumber      VType = "number"
	VCategory    VType = "category"
	VDatetime    VType = "datetime"
	VText        VType = "text"
	VTextST      VType = "text_st"
	VGroupNumber VType = "group_number"
)

// Result describes one classified column, or one merged group of columns.
type Result struct {
	Name    string `json:"name" yaml:"name"`
	VType   VType  `json:"vtype" yaml:"vtype"`
	Ordered bool   `json:"ordered" yaml:"ordered"`
	// Categories is non-empty only for category and group_number.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	// Members lists the columns covered, in table order.
	Members []string `json:"members" yaml:"members"`
}

// Options switches individual detection heuristics.
type Options struct {
	CategoryDetection       bool
	StructuredTextDetection bool
	DatetimeToCategory      bool
}

// DefaultOptions enables every heuristic.
func DefaultOptions() Options {
	return Options{CategoryDetection: true, StructuredTextDetection: true, DatetimeToCategory: true}
}

// Classifier infers variable types and normalizes column storage.
// It is not safe for concurrent use on the same table.
type Classifier struct {
	opt    Options
	logger *zap.Logger
}

// NewClassifier returns a classifier. A nil logger discards output.
func NewClassifier(opt Options, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{opt: opt, logger: logger}
}

// timeLayouts are tried in order; a column parses only if one layout fits every value.
var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "01/02/2006", "02/01/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "2006/01/02 15:04:05",
	"2006-01-02T15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"2006.01.02", "20060102 15:04",
}

// Classify determines the type of column name and rewrites the column in t
// to its normalized storage: integral floats become ints, low-cardinality
// columns become categorical, fixed-width date strings become timestamps and
// percent strings become fractions. Callers that need t untouched should
// use ClassifyCopy.
//
// A column of unsupported storage yields an error wrapping ErrUnrecognizedKind.
func (c *Classifier) Classify(t *Table, name string) (*Result, error) {
	return c.classify(t, name, c.opt)
}

// ClassifyCopy classifies name against a private copy of its column and
// returns the normalized column alongside the result, leaving t unchanged.
func (c *Classifier) ClassifyCopy(t *Table, name string) (*Result, *Column, error) {
	if t == nil {
		return nil, nil, fmt.Errorf("classify %q: %w", name, ErrMalformedTable)
	}
	col, err := t.Column(name)
	if err != nil {
		return nil, nil, err
	}
	scratch, _ := NewTable(col.Clone())
	res, err := c.classify(scratch, name, c.opt)
	if err != nil {
		return nil, nil, err
	}
	out, _ := scratch.Column(name)
	return res, out, nil
}

func (c *Classifier) classify(t *Table, name string, opt Options) (*Result, error) {
	if t == nil {
		return nil, fmt.Errorf("classify %q: %w", name, ErrMalformedTable)
	}
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	res := &Result{Name: name, Members: []string{name}}
	switch {
	case col.Kind.IsNumeric():
		col = c.classifyNumeric(col, opt, res)
	case col.Kind == KindString:
		col = c.classifyString(col, opt, res)
	case col.Kind == KindTime:
		res.VType = VDatetime
	case col.Kind == KindCategory:
		res.VType = VCategory
		res.Ordered = col.Ordered
		res.Categories = append([]string(nil), col.Categories...)
	default:
		return nil, fmt.Errorf("column %q stored as %s: %w", name, col.Kind, ErrUnrecognizedKind)
	}
	if err := t.Replace(col); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Classifier) classifyNumeric(col *Column, opt Options, res *Result) *Column {
	res.VType = VNumber
	if col.Kind == KindFloat && integral(col) {
		col = floatsToInts(col)
	}
	n := col.Count()
	distinct := col.Distinct()
	if opt.CategoryDetection && distinct > 0 && float64(distinct) < math.Sqrt(float64(n)) &&
		float64(n)/float64(distinct) >= 2 {
		col = col.asCategory()
		res.VType = VCategory
		res.Ordered = col.Ordered
		res.Categories = append([]string(nil), col.Categories...)
	}
	return col
}

// integral reports whether every non-missing float has no fractional part.
func integral(col *Column) bool {
	for i, ok := range col.Valid {
		if !ok {
			continue
		}
		v := col.Floats[i]
		if math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) >= math.MaxInt64 {
			return false
		}
	}
	return true
}

func floatsToInts(col *Column) *Column {
	out := &Column{Name: col.Name, Kind: KindInt, Valid: append([]bool(nil), col.Valid...), Ints: make([]int64, col.Len())}
	for i, ok := range col.Valid {
		if ok {
			out.Ints[i] = int64(col.Floats[i])
		}
	}
	return out
}

func (c *Classifier) classifyString(col *Column, opt Options, res *Result) *Column {
	n := col.Count()
	lengths := make([]float64, 0, n)
	anyNumber := false
	for i, ok := range col.Valid {
		if !ok {
			continue
		}
		s := col.Strings[i]
		lengths = append(lengths, float64(utf8.RuneCountInString(s)))
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			anyNumber = true
		}
	}
	lenStd := sampleStd(lengths)
	maxLen := 0.0
	for _, l := range lengths {
		maxLen = math.Max(maxLen, l)
	}

	parsedTime := false
	if !anyNumber && maxLen > 7 && maxLen < 20 && lenStd < 0.1 {
		tc, err := parseTimes(col)
		if err != nil {
			c.logger.Debug("timestamp coercion abandoned",
				zap.String("column", col.Name), zap.Error(err))
		} else {
			col, parsedTime = tc, true
		}
	}

	if (opt.DatetimeToCategory || !parsedTime) && n > 0 && float64(col.Distinct()) < math.Sqrt(float64(n)) {
		col = col.asCategory()
	}

	if col.Kind == KindString && allContain(col, "%") {
		pc, err := parsePercents(col)
		if err != nil {
			c.logger.Debug("percent coercion abandoned",
				zap.String("column", col.Name), zap.Error(err))
		} else {
			// parsed percents resolve like any numeric column
			return c.classifyNumeric(pc, opt, res)
		}
	}

	switch {
	case col.Kind == KindCategory:
		res.VType = VCategory
		res.Ordered = col.Ordered
		res.Categories = append([]string(nil), col.Categories...)
	case col.Kind == KindTime:
		res.VType = VDatetime
	case opt.StructuredTextDetection && lenStd == 0:
		res.VType = structuredOrText(col)
	case col.Kind.IsNumeric():
		res.VType = VNumber
	default:
		res.VType = VText
	}
	return col
}

// structuredOrText decides between text_st and text for equal-length values.
// Values sharing at least one character (e.g. a separator) are structured.
func structuredOrText(col *Column) VType {
	if col.Kind != KindString {
		return VText
	}
	var common map[rune]struct{}
	for i, ok := range col.Valid {
		if !ok {
			continue
		}
		s := col.Strings[i]
		if common == nil {
			common = make(map[rune]struct{})
			for _, r := range s {
				common[r] = struct{}{}
			}
			continue
		}
		if s == "" {
			continue
		}
		present := make(map[rune]struct{}, len(s))
		for _, r := range s {
			present[r] = struct{}{}
		}
		for r := range common {
			if _, ok := present[r]; !ok {
				delete(common, r)
			}
		}
	}
	if len(common) > 0 {
		return VTextST
	}
	return VText
}

func allContain(col *Column, sub string) bool {
	for i, ok := range col.Valid {
		if ok && !strings.Contains(col.Strings[i], sub) {
			return false
		}
	}
	return true
}

// parseTimes converts a string column using the first layout that fits all values.
func parseTimes(col *Column) (*Column, error) {
	var first string
	for i, ok := range col.Valid {
		if ok {
			first = strings.TrimSpace(col.Strings[i])
			break
		}
	}
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, first); err != nil {
			continue
		}
		out := &Column{Name: col.Name, Kind: KindTime, Valid: append([]bool(nil), col.Valid...), Times: make([]time.Time, col.Len())}
		fits := true
		for i, ok := range col.Valid {
			if !ok {
				continue
			}
			ts, err := time.Parse(layout, strings.TrimSpace(col.Strings[i]))
			if err != nil {
				fits = false
				break
			}
			out.Times[i] = ts
		}
		if fits {
			return out, nil
		}
	}
	return nil, fmt.Errorf("no timestamp layout fits %q: %w", first, ErrParse)
}

var hundred = decimal.NewFromInt(100)

// parsePercents turns "21.12%" into 0.2112.
func parsePercents(col *Column) (*Column, error) {
	out := &Column{Name: col.Name, Kind: KindFloat, Valid: append([]bool(nil), col.Valid...), Floats: make([]float64, col.Len())}
	for i, ok := range col.Valid {
		if !ok {
			continue
		}
		raw := strings.TrimSpace(strings.Trim(col.Strings[i], "%"))
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("percent value %q: %w", col.Strings[i], ErrParse), err)
		}
		out.Floats[i], _ = d.Div(hundred).Float64()
	}
	return out, nil
}
