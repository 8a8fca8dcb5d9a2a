package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Kind is the storage kind of a column's values.
type Kind int

const (
	// KindObject holds values of mixed or unsupported Go types.
	KindObject Kind = iota
	KindInt
	KindFloat
	KindString
	KindTime
	KindCategory
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	case KindCategory:
		return "category"
	default:
		return "object"
	}
}

// IsNumeric reports whether values are stored as numbers.
func (k Kind) IsNumeric() bool { return k == KindInt || k == KindFloat }

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Column is a named sequence of values sharing one storage kind.
// Only the slice matching Kind is populated; Valid marks non-missing cells.
type Column struct {
	Name  string
	Kind  Kind
	Valid []bool

	Ints    []int64
	Floats  []float64
	Strings []string
	Times   []time.Time
	Objects []any

	// Categorical storage: Codes index into Categories, -1 when missing.
	Codes      []int
	Categories []string
	Ordered    bool
}

// NewColumn builds a column from loosely typed values, inferring its kind.
// nil and NaN are missing. A column mixing unrelated types gets KindObject.
func NewColumn(name string, values []any) *Column {
	var nInt, nFloat, nStr, nTime, nOther int
	for _, v := range values {
		switch x := v.(type) {
		case nil:
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			nInt++
		case float32:
			if !math.IsNaN(float64(x)) {
				nFloat++
			}
		case float64:
			if !math.IsNaN(x) {
				nFloat++
			}
		case string:
			nStr++
		case time.Time:
			nTime++
		default:
			nOther++
		}
	}
	n := len(values)
	c := &Column{Name: name, Valid: make([]bool, n)}
	switch {
	case nOther > 0:
		c.Kind = KindObject
	case nStr > 0 && nInt+nFloat+nTime == 0:
		c.Kind = KindString
	case nTime > 0 && nInt+nFloat+nStr == 0:
		c.Kind = KindTime
	case nInt > 0 && nFloat+nStr+nTime == 0:
		c.Kind = KindInt
	case nStr+nTime == 0:
		c.Kind = KindFloat
	default:
		c.Kind = KindObject
	}
	switch c.Kind {
	case KindInt:
		c.Ints = make([]int64, n)
	case KindFloat:
		c.Floats = make([]float64, n)
	case KindString:
		c.Strings = make([]string, n)
	case KindTime:
		c.Times = make([]time.Time, n)
	default:
		c.Objects = make([]any, n)
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		if c.Kind == KindObject {
			c.Objects[i] = v
			c.Valid[i] = true
			continue
		}
		switch x := v.(type) {
		case string:
			c.Strings[i] = x
		case time.Time:
			c.Times[i] = x
		case float32, float64:
			f := toFloat(x)
			if math.IsNaN(f) {
				continue
			}
			c.Floats[i] = f
		default:
			if c.Kind == KindInt {
				c.Ints[i] = toInt(x)
			} else {
				c.Floats[i] = float64(toInt(x))
			}
		}
		c.Valid[i] = true
	}
	return c
}

// NewFloatColumn builds a float column; NaN entries are missing.
func NewFloatColumn(name string, values []float64) *Column {
	c := &Column{Name: name, Kind: KindFloat, Floats: make([]float64, len(values)), Valid: make([]bool, len(values))}
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		c.Floats[i] = v
		c.Valid[i] = true
	}
	return c
}

// NewIntColumn builds an int column with every value present.
func NewIntColumn(name string, values []int64) *Column {
	c := &Column{Name: name, Kind: KindInt, Ints: append([]int64(nil), values...), Valid: make([]bool, len(values))}
	for i := range c.Valid {
		c.Valid[i] = true
	}
	return c
}

// NewStringColumn builds a string column with every value present.
func NewStringColumn(name string, values []string) *Column {
	c := &Column{Name: name, Kind: KindString, Strings: append([]string(nil), values...), Valid: make([]bool, len(values))}
	for i := range c.Valid {
		c.Valid[i] = true
	}
	return c
}

func toInt(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	}
	return 0
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return math.NaN()
}

// Len returns the number of rows, missing included.
func (c *Column) Len() int { return len(c.Valid) }

// Count returns the number of non-missing values.
func (c *Column) Count() int {
	n := 0
	for _, ok := range c.Valid {
		if ok {
			n++
		}
	}
	return n
}

// Float returns the i-th value as float64 for numeric columns.
func (c *Column) Float(i int) (float64, bool) {
	if !c.Valid[i] {
		return 0, false
	}
	switch c.Kind {
	case KindInt:
		return float64(c.Ints[i]), true
	case KindFloat:
		return c.Floats[i], true
	}
	return 0, false
}

// Numbers returns the non-missing values of a numeric column in row order.
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Valid))
	for i := range c.Valid {
		if v, ok := c.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}

// Label renders the i-th value as text. Missing values render as "".
func (c *Column) Label(i int) string {
	if !c.Valid[i] {
		return ""
	}
	switch c.Kind {
	case KindInt:
		return strconv.FormatInt(c.Ints[i], 10)
	case KindFloat:
		return strconv.FormatFloat(c.Floats[i], 'f', -1, 64)
	case KindString:
		return c.Strings[i]
	case KindTime:
		return formatTime(c.Times[i])
	case KindCategory:
		if c.Codes[i] < 0 {
			return ""
		}
		return c.Categories[c.Codes[i]]
	default:
		return fmt.Sprintf("%v", c.Objects[i])
	}
}

func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}

// Distinct returns the number of distinct non-missing values.
func (c *Column) Distinct() int {
	seen := make(map[string]struct{})
	for i, ok := range c.Valid {
		if ok {
			seen[c.Label(i)] = struct{}{}
		}
	}
	return len(seen)
}

// ValueCounts returns per-label frequencies of non-missing values, most
// frequent first; ties keep first-seen order.
func (c *Column) ValueCounts() []CategoryCount {
	idx := map[string]int{}
	var out []CategoryCount
	for i, ok := range c.Valid {
		if !ok {
			continue
		}
		l := c.Label(i)
		if j, seen := idx[l]; seen {
			out[j].Count++
			continue
		}
		idx[l] = len(out)
		out = append(out, CategoryCount{Value: l, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// CategoryCount pairs a value label with its frequency.
type CategoryCount struct {
	Value string
	Count int
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	cp := *c
	cp.Valid = append([]bool(nil), c.Valid...)
	cp.Ints = append([]int64(nil), c.Ints...)
	cp.Floats = append([]float64(nil), c.Floats...)
	cp.Strings = append([]string(nil), c.Strings...)
	cp.Times = append([]time.Time(nil), c.Times...)
	cp.Objects = append([]any(nil), c.Objects...)
	cp.Codes = append([]int(nil), c.Codes...)
	cp.Categories = append([]string(nil), c.Categories...)
	return &cp
}

// asCategory converts the column to categorical storage. Categories are
// sorted by their natural order: numeric, chronological, or lexical.
func (c *Column) asCategory() *Column {
	n := c.Len()
	out := &Column{Name: c.Name, Kind: KindCategory, Valid: append([]bool(nil), c.Valid...), Codes: make([]int, n)}
	type entry struct {
		label string
		num   float64
		at    time.Time
	}
	uniq := map[string]entry{}
	for i, ok := range c.Valid {
		if !ok {
			continue
		}
		l := c.Label(i)
		if _, seen := uniq[l]; seen {
			continue
		}
		e := entry{label: l}
		switch c.Kind {
		case KindInt, KindFloat:
			e.num, _ = c.Float(i)
		case KindTime:
			e.at = c.Times[i]
		}
		uniq[l] = e
	}
	entries := make([]entry, 0, len(uniq))
	for _, e := range uniq {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		switch c.Kind {
		case KindInt, KindFloat:
			return entries[i].num < entries[j].num
		case KindTime:
			return entries[i].at.Before(entries[j].at)
		}
		return entries[i].label < entries[j].label
	})
	pos := make(map[string]int, len(entries))
	for i, e := range entries {
		out.Categories = append(out.Categories, e.label)
		pos[e.label] = i
	}
	for i, ok := range c.Valid {
		if !ok {
			out.Codes[i] = -1
			continue
		}
		out.Codes[i] = pos[c.Label(i)]
	}
	return out
}

// Table is an ordered set of equally long, uniquely named columns.
type Table struct {
	cols  []*Column
	index map[string]int
}

// NewTable assembles a table. Column names must be unique and lengths equal.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a column to the table.
func (t *Table) AddColumn(c *Column) error {
	if c == nil {
		return fmt.Errorf("add column: %w", ErrMalformedTable)
	}
	if _, dup := t.index[c.Name]; dup {
		return fmt.Errorf("duplicate column %q: %w", c.Name, ErrMalformedTable)
	}
	if len(t.cols) > 0 && c.Len() != t.Len() {
		return fmt.Errorf("column %q has %d rows, table has %d: %w", c.Name, c.Len(), t.Len(), ErrMalformedTable)
	}
	if t.index == nil {
		t.index = map[string]int{}
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Len returns the row count.
func (t *Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column { return t.cols }

// Names returns column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrColumnNotFound)
	}
	return t.cols[i], nil
}

// Replace swaps the stored column that has the same name as col.
func (t *Table) Replace(col *Column) error {
	i, ok := t.index[col.Name]
	if !ok {
		return fmt.Errorf("%q: %w", col.Name, ErrColumnNotFound)
	}
	if col.Len() != t.Len() {
		return fmt.Errorf("column %q has %d rows, table has %d: %w", col.Name, col.Len(), t.Len(), ErrMalformedTable)
	}
	t.cols[i] = col
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cp := &Table{cols: make([]*Column, len(t.cols)), index: make(map[string]int, len(t.cols))}
	for i, c := range t.cols {
		cp.cols[i] = c.Clone()
		cp.index[c.Name] = i
	}
	return cp
}
