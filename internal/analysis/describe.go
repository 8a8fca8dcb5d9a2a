package analysis

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Stat names produced by Describe.
const (
	StatCount  = "count"
	StatMean   = "mean"
	StatStd    = "std"
	StatMin    = "min"
	StatQ1     = "25%"
	StatMedian = "50%"
	StatQ3     = "75%"
	StatMax    = "max"
	StatUnique = "unique"
	StatTop    = "top"
	StatFreq   = "freq"
	StatFirst  = "first"
	StatLast   = "last"
)

// StatValue is one summary cell: a number, or text for top/first/last.
type StatValue struct {
	Num    float64
	Text   string
	IsText bool
}

func (v StatValue) String() string {
	if v.IsText {
		return v.Text
	}
	if math.IsNaN(v.Num) {
		return "NaN"
	}
	if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) < 1e15 {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return strconv.FormatFloat(v.Num, 'g', 6, 64)
}

// ColumnStats holds the statistics computed for one column.
type ColumnStats struct {
	Name   string
	Values map[string]StatValue
}

// Summary is a wide table of descriptive statistics. Stats is the union of
// statistic names in first-seen order; a column lacking a statistic has no cell.
type Summary struct {
	Stats   []string
	Columns []ColumnStats
}

// Cell returns the statistic for a column.
func (s *Summary) Cell(stat, column string) (StatValue, bool) {
	for _, c := range s.Columns {
		if c.Name == column {
			v, ok := c.Values[stat]
			return v, ok
		}
	}
	return StatValue{}, false
}

// Header returns an empty corner cell followed by column names.
func (s *Summary) Header() []string {
	h := make([]string, 0, len(s.Columns)+1)
	h = append(h, "")
	for _, c := range s.Columns {
		h = append(h, c.Name)
	}
	return h
}

// Rows renders one row per statistic; missing cells are empty strings.
func (s *Summary) Rows() [][]string {
	rows := make([][]string, 0, len(s.Stats))
	for _, st := range s.Stats {
		row := make([]string, 0, len(s.Columns)+1)
		row = append(row, st)
		for _, c := range s.Columns {
			if v, ok := c.Values[st]; ok {
				row = append(row, v.String())
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

var (
	numericStats = []string{StatCount, StatMean, StatStd, StatMin, StatQ1, StatMedian, StatQ3, StatMax}
	labelStats   = []string{StatCount, StatUnique, StatTop, StatFreq}
	timeStats    = []string{StatCount, StatUnique, StatTop, StatFreq, StatFirst, StatLast}
)

// Describe summarizes every column of t. Numeric columns get count, mean,
// std, min, quartiles and max; other columns get count, unique, top and freq
// (plus first and last for timestamps).
func Describe(t *Table) *Summary {
	s := &Summary{}
	if t == nil {
		return s
	}
	seen := map[string]bool{}
	for _, col := range t.Columns() {
		cs, names := describeColumn(col)
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				s.Stats = append(s.Stats, n)
			}
		}
		s.Columns = append(s.Columns, cs)
	}
	return s
}

func describeColumn(col *Column) (ColumnStats, []string) {
	cs := ColumnStats{Name: col.Name, Values: map[string]StatValue{}}
	num := func(k string, v float64) { cs.Values[k] = StatValue{Num: v} }
	count := col.Count()

	if col.Kind.IsNumeric() {
		vals := col.Numbers()
		sorted := sortedCopy(vals)
		num(StatCount, float64(count))
		mean := math.NaN()
		if count > 0 {
			mean = stat.Mean(vals, nil)
		}
		num(StatMean, mean)
		num(StatStd, sampleStd(vals))
		num(StatMin, quantile(sorted, 0))
		num(StatQ1, quantile(sorted, 0.25))
		num(StatMedian, quantile(sorted, 0.5))
		num(StatQ3, quantile(sorted, 0.75))
		num(StatMax, quantile(sorted, 1))
		return cs, numericStats
	}

	counts := col.ValueCounts()
	num(StatCount, float64(count))
	num(StatUnique, float64(len(counts)))
	if len(counts) > 0 {
		cs.Values[StatTop] = StatValue{Text: counts[0].Value, IsText: true}
		num(StatFreq, float64(counts[0].Count))
	}
	if col.Kind != KindTime {
		return cs, labelStats
	}
	var first, last int = -1, -1
	for i, ok := range col.Valid {
		if !ok {
			continue
		}
		if first < 0 || col.Times[i].Before(col.Times[first]) {
			first = i
		}
		if last < 0 || col.Times[i].After(col.Times[last]) {
			last = i
		}
	}
	if first >= 0 {
		cs.Values[StatFirst] = StatValue{Text: col.Label(first), IsText: true}
		cs.Values[StatLast] = StatValue{Text: col.Label(last), IsText: true}
	}
	return cs, timeStats
}
