package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeMixedTable(t *testing.T) {
	tbl := mustTable(t,
		NewFloatColumn("x", []float64{1, 2, 3, 4}),
		NewColumn("city", []any{"Paris", "Lyon", "Paris", nil}),
	)
	s := Describe(tbl)

	assert.Equal(t, []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max", "unique", "top", "freq"}, s.Stats)
	assert.Equal(t, []string{"", "x", "city"}, s.Header())

	expect := map[string]float64{
		StatCount: 4, StatMean: 2.5, StatStd: 1.2909944487358056, StatMin: 1,
		StatQ1: 1.75, StatMedian: 2.5, StatQ3: 3.25, StatMax: 4,
	}
	for stat, want := range expect {
		v, ok := s.Cell(stat, "x")
		require.True(t, ok, stat)
		assert.InDelta(t, want, v.Num, 1e-12, stat)
	}

	count, _ := s.Cell(StatCount, "city")
	assert.Equal(t, 3.0, count.Num)
	unique, _ := s.Cell(StatUnique, "city")
	assert.Equal(t, 2.0, unique.Num)
	top, _ := s.Cell(StatTop, "city")
	assert.Equal(t, "Paris", top.String())
	freq, _ := s.Cell(StatFreq, "city")
	assert.Equal(t, "2", freq.String())

	_, ok := s.Cell(StatMean, "city")
	assert.False(t, ok)
	_, ok = s.Cell(StatTop, "x")
	assert.False(t, ok)

	rows := s.Rows()
	require.Len(t, rows, len(s.Stats))
	assert.Equal(t, []string{"mean", "2.5", ""}, rows[1])
	assert.Equal(t, []string{"top", "", "Paris"}, rows[9])
}

func TestDescribeTimeColumn(t *testing.T) {
	col := NewColumn("ts", []any{mustTime(t, "2020-03-01"), mustTime(t, "2020-01-01"), mustTime(t, "2020-03-01")})
	s := Describe(mustTable(t, col))
	assert.Equal(t, []string{"count", "unique", "top", "freq", "first", "last"}, s.Stats)
	first, _ := s.Cell(StatFirst, "ts")
	last, _ := s.Cell(StatLast, "ts")
	assert.Equal(t, "2020-01-01", first.Text)
	assert.Equal(t, "2020-03-01", last.Text)
}

func TestDescribeEmptyNumeric(t *testing.T) {
	s := Describe(mustTable(t, NewColumn("none", []any{nil, nil})))
	v, ok := s.Cell(StatMean, "none")
	require.True(t, ok)
	assert.Equal(t, "NaN", v.String())
}
