package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(dateLayout, s)
	require.NoError(t, err)
	return ts
}

func TestNewColumnInfersKind(t *testing.T) {
	cases := []struct {
		name string
		vals []any
		want Kind
	}{
		{"ints", []any{1, int64(2), nil}, KindInt},
		{"floats", []any{1, 2.5, math.NaN()}, KindFloat},
		{"strings", []any{"a", nil, "b"}, KindString},
		{"times", []any{time.Now(), nil}, KindTime},
		{"empty", []any{nil, nil}, KindFloat},
		{"mixed", []any{"a", 1}, KindObject},
		{"bools", []any{true, false}, KindObject},
	}
	for _, tc := range cases {
		c := NewColumn(tc.name, tc.vals)
		assert.Equal(t, tc.want, c.Kind, tc.name)
		assert.Equal(t, len(tc.vals), c.Len(), tc.name)
	}

	f := NewColumn("floats", []any{1, 2.5, math.NaN()})
	assert.Equal(t, 2, f.Count())
	assert.Equal(t, []float64{1, 2.5}, f.Numbers())
}

func TestColumnValueCountsAndDistinct(t *testing.T) {
	c := NewColumn("c", []any{"b", "a", "b", nil, "c", "b", "a"})
	assert.Equal(t, 3, c.Distinct())
	assert.Equal(t, []CategoryCount{{"b", 3}, {"a", 2}, {"c", 1}}, c.ValueCounts())
}

func TestAsCategoryOrdersNaturally(t *testing.T) {
	c := NewColumn("n", []any{10, 2, nil, 2, 33}).asCategory()
	assert.Equal(t, []string{"2", "10", "33"}, c.Categories)
	assert.Equal(t, []int{1, 0, -1, 0, 2}, c.Codes)
	assert.Equal(t, "", c.Label(2))
}

func TestTableValidation(t *testing.T) {
	_, err := NewTable(NewIntColumn("a", []int64{1}), NewIntColumn("a", []int64{2}))
	require.ErrorIs(t, err, ErrMalformedTable)

	_, err = NewTable(NewIntColumn("a", []int64{1}), NewIntColumn("b", []int64{1, 2}))
	require.ErrorIs(t, err, ErrMalformedTable)

	tbl, err := NewTable(NewIntColumn("a", []int64{1, 2}))
	require.NoError(t, err)
	require.ErrorIs(t, tbl.Replace(NewIntColumn("a", []int64{1})), ErrMalformedTable)
	require.ErrorIs(t, tbl.Replace(NewIntColumn("z", []int64{1, 2})), ErrColumnNotFound)
}

func TestTableCloneIsDeep(t *testing.T) {
	tbl, err := NewTable(NewIntColumn("a", []int64{1, 2}))
	require.NoError(t, err)
	cp := tbl.Clone()
	col, _ := cp.Column("a")
	col.Ints[0] = 99

	orig, _ := tbl.Column("a")
	assert.Equal(t, int64(1), orig.Ints[0])
}
