package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KaramelBytes/reportgen-cli/internal/analysis"
)

type fakeFigure struct{ payload string }

func (f fakeFigure) Save(path string) error { return os.WriteFile(path, []byte(f.payload), 0o644) }
func (fakeFigure) Close() error             { return nil }

type fakePlotter struct{ calls []ChartKind }

func (p *fakePlotter) Plot(name string, values []float64, kind ChartKind) (Figure, error) {
	p.calls = append(p.calls, kind)
	return fakeFigure{payload: fmt.Sprintf("%s %s %d", name, kind, len(values))}, nil
}

type fakeWordCloud struct {
	text  string
	style Style
	err   error
}

func (w *fakeWordCloud) Generate(text string, style Style) (Image, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.text, w.style = text, style
	return fakeFigure{payload: text}, nil
}

func sampleTable(t *testing.T) *analysis.Table {
	t.Helper()
	n := 12
	score := make([]int64, n)
	item1 := make([]int64, n)
	item2 := make([]int64, n)
	grade := make([]string, n)
	visit := make([]string, n)
	comment := []string{
		"great", "slow delivery", "ok", "would buy again", "meh", "fine",
		"broken on arrival", "nice", "too small", "perfect fit", "so so", "love it",
	}
	for i := 0; i < n; i++ {
		score[i] = int64(i + 1)
		item1[i] = int64(i + 1)
		item2[i] = int64(2 * (i + 1))
		switch {
		case i < 6:
			grade[i] = "a"
		case i < 10:
			grade[i] = "b"
		default:
			grade[i] = "c"
		}
		visit[i] = fmt.Sprintf("2020-01-%02d", i+1)
	}
	tbl, err := analysis.NewTable(
		analysis.NewIntColumn("score", score),
		analysis.NewStringColumn("grade", grade),
		analysis.NewStringColumn("comment", comment),
		analysis.NewStringColumn("visit", visit),
		analysis.NewIntColumn("Item1", item1),
		analysis.NewIntColumn("Item2", item2),
	)
	require.NoError(t, err)
	return tbl
}

func detect(t *testing.T, tbl *analysis.Table) *analysis.Detection {
	t.Helper()
	det, err := analysis.NewClassifier(analysis.DefaultOptions(), nil).Detect(tbl, true)
	require.NoError(t, err)
	return det
}

func slideTitles(slides []Slide) []string {
	out := make([]string, len(slides))
	for i, s := range slides {
		out[i] = s.Title
	}
	return out
}

func TestBuildWithoutRenderers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tbl := sampleTable(t)
	det := detect(t, tbl)

	slides, err := NewBuilder(zap.New(core)).Build(tbl, det)
	require.NoError(t, err)
	assert.Equal(t, []string{"Field summary", "score analysis", "grade analysis", "Item1-->Item2 analysis"}, slideTitles(slides))

	summary := slides[0].Items[0]
	assert.Equal(t, ItemTable, summary.Kind)
	assert.Equal(t, []string{"", "score", "grade", "comment", "visit", "Item1", "Item2"}, summary.Table.Header)

	score := slides[1]
	assert.Equal(t, "Mean: 6.50, std: 3.61, max: 12", score.Summary)
	assert.Equal(t, "Note: sample N=12", score.Footnote)
	require.Len(t, score.Items, 1)
	hist := score.Items[0]
	assert.Equal(t, ItemChart, hist.Kind)
	assert.Equal(t, ChartColumnClustered, hist.ChartType)
	require.Len(t, hist.Table.Rows, 3)
	assert.Equal(t, "0.3333", hist.Table.Rows[0][1])

	assert.Equal(t, 1, logs.FilterMessage("datetime column has only unique values, skipped").Len())
}

func TestBuildCategoryShares(t *testing.T) {
	tbl := sampleTable(t)
	slides, err := NewBuilder(nil).Build(tbl, detect(t, tbl))
	require.NoError(t, err)

	grade := slides[2]
	assert.Equal(t, "a has the largest share: 50.00%", grade.Summary)
	assert.Equal(t, [][]string{{"a", "50.00"}, {"b", "33.33"}, {"c", "16.67"}}, grade.Items[0].Table.Rows)
}

func TestBuildGroupMeans(t *testing.T) {
	tbl := sampleTable(t)
	slides, err := NewBuilder(nil).Build(tbl, detect(t, tbl))
	require.NoError(t, err)

	group := slides[3]
	assert.Equal(t, "Item2 has the largest mean: 13.00", group.Summary)
	assert.Equal(t, "Note: sample N=12", group.Footnote)
	assert.Equal(t, [][]string{{"Item1", "6.50"}, {"Item2", "13.00"}}, group.Items[0].Table.Rows)
}

func TestBuildWithRenderers(t *testing.T) {
	dir := t.TempDir()
	tbl := sampleTable(t)
	plotter := &fakePlotter{}
	cloud := &fakeWordCloud{}
	b := NewBuilder(nil)
	b.Plotter, b.WordCloud, b.AssetDir = plotter, cloud, dir
	b.Style = Style{FontPath: "/fonts/x.ttf"}

	slides, err := b.Build(tbl, detect(t, tbl))
	require.NoError(t, err)
	assert.Equal(t, []string{"Field summary", "score analysis", "grade analysis", "comment word cloud", "Item1-->Item2 analysis"}, slideTitles(slides))

	assert.Equal(t, []ChartKind{ChartKDE, ChartDist}, plotter.calls)
	score := slides[1]
	require.Len(t, score.Items, 2)
	for _, it := range score.Items {
		assert.Equal(t, ItemPicture, it.Kind)
		assert.FileExists(t, it.ImagePath)
	}
	assert.Equal(t, filepath.Join(dir, "score_kde.png"), score.Items[0].ImagePath)

	assert.Contains(t, cloud.text, "would buy again")
	assert.Equal(t, "/fonts/x.ttf", cloud.style.FontPath)
	assert.FileExists(t, slides[3].Items[0].ImagePath)
}

func TestBuildWordCloudFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tbl := sampleTable(t)
	b := NewBuilder(zap.New(core))
	b.WordCloud = &fakeWordCloud{err: errors.New("no font")}

	slides, err := b.Build(tbl, detect(t, tbl))
	require.NoError(t, err)
	assert.NotContains(t, slideTitles(slides), "comment word cloud")
	assert.Equal(t, 1, logs.FilterMessage("word cloud failed").Len())
}

func TestBuildRejectsMissingInput(t *testing.T) {
	_, err := NewBuilder(nil).Build(nil, &analysis.Detection{})
	require.ErrorIs(t, err, analysis.ErrMalformedTable)
}

func TestShareSlideKeepsDeclaredOrder(t *testing.T) {
	col := analysis.NewStringColumn("size", []string{"L", "S", "S", "M", "S"})
	tbl, err := analysis.NewTable(col)
	require.NoError(t, err)

	s, err := shareSlide(tbl, analysis.Result{Name: "size", VType: analysis.VCategory, Ordered: true, Categories: []string{"S", "M", "L"}}, false)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"S", "60.00"}, {"M", "20.00"}, {"L", "20.00"}}, s.Items[0].Table.Rows)

	s, err = shareSlide(tbl, analysis.Result{Name: "size", VType: analysis.VCategory}, false)
	require.NoError(t, err)
	assert.Equal(t, "S", s.Items[0].Table.Rows[0][0])
}

func TestAssetPathSanitizesNames(t *testing.T) {
	b := NewBuilder(nil)
	b.AssetDir = "out"
	assert.Equal(t, filepath.Join("out", "Q1_a_b_kde.png"), b.assetPath("Q1 a/b", "kde"))
	assert.Equal(t, filepath.Join("out", "var_dist.png"), b.assetPath("%%", "dist"))
}

func TestDefaultTitle(t *testing.T) {
	d := NewDeck("  ")
	assert.Regexp(t, regexp.MustCompile(`^AnalysisReport_\d{12}$`), d.Title)
	assert.NotEmpty(t, d.ID)
}
