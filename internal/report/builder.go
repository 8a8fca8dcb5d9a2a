package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/reportgen-cli/internal/analysis"
)

// Builder turns detected variables into slide descriptions. Plotter and
// WordCloud are optional; without a plotter numeric variables get a
// histogram chart, without a word cloud generator text variables are skipped.
type Builder struct {
	Plotter   Plotter
	WordCloud WordCloud
	Style     Style
	// AssetDir receives saved figures and images.
	AssetDir string
	Dist     analysis.DistOptions

	logger *zap.Logger
}

// NewBuilder returns a builder writing assets to the working directory.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	dist := analysis.DefaultDistOptions()
	dist.KDE = false
	return &Builder{AssetDir: ".", Dist: dist, logger: logger}
}

// Build produces a field summary slide followed by one slide per variable.
func (b *Builder) Build(t *analysis.Table, det *analysis.Detection) ([]Slide, error) {
	if t == nil || det == nil {
		return nil, fmt.Errorf("build report: %w", analysis.ErrMalformedTable)
	}
	summary := analysis.Describe(t)
	slides := []Slide{{
		Title: "Field summary",
		Items: []Item{{Kind: ItemTable, Table: &Table{Header: summary.Header(), Rows: summary.Rows()}}},
	}}
	for _, v := range det.Variables {
		s, err := b.variableSlide(t, summary, v)
		if err != nil {
			return nil, err
		}
		if s != nil {
			slides = append(slides, *s)
		}
	}
	return slides, nil
}

func (b *Builder) variableSlide(t *analysis.Table, summary *analysis.Summary, v analysis.Result) (*Slide, error) {
	switch v.VType {
	case analysis.VNumber:
		return b.numberSlide(t, summary, v)
	case analysis.VCategory:
		return shareSlide(t, v, false)
	case analysis.VDatetime:
		s, err := shareSlide(t, v, true)
		if errors.Is(err, errAllUnique) {
			b.logger.Info("datetime column has only unique values, skipped", zap.String("column", v.Name))
			return nil, nil
		}
		return s, err
	case analysis.VText:
		return b.textSlide(t, v)
	case analysis.VGroupNumber:
		return groupSlide(t, summary, v)
	case analysis.VTextST:
		b.logger.Info("column may be an identifier, skipped", zap.String("column", v.Name))
		return nil, nil
	}
	b.logger.Warn("unknown variable type", zap.String("column", v.Name), zap.String("vtype", string(v.VType)))
	return nil, nil
}

func footnote(n int) string { return fmt.Sprintf("Note: sample N=%d", n) }

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (b *Builder) assetPath(name, suffix string) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "_")
	if base == "" {
		base = "var"
	}
	return filepath.Join(b.AssetDir, base+"_"+suffix+".png")
}

func (b *Builder) numberSlide(t *analysis.Table, summary *analysis.Summary, v analysis.Result) (*Slide, error) {
	col, err := t.Column(v.Name)
	if err != nil {
		return nil, err
	}
	values := col.Numbers()
	mean, _ := summary.Cell(analysis.StatMean, v.Name)
	std, _ := summary.Cell(analysis.StatStd, v.Name)
	maxv, _ := summary.Cell(analysis.StatMax, v.Name)
	s := &Slide{
		Title:    v.Name + " analysis",
		Summary:  fmt.Sprintf("Mean: %.2f, std: %.2f, max: %s", mean.Num, std.Num, maxv),
		Footnote: footnote(col.Count()),
	}
	if b.Plotter != nil {
		for _, kind := range []ChartKind{ChartKDE, ChartDist} {
			path, err := b.savePlot(v.Name, values, kind)
			if err != nil {
				return nil, err
			}
			s.Items = append(s.Items, Item{Kind: ItemPicture, ImagePath: path})
		}
		return s, nil
	}
	if len(values) == 0 {
		return s, nil
	}
	d, err := analysis.Distributions(values, b.Dist)
	if err != nil {
		return nil, fmt.Errorf("distribution of %q: %w", v.Name, err)
	}
	if d != nil && d.Hist != nil {
		tbl := &Table{Header: []string{"bin", v.Name}}
		for i, c := range d.Hist.Counts {
			tbl.Rows = append(tbl.Rows, []string{
				fmt.Sprintf("[%.4g, %.4g)", d.Hist.Edges[i], d.Hist.Edges[i+1]),
				fmt.Sprintf("%.4f", c),
			})
		}
		s.Items = append(s.Items, Item{Kind: ItemChart, ChartType: ChartColumnClustered, Table: tbl})
	}
	return s, nil
}

func (b *Builder) savePlot(name string, values []float64, kind ChartKind) (string, error) {
	fig, err := b.Plotter.Plot(name, values, kind)
	if err != nil {
		return "", fmt.Errorf("plot %s of %q: %w", kind, name, err)
	}
	defer fig.Close()
	path := b.assetPath(name, string(kind))
	if err := fig.Save(path); err != nil {
		return "", fmt.Errorf("save %s plot: %w", kind, err)
	}
	return path, nil
}

var errAllUnique = errors.New("all values unique")

// shareSlide charts the percentage of rows per value. Ordered categories keep
// their declared order; datetimes are sorted by value; otherwise most frequent first.
func shareSlide(t *analysis.Table, v analysis.Result, byValue bool) (*Slide, error) {
	col, err := t.Column(v.Name)
	if err != nil {
		return nil, err
	}
	counts := col.ValueCounts()
	if len(counts) == 0 {
		return nil, nil
	}
	if byValue && counts[0].Count == 1 {
		return nil, errAllUnique
	}
	if byValue {
		sort.Slice(counts, func(i, j int) bool { return counts[i].Value < counts[j].Value })
	}
	if v.Ordered && len(v.Categories) > 0 {
		byLabel := make(map[string]int, len(counts))
		for _, c := range counts {
			byLabel[c.Value] = c.Count
		}
		counts = counts[:0]
		for _, cat := range v.Categories {
			counts = append(counts, analysis.CategoryCount{Value: cat, Count: byLabel[cat]})
		}
	}
	total := col.Count()
	tbl := &Table{Header: []string{v.Name, "percent"}}
	top, topShare := "", -1.0
	for _, c := range counts {
		share := float64(c.Count) * 100 / float64(total)
		if share > topShare {
			top, topShare = c.Value, share
		}
		tbl.Rows = append(tbl.Rows, []string{c.Value, fmt.Sprintf("%.2f", share)})
	}
	return &Slide{
		Title:    v.Name + " analysis",
		Summary:  fmt.Sprintf("%s has the largest share: %.2f%%", top, topShare),
		Footnote: footnote(total),
		Items:    []Item{{Kind: ItemChart, ChartType: ChartColumnClustered, Table: tbl}},
	}, nil
}

func (b *Builder) textSlide(t *analysis.Table, v analysis.Result) (*Slide, error) {
	if b.WordCloud == nil {
		return nil, nil
	}
	col, err := t.Column(v.Name)
	if err != nil {
		return nil, err
	}
	var parts []string
	for i, ok := range col.Valid {
		if ok {
			parts = append(parts, col.Label(i))
		}
	}
	text := strings.Join(parts, ",")
	if len(text) <= 1 {
		return nil, nil
	}
	img, err := b.WordCloud.Generate(text, b.Style)
	if err != nil {
		b.logger.Warn("word cloud failed", zap.String("column", v.Name), zap.Error(err))
		return nil, nil
	}
	path := b.assetPath(v.Name, "wordcloud")
	if err := img.Save(path); err != nil {
		b.logger.Warn("word cloud not saved", zap.String("column", v.Name), zap.Error(err))
		return nil, nil
	}
	return &Slide{
		Title:    v.Name + " word cloud",
		Footnote: footnote(col.Count()),
		Items:    []Item{{Kind: ItemPicture, ImagePath: path}},
	}, nil
}

// groupSlide charts the mean of each member column.
func groupSlide(t *analysis.Table, summary *analysis.Summary, v analysis.Result) (*Slide, error) {
	tbl := &Table{Header: []string{"member", "mean"}}
	top, topMean := "", 0.0
	maxN := 0
	for i, m := range v.Members {
		col, err := t.Column(m)
		if err != nil {
			return nil, err
		}
		if n := col.Count(); n > maxN {
			maxN = n
		}
		mean, _ := summary.Cell(analysis.StatMean, m)
		if i == 0 || mean.Num > topMean {
			top, topMean = m, mean.Num
		}
		tbl.Rows = append(tbl.Rows, []string{m, fmt.Sprintf("%.2f", mean.Num)})
	}
	return &Slide{
		Title:    v.Name + " analysis",
		Summary:  fmt.Sprintf("%s has the largest mean: %.2f", top, topMean),
		Footnote: footnote(maxN),
		Items:    []Item{{Kind: ItemChart, ChartType: ChartColumnClustered, Table: tbl}},
	}, nil
}
