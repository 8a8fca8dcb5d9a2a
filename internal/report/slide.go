package report

// ItemKind tags the payload of a slide item.
type ItemKind string

const (
	ItemTable   ItemKind = "table"
	ItemChart   ItemKind = "chart"
	ItemPicture ItemKind = "picture"
)

// ChartKind names a figure requested from a Plotter.
type ChartKind string

const (
	ChartHist    ChartKind = "hist"
	ChartKDE     ChartKind = "kde"
	ChartDist    ChartKind = "dist"
	ChartScatter ChartKind = "scatter"
)

// ChartColumnClustered is the chart type used for share and mean charts.
const ChartColumnClustered = "COLUMN_CLUSTERED"

// Table is a small rectangular payload; Header[0] labels the row index.
type Table struct {
	Header []string   `json:"header" yaml:"header"`
	Rows   [][]string `json:"rows" yaml:"rows"`
}

// Item is one payload on a slide.
type Item struct {
	Kind      ItemKind `json:"kind" yaml:"kind"`
	Table     *Table   `json:"table,omitempty" yaml:"table,omitempty"`
	ChartType string   `json:"chart_type,omitempty" yaml:"chart_type,omitempty"`
	ImagePath string   `json:"image_path,omitempty" yaml:"image_path,omitempty"`
}

// Slide describes one report slide. Rendering is left to the consumer.
type Slide struct {
	Title    string `json:"title" yaml:"title"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Footnote string `json:"footnote,omitempty" yaml:"footnote,omitempty"`
	Items    []Item `json:"items" yaml:"items"`
}

// Style carries rendering settings for text-bearing images.
type Style struct {
	FontPath string
}

// Figure is a rendered chart handle.
type Figure interface {
	Save(path string) error
	Close() error
}

// Plotter renders figures for numeric data.
type Plotter interface {
	Plot(name string, values []float64, kind ChartKind) (Figure, error)
}

// Image is a generated picture.
type Image interface {
	Save(path string) error
}

// WordCloud renders joined free text into an image.
type WordCloud interface {
	Generate(text string, style Style) (Image, error)
}
