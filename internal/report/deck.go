package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/reportgen-cli/internal/analysis"
	"github.com/KaramelBytes/reportgen-cli/internal/utils"
)

// Deck is a generated report: the detected variables and their slides.
type Deck struct {
	ID        string            `json:"id" yaml:"id"`
	Title     string            `json:"title" yaml:"title"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Variables []analysis.Result `json:"variables" yaml:"variables"`
	Skipped   []string          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Slides    []Slide           `json:"slides" yaml:"slides"`
}

// DefaultTitle names a report after the time it was generated.
func DefaultTitle(now time.Time) string {
	return "AnalysisReport_" + now.Format("200601021504")
}

// NewDeck constructs an empty deck. An empty title selects DefaultTitle.
func NewDeck(title string) *Deck {
	now := time.Now()
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle(now)
	}
	return &Deck{ID: uuid.NewString(), Title: title, CreatedAt: now}
}

// Generate classifies every column of t, merges indexed runs and builds
// the slides. The table is normalized in place.
func Generate(t *analysis.Table, c *analysis.Classifier, b *Builder, title string) (*Deck, error) {
	det, err := c.Detect(t, true)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	slides, err := b.Build(t, det)
	if err != nil {
		return nil, err
	}
	d := NewDeck(title)
	d.Variables = det.Variables
	d.Skipped = det.Skipped
	d.Slides = slides
	return d, nil
}

// Save writes the deck; the extension of path picks JSON, YAML or Markdown.
func (d *Deck) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("ensure dir: %w", err)
		}
	}
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = utils.PrettyJSON(d)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(d)
		if err != nil {
			err = fmt.Errorf("marshal yaml: %w", err)
		}
	case ".md", ".markdown":
		data = []byte(d.Markdown())
	default:
		return fmt.Errorf("unsupported report format %q (use .json, .yaml or .md)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, data)
}

// LoadDeck reads a deck saved as JSON or YAML.
func LoadDeck(path string) (*Deck, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("report not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read report: %w", err)
	}
	var d Deck
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &d)
	default:
		err = json.Unmarshal(b, &d)
	}
	if err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &d, nil
}

// Markdown renders the deck as a standalone document.
func (d *Deck) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + d.Title + "\n\n")
	if len(d.Variables) > 0 {
		b.WriteString("## Variables\n\n")
		for _, v := range d.Variables {
			b.WriteString(fmt.Sprintf("- %s: %s", safeVal(v.Name), v.VType))
			if len(v.Members) > 1 {
				b.WriteString(fmt.Sprintf(" (%s)", safeVal(strings.Join(v.Members, ", "))))
			}
			b.WriteString("\n")
		}
		if len(d.Skipped) > 0 {
			b.WriteString(fmt.Sprintf("- skipped: %s\n", safeVal(strings.Join(d.Skipped, ", "))))
		}
		b.WriteString("\n")
	}
	for _, s := range d.Slides {
		b.WriteString("## " + s.Title + "\n\n")
		if s.Summary != "" {
			b.WriteString(s.Summary + "\n\n")
		}
		for _, it := range s.Items {
			switch it.Kind {
			case ItemPicture:
				b.WriteString(fmt.Sprintf("![%s](%s)\n\n", safeVal(s.Title), it.ImagePath))
			default:
				if it.Table != nil {
					writeTable(&b, it.Table)
				}
			}
		}
		if s.Footnote != "" {
			b.WriteString("_" + s.Footnote + "_\n\n")
		}
	}
	return b.String()
}

func writeTable(b *strings.Builder, t *Table) {
	if len(t.Header) == 0 {
		return
	}
	row := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" " + safeVal(c) + " |")
		}
		b.WriteString("\n")
	}
	row(t.Header)
	b.WriteString("|" + strings.Repeat("---|", len(t.Header)) + "\n")
	for _, r := range t.Rows {
		row(r)
	}
	b.WriteString("\n")
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
