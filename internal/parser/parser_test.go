package parser_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/reportgen-cli/internal/analysis"
	"github.com/KaramelBytes/reportgen-cli/internal/parser"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadFileCSVInfersKinds(t *testing.T) {
	p := writeFile(t, "survey.csv", strings.Join([]string{
		"id,score,ratio,city,when",
		"1,10,0.5,Paris,2018-01-01",
		"2,,1.5,Lyon,2018-01-02",
		"3,12,NA,Paris,2018-01-03",
	}, "\n"))

	tbl, err := parser.LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "score", "ratio", "city", "when"}, tbl.Names())
	assert.Equal(t, 3, tbl.Len())

	want := map[string]analysis.Kind{
		"id":    analysis.KindInt,
		"score": analysis.KindInt,
		"ratio": analysis.KindFloat,
		"city":  analysis.KindString,
		"when":  analysis.KindString,
	}
	for name, kind := range want {
		col, err := tbl.Column(name)
		require.NoError(t, err)
		assert.Equal(t, kind, col.Kind, name)
	}
	score, _ := tbl.Column("score")
	assert.Equal(t, 2, score.Count())
	ratio, _ := tbl.Column("ratio")
	assert.False(t, ratio.Valid[2])
}

func TestLoadFileTSVUsesTab(t *testing.T) {
	p := writeFile(t, "a.tsv", "a\tb\n1\tx\n2\ty\n")
	tbl, err := parser.LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
}

func TestLoadFileDuplicateHeaders(t *testing.T) {
	p := writeFile(t, "dup.csv", "a,a,\n1,2,3\n")
	tbl, err := parser.LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2"}, tbl.Names())
}

func TestLoadFileUnsupported(t *testing.T) {
	p := writeFile(t, "notes.txt", "hello")
	_, err := parser.LoadFile(p)
	require.ErrorIs(t, err, parser.ErrUnsupported)
}

func TestLoadFileEmptyCSV(t *testing.T) {
	p := writeFile(t, "empty.csv", "")
	tbl, err := parser.LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Names())
}

func writeXLSX(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "book.xlsx")
	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	files := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>
<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Notes" sheetId="1" r:id="rId1"/><sheet name="Data" sheetId="2" r:id="rId2"/></sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>
<Relationships>
<Relationship Id="rId1" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`,
		"xl/sharedStrings.xml": `<?xml version="1.0"?>
<sst><si><t>Item1</t></si><si><t>Item2</t></si><si><t>name</t></si><si><t>alpha</t></si><si><t>beta</t></si></sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0"?>
<worksheet><sheetData><row r="1"><c r="A1" t="inlineStr"><is><t>memo</t></is></c></row></sheetData></worksheet>`,
		"xl/worksheets/sheet2.xml": `<?xml version="1.0"?>
<worksheet><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="s"><v>2</v></c></row>
<row r="2"><c r="A2"><v>1</v></c><c r="B2"><v>2.5</v></c><c r="C2" t="s"><v>3</v></c></row>
<row r="3"><c r="A3"><v>4</v></c><c r="C3" t="s"><v>4</v></c></row>
</sheetData></worksheet>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return p
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	p := writeXLSX(t)

	byName, err := parser.LoadXLSX(p, "data", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Item1", "Item2", "name"}, byName.Names())
	assert.Equal(t, 2, byName.Len())

	item2, err := byName.Column("Item2")
	require.NoError(t, err)
	assert.Equal(t, analysis.KindFloat, item2.Kind)
	assert.False(t, item2.Valid[1])

	name, _ := byName.Column("name")
	assert.Equal(t, []string{"alpha", "beta"}, name.Strings)

	byIndex, err := parser.LoadXLSX(p, "", 2)
	require.NoError(t, err)
	assert.Equal(t, byName.Names(), byIndex.Names())

	first, err := parser.LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"memo"}, first.Names())
}

func TestLoadXLSXMissingSheet(t *testing.T) {
	p := writeXLSX(t)
	_, err := parser.LoadXLSX(p, "Nope", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available sheets: Notes, Data")
}
