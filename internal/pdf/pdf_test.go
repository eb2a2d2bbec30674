package pdf

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc(rows int) Document {
	doc := Document{
		Title:    "Отчет по поступлению товаров",
		Preamble: []string{"Поставщик: ___"},
		Columns: []Column{
			{Title: "№", Width: 30},
			{Title: "Товар", Width: 100, Wrap: true},
			{Title: "Количество", Width: 50},
		},
		Summary: []string{"Итого поступило: 3 единиц"},
	}
	for i := 0; i < rows; i++ {
		doc.Rows = append(doc.Rows, []string{"1", strings.Repeat("long product description ", 6), "3"})
	}
	return doc
}

func fixedRenderer(t *testing.T) *Renderer {
	t.Helper()
	r := NewRenderer(t.TempDir(), filepath.Join(t.TempDir(), "missing.ttf"))
	r.now = func() time.Time { return time.Date(2024, 5, 5, 14, 3, 9, 0, time.UTC) }
	return r
}

func TestFileName(t *testing.T) {
	got := FileName("stock", time.Date(2024, 5, 5, 14, 3, 9, 0, time.UTC))
	assert.Equal(t, "stock_report_20240505_140309.pdf", got)
}

func TestRenderWithoutFontFallsBack(t *testing.T) {
	r := fixedRenderer(t)

	name, err := r.Render("arrival", sampleDoc(3))
	require.NoError(t, err)
	assert.Equal(t, "arrival_report_20240505_140309.pdf", name)

	data, err := os.ReadFile(filepath.Join(r.dir, name))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestRenderManyRowsBreaksPages(t *testing.T) {
	r := fixedRenderer(t)

	name, err := r.Render("loss", sampleDoc(120))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(r.dir, name))
	require.NoError(t, err)
	assert.Greater(t, strings.Count(string(data), "/Type /Page\n"), 1)
}

func TestRenderEmptyTable(t *testing.T) {
	r := fixedRenderer(t)
	doc := sampleDoc(0)
	doc.Rows = nil

	_, err := r.Render("invoice", doc)
	require.NoError(t, err)
}

func TestPathRejectsTraversal(t *testing.T) {
	r := fixedRenderer(t)
	name, err := r.Render("stock", sampleDoc(1))
	require.NoError(t, err)

	path, err := r.Path(name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.dir, name), path)

	for _, bad := range []string{"", "../secret.pdf", "a/b.pdf", ".hidden.pdf", "notes.txt", "other_report.pdf"} {
		_, err := r.Path(bad)
		assert.ErrorIs(t, err, ErrFileNotFound, bad)
	}
}

func TestASCIIOnly(t *testing.T) {
	assert.Equal(t, "?? 5 ab", asciiOnly("Ит 5 ab"))
}

// bundledFont locates a DejaVu TTF shipped inside the fpdf module source tree.
func bundledFont(t *testing.T) string {
	t.Helper()
	fn := runtime.FuncForPC(reflect.ValueOf(fpdf.New).Pointer())
	require.NotNil(t, fn)
	src, _ := fn.FileLine(fn.Entry())
	path := filepath.Join(filepath.Dir(src), "font", "DejaVuSansCondensed.ttf")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("bundled font not available: %v", err)
	}
	return path
}

func TestRenderWithAbsoluteFontPath(t *testing.T) {
	font := bundledFont(t)
	require.True(t, filepath.IsAbs(font))

	r := NewRenderer(t.TempDir(), font)
	r.now = func() time.Time { return time.Date(2024, 5, 5, 14, 3, 9, 0, time.UTC) }

	w := r.newWriter()
	assert.Equal(t, unicodeFam, w.family)
	assert.Equal(t, "Итого", w.text("Итого"))

	name, err := r.Render("stock", sampleDoc(40))
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Contains(t, string(data), "/FontFile2")
}
