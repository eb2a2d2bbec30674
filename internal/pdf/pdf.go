// Package pdf renders tabular report documents to A4 PDF files.
package pdf

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	margin     = 30.0
	bodySize   = 8.0
	lineHeight = 10.0
	cellPadX   = 3.0
	cellPadY   = 3.0
	headerPadY = 6.0
	titleSize  = 16.0
	textSize   = 10.0
	unicodeFam = "ReportSerif"
	coreFam    = "Times"
)

var ErrFileNotFound = errors.New("report file not found")

type Column struct {
	Title string
	Width float64
	Wrap  bool
}

type Document struct {
	Title    string
	Preamble []string
	Columns  []Column
	Rows     [][]string
	Summary  []string
}

type Renderer struct {
	dir      string
	fontPath string
	now      func() time.Time
}

func NewRenderer(dir, fontPath string) *Renderer {
	return &Renderer{dir: dir, fontPath: fontPath, now: time.Now}
}

// FileName builds "{kind}_report_{YYYYMMDD_HHMMSS}.pdf".
func FileName(kind string, t time.Time) string {
	return fmt.Sprintf("%s_report_%s.pdf", kind, t.Format("20060102_150405"))
}

// Render writes doc into the report directory and returns the file name.
func (r *Renderer) Render(kind string, doc Document) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	name := FileName(kind, r.now())
	path := filepath.Join(r.dir, name)

	w := r.newWriter()
	w.write(doc)
	if err := w.pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	log.Printf("pdf: %s written (%d rows)", name, len(doc.Rows))
	return name, nil
}

// Path resolves a generated file by bare name.
func (r *Renderer) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".pdf") {
		return "", ErrFileNotFound
	}
	path := filepath.Join(r.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrFileNotFound
	}
	return path, nil
}

type writer struct {
	pdf    *fpdf.Fpdf
	family string
	text   func(string) string
}

func newDoc() *fpdf.Fpdf {
	p := fpdf.New("P", "pt", "A4", "")
	p.SetMargins(margin, margin, margin)
	p.SetAutoPageBreak(false, margin)
	return p
}

// newWriter registers the TTF from its bytes so that absolute and relative
// font paths behave the same.
func (r *Renderer) newWriter() *writer {
	p := newDoc()
	w := &writer{pdf: p, family: coreFam, text: asciiOnly}
	data, err := os.ReadFile(r.fontPath)
	if err != nil {
		log.Printf("[WARN] pdf: font %s not loaded: %v, falling back to %s", r.fontPath, err, coreFam)
		return w
	}
	p.AddUTF8FontFromBytes(unicodeFam, "", data)
	p.AddUTF8FontFromBytes(unicodeFam, "B", data)
	if p.Err() {
		log.Printf("[WARN] pdf: cannot load font %s: %v, falling back to %s", r.fontPath, p.Error(), coreFam)
		w.pdf = newDoc()
		return w
	}
	w.family = unicodeFam
	w.text = func(s string) string { return s }
	return w
}

// asciiOnly keeps core fonts, which cannot encode Cyrillic, from corrupting the output.
func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || (r >= 0x20 && r < 0x7f) {
			return r
		}
		return '?'
	}, s)
}

func (w *writer) write(doc Document) {
	p := w.pdf
	p.AddPage()

	p.SetFont(w.family, "B", titleSize)
	p.SetTextColor(0, 0, 0)
	p.MultiCell(0, titleSize*1.3, w.text(doc.Title), "", "C", false)
	p.Ln(textSize * 1.4)

	p.SetFont(w.family, "", textSize)
	for _, line := range doc.Preamble {
		w.textLine(line)
	}
	if len(doc.Preamble) > 0 {
		p.Ln(textSize * 1.4)
	}

	if len(doc.Columns) > 0 {
		w.table(doc)
	}

	p.SetFont(w.family, "", textSize)
	p.SetTextColor(0, 0, 0)
	p.Ln(textSize * 1.4)
	for _, line := range doc.Summary {
		w.textLine(line)
	}
}

func (w *writer) textLine(s string) {
	h := textSize * 1.4
	w.ensureSpace(h)
	w.pdf.CellFormat(0, h, w.text(s), "", 1, "L", false, 0, "")
}

func (w *writer) ensureSpace(h float64) bool {
	_, pageH := w.pdf.GetPageSize()
	if w.pdf.GetY()+h <= pageH-margin {
		return false
	}
	w.pdf.AddPage()
	return true
}

func (w *writer) table(doc Document) {
	p := w.pdf
	pageW, _ := p.GetPageSize()
	total := 0.0
	for _, c := range doc.Columns {
		total += c.Width
	}
	left := (pageW - total) / 2
	if left < margin {
		left = margin
	}

	header := make([]string, len(doc.Columns))
	for i, c := range doc.Columns {
		header[i] = c.Title
	}

	p.SetFont(w.family, "", bodySize)
	p.SetLineWidth(1)
	p.SetDrawColor(0, 0, 0)
	w.row(doc.Columns, header, left, true)
	for _, cells := range doc.Rows {
		h := w.rowHeight(doc.Columns, cells, false)
		if w.ensureSpace(h) {
			w.row(doc.Columns, header, left, true)
		}
		w.row(doc.Columns, cells, left, false)
	}
}

func (w *writer) cellLines(col Column, text string, header bool) []string {
	text = w.text(text)
	if !header && !col.Wrap {
		return []string{text}
	}
	lines := w.pdf.SplitText(text, col.Width-2*cellPadX)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func (w *writer) rowHeight(cols []Column, cells []string, header bool) float64 {
	n := 1
	for i, col := range cols {
		if i >= len(cells) {
			break
		}
		if l := len(w.cellLines(col, cells[i], header)); l > n {
			n = l
		}
	}
	h := float64(n)*lineHeight + 2*cellPadY
	if header {
		h += headerPadY
	}
	return h
}

func (w *writer) row(cols []Column, cells []string, left float64, header bool) {
	p := w.pdf
	h := w.rowHeight(cols, cells, header)
	y := p.GetY()
	x := left
	for i, col := range cols {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		if header {
			p.SetFillColor(128, 128, 128)
			p.SetTextColor(245, 245, 245)
		} else {
			p.SetFillColor(245, 245, 220)
			p.SetTextColor(0, 0, 0)
		}
		p.Rect(x, y, col.Width, h, "FD")

		lines := w.cellLines(col, text, header)
		top := y + (h-float64(len(lines))*lineHeight)/2
		for j, line := range lines {
			p.SetXY(x+cellPadX, top+float64(j)*lineHeight)
			p.CellFormat(col.Width-2*cellPadX, lineHeight, line, "", 0, "C", false, 0, "")
		}
		x += col.Width
	}
	p.SetXY(left, y+h)
}
