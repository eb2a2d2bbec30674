// Package reports builds the date-scoped report sheets (arrival, stock, loss,
// order form) and reconciles edited cells with the persisted report rows.
package reports

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"florist-backend/internal/models"
	"florist-backend/internal/pdf"

	"github.com/goodsign/monday"
	"gorm.io/gorm"
)

type ReportType string

const (
	TypeArrival ReportType = "arrival"
	TypeStock   ReportType = "stock"
	TypeLoss    ReportType = "loss"
	TypeOrder   ReportType = "order_conversion"
)

const (
	DateLayout      = "2006-01-02"
	DefaultExpiry   = "10 дней"
	OrderConditions = "3% скидка"
	NoDescription   = "Описание отсутствует"
	NoSupplier      = "Не указан"
)

var (
	ErrNoSheet           = errors.New("no report sheet is open")
	ErrUnknownReportType = errors.New("unknown report type")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrColumnNotEditable = errors.New("column is not editable")
	ErrRowOutOfRange     = errors.New("row index out of range")
)

func ParseReportType(s string) (ReportType, error) {
	switch t := ReportType(s); t {
	case TypeArrival, TypeStock, TypeLoss, TypeOrder:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReportType, s)
}

type Column struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Editable bool   `json:"editable"`
}

// Grid is the rendered state of a sheet. Rows hold cell text in column order.
type Grid struct {
	Type    ReportType `json:"type"`
	Date    string     `json:"date"`
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary []string   `json:"summary"`
}

// CellEdit reports the value a cell holds after an edit. Reset is set when the
// input failed validation and the cell fell back to its default.
type CellEdit struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reset  bool   `json:"reset"`
}

// Sheet is one open report grid. Row indexes are zero-based; the "№" column
// is always the row position plus one.
type Sheet interface {
	Type() ReportType
	Grid() Grid
	EditCell(db *gorm.DB, row int, column, value string) (CellEdit, error)
	DeleteRows(db *gorm.DB, rows []int) error
	Document() pdf.Document
}

// Open loads the sheet of type t for date.
func Open(db *gorm.DB, t ReportType, date time.Time) (Sheet, error) {
	date = Day(date)
	switch t {
	case TypeArrival:
		return openArrival(db, date)
	case TypeStock:
		return openStock(db, date)
	case TypeLoss:
		return openLoss(db, date)
	case TypeOrder:
		return openOrder(db, date)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownReportType, t)
}

type columnSpec struct {
	key      string
	title    string
	width    float64
	editable bool
	wrap     bool
}

type layout []columnSpec

func (l layout) columns() []Column {
	out := make([]Column, len(l))
	for i, c := range l {
		out[i] = Column{Key: c.key, Title: c.title, Editable: c.editable}
	}
	return out
}

func (l layout) pdfColumns() []pdf.Column {
	out := make([]pdf.Column, len(l))
	for i, c := range l {
		out[i] = pdf.Column{Title: c.title, Width: c.width, Wrap: c.wrap}
	}
	return out
}

// checkEditable resolves an edit target, distinguishing unknown columns from read-only ones.
func (l layout) checkEditable(key string) error {
	for _, c := range l {
		if c.key == key {
			if !c.editable {
				return fmt.Errorf("%w: %s", ErrColumnNotEditable, key)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownColumn, key)
}

// Day truncates t to its calendar day at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// LocalizeDate formats a day the way the shop's documents print it, e.g. "5 мая 2024г".
func LocalizeDate(t time.Time) string {
	return monday.Format(t, "2 January 2006", monday.LocaleRuRU) + "г"
}

// parseQuantity accepts non-negative integers only.
func parseQuantity(s string) (int, bool) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || q < 0 {
		return 0, false
	}
	return q, true
}

func checkRow(row, n int) error {
	if row < 0 || row >= n {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	return nil
}

// normalizeRows validates indexes and returns them deduplicated in descending order.
func normalizeRows(rows []int, n int) ([]int, error) {
	seen := make(map[int]bool, len(rows))
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		if err := checkRow(r, n); err != nil {
			return nil, err
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] > out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func removeRows[T any](items []T, desc []int) []T {
	for _, r := range desc {
		items = append(items[:r], items[r+1:]...)
	}
	return items
}

func loadProducts(db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	if err := db.Omit("image").Preload("Supplier").Order("id asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

func categoryLabel(p *models.Product) string {
	return string(p.Category)
}
