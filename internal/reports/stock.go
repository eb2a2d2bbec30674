package reports

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"florist-backend/internal/models"
	"florist-backend/internal/pdf"

	"gorm.io/gorm"
)

const colExpiry = "expiry"

var stockLayout = layout{
	{key: colNumber, title: "№", width: 30},
	{key: colProduct, title: "Товар", width: 150, wrap: true},
	{key: colSupplier, title: "Поставщик", width: 100, wrap: true},
	{key: colQuantity, title: "Количество товара", width: 70, editable: true},
	{key: colExpiry, title: "Срок годности", width: 100, editable: true, wrap: true},
}

type stockRow struct {
	productID uint
	product   string
	supplier  string
	quantity  string
	expiry    string
}

// StockSheet lists the quantity on hand per product for the sheet's date.
// Expiry values live only in the open sheet.
type StockSheet struct {
	date time.Time
	rows []stockRow
}

func openStock(db *gorm.DB, date time.Time) (*StockSheet, error) {
	products, err := loadProducts(db)
	if err != nil {
		return nil, err
	}
	var existing []models.StockReport
	if err := db.Where("formation_date = ?", date).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("load stock reports: %w", err)
	}
	byProduct := make(map[uint]int, len(existing))
	for _, r := range existing {
		byProduct[r.ProductID] = r.Quantity
	}

	s := &StockSheet{date: date, rows: make([]stockRow, 0, len(products))}
	for i := range products {
		p := &products[i]
		row := stockRow{
			productID: p.ID,
			product:   p.Description,
			supplier:  p.SupplierName(),
			quantity:  strconv.Itoa(byProduct[p.ID]),
			expiry:    DefaultExpiry,
		}
		if row.product == "" {
			row.product = NoDescription
		}
		if row.supplier == "" {
			row.supplier = NoSupplier
		}
		s.rows = append(s.rows, row)
	}
	return s, nil
}

func (s *StockSheet) Type() ReportType { return TypeStock }

func (s *StockSheet) cells(i int) []string {
	r := s.rows[i]
	return []string{strconv.Itoa(i + 1), r.product, r.supplier, r.quantity, r.expiry}
}

func (s *StockSheet) title() string {
	return "Отчет по остаткам товаров на " + LocalizeDate(s.date)
}

func (s *StockSheet) summary() []string {
	n := 0
	for _, r := range s.rows {
		q, _ := parseQuantity(r.quantity)
		n += q
	}
	return []string{fmt.Sprintf("Итого остаток: %d единиц", n)}
}

func (s *StockSheet) Grid() Grid {
	rows := make([][]string, len(s.rows))
	for i := range s.rows {
		rows[i] = s.cells(i)
	}
	return Grid{
		Type:    TypeStock,
		Date:    s.date.Format(DateLayout),
		Title:   s.title(),
		Columns: stockLayout.columns(),
		Rows:    rows,
		Summary: s.summary(),
	}
}

func (s *StockSheet) EditCell(db *gorm.DB, row int, column, value string) (CellEdit, error) {
	if err := stockLayout.checkEditable(column); err != nil {
		return CellEdit{}, err
	}
	if err := checkRow(row, len(s.rows)); err != nil {
		return CellEdit{}, err
	}
	r := &s.rows[row]
	edit := CellEdit{Row: row, Column: column}

	if column == colExpiry {
		r.expiry = strings.TrimSpace(value)
		if r.expiry == "" {
			r.expiry = DefaultExpiry
			edit.Reset = true
		}
		edit.Value = r.expiry
		return edit, nil
	}

	qty, ok := parseQuantity(value)
	edit.Reset = !ok
	r.quantity = strconv.Itoa(qty)
	edit.Value = r.quantity

	err := db.Transaction(func(tx *gorm.DB) error {
		var rep models.StockReport
		err := tx.Where("product_id = ? AND formation_date = ?", r.productID, s.date).First(&rep).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rep = models.StockReport{Quantity: qty, FormationDate: s.date, ProductID: r.productID}
			return tx.Create(&rep).Error
		}
		if err != nil {
			return err
		}
		rep.Quantity = qty
		return tx.Save(&rep).Error
	})
	if err != nil {
		return edit, fmt.Errorf("save stock report: %w", err)
	}
	return edit, nil
}

// DeleteRows removes the persisted stock rows for the selected products in one
// transaction, then drops them from the grid. The grid is left untouched when
// the transaction fails.
func (s *StockSheet) DeleteRows(db *gorm.DB, rows []int) error {
	desc, err := normalizeRows(rows, len(s.rows))
	if err != nil {
		return err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, i := range desc {
			res := tx.Where("product_id = ? AND formation_date = ?", s.rows[i].productID, s.date).
				Delete(&models.StockReport{})
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete stock reports: %w", err)
	}
	s.rows = removeRows(s.rows, desc)
	return nil
}

func (s *StockSheet) Document() pdf.Document {
	rows := make([][]string, len(s.rows))
	for i := range s.rows {
		rows[i] = s.cells(i)
	}
	return pdf.Document{
		Title:   s.title(),
		Columns: stockLayout.pdfColumns(),
		Rows:    rows,
		Summary: s.summary(),
	}
}
