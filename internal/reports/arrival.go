package reports

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"florist-backend/internal/models"
	"florist-backend/internal/pdf"

	"gorm.io/gorm"
)

const (
	colNumber      = "number"
	colArrivalDate = "arrival_date"
	colQuantity    = "quantity"
	colProduct     = "product"
	colDescription = "description"
	colSupplier    = "supplier"
)

var arrivalLayout = layout{
	{key: colNumber, title: "№", width: 30},
	{key: colArrivalDate, title: "Дата поступления", width: 100, editable: true},
	{key: colQuantity, title: "Количество", width: 50, editable: true},
	{key: colProduct, title: "Товар", width: 100, wrap: true},
	{key: colDescription, title: "Описание", width: 150, wrap: true},
	{key: colSupplier, title: "Поставщик", width: 100},
}

type arrivalRow struct {
	productID   uint
	supplierID  *uint
	arrivalDate string
	quantity    string
	product     string
	description string
	supplier    string
}

// ArrivalSheet lists every product with the quantity received on the sheet's date.
type ArrivalSheet struct {
	date time.Time
	rows []arrivalRow
}

func openArrival(db *gorm.DB, date time.Time) (*ArrivalSheet, error) {
	products, err := loadProducts(db)
	if err != nil {
		return nil, err
	}
	var existing []models.ArrivalReport
	if err := db.Where("arrival_date = ?", date).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("load arrival reports: %w", err)
	}
	byProduct := make(map[uint]models.ArrivalReport, len(existing))
	for _, r := range existing {
		byProduct[r.ProductID] = r
	}

	s := &ArrivalSheet{date: date, rows: make([]arrivalRow, 0, len(products))}
	for i := range products {
		p := &products[i]
		row := arrivalRow{
			productID:   p.ID,
			supplierID:  p.SupplierID,
			arrivalDate: date.Format(DateLayout),
			quantity:    "0",
			product:     categoryLabel(p),
			description: p.Description,
			supplier:    p.SupplierName(),
		}
		if r, ok := byProduct[p.ID]; ok {
			row.arrivalDate = Day(r.ArrivalDate).Format(DateLayout)
			row.quantity = strconv.Itoa(r.Quantity)
		}
		s.rows = append(s.rows, row)
	}
	return s, nil
}

func (s *ArrivalSheet) Type() ReportType { return TypeArrival }

func (s *ArrivalSheet) cells(i int) []string {
	r := s.rows[i]
	return []string{strconv.Itoa(i + 1), r.arrivalDate, r.quantity, r.product, r.description, r.supplier}
}

func (s *ArrivalSheet) total() int {
	n := 0
	for _, r := range s.rows {
		q, _ := parseQuantity(r.quantity)
		n += q
	}
	return n
}

func (s *ArrivalSheet) title() string {
	return "Отчет по поступлению товаров на " + LocalizeDate(s.date)
}

func (s *ArrivalSheet) summary() []string {
	return []string{fmt.Sprintf("Итого поступило: %d единиц", s.total())}
}

func (s *ArrivalSheet) Grid() Grid {
	rows := make([][]string, len(s.rows))
	for i := range s.rows {
		rows[i] = s.cells(i)
	}
	return Grid{
		Type:    TypeArrival,
		Date:    s.date.Format(DateLayout),
		Title:   s.title(),
		Columns: arrivalLayout.columns(),
		Rows:    rows,
		Summary: s.summary(),
	}
}

// EditCell stores the edited value, normalizes the row and saves it. An
// unparseable arrival date resets the date cell to the sheet date and nothing
// is written.
func (s *ArrivalSheet) EditCell(db *gorm.DB, row int, column, value string) (CellEdit, error) {
	if err := arrivalLayout.checkEditable(column); err != nil {
		return CellEdit{}, err
	}
	if err := checkRow(row, len(s.rows)); err != nil {
		return CellEdit{}, err
	}
	r := &s.rows[row]
	edit := CellEdit{Row: row, Column: column}

	switch column {
	case colArrivalDate:
		r.arrivalDate = value
	case colQuantity:
		r.quantity = value
	}

	date, err := ParseDay(r.arrivalDate)
	if err != nil {
		r.arrivalDate = s.date.Format(DateLayout)
		edit.Value, edit.Reset = r.arrivalDate, true
		return edit, nil
	}
	r.arrivalDate = date.Format(DateLayout)

	qty, ok := parseQuantity(r.quantity)
	if !ok {
		edit.Reset = column == colQuantity
	}
	r.quantity = strconv.Itoa(qty)

	if column == colArrivalDate {
		edit.Value = r.arrivalDate
	} else {
		edit.Value = r.quantity
	}

	if err := saveArrival(db, r, date, qty, s.date); err != nil {
		return edit, err
	}
	return edit, nil
}

func saveArrival(db *gorm.DB, r *arrivalRow, date time.Time, qty int, formation time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var rep models.ArrivalReport
		err := tx.Where("product_id = ? AND arrival_date = ?", r.productID, date).First(&rep).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rep = models.ArrivalReport{
				ArrivalDate:   date,
				Quantity:      qty,
				FormationDate: formation,
				ProductID:     r.productID,
				SupplierID:    r.supplierID,
			}
			if err := tx.Create(&rep).Error; err != nil {
				return fmt.Errorf("create arrival report: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("find arrival report: %w", err)
		}
		rep.Quantity = qty
		rep.FormationDate = formation
		if err := tx.Save(&rep).Error; err != nil {
			return fmt.Errorf("update arrival report: %w", err)
		}
		return nil
	})
}

// DeleteRows drops rows from the grid only.
func (s *ArrivalSheet) DeleteRows(_ *gorm.DB, rows []int) error {
	desc, err := normalizeRows(rows, len(s.rows))
	if err != nil {
		return err
	}
	s.rows = removeRows(s.rows, desc)
	return nil
}

func (s *ArrivalSheet) Document() pdf.Document {
	rows := make([][]string, len(s.rows))
	for i := range s.rows {
		rows[i] = s.cells(i)
	}
	return pdf.Document{
		Title:   s.title(),
		Columns: arrivalLayout.pdfColumns(),
		Rows:    rows,
		Summary: s.summary(),
	}
}
