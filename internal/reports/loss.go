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
	colLossDate   = "loss_date"
	colReportDate = "report_date"
)

var lossLayout = layout{
	{key: colNumber, title: "№", width: 30},
	{key: colLossDate, title: "Дата убытия", width: 90, editable: true},
	{key: colQuantity, title: "Количество убытого товара", width: 90, editable: true},
	{key: colReportDate, title: "Дата отчета", width: 90},
	{key: colProduct, title: "Товар", width: 150, wrap: true},
}

type lossRow struct {
	productID uint
	lossDate  string
	quantity  string
	product   string
}

// LossSheet lists discarded quantities per product for the sheet's date.
type LossSheet struct {
	date time.Time
	rows []lossRow
}

func openLoss(db *gorm.DB, date time.Time) (*LossSheet, error) {
	products, err := loadProducts(db)
	if err != nil {
		return nil, err
	}
	var existing []models.LossReport
	if err := db.Where("formation_date = ?", date).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("load loss reports: %w", err)
	}
	byProduct := make(map[uint]models.LossReport, len(existing))
	for _, r := range existing {
		byProduct[r.ProductID] = r
	}

	s := &LossSheet{date: date, rows: make([]lossRow, 0, len(products))}
	for i := range products {
		p := &products[i]
		row := lossRow{
			productID: p.ID,
			lossDate:  date.Format(DateLayout),
			quantity:  "0",
			product:   categoryLabel(p),
		}
		if r, ok := byProduct[p.ID]; ok {
			row.lossDate = Day(r.LossDate).Format(DateLayout)
			row.quantity = strconv.Itoa(r.Quantity)
		}
		s.rows = append(s.rows, row)
	}
	return s, nil
}

func (s *LossSheet) Type() ReportType { return TypeLoss }

func (s *LossSheet) cells(i int) []string {
	r := s.rows[i]
	return []string{strconv.Itoa(i + 1), r.lossDate, r.quantity, LocalizeDate(s.date), r.product}
}

func (s *LossSheet) title() string {
	return "Отчет по убыли товаров на " + LocalizeDate(s.date)
}

func (s *LossSheet) summary() []string {
	n := 0
	for _, r := range s.rows {
		q, _ := parseQuantity(r.quantity)
		n += q
	}
	return []string{fmt.Sprintf("Итого убыло: %d единиц", n)}
}

func (s *LossSheet) Grid() Grid {
	rows := make([][]string, len(s.rows))
	for i := range s.rows {
		rows[i] = s.cells(i)
	}
	return Grid{
		Type:    TypeLoss,
		Date:    s.date.Format(DateLayout),
		Title:   s.title(),
		Columns: lossLayout.columns(),
		Rows:    rows,
		Summary: s.summary(),
	}
}

// EditCell follows the arrival rules: an invalid loss date resets the date
// cell and skips the save, a bad quantity becomes 0.
func (s *LossSheet) EditCell(db *gorm.DB, row int, column, value string) (CellEdit, error) {
	if err := lossLayout.checkEditable(column); err != nil {
		return CellEdit{}, err
	}
	if err := checkRow(row, len(s.rows)); err != nil {
		return CellEdit{}, err
	}
	r := &s.rows[row]
	edit := CellEdit{Row: row, Column: column}

	switch column {
	case colLossDate:
		r.lossDate = value
	case colQuantity:
		r.quantity = value
	}

	lossDate, err := ParseDay(r.lossDate)
	if err != nil {
		r.lossDate = s.date.Format(DateLayout)
		edit.Value, edit.Reset = r.lossDate, true
		return edit, nil
	}
	r.lossDate = lossDate.Format(DateLayout)

	qty, ok := parseQuantity(r.quantity)
	if !ok {
		edit.Reset = column == colQuantity
	}
	r.quantity = strconv.Itoa(qty)

	if column == colLossDate {
		edit.Value = r.lossDate
	} else {
		edit.Value = r.quantity
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var rep models.LossReport
		err := tx.Where("product_id = ? AND formation_date = ?", r.productID, s.date).First(&rep).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rep = models.LossReport{LossDate: lossDate, Quantity: qty, FormationDate: s.date, ProductID: r.productID}
			return tx.Create(&rep).Error
		}
		if err != nil {
			return err
		}
		rep.LossDate = lossDate
		rep.Quantity = qty
		return tx.Save(&rep).Error
	})
	if err != nil {
		return edit, fmt.Errorf("save loss report: %w", err)
	}
	return edit, nil
}

// DeleteRows drops rows from the grid only.
func (s *LossSheet) DeleteRows(_ *gorm.DB, rows []int) error {
	desc, err := normalizeRows(rows, len(s.rows))
	if err != nil {
		return err
	}
	s.rows = removeRows(s.rows, desc)
	return nil
}

func (s *LossSheet) Document() pdf.Document {
	rows := make([][]string, len(s.rows))
	for i := range s.rows {
		rows[i] = s.cells(i)
	}
	return pdf.Document{
		Title:   s.title(),
		Columns: lossLayout.pdfColumns(),
		Rows:    rows,
		Summary: s.summary(),
	}
}
