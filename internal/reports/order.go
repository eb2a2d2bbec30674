package reports

import (
	"strconv"
	"time"

	"florist-backend/internal/pdf"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	colPrice         = "price"
	colSum           = "sum"
	colPossiblePrice = "possible_price"
	colConditions    = "conditions"
)

var discountRate = decimal.RequireFromString("0.03")

var orderLayout = layout{
	{key: colNumber, title: "№ п/п", width: 30},
	{key: colProduct, title: "Товар", width: 150, wrap: true},
	{key: colQuantity, title: "Количество", width: 50, editable: true},
	{key: colPrice, title: "Цена", width: 60},
	{key: colSum, title: "Сумма", width: 60},
	{key: colPossiblePrice, title: "Возможная цена", width: 70},
	{key: colConditions, title: "Условия получения", width: 90},
}

type orderRow struct {
	product  string
	quantity int
	price    decimal.Decimal
}

func (r orderRow) sum() decimal.Decimal {
	return r.price.Mul(decimal.NewFromInt(int64(r.quantity)))
}

func (r orderRow) possiblePrice() decimal.Decimal {
	return r.sum().Mul(discountRate)
}

// OrderSheet is an in-memory order form priced from the product list.
type OrderSheet struct {
	date time.Time
	rows []orderRow
}

func openOrder(db *gorm.DB, date time.Time) (*OrderSheet, error) {
	products, err := loadProducts(db)
	if err != nil {
		return nil, err
	}
	s := &OrderSheet{date: date, rows: make([]orderRow, 0, len(products))}
	for i := range products {
		p := &products[i]
		s.rows = append(s.rows, orderRow{product: p.Description, price: p.PriceOrZero()})
	}
	return s, nil
}

func (s *OrderSheet) Type() ReportType { return TypeOrder }

func (s *OrderSheet) cells(i int) []string {
	r := s.rows[i]
	return []string{
		strconv.Itoa(i + 1),
		r.product,
		strconv.Itoa(r.quantity),
		r.price.StringFixed(2),
		r.sum().StringFixed(2),
		r.possiblePrice().StringFixed(2),
		OrderConditions,
	}
}

func (s *OrderSheet) title() string {
	return "Бланк заказа на " + LocalizeDate(s.date)
}

func (s *OrderSheet) summary() []string {
	total, possible := decimal.Zero, decimal.Zero
	for _, r := range s.rows {
		total = total.Add(r.sum())
		possible = possible.Add(r.possiblePrice())
	}
	return []string{
		"Итого: " + total.StringFixed(2),
		"Итого возможная цена: " + possible.StringFixed(2),
	}
}

func (s *OrderSheet) Grid() Grid {
	rows := make([][]string, len(s.rows))
	for i := range s.rows {
		rows[i] = s.cells(i)
	}
	return Grid{
		Type:    TypeOrder,
		Date:    s.date.Format(DateLayout),
		Title:   s.title(),
		Columns: orderLayout.columns(),
		Rows:    rows,
		Summary: s.summary(),
	}
}

// EditCell recomputes the row totals. Nothing is persisted.
func (s *OrderSheet) EditCell(_ *gorm.DB, row int, column, value string) (CellEdit, error) {
	if err := orderLayout.checkEditable(column); err != nil {
		return CellEdit{}, err
	}
	if err := checkRow(row, len(s.rows)); err != nil {
		return CellEdit{}, err
	}
	qty, ok := parseQuantity(value)
	s.rows[row].quantity = qty
	return CellEdit{Row: row, Column: column, Value: strconv.Itoa(qty), Reset: !ok}, nil
}

func (s *OrderSheet) DeleteRows(_ *gorm.DB, rows []int) error {
	desc, err := normalizeRows(rows, len(s.rows))
	if err != nil {
		return err
	}
	s.rows = removeRows(s.rows, desc)
	return nil
}

func (s *OrderSheet) Document() pdf.Document {
	rows := make([][]string, len(s.rows))
	for i := range s.rows {
		rows[i] = s.cells(i)
	}
	return pdf.Document{
		Title:   s.title(),
		Columns: orderLayout.pdfColumns(),
		Rows:    rows,
		Summary: s.summary(),
	}
}
