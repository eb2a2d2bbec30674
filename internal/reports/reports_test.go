package reports

import (
	"testing"
	"time"

	"florist-backend/internal/models"
	"florist-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var may5 = time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	supplier models.Supplier
	rose     models.Product
	tulip    models.Product
	orchid   models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{db: db}

	f.supplier = models.Supplier{Name: "Флора", Type: models.SupplierTypeOOO, Phone: "+7 900 000-00-00", Email: "flora@example.ru"}
	require.NoError(t, db.Create(&f.supplier).Error)

	f.rose = models.Product{
		Category:    models.CategoryFlower,
		Number:      1,
		Description: "Роза красная",
		Price:       decimal.NewNullDecimal(decimal.RequireFromString("150.50")),
		SupplierID:  &f.supplier.ID,
	}
	f.tulip = models.Product{
		Category:   models.CategoryBouquet,
		Number:     1,
		Price:      decimal.NewNullDecimal(decimal.RequireFromString("10")),
		SupplierID: &f.supplier.ID,
	}
	f.orchid = models.Product{Category: models.CategoryHouseplants, Number: 1, Description: "Орхидея"}
	for _, p := range []*models.Product{&f.rose, &f.tulip, &f.orchid} {
		require.NoError(t, db.Create(p).Error)
	}
	return f
}

func open(t *testing.T, f *fixture, typ ReportType) Sheet {
	t.Helper()
	s, err := Open(f.db, typ, may5)
	require.NoError(t, err)
	return s
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestLocalizeDate(t *testing.T) {
	assert.Equal(t, "5 мая 2024г", LocalizeDate(may5))
	assert.Equal(t, "1 января 2025г", LocalizeDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseReportType(t *testing.T) {
	typ, err := ParseReportType("order_conversion")
	require.NoError(t, err)
	assert.Equal(t, TypeOrder, typ)

	_, err = ParseReportType("sales")
	assert.ErrorIs(t, err, ErrUnknownReportType)
}

func TestArrivalGridDefaults(t *testing.T) {
	f := newFixture(t)
	g := open(t, f, TypeArrival).Grid()

	assert.Equal(t, "Отчет по поступлению товаров на 5 мая 2024г", g.Title)
	require.Len(t, g.Rows, 3)
	assert.Equal(t, []string{"1", "2024-05-05", "0", "Цветок", "Роза красная", "Флора"}, g.Rows[0])
	assert.Equal(t, []string{"3", "2024-05-05", "0", "Комнатные растения", "Орхидея", ""}, g.Rows[2])
	assert.Equal(t, []string{"Итого поступило: 0 единиц"}, g.Summary)
}

func TestArrivalSaveUpsertsWithoutDuplicates(t *testing.T) {
	f := newFixture(t)
	s := open(t, f, TypeArrival)

	edit, err := s.EditCell(f.db, 0, "quantity", "12")
	require.NoError(t, err)
	assert.Equal(t, CellEdit{Row: 0, Column: "quantity", Value: "12"}, edit)

	_, err = s.EditCell(f.db, 0, "quantity", "7")
	require.NoError(t, err)
	assert.EqualValues(t, 1, countRows(t, f.db, &models.ArrivalReport{}))

	var rep models.ArrivalReport
	require.NoError(t, f.db.First(&rep).Error)
	assert.Equal(t, 7, rep.Quantity)
	assert.Equal(t, f.rose.ID, rep.ProductID)
	require.NotNil(t, rep.SupplierID)
	assert.Equal(t, f.supplier.ID, *rep.SupplierID)
	assert.Equal(t, "2024-05-05", Day(rep.FormationDate).Format(DateLayout))

	// Reopening shows the stored quantity.
	g := open(t, f, TypeArrival).Grid()
	assert.Equal(t, "7", g.Rows[0][2])
	assert.Equal(t, "Итого поступило: 7 единиц", g.Summary[0])
}

func TestArrivalDifferentDateCreatesSecondRow(t *testing.T) {
	f := newFixture(t)
	s := open(t, f, TypeArrival)

	_, err := s.EditCell(f.db, 0, "quantity", "3")
	require.NoError(t, err)
	_, err = s.EditCell(f.db, 0, "arrival_date", "2024-05-04")
	require.NoError(t, err)

	assert.EqualValues(t, 2, countRows(t, f.db, &models.ArrivalReport{}))
}

func TestArrivalInvalidDateResetsAndSkipsSave(t *testing.T) {
	f := newFixture(t)
	s := open(t, f, TypeArrival)

	edit, err := s.EditCell(f.db, 1, "arrival_date", "05.05.2024")
	require.NoError(t, err)
	assert.True(t, edit.Reset)
	assert.Equal(t, "2024-05-05", edit.Value)
	assert.Equal(t, "2024-05-05", s.Grid().Rows[1][1])
	assert.EqualValues(t, 0, countRows(t, f.db, &models.ArrivalReport{}))
}

func TestQuantityEditsResetBadInput(t *testing.T) {
	f := newFixture(t)
	for _, typ := range []ReportType{TypeArrival, TypeStock, TypeLoss, TypeOrder} {
		s := open(t, f, typ)
		for _, bad := range []string{"-4", "abc", "2.5", ""} {
			edit, err := s.EditCell(f.db, 0, "quantity", bad)
			require.NoError(t, err, "%s %q", typ, bad)
			assert.True(t, edit.Reset, "%s %q", typ, bad)
			assert.Equal(t, "0", edit.Value, "%s %q", typ, bad)
		}
	}
}

func TestEditRejectsReadOnlyAndOutOfRange(t *testing.T) {
	f := newFixture(t)
	s := open(t, f, TypeStock)

	_, err := s.EditCell(f.db, 0, "product", "x")
	assert.ErrorIs(t, err, ErrColumnNotEditable)
	_, err = s.EditCell(f.db, 0, "colour", "x")
	assert.ErrorIs(t, err, ErrUnknownColumn)
	_, err = s.EditCell(f.db, 3, "quantity", "1")
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	_, err = s.EditCell(f.db, -1, "quantity", "1")
	assert.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestStockGridFallbacks(t *testing.T) {
	f := newFixture(t)
	g := open(t, f, TypeStock).Grid()

	assert.Equal(t, []string{"1", "Роза красная", "Флора", "0", "10 дней"}, g.Rows[0])
	assert.Equal(t, "Описание отсутствует", g.Rows[1][1])
	assert.Equal(t, "Не указан", g.Rows[2][2])
}

func TestStockExpiryStaysInMemory(t *testing.T) {
	f := newFixture(t)
	s := open(t, f, TypeStock)

	edit, err := s.EditCell(f.db, 0, "expiry", "5 дней")
	require.NoError(t, err)
	assert.Equal(t, "5 дней", edit.Value)

	edit, err = s.EditCell(f.db, 1, "expiry", "   ")
	require.NoError(t, err)
	assert.True(t, edit.Reset)
	assert.Equal(t, DefaultExpiry, edit.Value)

	assert.EqualValues(t, 0, countRows(t, f.db, &models.StockReport{}))
}

func TestStockDeleteRemovesPersistedRowsAndRenumbers(t *testing.T) {
	f := newFixture(t)
	s := open(t, f, TypeStock)

	_, err := s.EditCell(f.db, 0, "quantity", "5")
	require.NoError(t, err)
	_, err = s.EditCell(f.db, 2, "quantity", "9")
	require.NoError(t, err)
	_, err = s.EditCell(f.db, 2, "expiry", "3 дня")
	require.NoError(t, err)
	require.EqualValues(t, 2, countRows(t, f.db, &models.StockReport{}))

	require.NoError(t, s.DeleteRows(f.db, []int{0, 1, 0}))

	g := s.Grid()
	require.Len(t, g.Rows, 1)
	assert.Equal(t, []string{"1", "Орхидея", "Не указан", "9", "3 дня"}, g.Rows[0])

	var left []models.StockReport
	require.NoError(t, f.db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, f.orchid.ID, left[0].ProductID)
}

func TestStockDeleteOutOfRangeKeepsGrid(t *testing.T) {
	f := newFixture(t)
	s := open(t, f, TypeStock)

	err := s.DeleteRows(f.db, []int{0, 5})
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	assert.Len(t, s.Grid().Rows, 3)
}

func TestLossUpsertByProductAndDate(t *testing.T) {
	f := newFixture(t)
	s := open(t, f, TypeLoss)

	g := s.Grid()
	assert.Equal(t, []string{"1", "2024-05-05", "0", "5 мая 2024г", "Цветок"}, g.Rows[0])

	_, err := s.EditCell(f.db, 0, "quantity", "2")
	require.NoError(t, err)
	_, err = s.EditCell(f.db, 0, "loss_date", "2024-05-03")
	require.NoError(t, err)

	var reps []models.LossReport
	require.NoError(t, f.db.Find(&reps).Error)
	require.Len(t, reps, 1)
	assert.Equal(t, 2, reps[0].Quantity)
	assert.Equal(t, "2024-05-03", Day(reps[0].LossDate).Format(DateLayout))

	reopened := open(t, f, TypeLoss).Grid()
	assert.Equal(t, "2024-05-03", reopened.Rows[0][1])
	assert.Equal(t, "Итого убыло: 2 единиц", reopened.Summary[0])

	edit, err := s.EditCell(f.db, 0, "loss_date", "yesterday")
	require.NoError(t, err)
	assert.True(t, edit.Reset)
	assert.Equal(t, "2024-05-05", edit.Value)
}

func TestOrderTotals(t *testing.T) {
	f := newFixture(t)
	s := open(t, f, TypeOrder)

	g := s.Grid()
	assert.Equal(t, []string{"1", "Роза красная", "0", "150.50", "0.00", "0.00", "3% скидка"}, g.Rows[0])
	assert.Equal(t, "0.00", g.Rows[2][3])

	_, err := s.EditCell(f.db, 0, "quantity", "3")
	require.NoError(t, err)
	_, err = s.EditCell(f.db, 1, "quantity", "7")
	require.NoError(t, err)

	g = s.Grid()
	assert.Equal(t, []string{"451.50", "13.55"}, g.Rows[0][4:6])
	assert.Equal(t, []string{"70.00", "2.10"}, g.Rows[1][4:6])
	assert.Equal(t, []string{"Итого: 521.50", "Итого возможная цена: 15.65"}, g.Summary)

	require.NoError(t, s.DeleteRows(f.db, []int{0}))
	g = s.Grid()
	require.Len(t, g.Rows, 2)
	assert.Equal(t, "1", g.Rows[0][0])
	assert.Equal(t, "7", g.Rows[0][2])
}

func TestDocumentsCarryLayout(t *testing.T) {
	f := newFixture(t)
	widths := map[ReportType][]float64{
		TypeArrival: {30, 100, 50, 100, 150, 100},
		TypeStock:   {30, 150, 100, 70, 100},
		TypeLoss:    {30, 90, 90, 90, 150},
		TypeOrder:   {30, 150, 50, 60, 60, 70, 90},
	}
	for typ, want := range widths {
		doc := open(t, f, typ).Document()
		got := make([]float64, len(doc.Columns))
		for i, c := range doc.Columns {
			got[i] = c.Width
		}
		assert.Equal(t, want, got, typ)
		assert.Len(t, doc.Rows, 3, typ)
		assert.NotEmpty(t, doc.Summary, typ)
	}
}

func TestTemplates(t *testing.T) {
	doc, err := Template("invoice")
	require.NoError(t, err)
	assert.Equal(t, "Счет-фактура", doc.Title)
	assert.Len(t, doc.Columns, 7)
	assert.Equal(t, []string{"Итого: -", "Сумма НДС: -", "Всего с НДС: -"}, doc.Summary)

	for _, name := range []string{"general_accounting", "specification"} {
		_, err := Template(name)
		assert.NoError(t, err, name)
	}
	_, err = Template("receipt")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestWorkspace(t *testing.T) {
	f := newFixture(t)
	w := NewWorkspace()

	_, err := w.Current("direktor")
	assert.ErrorIs(t, err, ErrNoSheet)
	_, _, err = w.EditCell(f.db, "direktor", 0, "quantity", "1")
	assert.ErrorIs(t, err, ErrNoSheet)

	_, err = w.Open(f.db, "direktor", TypeArrival, may5)
	require.NoError(t, err)
	g, err := w.Open(f.db, "direktor", TypeOrder, may5.Add(13*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, TypeOrder, g.Type)
	assert.Equal(t, "2024-05-05", g.Date)

	// Sheets are per login.
	_, err = w.Current("florist")
	assert.ErrorIs(t, err, ErrNoSheet)

	edit, g, err := w.EditCell(f.db, "direktor", 1, "quantity", "2")
	require.NoError(t, err)
	assert.Equal(t, "2", edit.Value)
	assert.Equal(t, "20.00", g.Rows[1][4])

	typ, doc, err := w.Document("direktor")
	require.NoError(t, err)
	assert.Equal(t, TypeOrder, typ)
	assert.Len(t, doc.Rows, 3)

	assert.True(t, w.Close("direktor"))
	assert.False(t, w.Close("direktor"))
	_, err = w.Current("direktor")
	assert.ErrorIs(t, err, ErrNoSheet)
}
