package inventory

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"florist-backend/internal/database"
	"florist-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportResult summarizes a spreadsheet import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return strings.Contains(first, "категор") || strings.Contains(first, "category")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// rowInput maps columns category, number, description, price, supplier name.
func rowInput(db *gorm.DB, row []string) (ProductInput, error) {
	in := ProductInput{
		Category:    models.ProductCategory(cell(row, 0)),
		Description: cell(row, 2),
	}
	if v := cell(row, 1); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, invalid("некорректное количество %q", v)
		}
		in.Number = &n
	}
	if v := cell(row, 3); v != "" {
		price, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
		if err != nil {
			return in, invalid("некорректная цена %q", v)
		}
		in.Price = decimal.NewNullDecimal(price)
	}

	name := cell(row, 4)
	if name == "" {
		return in, invalid("не указан поставщик")
	}
	var supplier models.Supplier
	err := db.Where("name = ?", name).First(&supplier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return in, invalid("поставщик %q не найден", name)
	}
	if err != nil {
		return in, err
	}
	in.SupplierID = &supplier.ID
	return in, nil
}

// ImportProducts reads products from the first sheet of an XLSX workbook.
// Rows are imported independently; a bad row is reported and skipped.
func ImportProducts(db *gorm.DB, r io.Reader) (ImportResult, error) {
	excelFile, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, invalid("Excel файл не читается: %v", err)
	}
	defer excelFile.Close()

	sheets := excelFile.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, invalid("В файле нет листов")
	}
	rows, err := excelFile.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, invalid("Лист не читается: %v", err)
	}

	res := ImportResult{Errors: []string{}}
	start := 0
	if len(rows) > 0 && isHeaderRow(rows[0]) {
		start = 1
	}
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		line := i + 1

		in, err := rowInput(db, row)
		var p models.Product
		if err == nil {
			err = in.Apply(db, &p)
		}
		if err == nil {
			err = db.Omit("Supplier").Create(&p).Error
		}
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return res, fmt.Errorf("import row %d: %w", line, err)
			}
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("строка %d: %s", line, verr.Msg))
			continue
		}
		res.Imported++
	}
	return res, nil
}

// POST /api/products/import (multipart field "file")
func ImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Файл не загружен")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Можно загружать только файлы .xlsx")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось открыть файл")
		}
		defer file.Close()

		res, err := ImportProducts(database.DB, file)
		if err != nil {
			return inputError(err)
		}

		log.Printf("product import: %d imported, %d skipped", res.Imported, res.Skipped)
		return c.JSON(res)
	}
}
