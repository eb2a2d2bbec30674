// Package inventory serves the product catalogue: CRUD, product images and
// spreadsheet import.
package inventory

import (
	"errors"
	"fmt"
	"strings"

	"florist-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const noDescription = "Описание отсутствует"

// ValidationError carries a message meant for the user.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ProductInput is the editable part of a product, shared by the JSON API and
// spreadsheet import.
type ProductInput struct {
	Category    models.ProductCategory `json:"category"`
	Number      *int                   `json:"number"`
	Description string                 `json:"description"`
	Price       decimal.NullDecimal    `json:"price"`
	SupplierID  *uint                  `json:"supplier_id"`
}

// Apply validates in and copies it onto p. The image is left alone.
func (in *ProductInput) Apply(db *gorm.DB, p *models.Product) error {
	category := models.ProductCategory(strings.TrimSpace(string(in.Category)))
	if !category.Valid() {
		return invalid("Некорректная категория товара: %q", in.Category)
	}

	number := 1
	if in.Number != nil {
		number = *in.Number
	}
	if number <= 0 {
		return invalid("Введите корректный номер товара (целое число)!")
	}

	if in.Price.Valid && in.Price.Decimal.IsNegative() {
		return invalid("Цена не может быть отрицательной")
	}

	if in.SupplierID == nil {
		return invalid("Выберите поставщика")
	}
	var supplier models.Supplier
	err := db.First(&supplier, *in.SupplierID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalid("Поставщик не найден")
	}
	if err != nil {
		return fmt.Errorf("find supplier: %w", err)
	}

	p.Category = category
	p.Number = number
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	if p.Price.Valid {
		p.Price.Decimal = p.Price.Decimal.Round(2)
	}
	p.SupplierID = &supplier.ID
	p.Supplier = &supplier
	return nil
}

type ProductResponse struct {
	ID           uint                   `json:"id"`
	Category     models.ProductCategory `json:"category"`
	Number       int                    `json:"number"`
	Description  string                 `json:"description"`
	Price        *string                `json:"price"`
	SupplierID   *uint                  `json:"supplier_id"`
	SupplierName string                 `json:"supplier_name"`
}

type ProductDetailsResponse struct {
	ID          uint                   `json:"id"`
	Category    models.ProductCategory `json:"category"`
	Description string                 `json:"description"`
	HasImage    bool                   `json:"has_image"`
}

func toResponse(p *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:           p.ID,
		Category:     p.Category,
		Number:       p.Number,
		Description:  p.Description,
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName(),
	}
	if p.Price.Valid {
		s := p.Price.Decimal.StringFixed(2)
		resp.Price = &s
	}
	return resp
}

func toDetails(p *models.Product) ProductDetailsResponse {
	desc := p.Description
	if desc == "" {
		desc = noDescription
	}
	return ProductDetailsResponse{ID: p.ID, Category: p.Category, Description: desc, HasImage: len(p.Image) > 0}
}

// DeleteProduct removes the product together with its report rows.
func DeleteProduct(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.ArrivalReport{}, &models.StockReport{}, &models.LossReport{}} {
			if err := tx.Where("product_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}
