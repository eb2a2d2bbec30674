package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductCategory string

const (
	CategoryBouquet     ProductCategory = "Букет"
	CategoryFlower      ProductCategory = "Цветок"
	CategoryComposition ProductCategory = "Композиция"
	CategoryWedding     ProductCategory = "На свадьбу"
	CategoryHouseplants ProductCategory = "Комнатные растения"
	CategoryFlorarium   ProductCategory = "Флорариумы"
	CategoryGifts       ProductCategory = "Подарки"
	CategoryPopular     ProductCategory = "Популярное"
)

var ProductCategories = []ProductCategory{
	CategoryBouquet,
	CategoryFlower,
	CategoryComposition,
	CategoryWedding,
	CategoryHouseplants,
	CategoryFlorarium,
	CategoryGifts,
	CategoryPopular,
}

func (c ProductCategory) Valid() bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uint                `gorm:"primaryKey"`
	Category    ProductCategory     `gorm:"size:50;not null"`
	Number      int                 `gorm:"not null"`
	Description string              `gorm:"size:100"`
	Price       decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	Image       []byte
	SupplierID  *uint `gorm:"index"`
	Supplier    *Supplier
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SupplierName is empty when the supplier is unset or not preloaded.
func (p *Product) SupplierName() string {
	if p.Supplier == nil {
		return ""
	}
	return p.Supplier.Name
}

// PriceOrZero treats an unset price as 0.
func (p *Product) PriceOrZero() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}
