package models

import (
	"strconv"
	"time"
)

type SupplierType string

const (
	SupplierTypeOOO SupplierType = "ООО"
	SupplierTypeAO  SupplierType = "АО"
	SupplierTypeOAO SupplierType = "ОАО"
	SupplierTypeIP  SupplierType = "ИП"
	SupplierTypeZAO SupplierType = "ЗАО"
)

var SupplierTypes = []SupplierType{
	SupplierTypeOOO,
	SupplierTypeAO,
	SupplierTypeOAO,
	SupplierTypeIP,
	SupplierTypeZAO,
}

func (t SupplierType) Valid() bool {
	for _, v := range SupplierTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Supplier struct {
	ID             uint         `gorm:"primaryKey"`
	Name           string       `gorm:"size:100;not null"`
	Type           SupplierType `gorm:"size:20;not null"`
	Phone          string       `gorm:"size:100"`
	Email          string       `gorm:"size:100"`
	LegalAddressID *uint        `gorm:"index"`
	LegalAddress   *House       `gorm:"foreignKey:LegalAddressID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AddressString renders the legal address as "City, Street, N".
// Empty when the address (or any part of its chain) is not loaded.
func (s *Supplier) AddressString() string {
	if s.LegalAddress == nil || s.LegalAddress.Street.City.Name == "" {
		return ""
	}
	h := s.LegalAddress
	return h.Street.City.Name + ", " + h.Street.Name + ", " + strconv.Itoa(h.Number)
}
