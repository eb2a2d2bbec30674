package models

import "time"

// Document is an identity document (passport-like) attached to suppliers and employees.
type Document struct {
	ID       uint       `gorm:"primaryKey"`
	Series   int        `gorm:"not null"`
	Number   int        `gorm:"not null"`
	IssuedAt *time.Time `gorm:"type:date"`
	IssuedBy string     `gorm:"size:100"`
}

type SupplierDocument struct {
	ID         uint `gorm:"primaryKey"`
	SupplierID uint `gorm:"index;not null"`
	Supplier   Supplier
	DocumentID uint `gorm:"index;not null"`
	Document   Document
}

type EmployeeDocument struct {
	ID         uint `gorm:"primaryKey"`
	EmployeeID uint `gorm:"index;not null"`
	Employee   Employee
	DocumentID uint `gorm:"index;not null"`
	Document   Document
}
