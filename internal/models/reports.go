package models

import "time"

// ArrivalReport: goods received. One row per (product, arrival date).
type ArrivalReport struct {
	ID            uint      `gorm:"primaryKey"`
	ArrivalDate   time.Time `gorm:"type:date;index;not null"`
	Quantity      int       `gorm:"not null"`
	FormationDate time.Time `gorm:"type:date;not null"`
	ProductID     uint      `gorm:"index;not null"`
	Product       Product
	SupplierID    *uint `gorm:"index"`
	Supplier      *Supplier
}

// StockReport: goods on hand. One row per (product, formation date).
type StockReport struct {
	ID            uint      `gorm:"primaryKey"`
	Quantity      int       `gorm:"not null"`
	FormationDate time.Time `gorm:"type:date;index;not null"`
	ProductID     uint      `gorm:"index;not null"`
	Product       Product
}

// LossReport: discarded goods. One row per (product, formation date).
type LossReport struct {
	ID            uint      `gorm:"primaryKey"`
	LossDate      time.Time `gorm:"type:date;not null"`
	Quantity      int       `gorm:"not null"`
	FormationDate time.Time `gorm:"type:date;index;not null"`
	ProductID     uint      `gorm:"index;not null"`
	Product       Product
}
