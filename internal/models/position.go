package models

import "time"

type PositionTitle string

const (
	PositionDirector PositionTitle = "Директор"
	PositionFlorist  PositionTitle = "Оператор-флорист"
)

// ReportForm describes a kind of report a position is responsible for.
type ReportForm struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:100;not null"`
	ShortDescription string `gorm:"size:100"`
	FullDescription  string `gorm:"size:250"`
}

type Position struct {
	ID               uint          `gorm:"primaryKey"`
	Title            PositionTitle `gorm:"size:50;not null"`
	ShortDescription string        `gorm:"size:100"`
	FullDescription  string        `gorm:"size:250"`
	HiredAt          *time.Time    `gorm:"type:date"`
	ContractAt       *time.Time    `gorm:"type:date"`
	ReportFormID     *uint         `gorm:"index"`
	ReportForm       *ReportForm
}
