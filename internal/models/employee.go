package models

import "time"

type Gender string

const (
	GenderMale   Gender = "Мужской"
	GenderFemale Gender = "Женский"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type Employee struct {
	ID         uint       `gorm:"primaryKey"`
	Surname    string     `gorm:"size:100;not null"`
	Name       string     `gorm:"size:100;not null"`
	Patronymic string     `gorm:"size:100"`
	BirthDate  *time.Time `gorm:"type:date"`
	INN        *int64
	SNILS      *int64
	Gender     Gender `gorm:"size:20;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
