package database

import (
	"fmt"

	"florist-backend/internal/models"

	"gorm.io/gorm"
)

var seedReportForms = []models.ReportForm{
	{Name: "Поступление", ShortDescription: "Отчет по поступлению товаров"},
	{Name: "Остатки", ShortDescription: "Отчет по остаткам товаров"},
	{Name: "Убыль", ShortDescription: "Отчет по убыли товаров"},
	{Name: "Бланк заказа", ShortDescription: "Пересчет заказа по ценам товаров"},
}

var seedPositions = []models.Position{
	{Title: models.PositionDirector, ShortDescription: "Управление справочниками и отчетами"},
	{Title: models.PositionFlorist, ShortDescription: "Ведение отчетов"},
}

// Seed inserts the reference rows. Running it again changes nothing.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var region models.Region
		if err := tx.Where(models.Region{Name: DefaultRegionName}).FirstOrCreate(&region).Error; err != nil {
			return fmt.Errorf("seed region: %w", err)
		}
		for _, f := range seedReportForms {
			form := f
			if err := tx.Where(models.ReportForm{Name: form.Name}).Attrs(form).FirstOrCreate(&form).Error; err != nil {
				return fmt.Errorf("seed report form %s: %w", f.Name, err)
			}
		}
		for _, p := range seedPositions {
			pos := p
			if err := tx.Where(models.Position{Title: pos.Title}).Attrs(pos).FirstOrCreate(&pos).Error; err != nil {
				return fmt.Errorf("seed position %s: %w", p.Title, err)
			}
		}
		return nil
	})
}
