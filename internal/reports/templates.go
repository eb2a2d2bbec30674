package reports

import (
	"errors"
	"fmt"

	"florist-backend/internal/pdf"
)

var ErrUnknownTemplate = errors.New("unknown document template")

func cols(titles []string, widths []float64) []pdf.Column {
	out := make([]pdf.Column, len(titles))
	for i := range titles {
		out[i] = pdf.Column{Title: titles[i], Width: widths[i], Wrap: true}
	}
	return out
}

var templates = map[string]pdf.Document{
	"general_accounting": {
		Title: "Общий учет",
		Columns: cols(
			[]string{"№", "Дата", "Наименование", "Количество", "Ед. изм.", "Цена", "Сумма"},
			[]float64{30, 80, 150, 50, 50, 60, 60},
		),
		Summary: []string{"Итого: -"},
	},
	"invoice": {
		Title:    "Счет-фактура",
		Preamble: []string{"Поставщик: ___", "Покупатель: ___", "Дата: ___"},
		Columns: cols(
			[]string{"№", "Наименование товара", "Количество", "Цена", "Сумма", "НДС", "Сумма с НДС"},
			[]float64{30, 150, 50, 60, 60, 50, 60},
		),
		Summary: []string{"Итого: -", "Сумма НДС: -", "Всего с НДС: -"},
	},
	"specification": {
		Title:    "Спецификация",
		Preamble: []string{"Договор №: ___", "Дата: ___"},
		Columns: cols(
			[]string{"№", "Наименование", "Ед. изм.", "Количество", "Цена за ед.", "Общая сумма"},
			[]float64{30, 150, 50, 50, 60, 60},
		),
		Summary: []string{"Итого: -"},
	},
}

// Template returns an empty fixed document by name.
func Template(name string) (pdf.Document, error) {
	doc, ok := templates[name]
	if !ok {
		return pdf.Document{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return doc, nil
}
