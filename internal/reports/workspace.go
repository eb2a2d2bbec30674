package reports

import (
	"sync"
	"time"

	"florist-backend/internal/pdf"

	"gorm.io/gorm"
)

// Workspace keeps one open sheet per login.
type Workspace struct {
	mu     sync.Mutex
	sheets map[string]Sheet
}

func NewWorkspace() *Workspace {
	return &Workspace{sheets: make(map[string]Sheet)}
}

// Open loads a sheet and replaces whatever the login had open. The previous
// sheet survives if loading fails.
func (w *Workspace) Open(db *gorm.DB, login string, t ReportType, date time.Time) (Grid, error) {
	sheet, err := Open(db, t, date)
	if err != nil {
		return Grid{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sheets[login] = sheet
	return sheet.Grid(), nil
}

func (w *Workspace) Current(login string) (Grid, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sheet, ok := w.sheets[login]
	if !ok {
		return Grid{}, ErrNoSheet
	}
	return sheet.Grid(), nil
}

func (w *Workspace) EditCell(db *gorm.DB, login string, row int, column, value string) (CellEdit, Grid, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sheet, ok := w.sheets[login]
	if !ok {
		return CellEdit{}, Grid{}, ErrNoSheet
	}
	edit, err := sheet.EditCell(db, row, column, value)
	return edit, sheet.Grid(), err
}

func (w *Workspace) DeleteRows(db *gorm.DB, login string, rows []int) (Grid, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sheet, ok := w.sheets[login]
	if !ok {
		return Grid{}, ErrNoSheet
	}
	if err := sheet.DeleteRows(db, rows); err != nil {
		return Grid{}, err
	}
	return sheet.Grid(), nil
}

// Close reports whether a sheet was open.
func (w *Workspace) Close(login string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.sheets[login]
	delete(w.sheets, login)
	return ok
}

func (w *Workspace) Document(login string) (ReportType, pdf.Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	sheet, ok := w.sheets[login]
	if !ok {
		return "", pdf.Document{}, ErrNoSheet
	}
	return sheet.Type(), sheet.Document(), nil
}
