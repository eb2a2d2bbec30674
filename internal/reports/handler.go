package reports

import (
	"errors"
	"log"
	"time"

	"florist-backend/internal/auth"
	"florist-backend/internal/database"
	"florist-backend/internal/pdf"

	"github.com/gofiber/fiber/v2"
)

type OpenRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, today when empty
}

type EditCellRequest struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

type EditCellResponse struct {
	Cell  CellEdit `json:"cell"`
	Sheet Grid     `json:"sheet"`
}

type DeleteRowsRequest struct {
	Rows []int `json:"rows"`
}

type FileResponse struct {
	File string `json:"file"`
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNoSheet):
		return fiber.NewError(fiber.StatusNotFound, "Отчет не открыт")
	case errors.Is(err, ErrUnknownReportType):
		return fiber.NewError(fiber.StatusBadRequest, "Неизвестный тип отчета")
	case errors.Is(err, ErrUnknownTemplate):
		return fiber.NewError(fiber.StatusNotFound, "Шаблон не найден")
	case errors.Is(err, ErrUnknownColumn):
		return fiber.NewError(fiber.StatusBadRequest, "Неизвестный столбец")
	case errors.Is(err, ErrColumnNotEditable):
		return fiber.NewError(fiber.StatusBadRequest, "Этот столбец нельзя редактировать")
	case errors.Is(err, ErrRowOutOfRange):
		return fiber.NewError(fiber.StatusBadRequest, "Строка не найдена")
	}
	log.Printf("reports: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "Ошибка при работе с отчетом")
}

// POST /api/reports/:type/open
func OpenHandler(ws *Workspace) fiber.Handler {
	return func(c *fiber.Ctx) error {
		typ, err := ParseReportType(c.Params("type"))
		if err != nil {
			return toHTTPError(err)
		}

		var body OpenRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
			}
		}
		date := Day(time.Now())
		if body.Date != "" {
			if date, err = ParseDay(body.Date); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Дата должна быть в формате ГГГГ-ММ-ДД")
			}
		}

		grid, err := ws.Open(database.DB, auth.CurrentLogin(c), typ, date)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(grid)
	}
}

// GET /api/reports/current
func CurrentHandler(ws *Workspace) fiber.Handler {
	return func(c *fiber.Ctx) error {
		grid, err := ws.Current(auth.CurrentLogin(c))
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(grid)
	}
}

// PATCH /api/reports/current/cells
func EditCellHandler(ws *Workspace) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EditCellRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}
		edit, grid, err := ws.EditCell(database.DB, auth.CurrentLogin(c), body.Row, body.Column, body.Value)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(EditCellResponse{Cell: edit, Sheet: grid})
	}
}

// DELETE /api/reports/current/rows
func DeleteRowsHandler(ws *Workspace) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DeleteRowsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}
		if len(body.Rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Не выбраны строки для удаления")
		}
		grid, err := ws.DeleteRows(database.DB, auth.CurrentLogin(c), body.Rows)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(grid)
	}
}

// DELETE /api/reports/current
func CloseHandler(ws *Workspace) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !ws.Close(auth.CurrentLogin(c)) {
			return toHTTPError(ErrNoSheet)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/reports/current/pdf
func CurrentPDFHandler(ws *Workspace, renderer *pdf.Renderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		typ, doc, err := ws.Document(auth.CurrentLogin(c))
		if err != nil {
			return toHTTPError(err)
		}
		name, err := renderer.Render(string(typ), doc)
		if err != nil {
			log.Printf("reports: render %s: %v", typ, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить PDF")
		}
		return c.Status(fiber.StatusCreated).JSON(FileResponse{File: name})
	}
}

// POST /api/reports/templates/:name/pdf
func TemplatePDFHandler(renderer *pdf.Renderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		doc, err := Template(name)
		if err != nil {
			return toHTTPError(err)
		}
		file, err := renderer.Render(name, doc)
		if err != nil {
			log.Printf("reports: render template %s: %v", name, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить PDF")
		}
		return c.Status(fiber.StatusCreated).JSON(FileResponse{File: file})
	}
}

// GET /api/reports/files/:name
func DownloadHandler(renderer *pdf.Renderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path, err := renderer.Path(c.Params("name"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Файл не найден")
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.SendFile(path)
	}
}
