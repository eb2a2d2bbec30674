// Package staff serves the employee directory.
package staff

import (
	"errors"
	"log"
	"strings"
	"time"

	"florist-backend/internal/database"
	"florist-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EmployeeRequest struct {
	Surname    string        `json:"surname"`
	Name       string        `json:"name"`
	Patronymic string        `json:"patronymic"`
	BirthDate  string        `json:"birth_date"` // YYYY-MM-DD, optional
	INN        *int64        `json:"inn"`
	SNILS      *int64        `json:"snils"`
	Gender     models.Gender `json:"gender"`
}

type EmployeeResponse struct {
	ID         uint          `json:"id"`
	Surname    string        `json:"surname"`
	Name       string        `json:"name"`
	Patronymic string        `json:"patronymic"`
	BirthDate  *string       `json:"birth_date"`
	INN        *int64        `json:"inn"`
	SNILS      *int64        `json:"snils"`
	Gender     models.Gender `json:"gender"`
}

func toResponse(e *models.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         e.ID,
		Surname:    e.Surname,
		Name:       e.Name,
		Patronymic: e.Patronymic,
		INN:        e.INN,
		SNILS:      e.SNILS,
		Gender:     e.Gender,
	}
	if e.BirthDate != nil {
		s := e.BirthDate.Format("2006-01-02")
		resp.BirthDate = &s
	}
	return resp
}

func (r *EmployeeRequest) apply(e *models.Employee) error {
	surname := strings.TrimSpace(r.Surname)
	name := strings.TrimSpace(r.Name)
	if surname == "" || name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Фамилия и имя обязательны")
	}
	gender := models.Gender(strings.TrimSpace(string(r.Gender)))
	if !gender.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "Некорректный пол")
	}

	var birth *time.Time
	if s := strings.TrimSpace(r.BirthDate); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Дата рождения должна быть в формате ГГГГ-ММ-ДД")
		}
		birth = &t
	}

	e.Surname = surname
	e.Name = name
	e.Patronymic = strings.TrimSpace(r.Patronymic)
	e.BirthDate = birth
	e.INN = r.INN
	e.SNILS = r.SNILS
	e.Gender = gender
	return nil
}

func findEmployee(id string) (*models.Employee, error) {
	var e models.Employee
	err := database.DB.First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Сотрудник не найден")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Не удалось загрузить сотрудника")
	}
	return &e, nil
}

// GET /api/employees
func ListEmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var employees []models.Employee
		if err := database.DB.Order("surname asc, name asc").Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось загрузить сотрудников")
		}
		resp := make([]EmployeeResponse, 0, len(employees))
		for i := range employees {
			resp = append(resp, toResponse(&employees[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/employees/:id
func GetEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, err := findEmployee(c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(toResponse(e))
	}
}

// POST /api/employees
func CreateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}
		var e models.Employee
		if err := body.apply(&e); err != nil {
			return err
		}
		if err := database.DB.Create(&e).Error; err != nil {
			log.Printf("employee create: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить сотрудника")
		}
		log.Printf("employee created: %d %s %s", e.ID, e.Surname, e.Name)
		return c.Status(fiber.StatusCreated).JSON(toResponse(&e))
	}
}

// PUT /api/employees/:id
func UpdateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, err := findEmployee(c.Params("id"))
		if err != nil {
			return err
		}
		var body EmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}
		if err := body.apply(e); err != nil {
			return err
		}
		if err := database.DB.Save(e).Error; err != nil {
			log.Printf("employee update %d: %v", e.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить сотрудника")
		}
		return c.JSON(toResponse(e))
	}
}

// DELETE /api/employees/:id
func DeleteEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, err := findEmployee(c.Params("id"))
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("employee_id = ?", e.ID).Delete(&models.EmployeeDocument{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Employee{}, e.ID).Error
		})
		if err != nil {
			log.Printf("employee delete %d: %v", e.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось удалить сотрудника")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
