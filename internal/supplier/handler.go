// Package supplier serves the supplier directory.
package supplier

import (
	"errors"
	"log"
	"regexp"
	"strings"

	"florist-backend/internal/database"
	"florist-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// -------------------------
// Request/Response Types
// -------------------------

type SupplierRequest struct {
	Name    string              `json:"name"`
	Type    models.SupplierType `json:"type"`
	Phone   string              `json:"phone"`
	Email   string              `json:"email"`
	Address string              `json:"address"`
}

type SupplierResponse struct {
	ID      uint                `json:"id"`
	Name    string              `json:"name"`
	Type    models.SupplierType `json:"type"`
	Phone   string              `json:"phone"`
	Email   string              `json:"email"`
	Address string              `json:"address"`
}

func toResponse(s *models.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:      s.ID,
		Name:    s.Name,
		Type:    s.Type,
		Phone:   s.Phone,
		Email:   s.Email,
		Address: s.AddressString(),
	}
}

func (r *SupplierRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.Address = strings.TrimSpace(r.Address)
}

// validate mirrors the supplier form checks and returns the parsed address.
func (r *SupplierRequest) validate() (Address, error) {
	if r.Name == "" {
		return Address{}, fiber.NewError(fiber.StatusBadRequest, "Введите название поставщика")
	}
	if !r.Type.Valid() {
		return Address{}, fiber.NewError(fiber.StatusBadRequest, "Некорректный тип поставщика")
	}
	if !strings.ContainsAny(r.Phone, "0123456789") {
		return Address{}, fiber.NewError(fiber.StatusBadRequest, "Телефон должен содержать цифры")
	}
	if r.Email == "" {
		return Address{}, fiber.NewError(fiber.StatusBadRequest, "Введите email")
	}
	if !emailPattern.MatchString(r.Email) {
		return Address{}, fiber.NewError(fiber.StatusBadRequest, "Некорректный email")
	}
	addr, err := ParseAddress(r.Address)
	if err != nil {
		return Address{}, fiber.NewError(fiber.StatusBadRequest, "Адрес должен иметь вид: Город, Улица, Номер дома")
	}
	return addr, nil
}

func findSupplier(db *gorm.DB, id string) (*models.Supplier, error) {
	var s models.Supplier
	err := db.Preload("LegalAddress.Street.City").First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Поставщик не найден")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Не удалось загрузить поставщика")
	}
	return &s, nil
}

// -------------------------
// Supplier CRUD
// -------------------------

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Preload("LegalAddress.Street.City").
			Order("id asc").
			Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось загрузить поставщиков")
		}

		resp := make([]SupplierResponse, 0, len(suppliers))
		for i := range suppliers {
			resp = append(resp, toResponse(&suppliers[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/suppliers/:id
func GetSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := findSupplier(database.DB, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(toResponse(s))
	}
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}
		body.normalize()
		addr, err := body.validate()
		if err != nil {
			return err
		}

		s := models.Supplier{Name: body.Name, Type: body.Type, Phone: body.Phone, Email: body.Email}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			house, err := ResolveAddress(tx, addr)
			if err != nil {
				return err
			}
			s.LegalAddressID = &house.ID
			s.LegalAddress = house
			return tx.Omit("LegalAddress").Create(&s).Error
		})
		if err != nil {
			log.Printf("supplier create: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить поставщика")
		}

		log.Printf("supplier created: %d %s", s.ID, s.Name)
		return c.Status(fiber.StatusCreated).JSON(toResponse(&s))
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := findSupplier(database.DB, c.Params("id"))
		if err != nil {
			return err
		}

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}
		body.normalize()
		addr, err := body.validate()
		if err != nil {
			return err
		}

		s.Name, s.Type, s.Phone, s.Email = body.Name, body.Type, body.Phone, body.Email
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			house, err := ResolveAddress(tx, addr)
			if err != nil {
				return err
			}
			s.LegalAddressID = &house.ID
			s.LegalAddress = house
			return tx.Omit("LegalAddress").Save(s).Error
		})
		if err != nil {
			log.Printf("supplier update %d: %v", s.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить поставщика")
		}
		return c.JSON(toResponse(s))
	}
}

// DELETE /api/suppliers/:id
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := findSupplier(database.DB, c.Params("id"))
		if err != nil {
			return err
		}

		var inUse int64
		if err := database.DB.Model(&models.Product{}).Where("supplier_id = ?", s.ID).Count(&inUse).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось удалить поставщика")
		}
		if inUse > 0 {
			return fiber.NewError(fiber.StatusConflict, "Поставщик указан у товаров, сначала измените их")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.ArrivalReport{}).Where("supplier_id = ?", s.ID).
				Update("supplier_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("supplier_id = ?", s.ID).Delete(&models.SupplierDocument{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Supplier{}, s.ID).Error
		})
		if err != nil {
			log.Printf("supplier delete %d: %v", s.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось удалить поставщика")
		}

		log.Printf("supplier deleted: %d %s", s.ID, s.Name)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
