package inventory

import (
	"errors"
	"log"

	"florist-backend/internal/database"
	"florist-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func inputError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return fiber.NewError(fiber.StatusBadRequest, verr.Msg)
	}
	log.Printf("product: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить товар")
}

// findProduct loads a product without its image unless withImage is set.
func findProduct(id string, withImage bool) (*models.Product, error) {
	q := database.DB.Preload("Supplier")
	if !withImage {
		q = q.Omit("image")
	}
	var p models.Product
	err := q.First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Товар не найден")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Не удалось загрузить товар")
	}
	return &p, nil
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Omit("image").Preload("Supplier").
			Order("id asc").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось загрузить товары")
		}

		resp := make([]ProductResponse, 0, len(products))
		for i := range products {
			resp = append(resp, toResponse(&products[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(c.Params("id"), false)
		if err != nil {
			return err
		}
		return c.JSON(toResponse(p))
	}
}

// GET /api/products/:id/details
func ProductDetailsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(c.Params("id"), true)
		if err != nil {
			return err
		}
		return c.JSON(toDetails(p))
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}

		var p models.Product
		if err := body.Apply(database.DB, &p); err != nil {
			return inputError(err)
		}
		if err := database.DB.Omit("Supplier").Create(&p).Error; err != nil {
			return inputError(err)
		}

		log.Printf("product created: %d %s", p.ID, p.Category)
		return c.Status(fiber.StatusCreated).JSON(toResponse(&p))
	}
}

// PUT /api/products/:id
// The stored image is kept; images change through the image endpoints only.
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(c.Params("id"), false)
		if err != nil {
			return err
		}

		var body ProductInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Некорректное тело запроса")
		}
		if err := body.Apply(database.DB, p); err != nil {
			return inputError(err)
		}
		if err := database.DB.Omit("Supplier", "Image").Save(p).Error; err != nil {
			return inputError(err)
		}
		return c.JSON(toResponse(p))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(c.Params("id"), false)
		if err != nil {
			return err
		}
		if err := DeleteProduct(database.DB, p.ID); err != nil {
			log.Printf("product delete %d: %v", p.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось удалить товар")
		}
		log.Printf("product deleted: %d", p.ID)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
