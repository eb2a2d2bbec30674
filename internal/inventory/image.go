package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"florist-backend/internal/config"
	"florist-backend/internal/database"
	"florist-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxImageSize = 10 << 20

var imageClient = &http.Client{Timeout: 30 * time.Second}

var ErrImageTooLarge = errors.New("image exceeds size limit")

type FetchImageRequest struct {
	URL string `json:"url"`
}

func tempImagePath(dir, prefix, ext string) string {
	return filepath.Join(dir, prefix+"-"+uuid.NewString()+ext)
}

// readTempImage loads a staged file into memory and removes it.
func readTempImage(path string) ([]byte, error) {
	defer os.Remove(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read staged image: %w", err)
	}
	return data, nil
}

func isImage(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}

// DownloadImage fetches url into a fresh file under dir and returns its path.
func DownloadImage(ctx context.Context, url, dir string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("unsupported image url %q", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := imageClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	if resp.ContentLength > maxImageSize {
		return "", ErrImageTooLarge
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	path := tempImagePath(dir, "fetch", filepath.Ext(req.URL.Path))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, io.LimitReader(resp.Body, maxImageSize+1))
	if err == nil && n > maxImageSize {
		err = ErrImageTooLarge
	}
	if err != nil {
		file.Close()
		os.Remove(path)
		if errors.Is(err, ErrImageTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write image: %w", err)
	}
	return path, nil
}

func storeImage(p *models.Product, data []byte) error {
	if !isImage(data) {
		return fiber.NewError(fiber.StatusBadRequest, "Файл не является изображением")
	}
	if err := database.DB.Model(&models.Product{}).Where("id = ?", p.ID).Update("image", data).Error; err != nil {
		log.Printf("product %d image: %v", p.ID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить изображение")
	}
	p.Image = data
	log.Printf("product %d image stored (%d bytes)", p.ID, len(data))
	return nil
}

// POST /api/products/:id/image (multipart field "image")
func UploadImageHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(c.Params("id"), false)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Файл изображения не передан")
		}
		if fileHeader.Size > maxImageSize {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Изображение слишком большое")
		}

		if err := os.MkdirAll(cfg.ImageTempDir, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить изображение")
		}
		path := tempImagePath(cfg.ImageTempDir, "upload", filepath.Ext(fileHeader.Filename))
		if err := c.SaveFile(fileHeader, path); err != nil {
			log.Printf("product %d image upload: %v", p.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить изображение")
		}
		data, err := readTempImage(path)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить изображение")
		}

		if err := storeImage(p, data); err != nil {
			return err
		}
		return c.JSON(toDetails(p))
	}
}

// POST /api/products/:id/image/fetch {url}
func FetchImageHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(c.Params("id"), false)
		if err != nil {
			return err
		}

		var body FetchImageRequest
		if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.URL) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Укажите адрес изображения")
		}

		path, err := DownloadImage(c.UserContext(), strings.TrimSpace(body.URL), cfg.ImageTempDir)
		if errors.Is(err, ErrImageTooLarge) {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Изображение слишком большое")
		}
		if err != nil {
			log.Printf("product %d image fetch: %v", p.ID, err)
			return fiber.NewError(fiber.StatusBadGateway, "Не удалось загрузить изображение")
		}
		data, err := readTempImage(path)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сохранить изображение")
		}

		if err := storeImage(p, data); err != nil {
			return err
		}
		return c.JSON(toDetails(p))
	}
}

// GET /api/products/:id/image
func GetImageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(c.Params("id"), true)
		if err != nil {
			return err
		}
		if len(p.Image) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Изображение отсутствует")
		}
		c.Set(fiber.HeaderContentType, http.DetectContentType(p.Image))
		return c.Send(p.Image)
	}
}
