// Package views renders the landing page and serves the shared stylesheet.
package views

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"os"

	"florist-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

type reportLink struct {
	Type  string
	Title string
}

var reportLinks = []reportLink{
	{Type: "arrival", Title: "Отчет по поступлению"},
	{Type: "stock", Title: "Отчет по остаткам"},
	{Type: "loss", Title: "Отчет по убыли"},
	{Type: "order_conversion", Title: "Бланк заказа"},
}

var documentLinks = []reportLink{
	{Type: "general_accounting", Title: "Общий учет"},
	{Type: "invoice", Title: "Счет-фактура"},
	{Type: "specification", Title: "Спецификация"},
}

func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(templatesFS), ".html")
	engine.AddFunc("css", func(s string) template.CSS {
		return template.CSS(s)
	})
	return engine
}

// LoadStylesheet reads the stylesheet once. A missing file yields an empty sheet.
func LoadStylesheet(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[WARN] stylesheet %s not loaded: %v", path, err)
		return ""
	}
	return string(data)
}

// GET /
func IndexHandler(css string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render("templates/index", fiber.Map{
			"Title":      "Цветочный магазин",
			"Stylesheet": css,
			"Reports":    reportLinks,
			"Documents":  documentLinks,
			"Categories": models.ProductCategories,
		})
	}
}

// GET /styles.css
func StylesheetHandler(css string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Type("css", "utf-8")
		return c.SendString(css)
	}
}
