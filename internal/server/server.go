// Package server assembles the HTTP application.
package server

import (
	"log"
	"strings"

	"florist-backend/internal/auth"
	"florist-backend/internal/config"
	"florist-backend/internal/inventory"
	"florist-backend/internal/models"
	"florist-backend/internal/pdf"
	"florist-backend/internal/reports"
	"florist-backend/internal/staff"
	"florist-backend/internal/supplier"
	"florist-backend/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}
	log.Printf("unexpected error [%s %s]: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Непредвиденная ошибка сервера",
	})
}

// New builds the application. The database must already be initialised.
func New(cfg *config.Config, ws *reports.Workspace) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		Views:        views.NewEngine(),
		BodyLimit:    16 << 20,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	css := views.LoadStylesheet(cfg.StylesheetPath)
	app.Get("/", views.IndexHandler(css))
	app.Get("/styles.css", views.StylesheetHandler(css))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(cfg))

	director := auth.RequireRole(models.RoleDirector)

	// Suppliers
	protected.Get("/suppliers", supplier.ListSuppliersHandler())
	protected.Get("/suppliers/:id", supplier.GetSupplierHandler())
	protected.Post("/suppliers", director, supplier.CreateSupplierHandler())
	protected.Put("/suppliers/:id", director, supplier.UpdateSupplierHandler())
	protected.Delete("/suppliers/:id", director, supplier.DeleteSupplierHandler())

	// Products
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Post("/products", director, inventory.CreateProductHandler())
	protected.Post("/products/import", director, inventory.ImportProductsHandler())
	protected.Get("/products/:id", inventory.GetProductHandler())
	protected.Get("/products/:id/details", inventory.ProductDetailsHandler())
	protected.Put("/products/:id", director, inventory.UpdateProductHandler())
	protected.Delete("/products/:id", director, inventory.DeleteProductHandler())
	protected.Get("/products/:id/image", inventory.GetImageHandler())
	protected.Post("/products/:id/image", director, inventory.UploadImageHandler(cfg))
	protected.Post("/products/:id/image/fetch", director, inventory.FetchImageHandler(cfg))

	// Employees
	protected.Get("/employees", staff.ListEmployeesHandler())
	protected.Get("/employees/:id", staff.GetEmployeeHandler())
	protected.Post("/employees", director, staff.CreateEmployeeHandler())
	protected.Put("/employees/:id", director, staff.UpdateEmployeeHandler())
	protected.Delete("/employees/:id", director, staff.DeleteEmployeeHandler())

	// Reports
	renderer := pdf.NewRenderer(cfg.ReportDir, cfg.FontPath)
	rep := protected.Group("/reports")
	rep.Get("/current", reports.CurrentHandler(ws))
	rep.Patch("/current/cells", reports.EditCellHandler(ws))
	rep.Delete("/current/rows", reports.DeleteRowsHandler(ws))
	rep.Delete("/current", reports.CloseHandler(ws))
	rep.Post("/current/pdf", reports.CurrentPDFHandler(ws, renderer))
	rep.Post("/templates/:name/pdf", reports.TemplatePDFHandler(renderer))
	rep.Get("/files/:name", reports.DownloadHandler(renderer))
	rep.Post("/:type/open", reports.OpenHandler(ws))

	return app
}
