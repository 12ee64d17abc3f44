package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/localito/localito-api/internal/application/auth"
	"github.com/localito/localito-api/internal/application/billing"
	"github.com/localito/localito-api/internal/application/inventory"
	"github.com/localito/localito-api/internal/application/sales"
	"github.com/localito/localito-api/internal/application/usecase"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/internal/infrastructure/pdf"
	"github.com/localito/localito-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	MovementUC *inventory.RegisterMovementUseCase
	SaleUC     *sales.SaleUseCase
	InvoiceUC  *billing.InvoiceUseCase
	ReportUC   *usecase.ReportUseCase
	PDFGen     *pdf.Generator
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(metricsMiddleware())
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	// Auth: login público; el alta de usuarios requiere admin
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(entity.RoleAdmin)
	almacen := RequireRole(entity.RoleAdmin, entity.RoleAlmacen)
	vendedor := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	protected.Post("/auth/register", admin, authHandler.Register)

	// Usuarios (solo admin)
	users := protected.Group("/users", admin)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id/activo", userHandler.SetActive)
	users.Patch("/:id/rol", userHandler.SetRole)

	// Categorías: lectura para todos; escritura admin/almacén
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", almacen, categoryHandler.Create)
	categories.Put("/:id", almacen, categoryHandler.Update)

	// Productos: lectura para todos; escritura admin/almacén
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/stock-bajo", productHandler.ListStockBajo)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", almacen, productHandler.Create)
	products.Put("/:id", almacen, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)

	// Inventario (admin/almacén)
	invGroup := protected.Group("/inventory", almacen)
	inventoryHandler := NewInventoryHandler(deps.MovementUC)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.List)
	invGroup.Get("/movements/product/:id", inventoryHandler.ListByProduct)

	// Ventas (admin/vendedor)
	salesGroup := protected.Group("/sales", vendedor)
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ProductUC, deps.PDFGen)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/credito", saleHandler.ListCredit)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/ticket", saleHandler.Ticket)
	salesGroup.Post("/:id/cancelar", saleHandler.Cancel)
	salesGroup.Post("/:id/pagar", saleHandler.MarkCreditPaid)

	// Facturación (admin/vendedor)
	invoices := protected.Group("/invoices", vendedor)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFGen)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Post("/:id/timbrar", invoiceHandler.Stamp)
	invoices.Post("/:id/cancelar", invoiceHandler.Cancel)

	// Reportes (solo admin)
	reports := protected.Group("/reports", admin)
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/ventas", reportHandler.Sales)
	reports.Get("/inventario", reportHandler.Inventory)
}

// metricsMiddleware registra total y duración de peticiones por ruta.
func metricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		path := c.Route().Path
		metrics.RequestTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		return err
	}
}
