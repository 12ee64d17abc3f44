package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/localito/localito-api/internal/application/auth"
	"github.com/localito/localito-api/internal/application/billing"
	"github.com/localito/localito-api/internal/application/inventory"
	"github.com/localito/localito-api/internal/application/sales"
	"github.com/localito/localito-api/internal/application/usecase"
	"github.com/localito/localito-api/internal/domain/entity"
	infrapac "github.com/localito/localito-api/internal/infrastructure/pac"
	infrapdf "github.com/localito/localito-api/internal/infrastructure/pdf"
	"github.com/localito/localito-api/internal/infrastructure/postgres"
	httpRouter "github.com/localito/localito-api/internal/interfaces/http"
	"github.com/localito/localito-api/pkg/config"
	"github.com/localito/localito-api/pkg/events"
	"github.com/localito/localito-api/pkg/logger"
	"github.com/localito/localito-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Eventos de dominio: logging estructurado + métricas
	dispatcher := events.NewDispatcher()
	dispatcher.Listen(events.VentaCreada, func(payload interface{}) {
		if sale, ok := payload.(*entity.Sale); ok {
			metrics.VentasCreadas.WithLabelValues(sale.MetodoPago).Inc()
			log.Info().Str("folio", sale.Folio).Str("metodo_pago", sale.MetodoPago).Msg("venta creada")
		}
	})
	dispatcher.Listen(events.VentaCancelada, func(payload interface{}) {
		if sale, ok := payload.(*entity.Sale); ok {
			metrics.VentasCanceladas.Inc()
			log.Info().Str("folio", sale.Folio).Msg("venta cancelada")
		}
	})
	dispatcher.Listen(events.FacturaTimbrada, func(payload interface{}) {
		if inv, ok := payload.(*entity.Invoice); ok {
			metrics.FacturasTimbradas.Inc()
			log.Info().Str("factura", inv.NumeroCompleto()).Str("folio_fiscal", inv.FolioFiscal).Msg("factura timbrada")
		}
	})

	// PAC: sin API key las facturas quedan en borrador
	var pac billing.PAC
	if cfg.PAC.APIKey != "" {
		pac = infrapac.NewClient(cfg.PAC)
	} else {
		log.Warn().Msg("PAC sin configurar: las facturas quedarán en borrador")
	}

	pdfGen := infrapdf.NewGenerator(infrapdf.Emisor{
		Nombre: cfg.PAC.EmisorNombre,
		RFC:    cfg.PAC.EmisorRFC,
		CP:     cfg.PAC.EmisorCP,
	})

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, dispatcher)
	userUC := usecase.NewUserUseCase(userRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	movementUC := inventory.NewRegisterMovementUseCase(txRunner, movementRepo)
	saleUC := sales.NewSaleUseCase(txRunner, saleRepo, productRepo, dispatcher)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, saleRepo, productRepo, pac, dispatcher)
	reportUC := usecase.NewReportUseCase(reportRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Localito API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		MovementUC: movementUC,
		SaleUC:     saleUC,
		InvoiceUC:  invoiceUC,
		ReportUC:   reportUC,
		PDFGen:     pdfGen,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Espera a los listeners asíncronos en vuelo antes de salir
	dispatcher.Wait()

	log.Info().Msg("aplicación detenida")
}
