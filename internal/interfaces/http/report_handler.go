package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/localito/localito-api/internal/application/dto"
	"github.com/localito/localito-api/internal/application/usecase"
)

// ReportHandler maneja las peticiones HTTP de reportes (protegido).
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Reporte de ventas por rango de fechas
// @Description  Totales, ventas por día y productos más vendidos. Excluye canceladas.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        fecha_inicio  query  string  true  "YYYY-MM-DD"
// @Param        fecha_fin     query  string  true  "YYYY-MM-DD (inclusivo)"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/ventas [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	desde, err := time.ParseInLocation("2006-01-02", c.Query("fecha_inicio"), time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha_inicio inválida (YYYY-MM-DD)"})
	}
	hasta, err := time.ParseInLocation("2006-01-02", c.Query("fecha_fin"), time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha_fin inválida (YYYY-MM-DD)"})
	}

	out, err := h.uc.SalesReport(desde, hasta)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Valuación del inventario activo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryReportResponse
// @Router       /api/reports/inventario [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.uc.InventoryReport()
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
