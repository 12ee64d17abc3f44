package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/localito/localito-api/internal/application/dto"
	"github.com/localito/localito-api/internal/application/sales"
	"github.com/localito/localito-api/internal/domain/repository"
	"github.com/localito/localito-api/internal/infrastructure/pdf"
)

// productNameResolver resuelve el nombre de un producto para el ticket.
type productNameResolver interface {
	GetByID(id string) (*dto.ProductResponse, error)
}

// SaleHandler maneja las peticiones HTTP del punto de venta (protegido).
type SaleHandler struct {
	uc       *sales.SaleUseCase
	products productNameResolver
	pdfGen   *pdf.Generator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, products productNameResolver, pdfGen *pdf.Generator) *SaleHandler {
	return &SaleHandler{uc: uc, products: products, pdfGen: pdfGen}
}

// Create godoc
// @Summary      Crear venta
// @Description  Asigna folio consecutivo, descuenta stock y congela el costo por línea.
//
//	Para ventas a crédito, dias_credito debe ser 15 o 30.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Datos de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := sales.CreateSaleInput{
		UserID:        GetUserID(c),
		ClienteNombre: in.ClienteNombre,
		ClienteRFC:    in.ClienteRFC,
		MetodoPago:    in.MetodoPago,
		DiasCredito:   in.DiasCredito,
		Observaciones: in.Observaciones,
	}
	for _, l := range in.Lineas {
		input.Lineas = append(input.Lineas, sales.SaleLineInput{
			ProductID:      l.ProductID,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
		})
	}
	sale, details, err := h.uc.CreateSale(c.Context(), input)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale, details))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        metodo_pago   query  string  false  "efectivo | tarjeta | transferencia | credito"
// @Param        cancelada     query  bool    false  "Filtrar por canceladas"
// @Param        fecha_inicio  query  string  false  "YYYY-MM-DD"
// @Param        fecha_fin     query  string  false  "YYYY-MM-DD (exclusivo)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var in dto.ListSalesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	in.DefaultPage()

	filter := repository.SaleFilter{
		MetodoPago: in.MetodoPago,
		Cancelada:  in.Cancelada,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.FechaInicio != "" {
		t, err := time.ParseInLocation("2006-01-02", in.FechaInicio, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha_inicio inválida (YYYY-MM-DD)"})
		}
		filter.FechaInicio = &t
	}
	if in.FechaFin != "" {
		t, err := time.ParseInLocation("2006-01-02", in.FechaFin, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha_fin inválida (YYYY-MM-DD)"})
		}
		filter.FechaFin = &t
	}

	list, err := h.uc.ListSales(c.Context(), filter)
	if err != nil {
		return handleError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s, nil))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, details, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(toSaleResponse(sale, details))
}

// Cancel godoc
// @Summary      Cancelar venta
// @Description  Repone el stock con movimientos de entrada que referencian la venta.
//
//	Una venta a crédito pagada no puede cancelarse.
//
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancelar [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	sale, err := h.uc.CancelSale(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(toSaleResponse(sale, nil))
}

// ListCredit godoc
// @Summary      Listar ventas a crédito
// @Description  Aplica de paso la transición pendiente → vencida a los créditos
//
//	que ya pasaron su fecha de vencimiento.
//
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CreditSaleResponse
// @Router       /api/sales/credito [get]
func (h *SaleHandler) ListCredit(c *fiber.Ctx) error {
	list, err := h.uc.ListCredit(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	out := make([]dto.CreditSaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toCreditSaleResponse(s))
	}
	return c.JSON(out)
}

// MarkCreditPaid godoc
// @Summary      Marcar crédito como pagado
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/pagar [post]
func (h *SaleHandler) MarkCreditPaid(c *fiber.Ctx) error {
	sale, err := h.uc.MarkCreditPaid(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(toSaleResponse(sale, nil))
}

// Ticket godoc
// @Summary      Ticket de la venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/ticket [get]
func (h *SaleHandler) Ticket(c *fiber.Ctx) error {
	sale, details, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	lines := make([]pdf.TicketLine, 0, len(details))
	for _, d := range details {
		descripcion := d.ProductID
		if p, err := h.products.GetByID(d.ProductID); err == nil {
			descripcion = p.Nombre
		}
		lines = append(lines, pdf.TicketLine{
			Descripcion:    descripcion,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	doc, err := h.pdfGen.RenderTicket(sale, lines)
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="ticket-`+sale.Folio+`.pdf"`)
	return c.Send(doc)
}
