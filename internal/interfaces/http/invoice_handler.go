package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/localito/localito-api/internal/application/billing"
	"github.com/localito/localito-api/internal/application/dto"
	"github.com/localito/localito-api/internal/infrastructure/pdf"
)

// InvoiceHandler maneja las peticiones HTTP de facturación CFDI (protegido).
type InvoiceHandler struct {
	uc     *billing.InvoiceUseCase
	pdfGen *pdf.Generator
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdfGen *pdf.Generator) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdfGen: pdfGen}
}

// Create godoc
// @Summary      Facturar una venta
// @Description  Crea la factura copiando los totales de la venta y la intenta
//
//	timbrar con el PAC; si el timbrado falla queda en borrador.
//
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Datos fiscales del receptor"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, conceptos, err := h.uc.CreateInvoice(c.Context(), billing.CreateInvoiceInput{
		SaleID:        in.SaleID,
		Serie:         in.Serie,
		ClienteRFC:    in.ClienteRFC,
		ClienteNombre: in.ClienteNombre,
		ClienteEmail:  in.ClienteEmail,
		ClienteCP:     in.ClienteCP,
		UsoCFDI:       in.UsoCFDI,
		UserID:        GetUserID(c),
	})
	if err != nil {
		// La factura puede existir en borrador aunque el timbrado haya fallado
		if invoice != nil {
			return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(invoice, conceptos))
		}
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(invoice, conceptos))
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.ListInvoices(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return handleError(c, err)
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv, nil))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura con sus conceptos
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, conceptos, err := h.uc.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(toInvoiceResponse(invoice, conceptos))
}

// Stamp godoc
// @Summary      Timbrar una factura en borrador
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/timbrar [post]
func (h *InvoiceHandler) Stamp(c *fiber.Ctx) error {
	invoice, err := h.uc.StampInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(toInvoiceResponse(invoice, nil))
}

// Cancel godoc
// @Summary      Cancelar factura timbrada ante el SAT
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.CancelInvoiceRequest  true  "Motivo de cancelación"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/cancelar [post]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.CancelInvoice(c.Context(), c.Params("id"), in.Motivo)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(toInvoiceResponse(invoice, nil))
}

// PDF godoc
// @Summary      Representación gráfica de la factura en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	invoice, conceptos, err := h.uc.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	doc, err := h.pdfGen.RenderInvoice(invoice, conceptos)
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="factura-`+invoice.NumeroCompleto()+`.pdf"`)
	return c.Send(doc)
}
