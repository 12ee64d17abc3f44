package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/localito/localito-api/internal/application/dto"
	"github.com/localito/localito-api/internal/domain"
)

// handleError mapea los errores de dominio a respuestas HTTP. Los errores no
// reconocidos se reportan como 500 con su mensaje.
func handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInvalidCreditTerms):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CREDIT_TERMS", Message: "plazo de crédito inválido: usar 15 o 30 días solo en ventas a crédito"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrInsufficientStock):
		// El mensaje envuelto nombra el producto y el stock disponible
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: "ya está cancelada"})
	case errors.Is(err, domain.ErrCannotCancelPaidCredit):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CREDIT_PAID", Message: "una venta a crédito pagada no puede cancelarse"})
	case errors.Is(err, domain.ErrNotCreditSale):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_CREDIT_SALE", Message: "la venta no es a crédito"})
	case errors.Is(err, domain.ErrAlreadyPaid):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_PAID", Message: "el crédito ya fue pagado"})
	case errors.Is(err, domain.ErrInvalidCreditTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transición de crédito no permitida"})
	case errors.Is(err, domain.ErrFolioConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "FOLIO_CONFLICT", Message: "conflicto al asignar folio, reintente la operación"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
