package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Inventario
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Ventas y crédito
	ErrInvalidCreditTerms      = errors.New("condiciones de crédito inválidas")
	ErrAlreadyCancelled        = errors.New("la venta ya está cancelada")
	ErrCannotCancelPaidCredit  = errors.New("no se puede cancelar una venta a crédito pagada")
	ErrNotCreditSale           = errors.New("la venta no es a crédito")
	ErrAlreadyPaid             = errors.New("el crédito ya está pagado")
	ErrInvalidCreditTransition = errors.New("transición de estado de crédito inválida")

	// Folio secuencial: conflicto bajo concurrencia, el caller puede reintentar.
	ErrFolioConflict = errors.New("conflicto al asignar folio")
)
