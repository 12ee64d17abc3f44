package repository

import (
	"time"

	"github.com/localito/localito-api/internal/domain/entity"
)

// SaleFilter filtros para listados de ventas.
type SaleFilter struct {
	MetodoPago  string
	Cancelada   *bool
	FechaInicio *time.Time
	FechaFin    *time.Time
	Limit       int
	Offset      int
}

// SaleRepository puerto de persistencia de ventas.
// NextFolio incrementa el consecutivo global de forma atómica en la base
// (nunca "leer el máximo y sumar uno"); debe invocarse dentro de la
// transacción de creación de la venta.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateDetail(detail *entity.SaleDetail) error
	GetByID(id string) (*entity.Sale, error)
	GetDetails(saleID string) ([]*entity.SaleDetail, error)
	List(filter SaleFilter) ([]*entity.Sale, error)
	ListCredit() ([]*entity.Sale, error)
	SetCancelled(id string) error
	UpdateCreditStatus(id, estado string, pagadaEn *time.Time) error
	NextFolio() (int, error)
}
