// Package credit implementa el ciclo de vida del crédito de una venta:
// cálculo de vencimiento y la máquina de estados pendiente -> pagada/vencida.
// Son funciones puras sobre la entidad; la persistencia es del caller.
package credit

import (
	"time"

	"github.com/localito/localito-api/internal/domain"
	"github.com/localito/localito-api/internal/domain/entity"
)

// Umbral de días para considerar un crédito "por vencer".
const nearDueDays = 2

// DueDate calcula la fecha de vencimiento: fecha de la venta (solo la fecha,
// sin hora) más los días de crédito.
func DueDate(fechaVenta time.Time, diasCredito int) time.Time {
	y, m, d := fechaVenta.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, fechaVenta.Location()).AddDate(0, 0, diasCredito)
}

// ValidateTerms valida las condiciones de crédito al crear una venta:
// diasCredito es obligatorio y permitido (15 o 30) si el método es crédito,
// y debe estar ausente en ventas de contado.
func ValidateTerms(metodoPago string, diasCredito *int) error {
	if metodoPago == entity.PaymentCredito {
		if diasCredito == nil {
			return domain.ErrInvalidCreditTerms
		}
		for _, d := range entity.AllowedCreditDays {
			if *diasCredito == d {
				return nil
			}
		}
		return domain.ErrInvalidCreditTerms
	}
	if diasCredito != nil {
		return domain.ErrInvalidCreditTerms
	}
	return nil
}

// dateOnlyUTC normaliza a medianoche UTC para comparar solo fechas
// (independiente de zona horaria y cambios de horario).
func dateOnlyUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntilDue devuelve los días que faltan para el vencimiento (negativo si
// ya venció). Retorna nil salvo que el crédito esté pendiente.
func DaysUntilDue(sale *entity.Sale, hoy time.Time) *int {
	if sale.EstadoCredito != entity.CreditPendiente || sale.FechaVencimiento == nil {
		return nil
	}
	days := int(dateOnlyUTC(*sale.FechaVencimiento).Sub(dateOnlyUTC(hoy)) / (24 * time.Hour))
	return &days
}

// IsNearDue indica si el crédito pendiente vence en los próximos 2 días
// (incluye el día del vencimiento).
func IsNearDue(sale *entity.Sale, hoy time.Time) bool {
	days := DaysUntilDue(sale, hoy)
	return days != nil && *days >= 0 && *days <= nearDueDays
}

// RefreshOverdue aplica la transición pendiente -> vencida cuando hoy es
// posterior a la fecha de vencimiento. Se evalúa al leer listados de crédito,
// no con un timer. Devuelve true si hubo transición.
func RefreshOverdue(sale *entity.Sale, hoy time.Time) bool {
	if sale.EstadoCredito != entity.CreditPendiente || sale.FechaVencimiento == nil {
		return false
	}
	if dateOnlyUTC(hoy).After(dateOnlyUTC(*sale.FechaVencimiento)) {
		sale.EstadoCredito = entity.CreditVencida
		return true
	}
	return false
}

// MarkPaid aplica la transición pendiente/vencida -> pagada.
// pagada es estado terminal; cualquier otra transición es inválida.
func MarkPaid(sale *entity.Sale, ahora time.Time) error {
	if !sale.EsCredito() {
		return domain.ErrNotCreditSale
	}
	switch sale.EstadoCredito {
	case entity.CreditPagada:
		return domain.ErrAlreadyPaid
	case entity.CreditPendiente, entity.CreditVencida:
		sale.EstadoCredito = entity.CreditPagada
		sale.PagadaEn = &ahora
		return nil
	default:
		return domain.ErrInvalidCreditTransition
	}
}
