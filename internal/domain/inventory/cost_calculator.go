package inventory

import (
	"github.com/localito/localito-api/internal/domain"
	"github.com/shopspring/decimal"
)

// CostCalculator implementa el costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * PrecioEntrada)) / (StockActual + CantEntrada)
// redondeado a 2 decimales. Se calcula con el stock y el costo PREVIOS a la
// entrada. Si el total es 0 el costo queda sin cambios.
func CostCalculator(stockActual int, costoActual decimal.Decimal, cantEntrada int, precioEntrada decimal.Decimal) decimal.Decimal {
	total := stockActual + cantEntrada
	if total <= 0 {
		return costoActual
	}
	prev := decimal.NewFromInt(int64(stockActual))
	in := decimal.NewFromInt(int64(cantEntrada))
	num := prev.Mul(costoActual).Add(in.Mul(precioEntrada))
	return num.Div(decimal.NewFromInt(int64(total))).Round(2)
}

// ApplyEntrada suma cantidad al stock.
func ApplyEntrada(stock, cantidad int) int {
	return stock + cantidad
}

// ApplySalida resta cantidad del stock. Falla con ErrInsufficientStock si el
// resultado quedaría negativo; el stock no se muta en ese caso.
func ApplySalida(stock, cantidad int) (int, error) {
	if cantidad > stock {
		return stock, domain.ErrInsufficientStock
	}
	return stock - cantidad, nil
}

// ApplyAjuste fija el stock en un valor absoluto (no un delta).
func ApplyAjuste(cantidad int) (int, error) {
	if cantidad < 0 {
		return 0, domain.ErrInvalidInput
	}
	return cantidad, nil
}
