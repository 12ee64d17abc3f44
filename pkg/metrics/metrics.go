// Package metrics expone instrumentación Prometheus del negocio y del HTTP.
// El endpoint /metrics se monta en el router con el Handler de este paquete.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestTotal cuenta las peticiones HTTP por método, ruta y status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localito",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de peticiones HTTP.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration mide la latencia por método, ruta y status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "localito",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// VentasCreadas cuenta las ventas registradas por método de pago.
	VentasCreadas = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localito",
			Subsystem: "ventas",
			Name:      "creadas_total",
			Help:      "Ventas creadas por método de pago.",
		},
		[]string{"metodo_pago"},
	)

	// VentasCanceladas cuenta las ventas canceladas.
	VentasCanceladas = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "localito",
			Subsystem: "ventas",
			Name:      "canceladas_total",
			Help:      "Ventas canceladas.",
		},
	)

	// FacturasTimbradas cuenta los CFDI timbrados por el PAC.
	FacturasTimbradas = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "localito",
			Subsystem: "facturas",
			Name:      "timbradas_total",
			Help:      "Facturas CFDI timbradas.",
		},
	)

	// MovimientosInventario cuenta movimientos del ledger por tipo.
	MovimientosInventario = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localito",
			Subsystem: "inventario",
			Name:      "movimientos_total",
			Help:      "Movimientos de inventario por tipo.",
		},
		[]string{"tipo"},
	)
)

// Registry registro Prometheus de la aplicación.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(
		RequestTotal,
		RequestDuration,
		VentasCreadas,
		VentasCanceladas,
		FacturasTimbradas,
		MovimientosInventario,
	)
}

// Handler expone la página de métricas; se monta en GET /metrics vía el
// adaptador net/http de Fiber.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
