// Package events implementa un despachador de eventos en memoria,
// síncrono o asíncrono, para los eventos de dominio del negocio.
package events

import "sync"

// Nombres de los eventos de dominio publicados por los casos de uso.
const (
	VentaCreada     = "venta.creada"
	VentaCancelada  = "venta.cancelada"
	FacturaTimbrada = "factura.timbrada"
	UsuarioCreado   = "usuario.creado"
)

// Handler recibe el payload de un evento.
type Handler func(payload interface{})

// Dispatcher registra handlers por nombre de evento y los despacha.
// Seguro para uso concurrente.
type Dispatcher struct {
	mu       sync.RWMutex
	wg       sync.WaitGroup
	handlers map[string][]Handler
}

// NewDispatcher construye un despachador vacío.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registra un handler para el evento indicado.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

// Fire despacha el evento de forma síncrona a todos los handlers registrados.
func (d *Dispatcher) Fire(event string, payload interface{}) {
	d.mu.RLock()
	hs := make([]Handler, len(d.handlers[event]))
	copy(hs, d.handlers[event])
	d.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FireAsync despacha el evento en goroutines y regresa de inmediato. Los
// handlers en vuelo se contabilizan para poder esperarlos con Wait.
func (d *Dispatcher) FireAsync(event string, payload interface{}) {
	d.mu.RLock()
	hs := make([]Handler, len(d.handlers[event]))
	copy(hs, d.handlers[event])
	d.mu.RUnlock()

	for _, h := range hs {
		d.wg.Add(1)
		go func(h Handler) {
			defer d.wg.Done()
			h(payload)
		}(h)
	}
}

// Wait bloquea hasta que terminen todos los handlers asíncronos en vuelo.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Flush elimina todos los handlers (útil en tests).
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = map[string][]Handler{}
}
