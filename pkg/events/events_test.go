package events_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localito/localito-api/pkg/events"
)

func TestFire_EntregaPayloadATodosLosHandlers(t *testing.T) {
	d := events.NewDispatcher()

	var recibidos []interface{}
	d.Listen("venta.creada", func(payload interface{}) {
		recibidos = append(recibidos, payload)
	})
	d.Listen("venta.creada", func(payload interface{}) {
		recibidos = append(recibidos, payload)
	})

	d.Fire("venta.creada", "folio-V-00001")

	require.Len(t, recibidos, 2)
	assert.Equal(t, "folio-V-00001", recibidos[0])
}

func TestFire_EventoSinHandlersNoFalla(t *testing.T) {
	d := events.NewDispatcher()
	d.Fire("evento.desconocido", nil)
}

// TestFireAsync_WaitEsperaHandlersEnVuelo verifica que Wait bloquea hasta que
// terminan los handlers asíncronos, de modo que el apagado del proceso no los
// corte a medias.
func TestFireAsync_WaitEsperaHandlersEnVuelo(t *testing.T) {
	d := events.NewDispatcher()

	var completados int32
	for i := 0; i < 3; i++ {
		d.Listen("venta.creada", func(payload interface{}) {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&completados, 1)
		})
	}

	d.FireAsync("venta.creada", nil)
	d.Wait()

	assert.Equal(t, int32(3), atomic.LoadInt32(&completados),
		"Wait debe regresar solo cuando todos los handlers terminaron")
}

func TestFlush_EliminaHandlers(t *testing.T) {
	d := events.NewDispatcher()

	var llamadas int32
	d.Listen("venta.creada", func(payload interface{}) {
		atomic.AddInt32(&llamadas, 1)
	})

	d.Flush()
	d.Fire("venta.creada", nil)

	assert.Zero(t, atomic.LoadInt32(&llamadas), "tras Flush no debe quedar ningún handler")
}
