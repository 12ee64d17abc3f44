package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localito/localito-api/internal/application/dto"
	"github.com/localito/localito-api/internal/domain"
)

// respuestaDeError ejecuta handleError dentro de una app Fiber mínima y
// devuelve el status y el cuerpo decodificado.
func respuestaDeError(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return handleError(c, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// TestHandleError_StockInsuficienteConDetalle verifica que la respuesta
// conserva el mensaje envuelto con producto y stock disponible.
func TestHandleError_StockInsuficienteConDetalle(t *testing.T) {
	err := fmt.Errorf("%w: producto Refresco 600ml, disponible 2", domain.ErrInsufficientStock)

	status, body := respuestaDeError(t, err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Contains(t, body.Message, "Refresco 600ml", "el mensaje debe nombrar el producto")
	assert.Contains(t, body.Message, "disponible 2", "el mensaje debe indicar el stock disponible")
}

// TestHandleError_FolioConflictEs409 verifica que el conflicto de folio se
// reporta como 409 reintentable y no como error interno.
func TestHandleError_FolioConflictEs409(t *testing.T) {
	status, body := respuestaDeError(t, domain.ErrFolioConflict)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "FOLIO_CONFLICT", body.Code)
	assert.Contains(t, body.Message, "reintente")
}

func TestHandleError_NoReconocidoEs500(t *testing.T) {
	status, body := respuestaDeError(t, fmt.Errorf("se cayó la base"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
}
