package pac

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/localito/localito-api/internal/application/billing"
	"github.com/localito/localito-api/internal/domain/entity"
	"github.com/localito/localito-api/pkg/config"
)

var _ billing.PAC = (*Client)(nil)

// Client implementa el puerto PAC contra la API REST del proveedor de
// timbrado. El comprobante se envía como CFDI 4.0 sin sellar; el PAC lo sella,
// lo timbra ante el SAT y devuelve el folio fiscal con las URLs del XML y PDF.
type Client struct {
	baseURL    string
	apiKey     string
	builder    *CFDIBuilder
	httpClient *http.Client
}

// NewClient construye el cliente del PAC con la configuración de la app.
func NewClient(cfg config.PACConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		builder: NewCFDIBuilder(Emisor{
			RFC:           cfg.EmisorRFC,
			Nombre:        cfg.EmisorNombre,
			CP:            cfg.EmisorCP,
			RegimenFiscal: cfg.RegimenFiscal,
		}),
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

type stampRequest struct {
	XML string `json:"xml"`
}

type stampResponse struct {
	ID          string `json:"id"`
	FolioFiscal string `json:"uuid"`
	FechaTimbre string `json:"stamped_at"`
	XMLURL      string `json:"xml_url"`
	PDFURL      string `json:"pdf_url"`
}

type cancelRequest struct {
	Motivo string `json:"motive"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Stamp construye el CFDI de la factura y lo envía a timbrar.
func (c *Client) Stamp(ctx context.Context, invoice *entity.Invoice, conceptos []*entity.InvoiceConcept) (*billing.StampResult, error) {
	now := time.Now()
	xmlBytes, err := c.builder.Build(invoice, conceptos, now)
	if err != nil {
		return nil, fmt.Errorf("construir CFDI: %w", err)
	}

	var resp stampResponse
	if err := c.do(ctx, http.MethodPost, "/invoices", stampRequest{XML: string(xmlBytes)}, &resp); err != nil {
		return nil, err
	}

	fechaTimbrado := now
	if resp.FechaTimbre != "" {
		if t, err := time.Parse(time.RFC3339, resp.FechaTimbre); err == nil {
			fechaTimbrado = t
		}
	}
	return &billing.StampResult{
		FolioFiscal:   resp.FolioFiscal,
		PACID:         resp.ID,
		XMLURL:        resp.XMLURL,
		PDFURL:        resp.PDFURL,
		FechaTimbrado: fechaTimbrado,
	}, nil
}

// Cancel solicita al PAC la cancelación del comprobante ante el SAT.
func (c *Client) Cancel(ctx context.Context, pacID, motivo string) error {
	return c.do(ctx, http.MethodDelete, "/invoices/"+pacID, cancelRequest{Motivo: motivo}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("serializar petición PAC: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("crear petición PAC: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llamar al PAC: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("leer respuesta del PAC: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("PAC respondió %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("PAC respondió %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decodificar respuesta del PAC: %w", err)
		}
	}
	return nil
}
