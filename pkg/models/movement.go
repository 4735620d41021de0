package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	MovementTypeReceipt = "Entrada"
	MovementTypeIssue   = "Salida"
)

type Movement struct {
	ID             int              `json:"id"`
	Type           string           `json:"tipo_movimiento"`
	RegisteredAt   Timestamp        `json:"fecha_registro"`
	User           string           `json:"usuario"`
	Destination    *string          `json:"servicio_destino"`
	DocumentNumber *string          `json:"numero_documento"`
	Details        []MovementDetail `json:"detalles"`
}

type MovementDetail struct {
	SupplyName string `json:"insumo_nombre"`
	SupplyCode string `json:"insumo_codigo"`
	LotNumber  string `json:"lote_numero"`
	Quantity   int    `json:"cantidad"`
}

func (m *Movement) Document() string {
	if m.DocumentNumber == nil {
		return ""
	}
	return *m.DocumentNumber
}

func (m *Movement) DestinationName() string {
	if m.Destination == nil || *m.Destination == "" {
		return "N/A"
	}
	return *m.Destination
}

func (m *Movement) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.ID,
		ResourceType: "movimiento",
	}
}

type ReceiptDetailRequest struct {
	SupplyID  int     `json:"insumo_id"`
	LotNumber string  `json:"numero_lote"`
	ExpiresOn *string `json:"fecha_caducidad"`
	Quantity  int     `json:"cantidad"`
}

type ReceiptRequest struct {
	Details []ReceiptDetailRequest `json:"detalles"`
}

type IssueDetailRequest struct {
	Lot      int `json:"lote"`
	Quantity int `json:"cantidad"`
}

type IssueRequest struct {
	Type        string               `json:"tipo_movimiento"`
	Destination int                  `json:"servicio_destino"`
	Details     []IssueDetailRequest `json:"detalles"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes the ISO 8601 variants the API emits, with or without offset.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Time.Format(time.RFC3339Nano) + `"`), nil
}
