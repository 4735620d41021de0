package models

import "encoding/json"

// Supply is a catalog item ("insumo") tracked by the inventory API.
type Supply struct {
	ID          int     `json:"id"`
	Name        string  `json:"nombre"`
	ProductCode *string `json:"codigo_producto"`
	StockTotal  int     `json:"stock_total"`
	Threshold   int     `json:"umbral_critico"`
}

// UnmarshalJSON accepts both stock_total and the backend's stock_actual.
func (s *Supply) UnmarshalJSON(data []byte) error {
	type alias Supply
	aux := struct {
		*alias
		StockActual *int `json:"stock_actual"`
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.StockActual != nil && s.StockTotal == 0 {
		s.StockTotal = *aux.StockActual
	}

	return nil
}

func (s *Supply) Code() string {
	if s.ProductCode == nil || *s.ProductCode == "" {
		return "N/A"
	}
	return *s.ProductCode
}

func (s *Supply) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ID,
		ResourceType: "insumo",
	}
}

type CreateSupplyRequest struct {
	Name        string  `json:"nombre" binding:"required"`
	ProductCode *string `json:"codigo_producto"`
	Threshold   int     `json:"umbral_critico" binding:"gte=0"`
}

type ThresholdPatch struct {
	Threshold int `json:"umbral_critico"`
}
