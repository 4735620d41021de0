package models

// Lot is a receipt-dated, optionally expiry-dated sub-quantity of a supply.
type Lot struct {
	ID         int     `json:"id"`
	SupplyID   int     `json:"insumo"`
	SupplyName string  `json:"insumo_nombre"`
	Number     string  `json:"numero_lote"`
	ExpiresOn  *string `json:"fecha_caducidad"`
	Stock      int     `json:"stock_por_lote"`
}

func (l *Lot) Expiry() string {
	if l.ExpiresOn == nil || *l.ExpiresOn == "" {
		return "N/A"
	}
	return *l.ExpiresOn
}
