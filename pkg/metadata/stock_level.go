package metadata

import "github.com/Alejano1/GestInvLab-proyecto/pkg/models"

type StockLevel string

const (
	StockLevelOK       StockLevel = "ok"
	StockLevelCritical StockLevel = "critical"
	StockLevelEmpty    StockLevel = "empty"
)

// NewStockLevel classifies a supply: empty at zero, critical at or below its threshold.
func NewStockLevel(supply models.Supply) StockLevel {
	switch {
	case supply.StockTotal == 0:
		return StockLevelEmpty
	case supply.StockTotal > 0 && supply.StockTotal <= supply.Threshold:
		return StockLevelCritical
	default:
		return StockLevelOK
	}
}
