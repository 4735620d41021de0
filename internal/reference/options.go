package reference

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/pkg/metadata"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"
)

const expiryWarningDays = 30

// Listing is a lookup list ready for a selector. A failed fetch yields an
// empty, error-marked listing so the screen can show the failure.
type Listing[T any] struct {
	Items []T    `json:"items"`
	Error string `json:"error,omitempty"`
}

func Mark[T any](items []T, err error) Listing[T] {
	if err != nil {
		return Listing[T]{Items: []T{}, Error: err.Error()}
	}
	if items == nil {
		items = []T{}
	}
	return Listing[T]{Items: items}
}

type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Stock *int   `json:"stock,omitempty"`
}

func SupplyOptions(supplies []models.Supply) []Option {
	options := make([]Option, 0, len(supplies))
	for _, supply := range supplies {
		options = append(options, Option{
			Value: supply.ID,
			Label: fmt.Sprintf("%s (%s)", supply.Name, supply.Code()),
		})
	}
	return options
}

func ServiceOptions(services []models.Service) []Option {
	options := make([]Option, 0, len(services))
	for _, service := range services {
		options = append(options, Option{Value: service.ID, Label: service.Name})
	}
	return options
}

func UserOptions(users []models.User) []Option {
	options := make([]Option, 0, len(users))
	for _, user := range users {
		options = append(options, Option{Value: user.ID, Label: user.Username})
	}
	return options
}

// LotOptions carries each lot's stock so the screen can capture it on selection.
func LotOptions(lots []models.Lot) []Option {
	options := make([]Option, 0, len(lots))
	for _, lot := range lots {
		stock := lot.Stock
		options = append(options, Option{
			Value: lot.ID,
			Label: fmt.Sprintf("Lote: %s (Stock: %d / Cad: %s)", lot.Number, lot.Stock, lot.Expiry()),
			Stock: &stock,
		})
	}
	return options
}

type StockRow struct {
	models.Supply
	Level metadata.StockLevel `json:"level"`
}

func StockRows(supplies []models.Supply) []StockRow {
	rows := make([]StockRow, 0, len(supplies))
	for _, supply := range supplies {
		rows = append(rows, StockRow{Supply: supply, Level: metadata.NewStockLevel(supply)})
	}
	return rows
}

type LotRow struct {
	models.Lot
	ExpiresSoon bool `json:"expires_soon"`
}

// LotRows flags lots expiring within 30 days of now.
func LotRows(lots []models.Lot, now time.Time) []LotRow {
	rows := make([]LotRow, 0, len(lots))
	for _, lot := range lots {
		rows = append(rows, LotRow{Lot: lot, ExpiresSoon: expiresSoon(lot, now)})
	}
	return rows
}

func expiresSoon(lot models.Lot, now time.Time) bool {
	if lot.ExpiresOn == nil || *lot.ExpiresOn == "" {
		return false
	}
	expiry, err := time.ParseInLocation("2006-01-02", *lot.ExpiresOn, now.Location())
	if err != nil {
		return false
	}
	days := math.Ceil(expiry.Sub(now).Hours() / 24)
	return days <= expiryWarningDays
}

var errLotNotListed = errors.New("lot is not among the lots listed for this supply")

// FindLot resolves a lot id against the listing captured for the screen.
func FindLot(lots []models.Lot, lotID int) (models.Lot, error) {
	for _, lot := range lots {
		if lot.ID == lotID {
			return lot, nil
		}
	}
	return models.Lot{}, fmt.Errorf("%w: %d", errLotNotListed, lotID)
}
