package draft

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
)

type Kind string

const (
	KindReceipt Kind = "entrada"
	KindIssue   Kind = "salida"
)

const expiryLayout = "2006-01-02"

type SupplyRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LotRef is a persisted lot as selected in the issue screen. Available is
// the stock captured at selection time and is never refreshed.
type LotRef struct {
	ID        int    `json:"id"`
	Number    string `json:"number"`
	Available int    `json:"available"`
}

type ServiceRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Line struct {
	TemporaryID int64       `json:"temporary_id"`
	Supply      SupplyRef   `json:"supply"`
	LotNumber   string      `json:"lot_number"`
	ExpiresOn   *string     `json:"expires_on,omitempty"`
	Lot         *LotRef     `json:"lot,omitempty"`
	Quantity    int         `json:"quantity"`
	Destination *ServiceRef `json:"destination,omitempty"`
}

// Sequence hands out temporary ids. One sequence lives as long as the
// session, so ids are never reused across drafts of that session.
type Sequence struct {
	last atomic.Int64
}

func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

type ReceiptLineForm struct {
	Supply    SupplyRef `json:"supply"`
	LotNumber string    `json:"lot_number"`
	ExpiresOn string    `json:"expires_on"`
	Quantity  int       `json:"quantity"`
}

func (f ReceiptLineForm) Validate() error {
	if f.Supply.ID <= 0 {
		return custom_error.NewValidationError("supply", "select a supply")
	}
	if strings.TrimSpace(f.LotNumber) == "" {
		return custom_error.NewValidationError("lot_number", "lot number is required")
	}
	if f.Quantity <= 0 {
		return custom_error.NewValidationError("quantity", "quantity must be a positive integer")
	}
	if f.ExpiresOn != "" {
		if _, err := time.Parse(expiryLayout, f.ExpiresOn); err != nil {
			return custom_error.NewValidationError("expires_on", "expiry date must be YYYY-MM-DD")
		}
	}
	return nil
}

func (f ReceiptLineForm) line(id int64) Line {
	line := Line{
		TemporaryID: id,
		Supply:      f.Supply,
		LotNumber:   strings.TrimSpace(f.LotNumber),
		Quantity:    f.Quantity,
	}
	if f.ExpiresOn != "" {
		expiry := f.ExpiresOn
		line.ExpiresOn = &expiry
	}
	return line
}

type IssueLineForm struct {
	Supply      SupplyRef  `json:"supply"`
	Lot         LotRef     `json:"lot"`
	Quantity    int        `json:"quantity"`
	Destination ServiceRef `json:"destination"`
}

// Validate checks the destination first: no line can be added before one is chosen.
func (f IssueLineForm) Validate() error {
	if f.Destination.ID <= 0 {
		return custom_error.NewValidationError("destination", "select a destination service first")
	}
	if f.Lot.ID <= 0 {
		return custom_error.NewValidationError("lot", "select a lot")
	}
	if f.Supply.ID <= 0 || f.Quantity <= 0 {
		return custom_error.NewValidationError("quantity", "supply, lot and a positive quantity are required")
	}
	if f.Quantity > f.Lot.Available {
		return custom_error.NewValidationError("quantity", insufficientStock(f.Lot.Available))
	}
	return nil
}

func (f IssueLineForm) line(id int64) Line {
	lot := f.Lot
	destination := f.Destination
	return Line{
		TemporaryID: id,
		Supply:      f.Supply,
		LotNumber:   lot.Number,
		Lot:         &lot,
		Quantity:    f.Quantity,
		Destination: &destination,
	}
}

func insufficientStock(available int) string {
	return "insufficient stock: the selected lot only has " + strconv.Itoa(available) + " units"
}
