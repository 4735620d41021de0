package session

import (
	"sync"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/internal/movements/draft"
	"github.com/Alejano1/GestInvLab-proyecto/internal/reference"
	"github.com/Alejano1/GestInvLab-proyecto/internal/reports"
	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/roles"
)

type Screen string

const (
	ScreenStock   Screen = "stock"
	ScreenReceipt Screen = "entrada"
	ScreenIssue   Screen = "salida"
	ScreenReports Screen = "reportes"
	ScreenAdmin   Screen = "administrar"
)

func (s Screen) IsValid() bool {
	switch s {
	case ScreenStock, ScreenReceipt, ScreenIssue, ScreenReports, ScreenAdmin:
		return true
	default:
		return false
	}
}

// Workspace is everything one login holds between requests: the API token,
// the active screen with its draft, captured lots, the stock view and the
// last report. It implements gateway.Credential.
type Workspace struct {
	ID        string
	Username  string
	Role      roles.Role
	CreatedAt time.Time

	mu          sync.Mutex
	token       string
	invalidated bool
	screen      Screen
	draft       *draft.Draft
	seq         draft.Sequence
	lots        map[int][]models.Lot
	stock       reference.Listing[reference.StockRow]
	inflight    map[string]bool

	Reports reports.Cache
}

func newWorkspace(id, username, token string, role roles.Role, now time.Time) *Workspace {
	return &Workspace{
		ID:        id,
		Username:  username,
		Role:      role,
		CreatedAt: now,
		token:     token,
		screen:    ScreenStock,
		lots:      make(map[int][]models.Lot),
		inflight:  make(map[string]bool),
	}
}

func (w *Workspace) Token() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.invalidated {
		return ""
	}
	return w.token
}

// Invalidate drops the token after the API rejected it. The workspace stays
// readable but can no longer authenticate.
func (w *Workspace) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.invalidated = true
	w.token = ""
}

func (w *Workspace) Invalidated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.invalidated
}

func (w *Workspace) Screen() Screen {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.screen
}

// Activate switches the top-level screen. Switching to a different screen
// discards the current draft; the movement screens start with a fresh one.
func (w *Workspace) Activate(screen Screen) (bool, error) {
	if !screen.IsValid() {
		return false, custom_error.NewValidationError("screen", "unknown screen")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if screen == w.screen && (w.draft != nil || !isMovementScreen(screen)) {
		return false, nil
	}

	if w.draft != nil {
		w.draft.Clear()
		w.draft = nil
	}
	w.lots = make(map[int][]models.Lot)
	w.screen = screen

	switch screen {
	case ScreenReceipt:
		w.draft = draft.New(draft.KindReceipt, &w.seq)
	case ScreenIssue:
		w.draft = draft.New(draft.KindIssue, &w.seq)
	}
	return true, nil
}

// Draft returns the draft of the active screen when it is of the given kind.
func (w *Workspace) Draft(kind draft.Kind) (*draft.Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.draft == nil || w.draft.Kind() != kind {
		return nil, custom_error.NewValidationError("screen", "open the "+string(kind)+" screen first")
	}
	return w.draft, nil
}

// CaptureLots remembers the lots shown for a supply; their stock is the
// ceiling used when a line for one of them is added.
func (w *Workspace) CaptureLots(supplyID int, lots []models.Lot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lots[supplyID] = lots
}

func (w *Workspace) CapturedLots(supplyID int) []models.Lot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lots[supplyID]
}

func (w *Workspace) SetStock(stock reference.Listing[reference.StockRow]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stock = stock
}

func (w *Workspace) Stock() reference.Listing[reference.StockRow] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stock
}

// Begin marks action as in flight. The returned func ends it; a second Begin
// for the same action before that fails with ErrBusy.
func (w *Workspace) Begin(action string) (func(), error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inflight[action] {
		return nil, custom_error.ErrBusy
	}
	w.inflight[action] = true

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.inflight, action)
	}, nil
}

func isMovementScreen(screen Screen) bool {
	return screen == ScreenReceipt || screen == ScreenIssue
}
