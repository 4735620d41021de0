package submission

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/internal/gateway"
	"github.com/Alejano1/GestInvLab-proyecto/internal/locale"
	"github.com/Alejano1/GestInvLab-proyecto/internal/movements/draft"
	"github.com/Alejano1/GestInvLab-proyecto/internal/reference"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/auditlog"
	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"

	"go.uber.org/zap"
)

const (
	receiptPath = "/api/inventory/entradas/"
	issuePath   = "/api/inventory/movimientos/"
)

// Result describes a movement the API accepted. Unreadable is set when the
// API answered 2xx with a body that could not be decoded: the movement exists
// but its document number and date are unknown here.
type Result struct {
	DocumentNumber string          `json:"document_number"`
	RegisteredAt   time.Time       `json:"registered_at"`
	Message        string          `json:"message"`
	Movement       models.Movement `json:"movement"`
	Unreadable     bool            `json:"unreadable,omitempty"`
}

// Workflow turns a draft into exactly one batch-creation request. It is not
// idempotent: submitting the same lines twice creates two movements.
type Workflow struct {
	api       gateway.Requester
	refresher reference.Refresher
	audit     *auditlog.Auditlog
	location  *time.Location
	logger    *zap.Logger
}

func NewWorkflow(api gateway.Requester, refresher reference.Refresher, audit *auditlog.Auditlog, location *time.Location, logger *zap.Logger) *Workflow {
	return &Workflow{
		api:       api,
		refresher: refresher,
		audit:     audit,
		location:  location,
		logger:    logger,
	}
}

func (w *Workflow) Submit(ctx context.Context, cred gateway.Credential, username string, d *draft.Draft) (*Result, error) {
	switch d.Kind() {
	case draft.KindReceipt:
		return w.SubmitReceipt(ctx, cred, username, d)
	case draft.KindIssue:
		return w.SubmitIssue(ctx, cred, username, d)
	default:
		return nil, fmt.Errorf("unknown draft kind %q", d.Kind())
	}
}

func (w *Workflow) SubmitReceipt(ctx context.Context, cred gateway.Credential, username string, d *draft.Draft) (*Result, error) {
	lines := d.Lines()
	if len(lines) == 0 {
		return nil, custom_error.ErrEmptyDraft
	}

	payload := ReceiptPayload(lines)

	var movement models.Movement
	err := w.api.Do(ctx, cred, http.MethodPost, receiptPath, payload, &movement)
	if err != nil && !errors.Is(err, custom_error.ErrUnreadableResponse) {
		return nil, w.failure("receipt", err)
	}

	return w.success(ctx, cred, username, d, "receipt", "Entrada registrada exitosamente", movement, err != nil), nil
}

func (w *Workflow) SubmitIssue(ctx context.Context, cred gateway.Credential, username string, d *draft.Draft) (*Result, error) {
	lines := d.Lines()
	if len(lines) == 0 {
		return nil, custom_error.ErrEmptyDraft
	}
	// the destination is re-checked here even though lines were validated against it
	destination, ok := d.Destination()
	if !ok || destination.ID <= 0 {
		return nil, custom_error.NewValidationError("destination", "select a destination service")
	}

	payload := IssuePayload(destination, lines)

	var movement models.Movement
	err := w.api.Do(ctx, cred, http.MethodPost, issuePath, payload, &movement)
	if err != nil && !errors.Is(err, custom_error.ErrUnreadableResponse) {
		return nil, w.failure("issue", custom_error.Narrow(err, "detalles", "non_field_errors"))
	}

	return w.success(ctx, cred, username, d, "issue", "Salida registrada exitosamente", movement, err != nil), nil
}

func ReceiptPayload(lines []draft.Line) models.ReceiptRequest {
	details := make([]models.ReceiptDetailRequest, 0, len(lines))
	for _, line := range lines {
		details = append(details, models.ReceiptDetailRequest{
			SupplyID:  line.Supply.ID,
			LotNumber: line.LotNumber,
			ExpiresOn: line.ExpiresOn,
			Quantity:  line.Quantity,
		})
	}
	return models.ReceiptRequest{Details: details}
}

func IssuePayload(destination draft.ServiceRef, lines []draft.Line) models.IssueRequest {
	details := make([]models.IssueDetailRequest, 0, len(lines))
	for _, line := range lines {
		if line.Lot == nil {
			continue
		}
		details = append(details, models.IssueDetailRequest{
			Lot:      line.Lot.ID,
			Quantity: line.Quantity,
		})
	}
	return models.IssueRequest{
		Type:        models.MovementTypeIssue,
		Destination: destination.ID,
		Details:     details,
	}
}

// success clears the draft whenever the API accepted the batch, including
// when its answer could not be read, so a resubmit cannot duplicate it.
func (w *Workflow) success(ctx context.Context, cred gateway.Credential, username string, d *draft.Draft, action, title string, movement models.Movement, unreadable bool) *Result {
	lineCount := d.Len()
	d.Clear()

	result := &Result{
		DocumentNumber: movement.Document(),
		RegisteredAt:   movement.RegisteredAt.Time,
		Movement:       movement,
		Unreadable:     unreadable,
	}
	if unreadable {
		result.Message = title + ". No se pudo leer la respuesta del servidor; revise el reporte de movimientos"
		w.logger.Warn("Movement registered with an unreadable response", zap.String("action", action), zap.String("username", username))
	} else {
		result.Message = fmt.Sprintf("%s. Documento: %s. Fecha: %s",
			title, result.DocumentNumber, locale.FormatShortDateTime(result.RegisteredAt, w.location))
	}

	w.audit.Log(action, username, map[string]interface{}{
		"document_number": result.DocumentNumber,
		"lines":           lineCount,
	}, &movement)

	if w.refresher != nil {
		w.refresher.Refresh(ctx, cred, reference.Supplies)
	}

	return result
}

func (w *Workflow) failure(action string, err error) error {
	w.logger.Warn("Movement submission failed", zap.String("action", action), zap.Error(err))
	return fmt.Errorf("register %s: %w", action, err)
}
