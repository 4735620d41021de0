package console

import (
	"errors"
	"net/http"

	"github.com/Alejano1/GestInvLab-proyecto/internal/session"
	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
	"github.com/Alejano1/GestInvLab-proyecto/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// responder maps the error taxonomy to HTTP answers for every handler.
type responder struct {
	store  *session.Store
	logger *zap.Logger
}

func (r *responder) respondError(c *gin.Context, err error) {
	var (
		validationErr *custom_error.ValidationError
		duplicateErr  *custom_error.DuplicateLotError
		apiErr        *custom_error.APIError
		transportErr  *custom_error.TransportError
	)

	switch {
	case errors.Is(err, custom_error.ErrSessionExpired):
		if ws, ok := security.CurrentWorkspace(c); ok {
			r.store.Delete(ws.ID)
			r.logger.Info("Session expired", zap.String("username", ws.Username))
		}
		clearSessionCookie(c)
		security.Unauthorized(c, "Session expired, log in again")
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, gin.H{"error": duplicateErr.Error(), "lot_id": duplicateErr.LotID})
	case errors.Is(err, custom_error.ErrEmptyDraft):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, custom_error.ErrBusy), errors.Is(err, custom_error.ErrNoReport):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, custom_error.ErrUnreadableResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": "The inventory API accepted the request but its answer could not be read; reload before retrying"})
	case errors.Is(err, custom_error.ErrToggleLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   err.Error(),
			"status":  apiErr.Status,
			"details": apiErr.Payload(),
		})
	case errors.As(err, &transportErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Inventory API unreachable", "details": err.Error()})
	default:
		r.logger.Error("Unhandled console error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

// workspace fetches the session workspace or answers 401.
func (r *responder) workspace(c *gin.Context) (*session.Workspace, bool) {
	ws, ok := security.CurrentWorkspace(c)
	if !ok {
		security.Unauthorized(c, "Session missing")
		return nil, false
	}
	return ws, true
}

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(security.SessionCookie, token, maxAge, "/", "", c.Request.TLS != nil, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(security.SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}
