package auditlog

import (
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"

	"go.uber.org/zap"
)

type Auditlog struct {
	logger *zap.Logger
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log records a mutation the console performed against the inventory API.
func (a *Auditlog) Log(action string, username string, data map[string]interface{}, item Auditable) models.AuditLog {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.Data = data
	auditLog.Username = username
	auditLog.CreatedAt = time.Now()

	a.logger.Info("Audit",
		zap.String("action", auditLog.Action),
		zap.String("resource_type", auditLog.ResourceType),
		zap.Int("resource_id", auditLog.ResourceID),
		zap.String("username", auditLog.Username),
		zap.Any("data", auditLog.Data),
	)

	return auditLog
}

func NewAuditLog(logger *zap.Logger) *Auditlog {
	a := Auditlog{logger: logger.Named("audit")}

	return &a
}
