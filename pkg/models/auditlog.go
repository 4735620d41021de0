package models

import "time"

type AuditLog struct {
	ResourceID   int                    `json:"resource_id"`
	ResourceType string                 `json:"resource_type"`
	Action       string                 `json:"action"` // Captures what happened (e.g., create, update, receipt, issue).
	Data         map[string]interface{} `json:"data"`
	CreatedAt    time.Time              `json:"created_at"`
	Username     string                 `json:"username,omitempty"`
}
