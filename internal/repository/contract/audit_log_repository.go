package contract

import (
	"context"

	"semantic-docs-be/internal/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, eventType string, details map[string]interface{}) error
	FindRecent(ctx context.Context, limit int) ([]*model.AuditLog, error)
}
