package implementation

import (
	"context"
	"encoding/json"

	"semantic-docs-be/internal/model"
	"semantic-docs-be/internal/repository/contract"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &AuditLogRepositoryImpl{db: db}
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, eventType string, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	entry := model.AuditLog{
		EventType: eventType,
		Details:   datatypes.JSON(payload),
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *AuditLogRepositoryImpl) FindRecent(ctx context.Context, limit int) ([]*model.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []*model.AuditLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
