package services

import (
	"encoding/json"

	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/logger"
	"folio/internal/models"
)

// Bounds for History.
const (
	DefaultAuditHistory = 50
	MaxAuditHistory     = 200
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Record stores an audit event. Failures are logged, never returned.
func (s *auditService) Record(ev AuditEvent) {
	entry := &models.AuditLog{
		UserID:       ev.UserID,
		Action:       ev.Action,
		ResourceType: ev.Resource,
		ResourceID:   ev.ResourceID,
		IPAddress:    ev.IPAddress,
	}
	if ev.Changes != nil {
		data, err := json.Marshal(ev.Changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", ev.Action)
			data = []byte("{}")
		}
		entry.Changes = string(data)
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", ev.UserID,
			"action", ev.Action,
			"resource_type", ev.Resource,
			"resource_id", ev.ResourceID,
		)
	}
}

// History returns the newest entries for one resource first. The trail
// outlives the resource, so deleted ids still have a history.
func (s *auditService) History(resource models.AuditResource, resourceID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultAuditHistory
	}
	if limit > MaxAuditHistory {
		limit = MaxAuditHistory
	}

	entries := []models.AuditLog{}
	err := s.db.
		Where("resource_type = ? AND resource_id = ?", resource, resourceID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}
