package models

import (
	"encoding/json"
	"time"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/audit"
)

// AuditLogModel is the persistence model for audit entries.
type AuditLogModel struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	UserID     *int64    `gorm:"index"`
	Action     string    `gorm:"type:varchar(50);not null"`
	Resource   string    `gorm:"type:varchar(50);not null;index:idx_audit_logs_resource,priority:1"`
	ResourceID int64     `gorm:"not null;index:idx_audit_logs_resource,priority:2"`
	Details    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// AuditLogModelFromDomain creates a persistence model from an audit entry.
func AuditLogModelFromDomain(e *audit.Entry) (*AuditLogModel, error) {
	m := &AuditLogModel{
		ID:         e.ID,
		UserID:     e.UserID,
		Action:     e.Action,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		CreatedAt:  e.OccurredAt,
	}
	if len(e.Details) > 0 {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			return nil, err
		}
		m.Details = string(raw)
	}
	return m, nil
}

// ToDomain converts the persistence model to an audit entry.
func (m *AuditLogModel) ToDomain() (*audit.Entry, error) {
	e := &audit.Entry{
		ID:         m.ID,
		UserID:     m.UserID,
		Action:     m.Action,
		Resource:   m.Resource,
		ResourceID: m.ResourceID,
		OccurredAt: m.CreatedAt,
	}
	if m.Details != "" {
		if err := json.Unmarshal([]byte(m.Details), &e.Details); err != nil {
			return nil, err
		}
	}
	return e, nil
}
