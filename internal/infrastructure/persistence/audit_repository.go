package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/audit"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence/models"
)

// GormAuditRepository stores audit entries in the audit_logs table. It also
// serves as the synchronous audit.Sink behind the async dispatcher.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Create inserts an entry, assigning an ID and timestamp when missing
func (r *GormAuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	model, err := models.AuditLogModelFromDomain(e)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Log implements audit.Sink
func (r *GormAuditRepository) Log(ctx context.Context, e audit.Entry) error {
	return r.Create(ctx, &e)
}

// ListByResource returns the audit trail of one resource, oldest first
func (r *GormAuditRepository) ListByResource(ctx context.Context, resource string, resourceID int64) ([]audit.Entry, error) {
	var rows []models.AuditLogModel
	if err := r.db.WithContext(ctx).
		Where("resource = ? AND resource_id = ?", resource, resourceID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	entries := make([]audit.Entry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("decode audit details: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

var (
	_ audit.Repository = (*GormAuditRepository)(nil)
	_ audit.Sink       = (*GormAuditRepository)(nil)
)
