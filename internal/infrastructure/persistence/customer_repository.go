package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/partner"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence/models"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a live customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByContact finds the customer linked to a contact, optionally scoped to
// the owning user
func (r *GormCustomerRepository) FindByContact(ctx context.Context, contactID int64, ownerUserID *int64) (*partner.Customer, error) {
	query := r.db.WithContext(ctx).Where("contact_id = ?", contactID)
	if ownerUserID != nil {
		query = query.Where("owner_user_id = ?", *ownerUserID)
	}
	var model models.CustomerModel
	if err := query.Order("id ASC").First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// EnsureWalkIn returns the Walk-In singleton. The insert is a no-op when the
// row already exists, so concurrent first uses converge on one row.
func (r *GormCustomerRepository) EnsureWalkIn(ctx context.Context) (*partner.Customer, error) {
	db := r.db.WithContext(ctx)

	var existing models.CustomerModel
	err := db.Unscoped().Where("system_key = ?", partner.WalkInSystemKey).First(&existing).Error
	if err == nil {
		return existing.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateError(err)
	}

	model := models.CustomerModelFromDomain(partner.NewWalkInCustomer())
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return nil, translateError(err)
	}

	if err := db.Unscoped().Where("system_key = ?", partner.WalkInSystemKey).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("re-read walk-in customer: %w", translateError(err))
	}
	return existing.ToDomain(), nil
}

// CreateLinked inserts a contact-linked customer, or returns the row another
// writer created for the same (owner, contact) pair
func (r *GormCustomerRepository) CreateLinked(ctx context.Context, c *partner.Customer) (*partner.Customer, error) {
	if c.ContactID == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Linked customer requires a contact")
	}
	db := r.db.WithContext(ctx)

	model := models.CustomerModelFromDomain(c)
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 1 && model.ID != 0 {
		return model.ToDomain(), nil
	}

	var existing models.CustomerModel
	if err := db.Unscoped().
		Where("owner_user_id = ? AND contact_id = ?", model.OwnerUserID, *model.ContactID).
		First(&existing).Error; err != nil {
		return nil, fmt.Errorf("re-read linked customer: %w", translateError(err))
	}
	return existing.ToDomain(), nil
}

// GormContactRepository implements partner.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact by ID
func (r *GormContactRepository) FindByID(ctx context.Context, id int64) (*partner.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

var (
	_ partner.CustomerRepository = (*GormCustomerRepository)(nil)
	_ partner.ContactRepository  = (*GormContactRepository)(nil)
)
