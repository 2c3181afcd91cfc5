package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/finance"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence/models"
)

// GormFinancePartyRepository implements finance.PartyRepository using GORM
type GormFinancePartyRepository struct {
	db *gorm.DB
}

// NewGormFinancePartyRepository creates a new GormFinancePartyRepository
func NewGormFinancePartyRepository(db *gorm.DB) *GormFinancePartyRepository {
	return &GormFinancePartyRepository{db: db}
}

func withLedger(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Contact").
		Preload("Transactions", func(tx *gorm.DB) *gorm.DB { return tx.Order("date DESC, id DESC") })
}

// Create inserts a party and assigns its ID
func (r *GormFinancePartyRepository) Create(ctx context.Context, p *finance.Party) error {
	var model models.FinancePartyModel
	model.FromDomain(p)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		return translateError(err)
	}
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID loads one of the owner's parties with contact and ledger
func (r *GormFinancePartyRepository) FindByID(ctx context.Context, ownerUserID, id int64) (*finance.Party, error) {
	var model models.FinancePartyModel
	if err := withLedger(r.db.WithContext(ctx)).
		Where("id = ? AND owner_user_id = ?", id, ownerUserID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// List returns the owner's parties, most recently updated first. An empty
// partyType returns every party.
func (r *GormFinancePartyRepository) List(ctx context.Context, ownerUserID int64, partyType finance.PartyType) ([]finance.Party, error) {
	query := withLedger(r.db.WithContext(ctx)).Where("owner_user_id = ?", ownerUserID)
	if partyType != "" {
		query = query.Where("type = ?", partyType)
	}
	var rows []models.FinancePartyModel
	if err := query.Order("updated_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	parties := make([]finance.Party, len(rows))
	for i := range rows {
		parties[i] = *rows[i].ToDomain()
	}
	return parties, nil
}

// GormFinanceTransactionRepository implements finance.TransactionRepository using GORM
type GormFinanceTransactionRepository struct {
	db *gorm.DB
}

// NewGormFinanceTransactionRepository creates a new GormFinanceTransactionRepository
func NewGormFinanceTransactionRepository(db *gorm.DB) *GormFinanceTransactionRepository {
	return &GormFinanceTransactionRepository{db: db}
}

// Create inserts a ledger movement and bumps the party's updated_at so that
// recently active parties list first
func (r *GormFinanceTransactionRepository) Create(ctx context.Context, t *finance.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.FinanceTransactionModel
		model.FromDomain(t)
		if err := tx.Create(&model).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Model(&models.FinancePartyModel{}).
			Where("id = ?", t.PartyID).
			Update("updated_at", model.CreatedAt).Error; err != nil {
			return translateError(err)
		}
		*t = *model.ToDomain()
		return nil
	})
}

var (
	_ finance.PartyRepository       = (*GormFinancePartyRepository)(nil)
	_ finance.TransactionRepository = (*GormFinanceTransactionRepository)(nil)
)
