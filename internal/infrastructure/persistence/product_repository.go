package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/catalog"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence/models"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by id. Soft-deleted rows are included so old
// lines keep resolving.
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Unscoped().First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a live product whose folded name equals the folded input
func (r *GormProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("name_key = ?", catalog.NameKey(name)).
		Order("id ASC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Create inserts a product. If the name key is already taken by a live
// product, p is overwritten with that product.
func (r *GormProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	db := r.db.WithContext(ctx)

	var model models.ProductModel
	model.FromDomain(p)
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 || model.ID == 0 {
		existing, err := r.FindByName(ctx, p.Name)
		if err != nil {
			return fmt.Errorf("re-read product %q: %w", p.Name, err)
		}
		*p = *existing
		return nil
	}
	*p = *model.ToDomain()
	return nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
