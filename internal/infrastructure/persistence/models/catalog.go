package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/catalog"
)

// ProductModel is the persistence model for products. name_key is unique
// among live rows only, so a soft-deleted product frees its name.
type ProductModel struct {
	BaseModel
	Name             string          `gorm:"type:varchar(200);not null"`
	NameKey          string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_products_name_key,where:deleted_at IS NULL"`
	DefaultUnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes            *string         `gorm:"type:text"`
	DeletedAt        gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:               m.ID,
		Name:             m.Name,
		DefaultUnitPrice: m.DefaultUnitPrice,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.Name = p.Name
	m.NameKey = catalog.NameKey(p.Name)
	m.DefaultUnitPrice = p.DefaultUnitPrice
	m.Notes = p.Notes
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}
