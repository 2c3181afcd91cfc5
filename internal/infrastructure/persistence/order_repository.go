package persistence

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/order"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence/models"
)

var terminalStatuses = []order.Status{order.StatusClosed, order.StatusCancelled}

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// withGraph preloads the customer (even if soft-deleted), items in caller
// order and payments in date order.
func withGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC, id ASC") }).
		Preload("Payments", func(tx *gorm.DB) *gorm.DB { return tx.Order("date ASC, id ASC") })
}

// Create inserts the order header and assigns its ID
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	var model models.OrderModel
	model.FromDomain(o)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		return translateError(err)
	}
	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateHeader writes every header column, including zero values
func (r *GormOrderRepository) UpdateHeader(ctx context.Context, o *order.Order) error {
	var model models.OrderModel
	model.FromDomain(o)
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"order_no":      model.OrderNo,
			"customer_id":   model.CustomerID,
			"status":        model.Status,
			"order_date":    model.OrderDate,
			"due_date":      model.DueDate,
			"total_amount":  model.TotalAmount,
			"discount":      model.Discount,
			"notes":         model.Notes,
			"is_quick_sale": model.IsQuickSale,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID loads a live order with its full graph
func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	var model models.OrderModel
	if err := withGraph(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIdempotencyKey loads the live order created with key
func (r *GormOrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	var model models.OrderModel
	if err := withGraph(r.db.WithContext(ctx)).
		Where("idempotency_key = ?", key).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// List returns one page of live orders, newest first, and the total count
func (r *GormOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	page := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()

	scope := func(db *gorm.DB) *gorm.DB {
		switch filter.View {
		case order.ViewHistory:
			db = db.Where("orders.status IN ?", terminalStatuses)
		default:
			db = db.Where("orders.status NOT IN ?", terminalStatuses)
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			db = db.Where(
				"LOWER(orders.order_no) LIKE ? OR LOWER(orders.notes) LIKE ? OR orders.customer_id IN (?)",
				like, like,
				r.db.WithContext(ctx).Model(&models.CustomerModel{}).Unscoped().Select("id").Where("LOWER(name) LIKE ?", like),
			)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Scopes(scope).
		Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var rows []models.OrderModel
	if err := withGraph(r.db.WithContext(ctx)).
		Scopes(scope).
		Order("orders.created_at DESC, orders.id DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err)
	}

	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// SoftDelete marks a live order deleted
func (r *GormOrderRepository) SoftDelete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormOrderItemRepository implements order.ItemRepository using GORM
type GormOrderItemRepository struct {
	db *gorm.DB
}

// NewGormOrderItemRepository creates a new GormOrderItemRepository
func NewGormOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

// CreateBatch inserts items and assigns their IDs
func (r *GormOrderItemRepository) CreateBatch(ctx context.Context, items []order.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]*models.OrderItemModel, len(items))
	for i := range items {
		rows[i] = models.OrderItemModelFromDomain(&items[i])
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return translateError(err)
	}
	for i := range rows {
		items[i].ID = rows[i].ID
	}
	return nil
}

// DeleteByOrder removes every item of an order
func (r *GormOrderItemRepository) DeleteByOrder(ctx context.Context, orderID int64) error {
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.OrderItemModel{}).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// GormPaymentRepository implements order.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create inserts a payment and assigns its ID and timestamps
func (r *GormPaymentRepository) Create(ctx context.Context, p *order.Payment) error {
	var model models.PaymentModel
	model.FromDomain(p)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}
	*p = *model.ToDomain()
	return nil
}

// Update rewrites the mutable columns of a payment. created_at and
// created_by are never touched.
func (r *GormPaymentRepository) Update(ctx context.Context, p *order.Payment) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND order_id = ?", p.ID, p.OrderID).
		Updates(map[string]any{
			"amount":     p.Amount,
			"method":     p.Method,
			"date":       p.Date,
			"note":       p.Note,
			"updated_by": p.UpdatedBy,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByIDs removes the given payments of an order
func (r *GormPaymentRepository) DeleteByIDs(ctx context.Context, orderID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND id IN ?", orderID, ids).
		Delete(&models.PaymentModel{}).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// ListByOrder returns the payments of an order in date order
func (r *GormPaymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]order.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("date ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	payments := make([]order.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, nil
}

var (
	_ order.Repository        = (*GormOrderRepository)(nil)
	_ order.ItemRepository    = (*GormOrderItemRepository)(nil)
	_ order.PaymentRepository = (*GormPaymentRepository)(nil)
)
