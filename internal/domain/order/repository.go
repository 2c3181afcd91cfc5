package order

import "context"

// View selects which part of the order book a listing covers
type View string

const (
	// ViewActive lists orders that are neither closed nor cancelled
	ViewActive View = "active"
	// ViewHistory lists closed and cancelled orders
	ViewHistory View = "history"
)

// ListFilter narrows an order listing
type ListFilter struct {
	View     View
	Search   string
	Page     int
	PageSize int
}

// Repository persists order headers. Reads return the full graph (customer,
// items, payments) and never return soft-deleted orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	UpdateHeader(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, int64, error)
	SoftDelete(ctx context.Context, id int64) error
}

// ItemRepository persists order line items
type ItemRepository interface {
	CreateBatch(ctx context.Context, items []OrderItem) error
	DeleteByOrder(ctx context.Context, orderID int64) error
}

// PaymentRepository persists payments
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	Update(ctx context.Context, p *Payment) error
	DeleteByIDs(ctx context.Context, orderID int64, ids []int64) error
	ListByOrder(ctx context.Context, orderID int64) ([]Payment, error)
}
