package catalog

import "context"

// ProductRepository persists products
type ProductRepository interface {
	// FindByID returns the product with id, including retired ones.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByName matches live products on NameKey(name).
	FindByName(ctx context.Context, name string) (*Product, error)

	// Create inserts p. When a live product with the same name key already
	// exists, p is filled from that row instead.
	Create(ctx context.Context, p *Product) error
}
