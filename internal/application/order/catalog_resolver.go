package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/catalog"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

// CatalogResolver maps order lines to product ids, creating products named
// by free text. One resolver serves one call: lines whose names fold to the
// same key share a product even before the insert is visible.
type CatalogResolver struct {
	products catalog.ProductRepository
	memo     map[string]int64
}

// NewCatalogResolver creates a resolver bound to the given repository
func NewCatalogResolver(products catalog.ProductRepository) *CatalogResolver {
	return &CatalogResolver{
		products: products,
		memo:     make(map[string]int64),
	}
}

// Resolve returns the product id for item and the name to snapshot on the
// line. A supplied name wins; a line carrying only a product id takes the
// catalog name. An id with no product row resolves to an empty name and is
// left for the foreign key to reject.
func (r *CatalogResolver) Resolve(ctx context.Context, item ItemInput) (int64, string, error) {
	name := strings.TrimSpace(item.ProductName)

	if item.ProductID != nil && *item.ProductID > 0 {
		id := *item.ProductID
		if name != "" {
			return id, name, nil
		}
		found, err := r.products.FindByID(ctx, id)
		switch {
		case err == nil:
			return id, found.Name, nil
		case errors.Is(err, shared.ErrNotFound):
			return id, "", nil
		default:
			return 0, "", fmt.Errorf("find product %d: %w", id, err)
		}
	}

	if name == "" {
		return 0, "", shared.NewDomainError(shared.CodeInvalidInput,
			"Each item needs a product_id or a product_name")
	}

	key := catalog.NameKey(name)
	if id, ok := r.memo[key]; ok {
		return id, name, nil
	}

	found, err := r.products.FindByName(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotFound):
		found = catalog.NewProduct(name, item.UnitPrice, item.Description)
		if err := r.products.Create(ctx, found); err != nil {
			return 0, "", fmt.Errorf("create product %q: %w", name, err)
		}
	default:
		return 0, "", fmt.Errorf("find product %q: %w", name, err)
	}

	r.memo[key] = found.ID
	return found.ID, name, nil
}
