package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Product is a sellable item
type Product struct {
	ID               int64
	Name             string
	DefaultUnitPrice decimal.Decimal
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NameKey folds a product name for case-insensitive exact matching.
// "Chair", "CHAIR" and " chair " share one key; nothing fuzzier is matched.
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// NewProduct builds a product implicitly created from an order line.
func NewProduct(name string, unitPrice *decimal.Decimal, description string) *Product {
	price := decimal.Zero
	if unitPrice != nil {
		price = *unitPrice
	}
	var notes *string
	if d := strings.TrimSpace(description); d != "" {
		notes = &d
	}
	return &Product{
		Name:             strings.TrimSpace(name),
		DefaultUnitPrice: price,
		Notes:            notes,
	}
}
