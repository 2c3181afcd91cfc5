package order

import (
	"context"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/catalog"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/partner"
)

// TxRepositories is the set of repositories bound to one open transaction.
// Everything done through it commits or rolls back together.
type TxRepositories struct {
	Orders    Repository
	Items     ItemRepository
	Payments  PaymentRepository
	Customers partner.CustomerRepository
	Contacts  partner.ContactRepository
	Products  catalog.ProductRepository
}

// UnitOfWork runs fn inside a single transaction. A non-nil error from fn
// rolls everything back and is returned unchanged.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
