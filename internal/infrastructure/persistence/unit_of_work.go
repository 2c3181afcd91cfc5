package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/order"
)

// GormUnitOfWork implements order.UnitOfWork with a gorm transaction
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTx opens a transaction, hands fn repositories bound to it, and
// commits if fn returns nil
func (u *GormUnitOfWork) WithinTx(ctx context.Context, fn func(repos order.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewTxRepositories(tx))
	})
}

// NewTxRepositories binds every order-engine repository to db, which may be
// a transaction or the root handle
func NewTxRepositories(db *gorm.DB) order.TxRepositories {
	return order.TxRepositories{
		Orders:    NewGormOrderRepository(db),
		Items:     NewGormOrderItemRepository(db),
		Payments:  NewGormPaymentRepository(db),
		Customers: NewGormCustomerRepository(db),
		Contacts:  NewGormContactRepository(db),
		Products:  NewGormProductRepository(db),
	}
}

var _ order.UnitOfWork = (*GormUnitOfWork)(nil)
