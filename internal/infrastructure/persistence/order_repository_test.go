package persistence_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/catalog"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/order"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence/models"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence/persistencetest"
)

type orderFixture struct {
	db         *gorm.DB
	repos      order.TxRepositories
	customerID int64
	productID  int64
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := persistencetest.NewSQLite(t)
	repos := persistence.NewTxRepositories(db)

	p := catalog.NewProduct("Table", nil, "")
	require.NoError(t, repos.Products.Create(context.Background(), p))

	return &orderFixture{
		db:         db,
		repos:      repos,
		customerID: persistencetest.SeedCustomer(t, db, "Kiran Rao"),
		productID:  p.ID,
	}
}

func (f *orderFixture) createOrder(t *testing.T, status order.Status, notes string) *order.Order {
	t.Helper()
	ctx := context.Background()
	o := &order.Order{
		CustomerID:  f.customerID,
		Status:      status,
		OrderDate:   time.Now(),
		TotalAmount: decimal.NewFromInt(1000),
		Discount:    decimal.Zero,
		Notes:       notes,
	}
	require.NoError(t, f.repos.Orders.Create(ctx, o))
	require.NoError(t, f.repos.Items.CreateBatch(ctx, []order.OrderItem{{
		OrderID:     o.ID,
		ProductID:   f.productID,
		ProductName: "Table",
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(500),
		LineTotal:   decimal.NewFromInt(1000),
	}}))
	return o
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := f.createOrder(t, order.StatusConfirmed, "two chairs")

	p, err := order.NewPayment(o.ID, decimal.NewFromInt(300), order.PaymentMethodCash, time.Now(), "advance", nil)
	require.NoError(t, err)
	require.NoError(t, f.repos.Payments.Create(ctx, p))

	got, err := f.repos.Orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, got.Status)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Kiran Rao", got.Customer.Name)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].LineTotal.Equal(decimal.NewFromInt(1000)))
	require.Len(t, got.Payments, 1)
	assert.True(t, got.PaidAmount().Equal(decimal.NewFromInt(300)))
	assert.True(t, got.RemainingBalance().Equal(decimal.NewFromInt(700)))
}

func TestGormOrderRepository_UnknownCustomerIsConstraintViolation(t *testing.T) {
	f := newOrderFixture(t)
	o := &order.Order{CustomerID: 9999, Status: order.StatusEnquired, OrderDate: time.Now()}

	err := f.repos.Orders.Create(context.Background(), o)
	assert.ErrorIs(t, err, shared.ErrConstraintViolation)
}

func TestGormOrderRepository_UpdateHeader(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := f.createOrder(t, order.StatusConfirmed, "keep me")

	o.Status = order.StatusDelivered
	o.Notes = ""
	o.Discount = decimal.NewFromInt(50)
	o.IsQuickSale = false
	require.NoError(t, f.repos.Orders.UpdateHeader(ctx, o))

	got, err := f.repos.Orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, got.Status)
	assert.Empty(t, got.Notes, "zero values are written")
	assert.True(t, got.Discount.Equal(decimal.NewFromInt(50)))

	missing := *o
	missing.ID = o.ID + 100
	assert.ErrorIs(t, f.repos.Orders.UpdateHeader(ctx, &missing), shared.ErrNotFound)
}

func TestGormOrderRepository_IdempotencyKey(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o := &order.Order{
		CustomerID:     f.customerID,
		Status:         order.StatusEnquired,
		OrderDate:      time.Now(),
		IdempotencyKey: "req-1",
	}
	require.NoError(t, f.repos.Orders.Create(ctx, o))

	got, err := f.repos.Orders.FindByIdempotencyKey(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	dup := &order.Order{
		CustomerID:     f.customerID,
		Status:         order.StatusEnquired,
		OrderDate:      time.Now(),
		IdempotencyKey: "req-1",
	}
	assert.ErrorIs(t, f.repos.Orders.Create(ctx, dup), shared.ErrConstraintViolation)

	_, err = f.repos.Orders.FindByIdempotencyKey(ctx, "req-2")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_List(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.createOrder(t, order.StatusConfirmed, fmt.Sprintf("active %d", i))
	}
	f.createOrder(t, order.StatusClosed, "closed one")
	cancelled := f.createOrder(t, order.StatusCancelled, "Cancelled sofa")

	t.Run("active view excludes terminal orders", func(t *testing.T) {
		rows, total, err := f.repos.Orders.List(ctx, order.ListFilter{View: order.ViewActive})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, rows, 3)
		for _, o := range rows {
			assert.False(t, o.Status.IsTerminal())
		}
	})

	t.Run("history view holds closed and cancelled", func(t *testing.T) {
		rows, total, err := f.repos.Orders.List(ctx, order.ListFilter{View: order.ViewHistory})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, cancelled.ID, rows[0].ID, "newest first")
	})

	t.Run("search matches notes case-insensitively", func(t *testing.T) {
		rows, total, err := f.repos.Orders.List(ctx, order.ListFilter{View: order.ViewHistory, Search: "SOFA"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, cancelled.ID, rows[0].ID)
	})

	t.Run("search matches customer name", func(t *testing.T) {
		_, total, err := f.repos.Orders.List(ctx, order.ListFilter{View: order.ViewActive, Search: "kiran"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("customer name search runs under the caller context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := f.repos.Orders.List(cancelled, order.ListFilter{View: order.ViewActive, Search: "kiran"})
		assert.Error(t, err)
	})

	t.Run("paginates", func(t *testing.T) {
		rows, total, err := f.repos.Orders.List(ctx, order.ListFilter{View: order.ViewActive, Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, rows, 1)
	})
}

func TestGormOrderRepository_SoftDelete(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := f.createOrder(t, order.StatusConfirmed, "")

	require.NoError(t, f.repos.Orders.SoftDelete(ctx, o.ID))

	_, err := f.repos.Orders.FindByID(ctx, o.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, total, err := f.repos.Orders.List(ctx, order.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	assert.ErrorIs(t, f.repos.Orders.SoftDelete(ctx, o.ID), shared.ErrNotFound)

	// Items survive the soft delete.
	assert.Equal(t, int64(1), persistencetest.Count(t, f.db, &models.OrderItemModel{}))
}

func TestGormOrderItemRepository_Replace(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := f.createOrder(t, order.StatusConfirmed, "")

	require.NoError(t, f.repos.Items.DeleteByOrder(ctx, o.ID))
	items := []order.OrderItem{
		{OrderID: o.ID, ProductID: f.productID, ProductName: "Table", Quantity: decimal.NewFromInt(1), Position: 0},
		{OrderID: o.ID, ProductID: f.productID, ProductName: "Table", Quantity: decimal.NewFromInt(3), Position: 1},
	}
	require.NoError(t, f.repos.Items.CreateBatch(ctx, items))
	assert.NotZero(t, items[0].ID)
	assert.NotZero(t, items[1].ID)

	got, err := f.repos.Orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[1].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestGormPaymentRepository(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := f.createOrder(t, order.StatusConfirmed, "")
	creator, editor := int64(1), int64(2)

	early, err := order.NewPayment(o.ID, decimal.NewFromInt(100), order.PaymentMethodCash,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "", &creator)
	require.NoError(t, err)
	late, err := order.NewPayment(o.ID, decimal.NewFromInt(200), order.PaymentMethodUPI,
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), "", &creator)
	require.NoError(t, err)
	require.NoError(t, f.repos.Payments.Create(ctx, late))
	require.NoError(t, f.repos.Payments.Create(ctx, early))

	t.Run("lists in date order", func(t *testing.T) {
		list, err := f.repos.Payments.ListByOrder(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, early.ID, list[0].ID)
		assert.Equal(t, late.ID, list[1].ID)
	})

	t.Run("update keeps creation audit fields", func(t *testing.T) {
		edit := *early
		edit.Amount = decimal.NewFromInt(150)
		edit.Method = order.PaymentMethodCard
		edit.UpdatedBy = &editor
		edit.CreatedBy = &editor
		require.NoError(t, f.repos.Payments.Update(ctx, &edit))

		list, err := f.repos.Payments.ListByOrder(ctx, o.ID)
		require.NoError(t, err)
		got := list[0]
		assert.True(t, got.Amount.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, order.PaymentMethodCard, got.Method)
		require.NotNil(t, got.CreatedBy)
		assert.Equal(t, creator, *got.CreatedBy)
		require.NotNil(t, got.UpdatedBy)
		assert.Equal(t, editor, *got.UpdatedBy)
		assert.WithinDuration(t, early.CreatedAt, got.CreatedAt, time.Second)
	})

	t.Run("update of another order's payment is not found", func(t *testing.T) {
		other := f.createOrder(t, order.StatusConfirmed, "")
		edit := *early
		edit.OrderID = other.ID
		assert.ErrorIs(t, f.repos.Payments.Update(ctx, &edit), shared.ErrNotFound)
	})

	t.Run("delete by ids", func(t *testing.T) {
		require.NoError(t, f.repos.Payments.DeleteByIDs(ctx, o.ID, []int64{late.ID}))
		require.NoError(t, f.repos.Payments.DeleteByIDs(ctx, o.ID, nil))

		list, err := f.repos.Payments.ListByOrder(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, early.ID, list[0].ID)
	})
}

func TestGormUnitOfWork_RollsBack(t *testing.T) {
	f := newOrderFixture(t)
	uow := persistence.NewGormUnitOfWork(f.db)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(repos order.TxRepositories) error {
		o := &order.Order{CustomerID: f.customerID, Status: order.StatusEnquired, OrderDate: time.Now()}
		if err := repos.Orders.Create(ctx, o); err != nil {
			return err
		}
		// Unknown product fails the item insert after the header is written.
		return repos.Items.CreateBatch(ctx, []order.OrderItem{{OrderID: o.ID, ProductID: 9999, ProductName: "ghost"}})
	})
	assert.ErrorIs(t, err, shared.ErrConstraintViolation)
	assert.Zero(t, persistencetest.Count(t, f.db, &models.OrderModel{}))
}
