//go:build integration

package persistence_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	financeapp "github.com/vishwahegdek/zenkar-platform-sub001/internal/application/finance"
	orderapp "github.com/vishwahegdek/zenkar-platform-sub001/internal/application/order"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/audit"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/migration"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence"
)

type pgFixture struct {
	sqlDB    *sql.DB
	db       *gorm.DB
	migrator *migration.Migrator
}

// startPostgres boots a disposable Postgres and applies the embedded
// migrations to it.
func startPostgres(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("zenkar_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	db, err := persistence.Open(postgres.Open(dsn), nil)
	require.NoError(t, err)
	return &pgFixture{sqlDB: sqlDB, db: db, migrator: m}
}

func TestPostgres_Migrations(t *testing.T) {
	f := startPostgres(t)

	version, dirty, err := f.migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// a second Up is a no-op
	require.NoError(t, f.migrator.Up())

	require.NoError(t, f.migrator.Down())
	var tables int
	require.NoError(t, f.sqlDB.QueryRow(
		`SELECT count(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name = 'orders'`,
	).Scan(&tables))
	assert.Zero(t, tables)
}

func TestPostgres_OrderLifecycle(t *testing.T) {
	f := startPostgres(t)
	ctx := context.Background()
	user := int64(7)

	svc := orderapp.NewOrderService(
		persistence.NewGormUnitOfWork(f.db),
		persistence.NewGormOrderRepository(f.db),
		persistence.NewGormAuditRepository(f.db),
		zap.NewNop(),
	)

	req := orderapp.CreateOrderRequest{
		IsQuickSale: true,
		TotalAmount: decimal.NewFromInt(1500),
		Items: []orderapp.ItemInput{
			{ProductName: "Teak Chair", Quantity: decimal.NewFromInt(3), LineTotal: decimal.NewFromInt(1500)},
		},
		Payments:       []orderapp.PaymentInput{{Amount: decimal.NewFromInt(500), Method: "UPI"}},
		IdempotencyKey: "pg-key-1",
		UserID:         &user,
	}
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.True(t, created.RemainingBalance.Equal(decimal.NewFromInt(1000)))

	replayed, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, replayed.ID)

	// product names match case-insensitively against the partial unique index
	second, err := svc.Create(ctx, orderapp.CreateOrderRequest{
		IsQuickSale: true,
		TotalAmount: decimal.NewFromInt(400),
		Items: []orderapp.ItemInput{
			{ProductName: "teak chair", Quantity: decimal.NewFromInt(1), LineTotal: decimal.NewFromInt(400)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, created.CustomerID, second.CustomerID, "quick sales share the walk-in customer")
	require.Len(t, second.Items, 1)
	assert.Equal(t, created.Items[0].ProductID, second.Items[0].ProductID)

	paymentID := created.Payments[0].ID
	sync, err := svc.SyncPayments(ctx, created.ID, orderapp.SyncPaymentsRequest{
		Payments: []orderapp.SyncPaymentInput{
			{ID: &paymentID, Amount: decimal.NewFromInt(600), Method: "UPI"},
			{Amount: decimal.NewFromInt(900), Method: "CASH"},
		},
		UserID: &user,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sync.Created)
	assert.Equal(t, 1, sync.Updated)
	assert.Zero(t, sync.Deleted)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(decimal.NewFromInt(1500)))
	assert.True(t, got.RemainingBalance.IsZero())

	require.NoError(t, svc.Delete(ctx, created.ID, &user))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	entries, err := persistence.NewGormAuditRepository(f.db).ListByResource(ctx, audit.ResourceOrder, created.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 3)
}

func TestPostgres_PartyLedger(t *testing.T) {
	f := startPostgres(t)
	ctx := context.Background()
	owner := int64(11)

	svc := financeapp.NewPartyService(
		persistence.NewGormFinancePartyRepository(f.db),
		persistence.NewGormFinanceTransactionRepository(f.db),
		persistence.NewGormContactRepository(f.db),
		persistence.NewGormAuditRepository(f.db),
		zap.NewNop(),
	)

	party, err := svc.CreateParty(ctx, owner, financeapp.CreatePartyRequest{Name: "Suresh", Type: "CREDITOR"})
	require.NoError(t, err)

	after, err := svc.AddTransaction(ctx, owner, party.ID, financeapp.AddTransactionRequest{
		Amount: decimal.NewFromInt(2500),
		Type:   "BORROWED",
	})
	require.NoError(t, err)
	require.Len(t, after.Transactions, 1)
	assert.True(t, after.Stats.Borrowed.Equal(decimal.NewFromInt(2500)))

	_, err = svc.GetParty(ctx, owner+1, party.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "parties are scoped to their owner")
}
