// Package persistencetest provides an in-memory database for tests that need
// real SQL behaviour (transactions, unique and foreign-key constraints).
package persistencetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence/models"
)

// NewSQLite returns a migrated, private in-memory database with foreign
// keys enforced. The pool is pinned to one connection because every
// connection to :memory: is a separate database; code that escapes its
// transaction onto the root handle deadlocks instead of passing silently.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := persistence.Open(sqlite.Open("file::memory:?_foreign_keys=on"), nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// SeedContact inserts an address-book contact and returns its ID.
func SeedContact(t testing.TB, db *gorm.DB, ownerUserID *int64, name, phone string) int64 {
	t.Helper()
	c := &models.ContactModel{OwnerUserID: ownerUserID, Name: name, Phone: phone}
	require.NoError(t, db.Create(c).Error)
	return c.ID
}

// SeedCustomer inserts a plain customer and returns its ID.
func SeedCustomer(t testing.TB, db *gorm.DB, name string) int64 {
	t.Helper()
	c := &models.CustomerModel{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c.ID
}

// Count returns the number of live rows of model.
func Count(t testing.TB, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
