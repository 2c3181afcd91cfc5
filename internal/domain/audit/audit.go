// Package audit describes the best-effort trail of business actions.
package audit

import (
	"context"
	"time"
)

// Actions
const (
	ActionCreate         = "CREATE"
	ActionUpdate         = "UPDATE"
	ActionDelete         = "DELETE"
	ActionAddPayment     = "ADD_PAYMENT"
	ActionSyncPayments   = "SYNC_PAYMENTS"
	ActionAddTransaction = "ADD_TRANSACTION"
)

// Resources
const (
	ResourceOrder        = "Order"
	ResourceFinanceParty = "FinanceParty"
)

// Entry is one audited action
type Entry struct {
	ID         string
	UserID     *int64
	Action     string
	Resource   string
	ResourceID int64
	Details    map[string]any
	OccurredAt time.Time
}

// Sink receives audit entries after the business transaction has committed.
// Callers never let a Sink error fail the operation it describes.
type Sink interface {
	Log(ctx context.Context, e Entry) error
}

// Repository persists audit entries
type Repository interface {
	Create(ctx context.Context, e *Entry) error
}
