package finance

import "context"

// PartyRepository persists finance parties. Reads are scoped to the owning
// user and load the linked contact and the transactions, newest first.
type PartyRepository interface {
	Create(ctx context.Context, p *Party) error
	FindByID(ctx context.Context, ownerUserID, id int64) (*Party, error)
	List(ctx context.Context, ownerUserID int64, partyType PartyType) ([]Party, error)
}

// TransactionRepository persists party ledger movements
type TransactionRepository interface {
	Create(ctx context.Context, t *Transaction) error
}
