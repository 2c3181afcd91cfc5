package partner

import "context"

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*Customer, error)

	// FindByContact returns the customer linked to contactID. A nil
	// ownerUserID matches customers of any owner.
	FindByContact(ctx context.Context, contactID int64, ownerUserID *int64) (*Customer, error)

	// EnsureWalkIn returns the Walk-In singleton, inserting it on first use.
	EnsureWalkIn(ctx context.Context) (*Customer, error)

	// CreateLinked inserts a contact-linked customer. If another writer
	// already linked the same (owner, contact) pair, that row is returned.
	CreateLinked(ctx context.Context, c *Customer) (*Customer, error)
}

// ContactRepository reads address-book contacts
type ContactRepository interface {
	FindByID(ctx context.Context, id int64) (*Contact, error)
}
