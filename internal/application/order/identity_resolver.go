package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/partner"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

// IdentityResolver turns a CustomerRef into a concrete customer id. It runs
// on the repositories of the caller's transaction and creates at most one
// customer per call.
type IdentityResolver struct {
	customers partner.CustomerRepository
	contacts  partner.ContactRepository
}

// NewIdentityResolver creates a resolver bound to the given repositories
func NewIdentityResolver(customers partner.CustomerRepository, contacts partner.ContactRepository) *IdentityResolver {
	return &IdentityResolver{customers: customers, contacts: contacts}
}

// Resolve tries, in order: an explicit customer id (trusted, not checked),
// the Walk-In customer for quick sales without a contact, and the customer
// linked to the contact (created from the contact when absent).
func (r *IdentityResolver) Resolve(ctx context.Context, ref CustomerRef) (int64, error) {
	switch {
	case ref.CustomerID > 0:
		return ref.CustomerID, nil
	case ref.IsQuickSale && ref.ContactID == nil:
		walkIn, err := r.customers.EnsureWalkIn(ctx)
		if err != nil {
			return 0, fmt.Errorf("resolve walk-in customer: %w", err)
		}
		return walkIn.ID, nil
	case ref.ContactID != nil:
		return r.resolveContact(ctx, *ref.ContactID, ref.UserID)
	}
	return 0, shared.ErrMissingCustomerIdentity
}

func (r *IdentityResolver) resolveContact(ctx context.Context, contactID int64, userID *int64) (int64, error) {
	existing, err := r.customers.FindByContact(ctx, contactID, userID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return 0, fmt.Errorf("find customer by contact: %w", err)
	}

	contact, err := r.contacts.FindByID(ctx, contactID)
	if errors.Is(err, shared.ErrNotFound) {
		return 0, shared.NewDomainError(shared.CodeInvalidReference,
			"Contact "+strconv.FormatInt(contactID, 10)+" does not exist")
	}
	if err != nil {
		return 0, fmt.Errorf("load contact: %w", err)
	}

	created, err := r.customers.CreateLinked(ctx, partner.NewCustomerFromContact(contact, userID))
	if err != nil {
		return 0, fmt.Errorf("create customer from contact: %w", err)
	}
	return created.ID, nil
}
