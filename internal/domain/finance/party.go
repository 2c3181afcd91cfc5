package finance

import (
	"strings"
	"time"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/partner"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

// PartyType is a grouping hint for the UI; balances do not depend on it
type PartyType string

const (
	PartyTypeCreditor PartyType = "CREDITOR"
	PartyTypeDebtor   PartyType = "DEBTOR"
)

// IsValid checks if the party type is valid
func (t PartyType) IsValid() bool {
	return t == PartyTypeCreditor || t == PartyTypeDebtor
}

// Party is someone money is borrowed from or lent to
type Party struct {
	ID           int64
	OwnerUserID  int64
	Name         string
	Phone        string
	ContactID    *int64
	Contact      *partner.Contact
	Notes        string
	Type         PartyType
	Transactions []Transaction
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewParty validates and builds a party. A party linked to a contact may
// omit its own name.
func NewParty(ownerUserID int64, name, phone string, contactID *int64, notes string, partyType PartyType) (*Party, error) {
	name = strings.TrimSpace(name)
	if name == "" && contactID == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Party name is required when no contact is linked")
	}
	if partyType == "" {
		partyType = PartyTypeCreditor
	}
	if !partyType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Party type must be CREDITOR or DEBTOR")
	}
	return &Party{
		OwnerUserID: ownerUserID,
		Name:        name,
		Phone:       strings.TrimSpace(phone),
		ContactID:   contactID,
		Notes:       notes,
		Type:        partyType,
	}, nil
}

// DisplayName prefers the linked contact's name.
func (p *Party) DisplayName() string {
	if p.Contact != nil {
		return p.Contact.Name
	}
	return p.Name
}

// DisplayPhone prefers the linked contact's phone.
func (p *Party) DisplayPhone() string {
	if p.Contact != nil {
		return p.Contact.Phone
	}
	return p.Phone
}

// Stats derives the running balances from the party's transactions.
func (p *Party) Stats() Stats {
	return ComputeStats(p.Transactions)
}
