package partner

import "time"

// WalkInCustomerName is the display name of the anonymous quick-sale buyer.
const WalkInCustomerName = "Walk-In"

// WalkInSystemKey uniquely identifies the Walk-In singleton row.
const WalkInSystemKey = "walk-in"

// Customer is a buyer orders are booked against
type Customer struct {
	ID          int64
	Name        string
	Phone       string
	Address     string
	OwnerUserID *int64
	ContactID   *int64
	SystemKey   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewWalkInCustomer builds the Walk-In singleton.
func NewWalkInCustomer() *Customer {
	return &Customer{
		Name:      WalkInCustomerName,
		SystemKey: WalkInSystemKey,
	}
}

// NewCustomerFromContact seeds a customer from an address-book contact.
func NewCustomerFromContact(c *Contact, ownerUserID *int64) *Customer {
	contactID := c.ID
	return &Customer{
		Name:        c.Name,
		Phone:       c.Phone,
		OwnerUserID: ownerUserID,
		ContactID:   &contactID,
	}
}

// IsWalkIn reports whether this is the Walk-In singleton.
func (c *Customer) IsWalkIn() bool {
	return c.SystemKey == WalkInSystemKey
}
