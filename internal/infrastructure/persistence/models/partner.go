package models

import (
	"gorm.io/gorm"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/partner"
)

// CustomerModel is the persistence model for customers.
//
// owner_user_id is NOT NULL (0 = unowned) so that the (owner, contact) unique
// index also guards unowned contact-linked customers; NULL would never collide.
type CustomerModel struct {
	BaseModel
	Name        string         `gorm:"type:varchar(200);not null"`
	Phone       string         `gorm:"type:varchar(50)"`
	Address     string         `gorm:"type:text"`
	OwnerUserID int64          `gorm:"not null;default:0;uniqueIndex:idx_customers_owner_contact,priority:1"`
	ContactID   *int64         `gorm:"uniqueIndex:idx_customers_owner_contact,priority:2"`
	SystemKey   *string        `gorm:"type:varchar(50);uniqueIndex:idx_customers_system_key"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		ID:          m.ID,
		Name:        m.Name,
		Phone:       m.Phone,
		Address:     m.Address,
		OwnerUserID: int64Ptr(m.OwnerUserID),
		ContactID:   m.ContactID,
		SystemKey:   derefString(m.SystemKey),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.ID = c.ID
	m.Name = c.Name
	m.Phone = c.Phone
	m.Address = c.Address
	m.OwnerUserID = derefInt64(c.OwnerUserID)
	m.ContactID = c.ContactID
	m.SystemKey = stringPtr(c.SystemKey)
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// ContactModel maps the address-book table written by the contacts sync.
type ContactModel struct {
	BaseModel
	OwnerUserID *int64 `gorm:"index"`
	Name        string `gorm:"type:varchar(200);not null"`
	Phone       string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact.
func (m *ContactModel) ToDomain() *partner.Contact {
	return &partner.Contact{
		ID:          m.ID,
		OwnerUserID: m.OwnerUserID,
		Name:        m.Name,
		Phone:       m.Phone,
	}
}
