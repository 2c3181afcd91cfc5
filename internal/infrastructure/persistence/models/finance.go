package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/finance"
)

// FinancePartyModel is the persistence model for finance parties.
type FinancePartyModel struct {
	BaseModel
	OwnerUserID  int64                     `gorm:"not null;index"`
	Name         string                    `gorm:"type:varchar(200)"`
	Phone        string                    `gorm:"type:varchar(50)"`
	ContactID    *int64                    `gorm:"index"`
	Contact      *ContactModel             `gorm:"foreignKey:ContactID;references:ID"`
	Notes        string                    `gorm:"type:text"`
	Type         finance.PartyType         `gorm:"type:varchar(20);not null;default:'CREDITOR'"`
	Transactions []FinanceTransactionModel `gorm:"foreignKey:PartyID;references:ID"`
}

// TableName returns the table name for GORM
func (FinancePartyModel) TableName() string {
	return "finance_parties"
}

// ToDomain converts the persistence model to a domain Party.
func (m *FinancePartyModel) ToDomain() *finance.Party {
	p := &finance.Party{
		ID:           m.ID,
		OwnerUserID:  m.OwnerUserID,
		Name:         m.Name,
		Phone:        m.Phone,
		ContactID:    m.ContactID,
		Notes:        m.Notes,
		Type:         m.Type,
		Transactions: make([]finance.Transaction, len(m.Transactions)),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Contact != nil {
		p.Contact = m.Contact.ToDomain()
	}
	for i := range m.Transactions {
		p.Transactions[i] = *m.Transactions[i].ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Party.
func (m *FinancePartyModel) FromDomain(p *finance.Party) {
	m.ID = p.ID
	m.OwnerUserID = p.OwnerUserID
	m.Name = p.Name
	m.Phone = p.Phone
	m.ContactID = p.ContactID
	m.Notes = p.Notes
	m.Type = p.Type
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// FinanceTransactionModel is the persistence model for party ledger movements.
type FinanceTransactionModel struct {
	ID        int64                   `gorm:"primaryKey;autoIncrement"`
	PartyID   int64                   `gorm:"not null;index"`
	Amount    decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Type      finance.TransactionType `gorm:"type:varchar(20);not null"`
	Date      time.Time               `gorm:"not null;index"`
	Note      string                  `gorm:"type:text"`
	CreatedAt time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FinanceTransactionModel) TableName() string {
	return "finance_transactions"
}

// ToDomain converts the persistence model to a domain Transaction.
func (m *FinanceTransactionModel) ToDomain() *finance.Transaction {
	return &finance.Transaction{
		ID:        m.ID,
		PartyID:   m.PartyID,
		Amount:    m.Amount,
		Type:      m.Type,
		Date:      m.Date,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Transaction.
func (m *FinanceTransactionModel) FromDomain(t *finance.Transaction) {
	m.ID = t.ID
	m.PartyID = t.PartyID
	m.Amount = t.Amount
	m.Type = t.Type
	m.Date = t.Date
	m.Note = t.Note
	m.CreatedAt = t.CreatedAt
}
