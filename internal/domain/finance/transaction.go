package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

// TransactionType is the direction of a ledger movement
type TransactionType string

const (
	// TransactionTypeBorrowed increases what we owe
	TransactionTypeBorrowed TransactionType = "BORROWED"
	// TransactionTypeRepaid decreases what we owe
	TransactionTypeRepaid TransactionType = "REPAID"
	// TransactionTypeLent increases what they owe
	TransactionTypeLent TransactionType = "LENT"
	// TransactionTypeCollected decreases what they owe
	TransactionTypeCollected TransactionType = "COLLECTED"
)

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeBorrowed, TransactionTypeRepaid, TransactionTypeLent, TransactionTypeCollected:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// Transaction is one movement on a party ledger
type Transaction struct {
	ID        int64
	PartyID   int64
	Amount    decimal.Decimal
	Type      TransactionType
	Date      time.Time
	Note      string
	CreatedAt time.Time
}

// NewTransaction validates and builds a ledger movement.
func NewTransaction(partyID int64, amount decimal.Decimal, txType TransactionType, date time.Time, note string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Transaction amount must be positive")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unsupported transaction type: "+txType.String())
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &Transaction{
		PartyID: partyID,
		Amount:  amount,
		Type:    txType,
		Date:    date,
		Note:    strings.TrimSpace(note),
	}, nil
}

// SignedAmount is the effect on NetBalance: positive moves toward "we owe".
func (t *Transaction) SignedAmount() decimal.Decimal {
	switch t.Type {
	case TransactionTypeBorrowed, TransactionTypeCollected:
		return t.Amount
	case TransactionTypeRepaid, TransactionTypeLent:
		return t.Amount.Neg()
	}
	return decimal.Zero
}

// Stats are per-type totals and the net position with a party
type Stats struct {
	Borrowed  decimal.Decimal
	Repaid    decimal.Decimal
	Lent      decimal.Decimal
	Collected decimal.Decimal
	// NetBalance is (borrowed - repaid) - (lent - collected). Positive means
	// we owe the party, negative means the party owes us.
	NetBalance decimal.Decimal
}

// ComputeStats accumulates transactions into Stats.
func ComputeStats(txs []Transaction) Stats {
	s := Stats{
		Borrowed:   decimal.Zero,
		Repaid:     decimal.Zero,
		Lent:       decimal.Zero,
		Collected:  decimal.Zero,
		NetBalance: decimal.Zero,
	}
	for i := range txs {
		tx := &txs[i]
		switch tx.Type {
		case TransactionTypeBorrowed:
			s.Borrowed = s.Borrowed.Add(tx.Amount)
		case TransactionTypeRepaid:
			s.Repaid = s.Repaid.Add(tx.Amount)
		case TransactionTypeLent:
			s.Lent = s.Lent.Add(tx.Amount)
		case TransactionTypeCollected:
			s.Collected = s.Collected.Add(tx.Amount)
		}
		s.NetBalance = s.NetBalance.Add(tx.SignedAmount())
	}
	return s
}
