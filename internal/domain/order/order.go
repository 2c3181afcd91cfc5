package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/partner"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

// LegacyAdvanceNote tags the payment synthesized from the legacy
// advanceAmount field.
const LegacyAdvanceNote = "Advance (legacy)"

// Order is the aggregate root of the order book
type Order struct {
	ID             int64
	OrderNo        string
	CustomerID     int64
	Customer       *partner.Customer
	Status         Status
	OrderDate      time.Time
	DueDate        *time.Time
	TotalAmount    decimal.Decimal
	Discount       decimal.Decimal
	Notes          string
	IsQuickSale    bool
	IdempotencyKey string
	Items          []OrderItem
	Payments       []Payment
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// OrderItem is a line of an order. LineTotal is supplied by the caller and
// is never recomputed from quantity and unit price.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	Position    int
}

// Payment is money received against an order
type Payment struct {
	ID        int64
	OrderID   int64
	Amount    decimal.Decimal
	Method    PaymentMethod
	Date      time.Time
	Note      string
	CreatedBy *int64
	UpdatedBy *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPayment validates and builds a payment for an order.
func NewPayment(orderID int64, amount decimal.Decimal, method PaymentMethod, date time.Time, note string, userID *int64) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unsupported payment method: "+method.String())
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &Payment{
		OrderID:   orderID,
		Amount:    amount,
		Method:    method,
		Date:      date,
		Note:      strings.TrimSpace(note),
		CreatedBy: userID,
		UpdatedBy: userID,
	}, nil
}

// PaidAmount is the sum of all persisted payments.
func (o *Order) PaidAmount() decimal.Decimal {
	return PaidAmount(o.Payments)
}

// RemainingBalance is derived on every read and never stored.
func (o *Order) RemainingBalance() decimal.Decimal {
	return RemainingBalance(o.TotalAmount, o.PaidAmount(), o.Discount)
}

// ChangeStatus moves the order to target. Moving into closed forgives the
// balance outstanding at that moment by adding it to the discount; an order
// that is already closed with nothing owed gains nothing. The written-off
// amount is returned.
func (o *Order) ChangeStatus(target Status) (decimal.Decimal, error) {
	if !target.IsValid() {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidInput, "Unknown order status: "+target.String())
	}
	writeOff := decimal.Zero
	if target == StatusClosed {
		writeOff = WriteOffAmount(o.RemainingBalance())
		o.Discount = o.Discount.Add(writeOff)
	}
	o.Status = target
	return writeOff, nil
}

// IsDeleted reports whether the order was soft-deleted.
func (o *Order) IsDeleted() bool {
	return o.DeletedAt != nil
}
