package order

import "strings"

// Status represents the lifecycle status of an order
type Status string

const (
	StatusEnquired   Status = "enquired"
	StatusConfirmed  Status = "confirmed"
	StatusProduction Status = "production"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
	StatusClosed     Status = "closed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{
	StatusEnquired,
	StatusConfirmed,
	StatusProduction,
	StatusReady,
	StatusDelivered,
	StatusClosed,
	StatusCancelled,
}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusEnquired, StatusConfirmed, StatusProduction, StatusReady,
		StatusDelivered, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the order has left the active book.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// ParseStatus normalizes raw input into a Status. Empty input yields
// StatusEnquired.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return StatusEnquired, true
	}
	s := Status(raw)
	return s, s.IsValid()
}

// PaymentMethod is the instrument a payment was made with
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodUPI    PaymentMethod = "UPI"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodBank   PaymentMethod = "BANK"
	PaymentMethodCheque PaymentMethod = "CHEQUE"
	PaymentMethodOther  PaymentMethod = "OTHER"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodUPI,
	PaymentMethodCard,
	PaymentMethodBank,
	PaymentMethodCheque,
	PaymentMethodOther,
}

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard,
		PaymentMethodBank, PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// ParsePaymentMethod accepts any casing ("Card", "upi") and defaults empty
// input to CASH.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return PaymentMethodCash, true
	}
	m := PaymentMethod(raw)
	return m, m.IsValid()
}
