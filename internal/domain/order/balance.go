package order

import "github.com/shopspring/decimal"

// PaidAmount sums the amounts of the given payments.
func PaidAmount(payments []Payment) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// RemainingBalance is totalAmount - paid - discount. Overpayment yields a
// negative balance; it is not clamped.
func RemainingBalance(totalAmount, paid, discount decimal.Decimal) decimal.Decimal {
	return totalAmount.Sub(paid).Sub(discount)
}

// WriteOffAmount returns the part of a remaining balance that is forgiven
// when an order closes.
func WriteOffAmount(remaining decimal.Decimal) decimal.Decimal {
	if remaining.IsPositive() {
		return remaining
	}
	return decimal.Zero
}
