package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/order"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

// ReconcileResult counts the rows a reconciliation touched
type ReconcileResult struct {
	Created int
	Updated int
	Deleted int
}

// PaymentReconciler brings the stored payments of an order into agreement
// with a target list: rows missing from the target are deleted, rows whose
// id matches are updated in place and everything else is inserted.
type PaymentReconciler struct {
	payments order.PaymentRepository
}

// NewPaymentReconciler creates a reconciler bound to the given repository
func NewPaymentReconciler(payments order.PaymentRepository) *PaymentReconciler {
	return &PaymentReconciler{payments: payments}
}

// Reconcile applies target to the order. Updated rows keep their creator and
// creation time; a row whose fields already match is left untouched, so
// re-applying the same list changes nothing.
func (r *PaymentReconciler) Reconcile(ctx context.Context, orderID int64, target []SyncPaymentInput, userID *int64) (ReconcileResult, error) {
	var result ReconcileResult

	existing, err := r.payments.ListByOrder(ctx, orderID)
	if err != nil {
		return result, fmt.Errorf("list payments: %w", err)
	}
	byID := make(map[int64]order.Payment, len(existing))
	for _, p := range existing {
		byID[p.ID] = p
	}

	keep := make(map[int64]struct{}, len(target))
	for _, t := range target {
		if t.ID != nil {
			if _, ok := byID[*t.ID]; ok {
				keep[*t.ID] = struct{}{}
			}
		}
	}

	var toDelete []int64
	for _, p := range existing {
		if _, ok := keep[p.ID]; !ok {
			toDelete = append(toDelete, p.ID)
		}
	}
	if err := r.payments.DeleteByIDs(ctx, orderID, toDelete); err != nil {
		return result, fmt.Errorf("delete payments: %w", err)
	}
	result.Deleted = len(toDelete)

	seen := make(map[int64]bool, len(keep))
	for i, t := range target {
		current, matched := byID[derefID(t.ID)]
		if matched && !seen[current.ID] {
			seen[current.ID] = true
			changed, err := applyPaymentEdit(&current, t, userID)
			if err != nil {
				return result, fmt.Errorf("payment %d: %w", i, err)
			}
			if !changed {
				continue
			}
			if err := r.payments.Update(ctx, &current); err != nil {
				return result, fmt.Errorf("update payment %d: %w", current.ID, err)
			}
			result.Updated++
			continue
		}

		p, err := newPaymentFromSync(orderID, t, userID)
		if err != nil {
			return result, fmt.Errorf("payment %d: %w", i, err)
		}
		if err := r.payments.Create(ctx, p); err != nil {
			return result, fmt.Errorf("insert payment: %w", err)
		}
		result.Created++
	}
	return result, nil
}

// applyPaymentEdit copies the mutable fields of t onto p. An omitted method
// or date keeps the stored value.
func applyPaymentEdit(p *order.Payment, t SyncPaymentInput, userID *int64) (bool, error) {
	if !t.Amount.IsPositive() {
		return false, shared.NewDomainError(shared.CodeInvalidInput, "Payment amount must be positive")
	}
	method := p.Method
	if strings.TrimSpace(t.Method) != "" {
		m, ok := order.ParsePaymentMethod(t.Method)
		if !ok {
			return false, shared.NewDomainError(shared.CodeInvalidInput, "Unsupported payment method: "+t.Method)
		}
		method = m
	}
	date := p.Date
	if t.Date != nil && !t.Date.IsZero() {
		date = *t.Date
	}
	note := strings.TrimSpace(t.Note)

	if p.Amount.Equal(t.Amount) && p.Method == method && p.Date.Equal(date) && p.Note == note {
		return false, nil
	}
	p.Amount = t.Amount
	p.Method = method
	p.Date = date
	p.Note = note
	p.UpdatedBy = userID
	return true, nil
}

func newPaymentFromSync(orderID int64, t SyncPaymentInput, userID *int64) (*order.Payment, error) {
	return newPayment(orderID, PaymentInput{Amount: t.Amount, Method: t.Method, Date: t.Date, Note: t.Note}, userID)
}

// newPayment validates a caller-supplied payment
func newPayment(orderID int64, in PaymentInput, userID *int64) (*order.Payment, error) {
	method, ok := order.ParsePaymentMethod(in.Method)
	if !ok {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unsupported payment method: "+in.Method)
	}
	var date time.Time
	if in.Date != nil {
		date = *in.Date
	}
	return order.NewPayment(orderID, in.Amount, method, date, in.Note, userID)
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
