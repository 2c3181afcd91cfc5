package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/audit"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/order"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

// Metrics receives order-engine counters
type Metrics interface {
	OrderCreated(quickSale bool)
	IdempotentReplay()
	PaymentsReconciled(created, updated, deleted int)
}

type noopMetrics struct{}

func (noopMetrics) OrderCreated(bool) {}
func (noopMetrics) IdempotentReplay() {}
func (noopMetrics) PaymentsReconciled(int, int, int) {}

// OrderService runs the order lifecycle. Every write is one unit of work;
// audit entries are handed to the sink after commit.
type OrderService struct {
	uow         order.UnitOfWork
	orders      order.Repository
	auditSink   audit.Sink
	idempotency shared.IdempotencyStore
	idemTTL     time.Duration
	metrics     Metrics
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService. orders serves reads outside a
// transaction.
func NewOrderService(uow order.UnitOfWork, orders order.Repository, auditSink audit.Sink, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		uow:       uow,
		orders:    orders,
		auditSink: auditSink,
		idemTTL:   shared.DefaultIdempotencyConfig().TTL,
		metrics:   noopMetrics{},
		logger:    logger,
	}
}

// WithIdempotencyStore puts a cache in front of the idempotency-key column
func (s *OrderService) WithIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) *OrderService {
	s.idempotency = store
	if cfg.TTL > 0 {
		s.idemTTL = cfg.TTL
	}
	return s
}

// WithMetrics sets the metrics recorder
func (s *OrderService) WithMetrics(m Metrics) *OrderService {
	if m != nil {
		s.metrics = m
	}
	return s
}

// Create books a new order with its items and initial payments. A request
// carrying an idempotency key that already produced an order returns that
// order unchanged.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ref := CustomerRef{
		CustomerID:  req.CustomerID,
		ContactID:   req.ContactID,
		IsQuickSale: req.IsQuickSale,
		UserID:      req.UserID,
	}
	if !ref.hasIdentity() {
		return nil, shared.ErrMissingCustomerIdentity
	}
	if len(req.Items) == 0 {
		return nil, shared.ErrEmptyOrderItems
	}
	status, ok := order.ParseStatus(req.Status)
	if !ok {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown order status: "+req.Status)
	}
	payments, err := initialPayments(req)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		if existing, err := s.replay(ctx, key); err != nil || existing != nil {
			return existing, err
		}
	}

	o := &order.Order{
		OrderNo:        strings.TrimSpace(req.OrderNo),
		Status:         status,
		OrderDate:      timeOrNow(req.OrderDate),
		DueDate:        req.DueDate,
		TotalAmount:    req.TotalAmount,
		Discount:       decimalOrZero(req.Discount),
		Notes:          req.Notes,
		IsQuickSale:    req.IsQuickSale,
		IdempotencyKey: key,
	}

	var created *order.Order
	err = s.uow.WithinTx(ctx, func(repos order.TxRepositories) error {
		customerID, err := NewIdentityResolver(repos.Customers, repos.Contacts).Resolve(ctx, ref)
		if err != nil {
			return err
		}
		o.CustomerID = customerID

		if err := repos.Orders.Create(ctx, o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := writeItems(ctx, repos, o.ID, req.Items); err != nil {
			return err
		}
		for _, p := range payments {
			p.OrderID = o.ID
			if err := repos.Payments.Create(ctx, p); err != nil {
				return fmt.Errorf("insert payment: %w", err)
			}
		}

		created, err = repos.Orders.FindByID(ctx, o.ID)
		return err
	})
	if err != nil {
		if key != "" && errors.Is(err, shared.ErrConstraintViolation) {
			// A concurrent request with the same key won the insert.
			if existing, lookupErr := s.orders.FindByIdempotencyKey(ctx, key); lookupErr == nil {
				s.metrics.IdempotentReplay()
				resp := ToOrderResponse(existing)
				return &resp, nil
			}
		}
		return nil, err
	}

	if key != "" {
		s.rememberKey(ctx, key, created.ID)
	}
	s.metrics.OrderCreated(created.IsQuickSale)
	s.record(ctx, req.UserID, audit.ActionCreate, created.ID, map[string]any{
		"status":        created.Status.String(),
		"customer_id":   created.CustomerID,
		"total_amount":  created.TotalAmount.String(),
		"item_count":    len(created.Items),
		"payment_count": len(created.Payments),
		"is_quick_sale": created.IsQuickSale,
	})

	resp := ToOrderResponse(created)
	return &resp, nil
}

// Update applies a partial header change, an optional full item replacement
// and an optional status change. Moving into closed writes off the balance
// left after the header change, so the order closes at zero.
func (s *OrderService) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*OrderResponse, error) {
	var target *order.Status
	if req.Status != nil {
		st, ok := order.ParseStatus(*req.Status)
		if !ok || strings.TrimSpace(*req.Status) == "" {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown order status: "+*req.Status)
		}
		target = &st
	}
	if req.Items != nil && len(*req.Items) == 0 {
		return nil, shared.ErrEmptyOrderItems
	}

	var (
		updated  *order.Order
		writeOff = decimal.Zero
	)
	err := s.uow.WithinTx(ctx, func(repos order.TxRepositories) error {
		current, err := repos.Orders.FindByID(ctx, id)
		if err != nil {
			return err
		}

		applyHeader(current, req)
		if target != nil && *target != current.Status {
			if writeOff, err = current.ChangeStatus(*target); err != nil {
				return err
			}
		}

		if err := s.relinkCustomer(ctx, repos, current, req); err != nil {
			return err
		}
		if err := repos.Orders.UpdateHeader(ctx, current); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		if req.Items != nil {
			if err := repos.Items.DeleteByOrder(ctx, id); err != nil {
				return fmt.Errorf("delete items: %w", err)
			}
			if err := writeItems(ctx, repos, id, *req.Items); err != nil {
				return err
			}
		}

		updated, err = repos.Orders.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	details := map[string]any{
		"status":         updated.Status.String(),
		"items_replaced": req.Items != nil,
	}
	if writeOff.IsPositive() {
		details["write_off"] = writeOff.String()
	}
	s.record(ctx, req.UserID, audit.ActionUpdate, id, details)

	resp := ToOrderResponse(updated)
	return &resp, nil
}

// Get returns a live order
func (s *OrderService) Get(ctx context.Context, id int64) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// List returns one page of the active book or of the history
func (s *OrderService) List(ctx context.Context, filter ListOrdersFilter) (shared.Paginated[OrderResponse], error) {
	page := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	view := order.ViewActive
	if filter.View == string(order.ViewHistory) {
		view = order.ViewHistory
	}

	orders, total, err := s.orders.List(ctx, order.ListFilter{
		View:     view,
		Search:   filter.Search,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.NewPaginated(ToOrderResponses(orders), total, page.Page, page.PageSize), nil
}

// Delete soft-deletes an order
func (s *OrderService) Delete(ctx context.Context, id int64, userID *int64) error {
	if err := s.orders.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, userID, audit.ActionDelete, id, nil)
	return nil
}

// AddPayment appends one payment to a live order
func (s *OrderService) AddPayment(ctx context.Context, id int64, in PaymentInput, userID *int64) (*OrderResponse, error) {
	p, err := newPayment(id, in, userID)
	if err != nil {
		return nil, err
	}

	var updated *order.Order
	err = s.uow.WithinTx(ctx, func(repos order.TxRepositories) error {
		if _, err := repos.Orders.FindByID(ctx, id); err != nil {
			return err
		}
		if err := repos.Payments.Create(ctx, p); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		updated, err = repos.Orders.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentsReconciled(1, 0, 0)
	s.record(ctx, userID, audit.ActionAddPayment, id, map[string]any{
		"payment_id": p.ID,
		"amount":     p.Amount.String(),
		"method":     p.Method.String(),
	})

	resp := ToOrderResponse(updated)
	return &resp, nil
}

// SyncPayments makes the stored payments of an order match req.Payments
func (s *OrderService) SyncPayments(ctx context.Context, id int64, req SyncPaymentsRequest) (*SyncPaymentsResponse, error) {
	var result ReconcileResult
	err := s.uow.WithinTx(ctx, func(repos order.TxRepositories) error {
		if _, err := repos.Orders.FindByID(ctx, id); err != nil {
			return err
		}
		var err error
		result, err = NewPaymentReconciler(repos.Payments).Reconcile(ctx, id, req.Payments, req.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentsReconciled(result.Created, result.Updated, result.Deleted)
	s.record(ctx, req.UserID, audit.ActionSyncPayments, id, map[string]any{
		"created": result.Created,
		"updated": result.Updated,
		"deleted": result.Deleted,
	})

	return &SyncPaymentsResponse{
		Success: true,
		Created: result.Created,
		Updated: result.Updated,
		Deleted: result.Deleted,
	}, nil
}

// replay answers a retried create. A nil order with a nil error means the
// key is unused.
func (s *OrderService) replay(ctx context.Context, key string) (*OrderResponse, error) {
	if s.idempotency != nil {
		id, found, err := s.idempotency.Lookup(ctx, key)
		if err != nil {
			s.logger.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
		}
		if found {
			o, err := s.orders.FindByID(ctx, id)
			if err == nil {
				s.metrics.IdempotentReplay()
				resp := ToOrderResponse(o)
				return &resp, nil
			}
			if !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			return nil, shared.NewDomainError(shared.CodeConstraintViolation,
				"Idempotency-Key was used by an order that has since been deleted")
		}
	}

	o, err := s.orders.FindByIdempotencyKey(ctx, key)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.rememberKey(ctx, key, o.ID)
	s.metrics.IdempotentReplay()
	resp := ToOrderResponse(o)
	return &resp, nil
}

func (s *OrderService) rememberKey(ctx context.Context, key string, orderID int64) {
	if s.idempotency == nil {
		return
	}
	if _, err := s.idempotency.Remember(ctx, key, orderID, s.idemTTL); err != nil {
		s.logger.Warn("failed to cache idempotency key",
			zap.String("key", key),
			zap.Int64("order_id", orderID),
			zap.Error(err))
	}
}

// relinkCustomer applies the customer part of an update. A positive
// customer_id relinks; a zero or omitted customer_id with a contact_id
// re-resolves through the contact; anything else keeps the customer.
func (s *OrderService) relinkCustomer(ctx context.Context, repos order.TxRepositories, o *order.Order, req UpdateOrderRequest) error {
	if req.CustomerID != nil && *req.CustomerID > 0 {
		o.CustomerID = *req.CustomerID
		return nil
	}
	if req.ContactID == nil {
		return nil
	}
	customerID, err := NewIdentityResolver(repos.Customers, repos.Contacts).
		Resolve(ctx, CustomerRef{ContactID: req.ContactID, UserID: req.UserID})
	if err != nil {
		return err
	}
	o.CustomerID = customerID
	return nil
}

// record hands an audit entry to the sink. Sink failures are logged only.
func (s *OrderService) record(ctx context.Context, userID *int64, action string, orderID int64, details map[string]any) {
	if s.auditSink == nil {
		return
	}
	entry := audit.Entry{
		UserID:     userID,
		Action:     action,
		Resource:   audit.ResourceOrder,
		ResourceID: orderID,
		Details:    details,
		OccurredAt: time.Now(),
	}
	if err := s.auditSink.Log(ctx, entry); err != nil {
		s.logger.Warn("audit log failed",
			zap.String("action", action),
			zap.Int64("order_id", orderID),
			zap.Error(err))
	}
}

// writeItems resolves and inserts order lines in caller order
func writeItems(ctx context.Context, repos order.TxRepositories, orderID int64, inputs []ItemInput) error {
	if len(inputs) == 0 {
		return nil
	}
	resolver := NewCatalogResolver(repos.Products)
	items := make([]order.OrderItem, len(inputs))
	for i, in := range inputs {
		productID, name, err := resolver.Resolve(ctx, in)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		items[i] = order.OrderItem{
			OrderID:     orderID,
			ProductID:   productID,
			ProductName: name,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   decimalOrZero(in.UnitPrice),
			LineTotal:   in.LineTotal,
			Position:    i,
		}
	}
	if err := repos.Items.CreateBatch(ctx, items); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// initialPayments builds the payments booked with a new order: the explicit
// list, or one synthesized from the legacy advance amount.
func initialPayments(req CreateOrderRequest) ([]*order.Payment, error) {
	if len(req.Payments) > 0 {
		payments := make([]*order.Payment, len(req.Payments))
		for i, in := range req.Payments {
			p, err := newPayment(0, in, req.UserID)
			if err != nil {
				return nil, fmt.Errorf("payment %d: %w", i, err)
			}
			payments[i] = p
		}
		return payments, nil
	}
	if req.AdvanceAmount == nil || !req.AdvanceAmount.IsPositive() {
		return nil, nil
	}
	p, err := newPayment(0, PaymentInput{
		Amount: *req.AdvanceAmount,
		Method: req.PaymentMethod,
		Date:   req.OrderDate,
		Note:   order.LegacyAdvanceNote,
	}, req.UserID)
	if err != nil {
		return nil, err
	}
	return []*order.Payment{p}, nil
}

// applyHeader copies the supplied header fields onto o
func applyHeader(o *order.Order, req UpdateOrderRequest) {
	if req.OrderNo != nil {
		o.OrderNo = strings.TrimSpace(*req.OrderNo)
	}
	if req.IsQuickSale != nil {
		o.IsQuickSale = *req.IsQuickSale
	}
	if req.OrderDate != nil {
		o.OrderDate = *req.OrderDate
	}
	if req.DueDate != nil {
		o.DueDate = req.DueDate
	}
	if req.TotalAmount != nil {
		o.TotalAmount = *req.TotalAmount
	}
	if req.Discount != nil {
		o.Discount = *req.Discount
	}
	if req.Notes != nil {
		o.Notes = *req.Notes
	}
}

func timeOrNow(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now()
	}
	return *t
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
