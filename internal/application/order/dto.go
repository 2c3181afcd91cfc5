package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/order"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/partner"
)

// CustomerRef is a logical customer reference: an explicit id, a contact to
// resolve through, or the quick-sale flag
type CustomerRef struct {
	CustomerID  int64
	ContactID   *int64
	IsQuickSale bool
	UserID      *int64
}

// hasIdentity reports whether the reference can resolve to a customer
func (r CustomerRef) hasIdentity() bool {
	return r.CustomerID > 0 || r.ContactID != nil || r.IsQuickSale
}

// ItemInput is one order line. A line without product_id is resolved by
// product_name.
type ItemInput struct {
	ProductID   *int64           `json:"product_id"`
	ProductName string           `json:"product_name" binding:"max=200"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal  `json:"line_total"`
}

// PaymentInput is a payment on create or add
type PaymentInput struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"omitempty,payment_method"`
	Date   *time.Time      `json:"date"`
	Note   string          `json:"note" binding:"max=500"`
}

// SyncPaymentInput is one row of a payment sync target. A row with an id
// that belongs to the order updates it; any other row is inserted.
type SyncPaymentInput struct {
	ID     *int64          `json:"id"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"omitempty,payment_method"`
	Date   *time.Time      `json:"date"`
	Note   string          `json:"note" binding:"max=500"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	OrderNo       string           `json:"order_no" binding:"max=50"`
	CustomerID    int64            `json:"customer_id" binding:"min=0"`
	ContactID     *int64           `json:"contact_id"`
	IsQuickSale   bool             `json:"is_quick_sale"`
	Status        string           `json:"status" binding:"omitempty,order_status"`
	OrderDate     *time.Time       `json:"order_date"`
	DueDate       *time.Time       `json:"due_date"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	Discount      *decimal.Decimal `json:"discount"`
	Notes         string           `json:"notes"`
	Items         []ItemInput      `json:"items" binding:"dive"`
	Payments      []PaymentInput   `json:"payments" binding:"omitempty,dive"`
	AdvanceAmount *decimal.Decimal `json:"advance_amount"`
	PaymentMethod string           `json:"payment_method" binding:"omitempty,payment_method"`

	IdempotencyKey string `json:"-"`
	UserID         *int64 `json:"-"`
}

// UpdateOrderRequest is a partial header update. Nil fields are left as
// they are; a non-nil Items replaces every line.
type UpdateOrderRequest struct {
	OrderNo     *string          `json:"order_no" binding:"omitempty,max=50"`
	CustomerID  *int64           `json:"customer_id" binding:"omitempty,min=0"`
	ContactID   *int64           `json:"contact_id"`
	IsQuickSale *bool            `json:"is_quick_sale"`
	Status      *string          `json:"status" binding:"omitempty,order_status"`
	OrderDate   *time.Time       `json:"order_date"`
	DueDate     *time.Time       `json:"due_date"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Discount    *decimal.Decimal `json:"discount"`
	Notes       *string          `json:"notes"`
	Items       *[]ItemInput     `json:"items" binding:"omitempty,dive"`

	UserID *int64 `json:"-"`
}

// SyncPaymentsRequest is the full target payment list of an order
type SyncPaymentsRequest struct {
	Payments []SyncPaymentInput `json:"payments" binding:"dive"`

	UserID *int64 `json:"-"`
}

// ListOrdersFilter represents filter options for the order list
type ListOrdersFilter struct {
	View     string `form:"view" binding:"omitempty,oneof=active history"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// CustomerResponse is the customer embedded in an order
type CustomerResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	ContactID *int64 `json:"contact_id,omitempty"`
	IsWalkIn  bool   `json:"is_walk_in"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	CreatedBy *int64          `json:"created_by,omitempty"`
	UpdatedBy *int64          `json:"updated_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderResponse is the full order graph with its derived balance fields
type OrderResponse struct {
	ID               int64               `json:"id"`
	OrderNo          string              `json:"order_no,omitempty"`
	CustomerID       int64               `json:"customer_id"`
	Customer         *CustomerResponse   `json:"customer,omitempty"`
	Status           string              `json:"status"`
	OrderDate        time.Time           `json:"order_date"`
	DueDate          *time.Time          `json:"due_date,omitempty"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	Discount         decimal.Decimal     `json:"discount"`
	PaidAmount       decimal.Decimal     `json:"paid_amount"`
	RemainingBalance decimal.Decimal     `json:"remaining_balance"`
	Notes            string              `json:"notes,omitempty"`
	IsQuickSale      bool                `json:"is_quick_sale"`
	Items            []OrderItemResponse `json:"items"`
	Payments         []PaymentResponse   `json:"payments"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// SyncPaymentsResponse reports what a payment sync changed
type SyncPaymentsResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
	Updated int  `json:"updated"`
	Deleted int  `json:"deleted"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:               o.ID,
		OrderNo:          o.OrderNo,
		CustomerID:       o.CustomerID,
		Status:           o.Status.String(),
		OrderDate:        o.OrderDate,
		DueDate:          o.DueDate,
		TotalAmount:      o.TotalAmount,
		Discount:         o.Discount,
		PaidAmount:       o.PaidAmount(),
		RemainingBalance: o.RemainingBalance(),
		Notes:            o.Notes,
		IsQuickSale:      o.IsQuickSale,
		Items:            make([]OrderItemResponse, len(o.Items)),
		Payments:         make([]PaymentResponse, len(o.Payments)),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	if o.Customer != nil {
		resp.Customer = toCustomerResponse(o.Customer)
	}
	for i, item := range o.Items {
		resp.Items[i] = OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}
	for i, p := range o.Payments {
		resp.Payments[i] = PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method.String(),
			Date:      p.Date,
			Note:      p.Note,
			CreatedBy: p.CreatedBy,
			UpdatedBy: p.UpdatedBy,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
	}
	return resp
}

// ToOrderResponses converts a page of domain orders to response DTOs
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

func toCustomerResponse(c *partner.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		ContactID: c.ContactID,
		IsWalkIn:  c.IsWalkIn(),
	}
}
