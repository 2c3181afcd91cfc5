package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/order"
)

// OrderModel is the persistence model for the Order aggregate root.
// Derived balances are not columns; they are computed from Payments on read.
type OrderModel struct {
	BaseModel
	OrderNo        string         `gorm:"type:varchar(50);index"`
	CustomerID     int64          `gorm:"not null;index"`
	Customer       *CustomerModel `gorm:"foreignKey:CustomerID;references:ID"`
	Status         order.Status   `gorm:"type:varchar(20);not null;default:'enquired';index"`
	OrderDate      time.Time      `gorm:"not null"`
	DueDate        *time.Time
	TotalAmount    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Discount       decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Notes          string           `gorm:"type:text"`
	IsQuickSale    bool             `gorm:"not null;default:false"`
	IdempotencyKey *string          `gorm:"type:varchar(100);uniqueIndex:idx_orders_idempotency_key"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
	Payments       []PaymentModel   `gorm:"foreignKey:OrderID;references:ID"`
	DeletedAt      gorm.DeletedAt   `gorm:"index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		ID:             m.ID,
		OrderNo:        m.OrderNo,
		CustomerID:     m.CustomerID,
		Status:         m.Status,
		OrderDate:      m.OrderDate,
		DueDate:        m.DueDate,
		TotalAmount:    m.TotalAmount,
		Discount:       m.Discount,
		Notes:          m.Notes,
		IsQuickSale:    m.IsQuickSale,
		IdempotencyKey: derefString(m.IdempotencyKey),
		Items:          make([]order.OrderItem, len(m.Items)),
		Payments:       make([]order.Payment, len(m.Payments)),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Customer != nil {
		o.Customer = m.Customer.ToDomain()
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		o.DeletedAt = &t
	}
	for i := range m.Items {
		o.Items[i] = *m.Items[i].ToDomain()
	}
	for i := range m.Payments {
		o.Payments[i] = *m.Payments[i].ToDomain()
	}
	return o
}

// FromDomain populates the header columns from a domain Order. Items and
// payments are written through their own repositories.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.ID = o.ID
	m.OrderNo = o.OrderNo
	m.CustomerID = o.CustomerID
	m.Status = o.Status
	m.OrderDate = o.OrderDate
	m.DueDate = o.DueDate
	m.TotalAmount = o.TotalAmount
	m.Discount = o.Discount
	m.Notes = o.Notes
	m.IsQuickSale = o.IsQuickSale
	m.IdempotencyKey = stringPtr(o.IdempotencyKey)
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
}

// OrderItemModel is the persistence model for order lines.
type OrderItemModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	OrderID     int64           `gorm:"not null;index"`
	ProductID   int64           `gorm:"not null;index"`
	Product     *ProductModel   `gorm:"foreignKey:ProductID;references:ID"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Position    int             `gorm:"not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *order.OrderItem {
	return &order.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		LineTotal:   m.LineTotal,
		Position:    m.Position,
	}
}

// OrderItemModelFromDomain creates a persistence model from a domain OrderItem.
func OrderItemModelFromDomain(i *order.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:          i.ID,
		OrderID:     i.OrderID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Description: i.Description,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		LineTotal:   i.LineTotal,
		Position:    i.Position,
	}
}

// PaymentModel is the persistence model for payments.
type PaymentModel struct {
	BaseModel
	OrderID   int64               `gorm:"not null;index"`
	Amount    decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Method    order.PaymentMethod `gorm:"type:varchar(20);not null;default:'CASH'"`
	Date      time.Time           `gorm:"not null"`
	Note      string              `gorm:"type:text"`
	CreatedBy *int64
	UpdatedBy *int64
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *order.Payment {
	return &order.Payment{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Amount:    m.Amount,
		Method:    m.Method,
		Date:      m.Date,
		Note:      m.Note,
		CreatedBy: m.CreatedBy,
		UpdatedBy: m.UpdatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *order.Payment) {
	m.ID = p.ID
	m.OrderID = p.OrderID
	m.Amount = p.Amount
	m.Method = p.Method
	m.Date = p.Date
	m.Note = p.Note
	m.CreatedBy = p.CreatedBy
	m.UpdatedBy = p.UpdatedBy
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}
