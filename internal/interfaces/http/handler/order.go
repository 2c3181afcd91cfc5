package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	orderapp "github.com/vishwahegdek/zenkar-platform-sub001/internal/application/order"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/dto"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/middleware"
)

// maxIdempotencyKeyLength matches orders.idempotency_key
const maxIdempotencyKeyLength = 100

// OrderService is the slice of orderapp.OrderService the handler drives
type OrderService interface {
	Create(ctx context.Context, req orderapp.CreateOrderRequest) (*orderapp.OrderResponse, error)
	Update(ctx context.Context, id int64, req orderapp.UpdateOrderRequest) (*orderapp.OrderResponse, error)
	Get(ctx context.Context, id int64) (*orderapp.OrderResponse, error)
	List(ctx context.Context, filter orderapp.ListOrdersFilter) (shared.Paginated[orderapp.OrderResponse], error)
	Delete(ctx context.Context, id int64, userID *int64) error
	AddPayment(ctx context.Context, id int64, in orderapp.PaymentInput, userID *int64) (*orderapp.OrderResponse, error)
	SyncPayments(ctx context.Context, id int64, req orderapp.SyncPaymentsRequest) (*orderapp.SyncPaymentsResponse, error)
}

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /orders. A repeated Idempotency-Key returns the
// order the first request created.
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	key := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
	if len(key) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key must be at most 100 characters")
		return
	}
	req.IdempotencyKey = key
	req.UserID = middleware.UserID(c)

	resp, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.ListOrdersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	page, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(200, dto.NewPageResponse(page))
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PATCH /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req orderapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	req.UserID = middleware.UserID(c)

	resp, err := h.orders.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id})
}

// AddPayment handles POST /orders/:id/payments
func (h *OrderHandler) AddPayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in orderapp.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	resp, err := h.orders.AddPayment(c.Request.Context(), id, in, middleware.UserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// SyncPayments handles PUT /orders/:id/payments
func (h *OrderHandler) SyncPayments(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req orderapp.SyncPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	req.UserID = middleware.UserID(c)

	resp, err := h.orders.SyncPayments(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
