package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	financeapp "github.com/vishwahegdek/zenkar-platform-sub001/internal/application/finance"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/middleware"
)

// PartyService is the slice of financeapp.PartyService the handler drives
type PartyService interface {
	CreateParty(ctx context.Context, ownerUserID int64, req financeapp.CreatePartyRequest) (*financeapp.PartyResponse, error)
	ListParties(ctx context.Context, ownerUserID int64, filter financeapp.ListPartiesFilter) ([]financeapp.PartyResponse, error)
	GetParty(ctx context.Context, ownerUserID, id int64) (*financeapp.PartyResponse, error)
	AddTransaction(ctx context.Context, ownerUserID, partyID int64, req financeapp.AddTransactionRequest) (*financeapp.PartyResponse, error)
}

// FinanceHandler serves the borrow/lend ledger. Every route is scoped to
// the acting user.
type FinanceHandler struct {
	BaseHandler
	parties PartyService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(parties PartyService) *FinanceHandler {
	return &FinanceHandler{parties: parties}
}

// CreateParty handles POST /finance/parties
func (h *FinanceHandler) CreateParty(c *gin.Context) {
	owner, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req financeapp.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	resp, err := h.parties.CreateParty(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListParties handles GET /finance/parties
func (h *FinanceHandler) ListParties(c *gin.Context) {
	owner, ok := h.requireUser(c)
	if !ok {
		return
	}
	var filter financeapp.ListPartiesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	parties, err := h.parties.ListParties(c.Request.Context(), owner, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, parties)
}

// GetParty handles GET /finance/parties/:id
func (h *FinanceHandler) GetParty(c *gin.Context) {
	owner, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.parties.GetParty(c.Request.Context(), owner, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddTransaction handles POST /finance/parties/:id/transactions
func (h *FinanceHandler) AddTransaction(c *gin.Context) {
	owner, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	resp, err := h.parties.AddTransaction(c.Request.Context(), owner, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
