package finance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/audit"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/finance"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/partner"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

// CreatePartyRequest represents a request to create a finance party
type CreatePartyRequest struct {
	Name      string `json:"name" binding:"max=200"`
	Phone     string `json:"phone" binding:"max=50"`
	ContactID *int64 `json:"contact_id"`
	Notes     string `json:"notes"`
	Type      string `json:"type" binding:"omitempty,oneof=CREDITOR DEBTOR"`
}

// AddTransactionRequest represents a ledger movement on a party
type AddTransactionRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Type   string          `json:"type" binding:"required,oneof=BORROWED REPAID LENT COLLECTED"`
	Date   *time.Time      `json:"date"`
	Note   string          `json:"note" binding:"max=500"`
}

// ListPartiesFilter narrows the party list
type ListPartiesFilter struct {
	Type string `form:"type" binding:"omitempty,oneof=CREDITOR DEBTOR"`
}

// StatsResponse carries the derived balances of a party
type StatsResponse struct {
	Borrowed   decimal.Decimal `json:"borrowed"`
	Repaid     decimal.Decimal `json:"repaid"`
	Lent       decimal.Decimal `json:"lent"`
	Collected  decimal.Decimal `json:"collected"`
	NetBalance decimal.Decimal `json:"net_balance"`
}

// TransactionResponse represents a ledger movement in API responses
type TransactionResponse struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// PartyResponse represents a finance party in API responses
type PartyResponse struct {
	ID           int64                 `json:"id"`
	Name         string                `json:"name"`
	Phone        string                `json:"phone,omitempty"`
	ContactID    *int64                `json:"contact_id,omitempty"`
	Notes        string                `json:"notes,omitempty"`
	Type         string                `json:"type"`
	Stats        StatsResponse         `json:"stats"`
	Transactions []TransactionResponse `json:"transactions,omitempty"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToPartyResponse converts a domain party to a response DTO. Transactions
// are included only when withLedger is set.
func ToPartyResponse(p *finance.Party, withLedger bool) PartyResponse {
	stats := p.Stats()
	resp := PartyResponse{
		ID:        p.ID,
		Name:      p.DisplayName(),
		Phone:     p.DisplayPhone(),
		ContactID: p.ContactID,
		Notes:     p.Notes,
		Type:      string(p.Type),
		Stats: StatsResponse{
			Borrowed:   stats.Borrowed,
			Repaid:     stats.Repaid,
			Lent:       stats.Lent,
			Collected:  stats.Collected,
			NetBalance: stats.NetBalance,
		},
		UpdatedAt: p.UpdatedAt,
	}
	if withLedger {
		resp.Transactions = make([]TransactionResponse, len(p.Transactions))
		for i, tx := range p.Transactions {
			resp.Transactions[i] = TransactionResponse{
				ID:        tx.ID,
				Amount:    tx.Amount,
				Type:      tx.Type.String(),
				Date:      tx.Date,
				Note:      tx.Note,
				CreatedAt: tx.CreatedAt,
			}
		}
	}
	return resp
}

// PartyService manages the creditor/debtor ledger of a user
type PartyService struct {
	parties      finance.PartyRepository
	transactions finance.TransactionRepository
	contacts     partner.ContactRepository
	auditSink    audit.Sink
	logger       *zap.Logger
}

// NewPartyService creates a new PartyService
func NewPartyService(
	parties finance.PartyRepository,
	transactions finance.TransactionRepository,
	contacts partner.ContactRepository,
	auditSink audit.Sink,
	logger *zap.Logger,
) *PartyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartyService{
		parties:      parties,
		transactions: transactions,
		contacts:     contacts,
		auditSink:    auditSink,
		logger:       logger,
	}
}

// CreateParty adds a party to the owner's ledger
func (s *PartyService) CreateParty(ctx context.Context, ownerUserID int64, req CreatePartyRequest) (*PartyResponse, error) {
	party, err := finance.NewParty(ownerUserID, req.Name, req.Phone, req.ContactID, req.Notes,
		finance.PartyType(strings.ToUpper(strings.TrimSpace(req.Type))))
	if err != nil {
		return nil, err
	}
	if req.ContactID != nil {
		contact, err := s.contacts.FindByID(ctx, *req.ContactID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeInvalidReference,
				"Contact "+strconv.FormatInt(*req.ContactID, 10)+" does not exist")
		}
		if err != nil {
			return nil, fmt.Errorf("load contact: %w", err)
		}
		party.Contact = contact
	}

	if err := s.parties.Create(ctx, party); err != nil {
		return nil, err
	}
	s.record(ctx, ownerUserID, audit.ActionCreate, party.ID, map[string]any{"type": string(party.Type)})

	resp := ToPartyResponse(party, true)
	return &resp, nil
}

// ListParties returns the owner's parties with their balances
func (s *PartyService) ListParties(ctx context.Context, ownerUserID int64, filter ListPartiesFilter) ([]PartyResponse, error) {
	parties, err := s.parties.List(ctx, ownerUserID, finance.PartyType(filter.Type))
	if err != nil {
		return nil, err
	}
	out := make([]PartyResponse, len(parties))
	for i := range parties {
		out[i] = ToPartyResponse(&parties[i], false)
	}
	return out, nil
}

// GetParty returns one party with its transactions, newest first
func (s *PartyService) GetParty(ctx context.Context, ownerUserID, id int64) (*PartyResponse, error) {
	party, err := s.parties.FindByID(ctx, ownerUserID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPartyResponse(party, true)
	return &resp, nil
}

// AddTransaction records a movement on one of the owner's parties and
// returns the refreshed party
func (s *PartyService) AddTransaction(ctx context.Context, ownerUserID, partyID int64, req AddTransactionRequest) (*PartyResponse, error) {
	if _, err := s.parties.FindByID(ctx, ownerUserID, partyID); err != nil {
		return nil, err
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	tx, err := finance.NewTransaction(partyID, req.Amount,
		finance.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type))), date, req.Note)
	if err != nil {
		return nil, err
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	s.record(ctx, ownerUserID, audit.ActionAddTransaction, partyID, map[string]any{
		"transaction_id": tx.ID,
		"type":           tx.Type.String(),
		"amount":         tx.Amount.String(),
	})

	return s.GetParty(ctx, ownerUserID, partyID)
}

func (s *PartyService) record(ctx context.Context, userID int64, action string, partyID int64, details map[string]any) {
	if s.auditSink == nil {
		return
	}
	uid := userID
	err := s.auditSink.Log(ctx, audit.Entry{
		UserID:     &uid,
		Action:     action,
		Resource:   audit.ResourceFinanceParty,
		ResourceID: partyID,
		Details:    details,
		OccurredAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("audit log failed",
			zap.String("action", action),
			zap.Int64("party_id", partyID),
			zap.Error(err))
	}
}
