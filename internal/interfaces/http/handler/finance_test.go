package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	financeapp "github.com/vishwahegdek/zenkar-platform-sub001/internal/application/finance"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
)

type MockPartyService struct {
	mock.Mock
}

func (m *MockPartyService) CreateParty(ctx context.Context, owner int64, req financeapp.CreatePartyRequest) (*financeapp.PartyResponse, error) {
	args := m.Called(ctx, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PartyResponse), args.Error(1)
}

func (m *MockPartyService) ListParties(ctx context.Context, owner int64, filter financeapp.ListPartiesFilter) ([]financeapp.PartyResponse, error) {
	args := m.Called(ctx, owner, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]financeapp.PartyResponse), args.Error(1)
}

func (m *MockPartyService) GetParty(ctx context.Context, owner, id int64) (*financeapp.PartyResponse, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PartyResponse), args.Error(1)
}

func (m *MockPartyService) AddTransaction(ctx context.Context, owner, partyID int64, req financeapp.AddTransactionRequest) (*financeapp.PartyResponse, error) {
	args := m.Called(ctx, owner, partyID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PartyResponse), args.Error(1)
}

func financeEngine(svc PartyService) *gin.Engine {
	h := NewFinanceHandler(svc)
	r := newTestEngine()
	r.POST("/finance/parties", h.CreateParty)
	r.GET("/finance/parties", h.ListParties)
	r.GET("/finance/parties/:id", h.GetParty)
	r.POST("/finance/parties/:id/transactions", h.AddTransaction)
	return r
}

var asUser = map[string]string{"X-User-ID": "5"}

func TestFinanceHandler_RequiresUser(t *testing.T) {
	svc := new(MockPartyService)
	r := financeEngine(svc)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/finance/parties", `{"name":"Ravi"}`},
		{http.MethodGet, "/finance/parties", ""},
		{http.MethodGet, "/finance/parties/1", ""},
		{http.MethodPost, "/finance/parties/1/transactions", `{"amount":10,"type":"LENT"}`},
	} {
		w, env := do(t, r, tc.method, tc.path, tc.body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.path)
		assert.Contains(t, env.Error.Message, "X-User-ID", tc.path)
	}
	svc.AssertExpectations(t)
}

func TestFinanceHandler_CreateParty(t *testing.T) {
	svc := new(MockPartyService)
	svc.On("CreateParty", mock.Anything, int64(5), financeapp.CreatePartyRequest{Name: "Ravi", Type: "DEBTOR"}).
		Return(&financeapp.PartyResponse{ID: 1, Name: "Ravi", Type: "DEBTOR"}, nil)

	w, env := do(t, financeEngine(svc), http.MethodPost, "/finance/parties", `{"name":"Ravi","type":"DEBTOR"}`, asUser)

	require.Equal(t, http.StatusCreated, w.Code)
	var got financeapp.PartyResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Ravi", got.Name)

	t.Run("type outside the enum", func(t *testing.T) {
		w, _ := do(t, financeEngine(new(MockPartyService)), http.MethodPost, "/finance/parties", `{"name":"x","type":"FRIEND"}`, asUser)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown contact is 404", func(t *testing.T) {
		svc := new(MockPartyService)
		svc.On("CreateParty", mock.Anything, int64(5), mock.Anything).
			Return(nil, shared.NewDomainError(shared.CodeInvalidReference, "Contact 3 not found"))

		w, env := do(t, financeEngine(svc), http.MethodPost, "/finance/parties", `{"contact_id":3}`, asUser)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, shared.CodeInvalidReference, env.Error.Code)
	})
}

func TestFinanceHandler_ListAndGet(t *testing.T) {
	svc := new(MockPartyService)
	svc.On("ListParties", mock.Anything, int64(5), financeapp.ListPartiesFilter{Type: "CREDITOR"}).
		Return([]financeapp.PartyResponse{{ID: 1}, {ID: 2}}, nil)
	svc.On("GetParty", mock.Anything, int64(5), int64(2)).
		Return(nil, shared.NewDomainError(shared.CodeNotFound, "Party 2 not found"))

	r := financeEngine(svc)

	w, env := do(t, r, http.MethodGet, "/finance/parties?type=CREDITOR", "", asUser)
	require.Equal(t, http.StatusOK, w.Code)
	var list []financeapp.PartyResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)

	w, _ = do(t, r, http.MethodGet, "/finance/parties/2", "", asUser)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFinanceHandler_AddTransaction(t *testing.T) {
	svc := new(MockPartyService)
	svc.On("AddTransaction", mock.Anything, int64(5), int64(4), mock.MatchedBy(func(req financeapp.AddTransactionRequest) bool {
		return req.Type == "BORROWED" && req.Amount.IntPart() == 300
	})).Return(&financeapp.PartyResponse{ID: 4}, nil)

	w, _ := do(t, financeEngine(svc), http.MethodPost, "/finance/parties/4/transactions", `{"amount":300,"type":"BORROWED"}`, asUser)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = do(t, financeEngine(new(MockPartyService)), http.MethodPost, "/finance/parties/4/transactions", `{"amount":300,"type":"GIFT"}`, asUser)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}
