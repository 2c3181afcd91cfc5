package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	financeapp "github.com/vishwahegdek/zenkar-platform-sub001/internal/application/finance"
	orderapp "github.com/vishwahegdek/zenkar-platform-sub001/internal/application/order"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/domain/shared"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/persistence"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/telemetry"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/middleware"
)

type stubOrders struct{}

func (stubOrders) Create(_ context.Context, req orderapp.CreateOrderRequest) (*orderapp.OrderResponse, error) {
	return &orderapp.OrderResponse{ID: 1, IsQuickSale: req.IsQuickSale}, nil
}

func (stubOrders) Update(_ context.Context, id int64, _ orderapp.UpdateOrderRequest) (*orderapp.OrderResponse, error) {
	return &orderapp.OrderResponse{ID: id}, nil
}

func (stubOrders) Get(_ context.Context, id int64) (*orderapp.OrderResponse, error) {
	if id == 404 {
		return nil, shared.ErrNotFound
	}
	return &orderapp.OrderResponse{ID: id}, nil
}

func (stubOrders) List(context.Context, orderapp.ListOrdersFilter) (shared.Paginated[orderapp.OrderResponse], error) {
	return shared.NewPaginated([]orderapp.OrderResponse{}, 0, 1, 20), nil
}

func (stubOrders) Delete(context.Context, int64, *int64) error { return nil }

func (stubOrders) AddPayment(_ context.Context, id int64, _ orderapp.PaymentInput, _ *int64) (*orderapp.OrderResponse, error) {
	return &orderapp.OrderResponse{ID: id}, nil
}

func (stubOrders) SyncPayments(context.Context, int64, orderapp.SyncPaymentsRequest) (*orderapp.SyncPaymentsResponse, error) {
	return &orderapp.SyncPaymentsResponse{Success: true}, nil
}

type stubParties struct{}

func (stubParties) CreateParty(_ context.Context, owner int64, req financeapp.CreatePartyRequest) (*financeapp.PartyResponse, error) {
	return &financeapp.PartyResponse{ID: owner, Name: req.Name}, nil
}

func (stubParties) ListParties(context.Context, int64, financeapp.ListPartiesFilter) ([]financeapp.PartyResponse, error) {
	return []financeapp.PartyResponse{}, nil
}

func (stubParties) GetParty(_ context.Context, _, id int64) (*financeapp.PartyResponse, error) {
	return &financeapp.PartyResponse{ID: id}, nil
}

func (stubParties) AddTransaction(_ context.Context, _, id int64, _ financeapp.AddTransactionRequest) (*financeapp.PartyResponse, error) {
	return &financeapp.PartyResponse{ID: id}, nil
}

type stubDB struct{}

func (stubDB) PingContext(context.Context) error { return nil }

func (stubDB) Stats() (persistence.ConnectionStats, error) { return persistence.ConnectionStats{}, nil }

func newTestEngine(t *testing.T) (*gin.Engine, *telemetry.Metrics) {
	t.Helper()
	metrics := telemetry.NewMetrics()
	engine, err := NewEngine(Config{
		ServiceName: "orders-test",
		Version:     "test",
		MaxBodySize: 1 << 10,
		CORS:        middleware.DefaultCORSConfig(),
	}, Dependencies{
		Orders:  stubOrders{},
		Parties: stubParties{},
		DB:      stubDB{},
		Metrics: metrics,
	})
	require.NoError(t, err)
	return engine, metrics
}

func request(engine http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewEngine_Routes(t *testing.T) {
	engine, _ := newTestEngine(t)
	user := map[string]string{"X-User-ID": "3"}

	for _, tc := range []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/v1/orders", `{"is_quick_sale":true,"items":[{"product_name":"Chair"}]}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/orders", "", http.StatusOK},
		{http.MethodGet, "/api/v1/orders/2", "", http.StatusOK},
		{http.MethodGet, "/api/v1/orders/404", "", http.StatusNotFound},
		{http.MethodPatch, "/api/v1/orders/2", `{"notes":"rush"}`, http.StatusOK},
		{http.MethodDelete, "/api/v1/orders/2", "", http.StatusOK},
		{http.MethodPost, "/api/v1/orders/2/payments", `{"amount":10}`, http.StatusCreated},
		{http.MethodPut, "/api/v1/orders/2/payments", `{"payments":[]}`, http.StatusOK},
		{http.MethodPatch, "/api/v1/orders/2/payments", `{"payments":[]}`, http.StatusOK},
		{http.MethodPost, "/api/v1/finance/parties", `{"name":"Ravi"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/finance/parties", "", http.StatusOK},
		{http.MethodGet, "/api/v1/finance/parties/4", "", http.StatusOK},
		{http.MethodPost, "/api/v1/finance/parties/4/transactions", `{"amount":5,"type":"LENT"}`, http.StatusCreated},
		{http.MethodGet, "/health", "", http.StatusOK},
	} {
		w := request(engine, tc.method, tc.path, tc.body, user)
		assert.Equal(t, tc.want, w.Code, "%s %s: %s", tc.method, tc.path, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), tc.path)
	}
}

func TestNewEngine_Envelopes(t *testing.T) {
	engine, _ := newTestEngine(t)

	t.Run("unknown route", func(t *testing.T) {
		w := request(engine, http.MethodGet, "/api/v1/invoices", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "ROUTE_NOT_FOUND", body["error"].(map[string]any)["code"])
	})

	t.Run("bad acting user header", func(t *testing.T) {
		w := request(engine, http.MethodGet, "/api/v1/orders", "", map[string]string{"X-User-ID": "alice"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("oversized body", func(t *testing.T) {
		w := request(engine, http.MethodPost, "/api/v1/orders", `{"notes":"`+strings.Repeat("x", 2048)+`"}`, nil)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("health ignores acting user validation", func(t *testing.T) {
		w := request(engine, http.MethodGet, "/health", "", map[string]string{"X-User-ID": "alice"})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestNewEngine_Metrics(t *testing.T) {
	engine, _ := newTestEngine(t)

	request(engine, http.MethodGet, "/api/v1/orders/7", "", nil)

	w := request(engine, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `zenkar_http_requests_total{method="GET",route="/api/v1/orders/:id",status="200"} 1`)
}

func TestNewEngine_RejectsBadTrustedProxy(t *testing.T) {
	_, err := NewEngine(Config{TrustedProxies: []string{"not-an-ip"}}, Dependencies{})
	require.Error(t, err)
}
