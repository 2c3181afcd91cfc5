package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.OrderCreated(true)
	m.OrderCreated(false)
	m.OrderCreated(false)
	m.IdempotentReplay()
	m.PaymentsReconciled(2, 1, 3)
	m.AuditDispatched("written")
	m.AuditDispatched("dropped")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersCreated.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersCreated.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.idempotentReplays))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.paymentsReconciled.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentsReconciled.WithLabelValues("updated")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.paymentsReconciled.WithLabelValues("deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditDispatch.WithLabelValues("dropped")))
}

func TestMetrics_RequestStarted(t *testing.T) {
	m := NewMetrics()

	done := m.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestInFlight))
	done(http.MethodPost, "/api/v1/orders", http.StatusCreated)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.requestInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("POST", "/api/v1/orders", "201")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.OrderCreated(false)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `zenkar_orders_created_total{quick_sale="false"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
