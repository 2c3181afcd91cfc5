package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type recordedRequest struct {
	method, route string
	status        int
}

type fakeRecorder struct {
	mu       sync.Mutex
	started  int
	finished []recordedRequest
}

func (f *fakeRecorder) RequestStarted() func(method, route string, status int) {
	f.mu.Lock()
	f.started++
	f.mu.Unlock()
	return func(method, route string, status int) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.finished = append(f.finished, recordedRequest{method, route, status})
	}
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := &fakeRecorder{}
	r := gin.New()
	r.Use(Metrics(rec))
	r.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/12", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/abc", nil))

	assert.Equal(t, 2, rec.started)
	assert.Equal(t, []recordedRequest{
		{http.MethodGet, "/orders/:id", http.StatusOK},
		{http.MethodGet, unmatchedRoute, http.StatusNotFound},
	}, rec.finished)
}
