package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/vishwahegdek/zenkar-platform-sub001/internal/infrastructure/logger"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/dto"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/handler"
	"github.com/vishwahegdek/zenkar-platform-sub001/internal/interfaces/http/middleware"
)

// Config holds the transport settings of the engine
type Config struct {
	ServiceName    string
	Version        string
	MaxBodySize    int64
	TrustedProxies []string
	CORS           middleware.CORSConfig
	TracerProvider trace.TracerProvider
}

// MetricsSource is satisfied by telemetry.Metrics
type MetricsSource interface {
	middleware.RequestRecorder
	Handler() http.Handler
}

// Dependencies are the services the routes drive
type Dependencies struct {
	Orders  handler.OrderService
	Parties handler.PartyService
	DB      handler.DatabaseProbe
	Metrics MetricsSource
	Logger  *zap.Logger
}

// NewEngine wires middleware, /health, /metrics and the /api/v1 routes
func NewEngine(cfg Config, deps Dependencies) (*gin.Engine, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	chain := []gin.HandlerFunc{logger.Recovery(log)}
	if deps.Metrics != nil {
		chain = append(chain, middleware.Metrics(deps.Metrics))
	}
	chain = append(chain,
		middleware.Tracing(cfg.ServiceName, tp),
		middleware.RequestID(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.MaxBodySize > 0 {
		chain = append(chain, middleware.BodyLimit(cfg.MaxBodySize))
	}
	engine.Use(chain...)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound, "No route for "+c.Request.Method+" "+c.Request.URL.Path))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrCodeRouteNotFound, "Method not allowed"))
	})

	if deps.DB != nil {
		engine.GET("/health", handler.NewHealthHandler(deps.DB, cfg.Version).Health)
	}
	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	r := NewRouter(engine)
	if deps.Orders != nil {
		r.Register(orderRoutes(handler.NewOrderHandler(deps.Orders)))
	}
	if deps.Parties != nil {
		r.Register(financeRoutes(handler.NewFinanceHandler(deps.Parties)))
	}
	r.Setup(middleware.ActingUser(), middleware.SpanEnricher())

	return engine, nil
}

func orderRoutes(h *handler.OrderHandler) *DomainGroup {
	g := NewDomainGroup("orders", "/orders").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.Get).
		PATCH("/:id", h.Update).
		DELETE("/:id", h.Delete).
		POST("/:id/payments", h.AddPayment).
		PUT("/:id/payments", h.SyncPayments).
		PATCH("/:id/payments", h.SyncPayments)
	return g
}

func financeRoutes(h *handler.FinanceHandler) *DomainGroup {
	g := NewDomainGroup("finance", "/finance")
	g.Group("parties", "/parties").
		POST("", h.CreateParty).
		GET("", h.ListParties).
		GET("/:id", h.GetParty).
		POST("/:id/transactions", h.AddTransaction)
	return g
}
