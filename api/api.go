package api

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmatosr02/tv-mt4-bridge/internal/auth"
	"github.com/jmatosr02/tv-mt4-bridge/internal/core"
	"github.com/jmatosr02/tv-mt4-bridge/internal/metrics"
	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
	"github.com/jmatosr02/tv-mt4-bridge/internal/service"
)

// This file serves as the main entry point for the API package. It defines the APIHandler struct and its dependencies.
// The package structure is as follows:
// - api.go: Main API handler and dependencies (this file)
// - handler.go: HTTP request handlers
// - request.go: Request bodies
// - middleware.go: Middleware functions
// - validator.go: Ingestion validation

// Constants
const (
	DefaultTimeout      = 30 * time.Second
	ServiceVersion      = "1.0.0"
	ServiceName         = "signal-bridge"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
	PingMessage         = "✅ Ping OK from the signal bridge."
)

// SignalService is the subset of the signal service the API needs
type SignalService interface {
	Submit(sub model.Submission) (model.Signal, int, []string)
	Next() *model.Signal
	Snapshot() []model.Signal
	Pending() int
	Pop(id string) (string, bool, int)
}

// CallbackHandler applies approval callbacks
type CallbackHandler interface {
	HandleCallback(cb core.Callback) service.Outcome
}

// Notifier delivers chat messages; Approval is fire-and-forget
type Notifier interface {
	Approval(sig model.Signal)
	Send(ctx context.Context, text string) bool
}

// Dependencies groups everything the handler is built from
type Dependencies struct {
	Signals       SignalService
	Callbacks     CallbackHandler
	Notifier      Notifier
	Guard         *auth.Guard
	Validator     *Validator
	TelegramToken bool
	TelegramChat  bool
}

// APIHandler handles HTTP requests using Gin framework
type APIHandler struct {
	signals   SignalService
	callbacks CallbackHandler
	notifier  Notifier
	guard     *auth.Guard
	validator *Validator
	hasToken  bool
	hasChat   bool
	logger    *slog.Logger
	now       func() time.Time
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(deps Dependencies, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Guard == nil {
		deps.Guard = auth.NewGuard("")
	}
	if deps.Validator == nil {
		deps.Validator = NewValidator(true)
	}

	return &APIHandler{
		signals:   deps.Signals,
		callbacks: deps.Callbacks,
		notifier:  deps.Notifier,
		guard:     deps.Guard,
		validator: deps.Validator,
		hasToken:  deps.TelegramToken,
		hasChat:   deps.TelegramChat,
		logger:    logger,
		now:       time.Now,
	}
}

// StartServer starts the HTTP server
func (h *APIHandler) StartServer(port int) error {
	router := h.SetupRoutes()
	return router.Run(":" + strconv.Itoa(port))
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes() *gin.Engine {
	// Set Gin to release mode for production
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(requestIDMiddleware())
	router.Use(ginLoggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Producer and consumer
	router.POST("/tv", h.Ingest)
	router.GET("/next", h.Next)
	router.GET("/signals", h.ListSignals)
	router.POST("/pop", h.Pop)

	// Chat callbacks and notifications
	router.POST("/tg", h.TelegramCallback)
	router.GET("/tg_ping", h.TelegramPing)
	router.GET("/tg_test", h.TelegramPing)
	router.POST("/trade_event", h.TradeEvent)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}
