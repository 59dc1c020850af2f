package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmatosr02/tv-mt4-bridge/internal/core"
	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
	"github.com/jmatosr02/tv-mt4-bridge/internal/notify"
)

// Error codes returned in the "error" field
const (
	errCodeUnauthorized        = "unauthorized"
	errCodeBadRequest          = "bad_request"
	errCodeBadEvent            = "bad_event"
	errCodeSecretNotConfigured = "secret_not_configured"
	errCodeChatNotConfigured   = "chat_not_configured"
)

// Ingest handles POST /tv requests
func (h *APIHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, err, http.StatusBadRequest, errCodeBadRequest)
		return
	}
	if !h.authorize(c, string(req.Secret)) {
		return
	}

	sub, err := h.validator.ValidateSubmission(req.raw())
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	sig, pending, evicted := h.signals.Submit(sub)
	if len(evicted) > 0 {
		h.logger.Warn("queue full, evicted oldest signals",
			slog.Any("evicted", evicted),
			slog.Int("pending", pending))
	}
	h.logger.Info("signal queued",
		slog.String("id", sig.ID),
		slog.String("symbol", sig.Symbol),
		slog.String("side", string(sig.Side)),
		slog.String("ordertype", string(sig.OrderType)))

	if h.notifier != nil {
		h.notifier.Approval(sig)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": sig.ID, "pending": pending})
}

// Next handles GET /next requests. The head is returned whatever its status;
// consumers act only on approved signals.
func (h *APIHandler) Next(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "signal": h.signals.Next()})
}

// ListSignals handles GET /signals requests
func (h *APIHandler) ListSignals(c *gin.Context) {
	signals := h.signals.Snapshot()
	c.JSON(http.StatusOK, gin.H{"ok": true, "pending": len(signals), "signals": signals})
}

// Pop handles POST /pop requests. Without an id the head is removed.
func (h *APIHandler) Pop(c *gin.Context) {
	var req popRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, err, http.StatusBadRequest, errCodeBadRequest)
		return
	}
	if !h.authorize(c, string(req.Secret)) {
		return
	}

	removedID, ok, pending := h.signals.Pop(strings.TrimSpace(string(req.ID)))
	var removed *string
	if ok {
		removed = &removedID
		h.logger.Info("signal removed", slog.String("id", removedID))
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "removed": removed, "pending": pending})
}

// TelegramCallback handles POST /tg requests. It always answers 200; the
// approver is told about problems through the chat instead.
func (h *APIHandler) TelegramCallback(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("failed to read callback body", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if cb, ok := core.ParseUpdate(body); ok && h.callbacks != nil {
		h.callbacks.HandleCallback(cb)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// TelegramPing handles GET /tg_ping and /tg_test requests
func (h *APIHandler) TelegramPing(c *gin.Context) {
	if !h.authorize(c, strings.TrimSpace(c.Query("secret"))) {
		return
	}
	if !h.hasToken || !h.hasChat || h.notifier == nil {
		h.handleError(c, errors.New("telegram token or chat id missing"), http.StatusBadRequest, errCodeChatNotConfigured)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	delivered := h.notifier.Send(ctx, PingMessage)
	c.JSON(http.StatusOK, gin.H{"ok": true, "delivered": delivered})
}

// TradeEvent handles POST /trade_event requests sent by the terminal
func (h *APIHandler) TradeEvent(c *gin.Context) {
	var req tradeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, err, http.StatusBadRequest, errCodeBadRequest)
		return
	}
	if !h.authorize(c, string(req.Secret)) {
		return
	}

	event := strings.ToUpper(strings.TrimSpace(string(req.Event)))
	if event != notify.TradeOpen && event != notify.TradeClose {
		h.handleError(c, errors.New("event must be OPEN or CLOSE"), http.StatusBadRequest, errCodeBadEvent)
		return
	}

	text := notify.FormatTradeEvent(notify.TradeEvent{
		Event:  event,
		Symbol: strings.TrimSpace(string(req.Symbol)),
		Side:   strings.ToLower(strings.TrimSpace(string(req.Side))),
		Lot:    string(req.Lot),
		Ticket: string(req.Ticket),
		Price:  string(req.Price),
		SL:     string(req.SL),
		TP:     string(req.TP),
		Profit: string(req.Profit),
		Reason: string(req.Reason),
	})

	delivered := false
	if h.notifier != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
		defer cancel()
		delivered = h.notifier.Send(ctx, text)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "delivered": delivered})
}

// HealthCheck handles GET /health requests
func (h *APIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"pending":      h.signals.Pending(),
		"has_secret":   h.guard.Configured(),
		"has_tg_token": h.hasToken,
		"has_tg_chat":  h.hasChat,
		"service":      ServiceName,
		"version":      ServiceVersion,
		"time":         h.now().UTC().Format(time.RFC3339),
	})
}

// authorize writes the error response and returns false when secret is rejected
func (h *APIHandler) authorize(c *gin.Context, secret string) bool {
	if !h.guard.Configured() {
		h.handleError(c, model.ErrConfiguration, http.StatusInternalServerError, errCodeSecretNotConfigured)
		return false
	}
	if !h.guard.Authorize(strings.TrimSpace(secret)) {
		h.handleError(c, model.ErrUnauthorized, http.StatusUnauthorized, errCodeUnauthorized)
		return false
	}
	return true
}

// handleError logs the error and sends appropriate HTTP response
func (h *APIHandler) handleError(c *gin.Context, err error, statusCode int, code string) {
	requestIDStr := requestID(c)

	h.logger.Error("API error",
		slog.String("request_id", requestIDStr),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
		slog.Int("status_code", statusCode),
	)

	body := gin.H{
		"ok":         false,
		"error":      code,
		"request_id": requestIDStr,
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		body["field"] = ve.Field
		body["message"] = ve.Reason
	}
	c.JSON(statusCode, body)
}

// handleValidationError handles validation errors specifically
func (h *APIHandler) handleValidationError(c *gin.Context, err error) {
	h.handleError(c, err, http.StatusBadRequest, errCodeBadRequest)
}

func requestID(c *gin.Context) string {
	if value, exists := c.Get(RequestIDContextKey); exists {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return "unknown"
}
