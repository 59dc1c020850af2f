package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Path string
	Body map[string]any
}

type fakeBotAPI struct {
	mu     sync.Mutex
	calls  []recordedCall
	status int
	body   string
	delay  time.Duration
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Path: r.URL.Path, Body: body})
	status, respBody, delay := f.status, f.body, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status == 0 {
		status = http.StatusOK
	}
	if respBody == "" {
		respBody = `{"ok":true}`
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(respBody))
}

func (f *fakeBotAPI) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func newTestClient(t *testing.T, api *fakeBotAPI, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Token: "123:abc", ChatID: "42", Timeout: timeout})
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, DefaultBaseURL, c.config.BaseURL)
	assert.Equal(t, 15*time.Second, c.config.Timeout)
	assert.False(t, c.Configured())
}

func TestSendMessage(t *testing.T) {
	api := &fakeBotAPI{}
	c := newTestClient(t, api, time.Second)

	require.NoError(t, c.SendMessage(context.Background(), "hello"))

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bot123:abc/sendMessage", calls[0].Path)
	assert.Equal(t, "42", calls[0].Body["chat_id"])
	assert.Equal(t, "hello", calls[0].Body["text"])
	assert.Equal(t, true, calls[0].Body["disable_web_page_preview"])
}

func TestSendApprovalCarriesButtons(t *testing.T) {
	api := &fakeBotAPI{}
	c := newTestClient(t, api, time.Second)

	price := 1.2345
	sig := model.Signal{ID: "sig_1", Symbol: "EURUSD", Side: model.SideBuy, OrderType: model.OrderBuyLimit, Price: &price}
	require.NoError(t, c.SendApproval(context.Background(), sig))

	calls := api.Calls()
	require.Len(t, calls, 1)
	markup, ok := calls[0].Body["reply_markup"].(map[string]any)
	require.True(t, ok)
	rows := markup["inline_keyboard"].([]any)
	buttons := rows[0].([]any)
	require.Len(t, buttons, 2)
	assert.Equal(t, "APPROVE:sig_1", buttons[0].(map[string]any)["callback_data"])
	assert.Equal(t, "DENY:sig_1", buttons[1].(map[string]any)["callback_data"])
	assert.Contains(t, calls[0].Body["text"], "EURUSD BUY (buy_limit)")
	assert.Contains(t, calls[0].Body["text"], "Price: 1.2345")
}

func TestAnswerCallback(t *testing.T) {
	api := &fakeBotAPI{}
	c := newTestClient(t, api, time.Second)

	require.NoError(t, c.AnswerCallback(context.Background(), "cb-1", "done"))
	require.NoError(t, c.AnswerCallback(context.Background(), "", "skipped"))

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bot123:abc/answerCallbackQuery", calls[0].Path)
	assert.Equal(t, "cb-1", calls[0].Body["callback_query_id"])
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeBotAPI
	}{
		{name: "non-2xx status", api: &fakeBotAPI{status: http.StatusUnauthorized, body: `{"ok":false,"description":"Unauthorized"}`}},
		{name: "ok false", api: &fakeBotAPI{body: `{"ok":false,"description":"chat not found"}`}},
		{name: "timeout", api: &fakeBotAPI{delay: 500 * time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.api, 50*time.Millisecond)
			err := c.SendMessage(context.Background(), "x")
			assert.Error(t, err)
		})
	}
}

func TestClientNotConfigured(t *testing.T) {
	c := NewClient(Config{Token: "t"})
	assert.ErrorIs(t, c.SendMessage(context.Background(), "x"), ErrNotConfigured)
	assert.ErrorIs(t, c.SendApproval(context.Background(), model.Signal{}), ErrNotConfigured)

	c = NewClient(Config{ChatID: "1"})
	assert.ErrorIs(t, c.AnswerCallback(context.Background(), "cb", "x"), ErrNotConfigured)
}

func TestNetworkErrorRedactsToken(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Token: "secret-token", ChatID: "1", Timeout: time.Second})
	err := c.SendMessage(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "secret-token"))
}

func TestFormatTradeEvent(t *testing.T) {
	open := FormatTradeEvent(TradeEvent{Event: TradeOpen, Symbol: "XAUUSD.pro", Side: "buy", Lot: "0.01", Ticket: "12345", Price: "1234.56", SL: "1230", TP: "1240"})
	assert.Contains(t, open, "Trade OPENED")
	assert.Contains(t, open, "XAUUSD.pro (BUY)")
	assert.Contains(t, open, "Ticket: 12345")

	closed := FormatTradeEvent(TradeEvent{Event: TradeClose, Symbol: "XAUUSD.pro", Side: "sell", Profit: "-4.2"})
	assert.Contains(t, closed, "Trade CLOSED")
	assert.Contains(t, closed, "P/L: -4.2")
	assert.Contains(t, closed, "Reason: OTHER")
}
