package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
)

// Trade lifecycle events reported by the terminal
const (
	TradeOpen  = "OPEN"
	TradeClose = "CLOSE"
)

// TradeEvent describes an opened or closed position. Numeric fields are kept
// as the terminal sent them since they are only echoed back to the chat.
type TradeEvent struct {
	Event  string
	Symbol string
	Side   string
	Lot    string
	Ticket string
	Price  string
	SL     string
	TP     string
	Profit string
	Reason string
}

// FormatApproval renders the prompt sent when a new signal is queued
func FormatApproval(sig model.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 New signal %s\n", sig.ID)
	fmt.Fprintf(&b, "• %s %s (%s)\n", sig.Symbol, strings.ToUpper(string(sig.Side)), sig.OrderType)
	if sig.Price != nil {
		fmt.Fprintf(&b, "• Price: %s\n", strconv.FormatFloat(*sig.Price, 'f', -1, 64))
	}
	if sig.Timeframe != "" {
		fmt.Fprintf(&b, "• Timeframe: %s\n", sig.Timeframe)
	}
	if sig.Strategy != "" {
		fmt.Fprintf(&b, "• Strategy: %s\n", sig.Strategy)
	}
	return b.String()
}

// FormatTradeEvent renders an open or close notification
func FormatTradeEvent(e TradeEvent) string {
	side := strings.ToUpper(e.Side)
	if e.Event == TradeOpen {
		return fmt.Sprintf("📈 Trade OPENED\n• %s (%s)\n• Lot: %s\n• Ticket: %s\n• Entry: %s\n• SL: %s\n• TP: %s\n",
			e.Symbol, side, e.Lot, e.Ticket, e.Price, e.SL, e.TP)
	}

	reason := strings.ToUpper(strings.TrimSpace(e.Reason))
	if reason == "" {
		reason = "OTHER"
	}
	return fmt.Sprintf("✅ Trade CLOSED\n• %s (%s)\n• Ticket: %s\n• Close: %s\n• P/L: %s\n• Reason: %s\n",
		e.Symbol, side, e.Ticket, e.Price, e.Profit, reason)
}
