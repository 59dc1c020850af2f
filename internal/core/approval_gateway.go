package core

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
	"github.com/jmatosr02/tv-mt4-bridge/internal/service"
)

// SignalDecider applies approval decisions atomically
type SignalDecider interface {
	Decide(d model.Decision) service.Outcome
}

// Acknowledger sends best-effort replies to the approver
type Acknowledger interface {
	Answer(callbackID, text string)
	Message(text string)
}

// ApprovalGateway turns approver button presses into signal transitions
type ApprovalGateway struct {
	signals    SignalDecider
	ack        Acknowledger
	approverID string
	logger     *slog.Logger
}

// NewApprovalGateway creates a gateway accepting callbacks only from approverID
func NewApprovalGateway(signals SignalDecider, ack Acknowledger, approverID string, logger *slog.Logger) *ApprovalGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApprovalGateway{
		signals:    signals,
		ack:        ack,
		approverID: strings.TrimSpace(approverID),
		logger:     logger,
	}
}

// HandleCallback authorizes and applies cb. State is committed before any
// reply is dispatched, and replies never affect the outcome.
func (g *ApprovalGateway) HandleCallback(cb Callback) service.Outcome {
	if g.approverID == "" || strings.TrimSpace(cb.ChatID) != g.approverID {
		g.logger.Warn("rejected approval callback",
			"chat_id", cb.ChatID,
			"data", cb.Data)
		g.ack.Answer(cb.QueryID, "⛔ Unauthorized")
		return service.Outcome{Result: service.ResultUnauthorized}
	}

	decision := ParseDecision(cb.Data)
	out := g.signals.Decide(decision)

	g.logger.Info("approval callback applied",
		"result", out.Result,
		"signal_id", out.ID)

	answer, message := replyFor(out, cb.Data)
	g.ack.Answer(cb.QueryID, answer)
	if message != "" {
		g.ack.Message(message)
	}
	return out
}

func replyFor(out service.Outcome, raw string) (string, string) {
	switch out.Result {
	case service.ResultApproved:
		return "Approved", fmt.Sprintf("✅ Approved %s%s", out.ID, describe(out.Signal))
	case service.ResultDenied:
		return "Denied", fmt.Sprintf("❌ Denied and removed %s%s", out.ID, describe(out.Signal))
	case service.ResultAlreadyApproved:
		return "Already approved", ""
	case service.ResultAlreadyTerminal:
		return "Signal already decided", ""
	case service.ResultNotFound:
		return "Signal not found", fmt.Sprintf("⚠️ Signal not found: %s", out.ID)
	default:
		return "Invalid action", fmt.Sprintf("⚠️ Invalid action: %q", raw)
	}
}

func describe(sig *model.Signal) string {
	if sig == nil {
		return ""
	}
	return fmt.Sprintf(" (%s %s)", sig.Symbol, strings.ToUpper(string(sig.Side)))
}
