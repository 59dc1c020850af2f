package mock

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
)

// SignalSink accepts new submissions
type SignalSink interface {
	Submit(sub model.Submission) (model.Signal, int, []string)
}

// ApprovalPrompter announces a queued signal to the approver
type ApprovalPrompter interface {
	Approval(sig model.Signal)
}

// GeneratorConfig holds configuration for the signal generator
type GeneratorConfig struct {
	Symbols    []string
	BasePrices map[string]float64
	Interval   time.Duration
	Volatility float64
	Strategy   string
	Timeframe  string
}

// DefaultGeneratorConfig returns a sensible default configuration
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbols: []string{"XAUUSD", "EURUSD", "US30"},
		BasePrices: map[string]float64{
			"XAUUSD": 2350.0,
			"EURUSD": 1.085,
			"US30":   39000.0,
		},
		Interval:   30 * time.Second,
		Volatility: 0.002, // 0.2% offset for pending orders
		Strategy:   "simulated",
		Timeframe:  "M5",
	}
}

// SignalGenerator produces random signals so the bridge can be exercised
// without a webhook source
type SignalGenerator struct {
	sink     SignalSink
	prompter ApprovalPrompter
	config   GeneratorConfig
	rng      *rand.Rand
	logger   *slog.Logger
}

// NewSignalGenerator creates a generator with default config
func NewSignalGenerator(sink SignalSink, prompter ApprovalPrompter) *SignalGenerator {
	return NewSignalGeneratorWithConfig(sink, prompter, DefaultGeneratorConfig())
}

// NewSignalGeneratorWithConfig creates a generator with custom config
func NewSignalGeneratorWithConfig(sink SignalSink, prompter ApprovalPrompter, config GeneratorConfig) *SignalGenerator {
	return &SignalGenerator{
		sink:     sink,
		prompter: prompter,
		config:   config,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   slog.Default(),
	}
}

// Run submits one signal per interval until ctx is cancelled
func (g *SignalGenerator) Run(ctx context.Context) error {
	g.logger.Info("starting signal generator", "interval", g.config.Interval)
	defer g.logger.Info("signal generator stopped")

	ticker := time.NewTicker(g.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.Emit()
		case <-ctx.Done():
			return nil
		}
	}
}

// Emit submits a single random signal and returns it
func (g *SignalGenerator) Emit() model.Signal {
	sig, pending, _ := g.sink.Submit(g.randomSubmission())
	g.logger.Debug("simulated signal queued",
		"id", sig.ID,
		"symbol", sig.Symbol,
		"pending", pending)

	if g.prompter != nil {
		g.prompter.Approval(sig)
	}
	return sig
}

func (g *SignalGenerator) randomSubmission() model.Submission {
	symbol := g.config.Symbols[g.rng.Intn(len(g.config.Symbols))]
	orderType := model.OrderTypes[g.rng.Intn(len(model.OrderTypes))]

	sub := model.Submission{
		Symbol:    symbol,
		Side:      sideFor(orderType, g.rng),
		OrderType: orderType,
		Timeframe: g.config.Timeframe,
		Strategy:  g.config.Strategy,
	}
	if orderType == model.OrderMarket {
		return sub
	}

	price := g.pendingPrice(g.config.BasePrices[symbol], orderType)
	sub.Price = &price
	return sub
}

// pendingPrice places limits on the favourable side of the base price and
// stops on the breakout side
func (g *SignalGenerator) pendingPrice(base float64, orderType model.OrderType) float64 {
	if base <= 0 {
		base = 1
	}
	offset := math.Abs(g.rng.NormFloat64()) * g.config.Volatility * base
	switch orderType {
	case model.OrderBuyLimit, model.OrderSellStop:
		return base - offset
	default:
		return base + offset
	}
}

func sideFor(orderType model.OrderType, rng *rand.Rand) model.Side {
	switch orderType {
	case model.OrderBuyLimit, model.OrderBuyStop:
		return model.SideBuy
	case model.OrderSellLimit, model.OrderSellStop:
		return model.SideSell
	}
	if rng.Intn(2) == 0 {
		return model.SideBuy
	}
	return model.SideSell
}
