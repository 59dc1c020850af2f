package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmatosr02/tv-mt4-bridge/internal/metrics"
	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
)

// Notifier delivers messages to the approver chat
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
	SendApproval(ctx context.Context, sig model.Signal) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Dispatcher runs deliveries in the background. Failures are logged and
// counted; they never reach the caller.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher wraps notifier; timeout bounds each delivery
func NewDispatcher(notifier Notifier, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		notifier: notifier,
		timeout:  timeout,
		logger:   logger,
	}
}

// Message sends text to the chat
func (d *Dispatcher) Message(text string) {
	d.dispatch("message", func(ctx context.Context) error {
		return d.notifier.SendMessage(ctx, text)
	})
}

// Approval sends the approve/deny prompt for sig
func (d *Dispatcher) Approval(sig model.Signal) {
	d.dispatch("approval", func(ctx context.Context) error {
		return d.notifier.SendApproval(ctx, sig)
	})
}

// Answer acknowledges a callback query
func (d *Dispatcher) Answer(callbackID, text string) {
	d.dispatch("answer", func(ctx context.Context) error {
		return d.notifier.AnswerCallback(ctx, callbackID, text)
	})
}

// Send delivers text synchronously within the timeout and reports success
func (d *Dispatcher) Send(ctx context.Context, text string) bool {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.deliver(ctx, "message", func(ctx context.Context) error {
		return d.notifier.SendMessage(ctx, text)
	})
}

// Wait blocks until in-flight deliveries finish
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(kind string, fn func(ctx context.Context) error) {
	if d.notifier == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		d.deliver(ctx, kind, fn)
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, kind string, fn func(ctx context.Context) error) bool {
	if d.notifier == nil {
		return false
	}
	err := fn(ctx)
	metrics.ObserveNotification(kind, err)
	if err != nil {
		d.logger.Warn("notification delivery failed",
			"kind", kind,
			"error", err)
		return false
	}
	return true
}
