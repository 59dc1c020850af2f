package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_ingested_total", Help: "Signals accepted from the webhook"},
		[]string{"side"},
	)
	SignalsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "signals_evicted_total", Help: "Signals dropped because the queue was full"},
	)
	SignalsRemoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_removed_total", Help: "Signals removed from the queue"},
		[]string{"reason"},
	)
	ApprovalDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "approval_decisions_total", Help: "Approval callbacks by outcome"},
		[]string{"outcome"},
	)
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notifications_total", Help: "Outbound chat deliveries"},
		[]string{"kind", "result"},
	)
	SignalsPending = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "signals_pending", Help: "Signals currently queued"},
	)
)

func init() {
	prometheus.MustRegister(SignalsIngested, SignalsEvicted, SignalsRemoved, ApprovalDecisions, Notifications, SignalsPending)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveNotification counts one delivery attempt
func ObserveNotification(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Notifications.WithLabelValues(kind, result).Inc()
}
