package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveNotification(t *testing.T) {
	before := testutil.ToFloat64(Notifications.WithLabelValues("message", "error"))
	ObserveNotification("message", errors.New("boom"))
	after := testutil.ToFloat64(Notifications.WithLabelValues("message", "error"))
	if after-before != 1 {
		t.Fatalf("expected error counter to grow by 1, got %v", after-before)
	}

	okBefore := testutil.ToFloat64(Notifications.WithLabelValues("message", "ok"))
	ObserveNotification("message", nil)
	if testutil.ToFloat64(Notifications.WithLabelValues("message", "ok"))-okBefore != 1 {
		t.Fatal("expected ok counter to grow by 1")
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	SignalsPending.Set(3)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "signals_pending 3") {
		t.Fatalf("expected signals_pending gauge in output")
	}
}
