package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/gowallet/internal/domain"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.Operations == nil || m.HTTPRequests == nil || m.LockTimeouts == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.ObserveAuth(true)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestObserveOperation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveOperation("transfer", 40, 10*time.Millisecond, nil)
	m.ObserveOperation("transfer", 1000, time.Millisecond, domain.ErrInsufficientFunds)
	m.ObserveOperation("transfer", 5, 5*time.Second, domain.ErrLockTimeout)
	m.ObserveOperation("deposit", 1, time.Millisecond, errors.New("disk on fire"))

	tests := []struct {
		operation string
		outcome   string
		want      float64
	}{
		{"transfer", "success", 1},
		{"transfer", "failure", 1},
		{"transfer", "error", 1},
		{"deposit", "error", 1},
		{"deposit", "success", 0},
	}

	for _, tt := range tests {
		got := testutil.ToFloat64(m.Operations.WithLabelValues(tt.operation, tt.outcome))
		if got != tt.want {
			t.Fatalf("operations{%s,%s} = %v, want %v", tt.operation, tt.outcome, got, tt.want)
		}
	}

	if got := testutil.ToFloat64(m.LockTimeouts); got != 1 {
		t.Fatalf("expected one lock timeout, got %v", got)
	}

	if count := testutil.CollectAndCount(m.OperationAmount); count != 1 {
		t.Fatalf("expected amounts only for the successful operation, got %d series", count)
	}
}
