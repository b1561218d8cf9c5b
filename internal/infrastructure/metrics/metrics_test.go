package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.TransfersTotal == nil || m.AccountOperations == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.ObserveTransfer(domain.TransferStatusCompleted, decimal.NewFromInt(1), time.Millisecond)
	m.ObserveAccountOperation("deposit", nil)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestNewOnSeparateRegistries(t *testing.T) {
	// Each registry gets its own collectors; no duplicate registration panic.
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}

func TestObserveTransfer(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTransfer(domain.TransferStatusCompleted, decimal.NewFromInt(300), 2*time.Millisecond)
	m.ObserveTransfer(domain.TransferStatusRejected, decimal.NewFromInt(5000), time.Millisecond)
	m.ObserveTransfer(domain.TransferStatusRolledBack, decimal.NewFromInt(10), time.Millisecond)

	for status, want := range map[domain.TransferStatus]float64{
		domain.TransferStatusCompleted:  1,
		domain.TransferStatusRejected:   1,
		domain.TransferStatusRolledBack: 1,
		domain.TransferStatusDebited:    0,
	} {
		if got := testutil.ToFloat64(m.TransfersTotal.WithLabelValues(string(status))); got != want {
			t.Errorf("transfers{status=%s} = %v, want %v", status, got, want)
		}
	}

	// only completed transfers contribute to the amount histogram
	if got := testutil.CollectAndCount(m.TransferAmount); got != 1 {
		t.Fatalf("expected one amount histogram, got %d", got)
	}
}

func TestObserveAccountOperation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveAccountOperation("open", nil)
	m.ObserveAccountOperation("open", domain.ErrAccountExists)
	m.ObserveAccountOperation("withdraw", fmt.Errorf("wrapped: %w", domain.ErrInsufficientFunds))
	m.ObserveAccountOperation("deposit", errors.New("boom"))

	if got := testutil.ToFloat64(m.AccountsOpened); got != 1 {
		t.Errorf("expected 1 account opened, got %v", got)
	}

	tests := []struct {
		operation string
		result    string
	}{
		{"open", "ok"},
		{"open", "exists"},
		{"withdraw", "insufficient_funds"},
		{"deposit", "error"},
	}

	for _, tt := range tests {
		if got := testutil.ToFloat64(m.AccountOperations.WithLabelValues(tt.operation, tt.result)); got != 1 {
			t.Errorf("operations{%s,%s} = %v, want 1", tt.operation, tt.result, got)
		}
	}
}
