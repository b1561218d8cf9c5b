package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

var _ usecase.Metrics = (*Metrics)(nil)

// Metrics holds the ledger Prometheus metrics.
type Metrics struct {
	// Transfer metrics
	TransfersTotal   *prometheus.CounterVec
	TransferDuration prometheus.Histogram
	TransferAmount   prometheus.Histogram

	// Account metrics
	AccountsOpened    prometheus.Counter
	AccountOperations *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transfer metrics
		TransfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_transfers_total",
				Help: "Total number of transfers by final status",
			},
			[]string{"status"},
		),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankledger_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankledger_transfer_amount",
			Help:    "Amounts moved by completed transfers",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Account metrics
		AccountsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		AccountOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_account_operations_total",
				Help: "Total account operations by type and result",
			},
			[]string{"operation", "result"},
		),
	}
}

// ObserveTransfer records a finished transfer attempt.
func (m *Metrics) ObserveTransfer(status domain.TransferStatus, amount decimal.Decimal, duration time.Duration) {
	m.TransfersTotal.WithLabelValues(string(status)).Inc()
	m.TransferDuration.Observe(duration.Seconds())

	if status == domain.TransferStatusCompleted {
		m.TransferAmount.Observe(amount.InexactFloat64())
	}
}

// ObserveAccountOperation records a single-account operation.
func (m *Metrics) ObserveAccountOperation(operation string, err error) {
	result := resultLabel(err)
	m.AccountOperations.WithLabelValues(operation, result).Inc()

	if operation == usecase.OperationOpen && err == nil {
		m.AccountsOpened.Inc()
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAccountExists):
		return "exists"
	case errors.Is(err, domain.ErrInvalidAccount):
		return "invalid_account"
	default:
		return "error"
	}
}
