package metrics

import (
	"errors"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	journalsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "journal_writes_total",
		Help:      "Journal entries written, by operation and kind.",
	}, []string{"operation", "kind"})

	journalRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "journal_rejections_total",
		Help:      "Drafts rejected before reaching storage, by reason class.",
	}, []string{"reason"})

	storageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "storage_failures_total",
		Help:      "Storage transactions that failed and were rolled back.",
	}, []string{"operation"})

	invariantViolations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "invariant_violations_total",
		Help:      "Stored entries read back unbalanced.",
	})
)

// Recorder receives ledger outcome events. Services depend on it so tests can pass Nop.
type Recorder interface {
	JournalWritten(operation, kind string)
	JournalRejected(err error)
	StorageFailed(operation string)
	InvariantViolated()
}

// Prometheus records to the process-wide default registry served on /metrics.
type Prometheus struct{}

func (Prometheus) JournalWritten(operation, kind string) {
	journalsWritten.WithLabelValues(operation, kind).Inc()
}

func (Prometheus) JournalRejected(err error) {
	journalRejections.WithLabelValues(RejectionReason(err)).Inc()
}

func (Prometheus) StorageFailed(operation string) {
	storageFailures.WithLabelValues(operation).Inc()
}

func (Prometheus) InvariantViolated() {
	invariantViolations.Inc()
}

// Nop discards every event.
type Nop struct{}

func (Nop) JournalWritten(string, string) {}
func (Nop) JournalRejected(error)         {}
func (Nop) StorageFailed(string)          {}
func (Nop) InvariantViolated()            {}

// RejectionReason maps a validation error to a low-cardinality label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrStructural):
		return "structural"
	case errors.Is(err, apperrors.ErrReferential):
		return "referential"
	case errors.Is(err, apperrors.ErrUnbalanced):
		return "unbalanced"
	case errors.Is(err, apperrors.ErrPayloadParse):
		return "parse"
	case errors.Is(err, apperrors.ErrValidation):
		return "import"
	default:
		return "other"
	}
}
