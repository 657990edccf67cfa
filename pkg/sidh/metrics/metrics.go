package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coinbase/sidh-go/pkg/sidh"
)

const Namespace = "sidh"

// Result label values.
const (
	ResultOK             = "ok"
	ResultInvalidPeer    = "invalid_peer"
	ResultInvalidPrivate = "invalid_private"
	ResultLengthMismatch = "length_mismatch"
	ResultEntropy        = "entropy"
	ResultUnsupported    = "unsupported"
	ResultError          = "error"
)

// Observer records engine operations as Prometheus metrics.
type Observer struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

var _ sidh.Observer = (*Observer)(nil)

// New registers the operation collectors on reg. A nil reg selects
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Observer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "operations_total",
			Namespace: Namespace,
			Help:      "Number of key agreement operations by outcome",
		},
		[]string{"op", "set", "role", "result"},
	)
	if err := reg.Register(operations); err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "operation_duration_seconds",
			Namespace: Namespace,
			Help:      "Time spent in key agreement operations",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"op", "set", "role"},
	)
	if err := reg.Register(duration); err != nil {
		reg.Unregister(operations)
		return nil, err
	}

	return &Observer{operations: operations, duration: duration}, nil
}

// Observe implements sidh.Observer.
func (o *Observer) Observe(op sidh.Operation, set sidh.ParameterSet, role sidh.Role, elapsed time.Duration, err error) {
	o.operations.WithLabelValues(string(op), set.String(), role.String(), Classify(err)).Inc()
	o.duration.WithLabelValues(string(op), set.String(), role.String()).Observe(elapsed.Seconds())
}

// Classify maps an engine error to its result label.
func Classify(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, sidh.ErrInvalidPeerKey):
		return ResultInvalidPeer
	case errors.Is(err, sidh.ErrInvalidPrivateKey):
		return ResultInvalidPrivate
	case errors.Is(err, sidh.ErrKeyLengthMismatch):
		return ResultLengthMismatch
	case errors.Is(err, sidh.ErrEntropyUnavailable):
		return ResultEntropy
	case errors.Is(err, sidh.ErrUnsupportedParameterSet), errors.Is(err, sidh.ErrInvalidRole):
		return ResultUnsupported
	default:
		return ResultError
	}
}

// Handler serves the metrics gathered by g. A nil g selects
// prometheus.DefaultGatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
