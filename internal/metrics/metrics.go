package metrics

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
	"github/chapool/multichain-wallet/internal/config"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Service owns a private prometheus registry with the wallet instruments.
type Service struct {
	registry *prometheus.Registry

	adapterCalls      *prometheus.CounterVec
	adapterDuration   *prometheus.HistogramVec
	sessionTransition *prometheus.CounterVec
	partialFailures   *prometheus.CounterVec
}

func New(cfg config.Config) (*Service, error) {
	namespace := cfg.Metrics.Namespace

	s := &Service{
		registry: prometheus.NewRegistry(),
		adapterCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_calls_total",
			Help:      "Chain adapter calls by chain, operation and outcome.",
		}, []string{"chain", "op", "outcome"}),
		adapterDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "adapter_call_duration_seconds",
			Help:      "Duration of chain adapter calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), //nolint:mnd
		}, []string{"chain", "op"}),
		sessionTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Session state machine transitions.",
		}, []string{"from", "to"}),
		partialFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_failures_total",
			Help:      "Chains that failed inside a composite operation.",
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		s.adapterCalls,
		s.adapterDuration,
		s.sessionTransition,
		s.partialFailures,
	} {
		if err := s.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return s, nil
}

// ObserveAdapterCall records one adapter call.
func (s *Service) ObserveAdapterCall(chainID string, op string, err error, took time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}

	s.adapterCalls.WithLabelValues(chainID, op, outcome).Inc()
	s.adapterDuration.WithLabelValues(chainID, op).Observe(took.Seconds())
}

func (s *Service) ObserveSessionTransition(from string, to string) {
	s.sessionTransition.WithLabelValues(from, to).Inc()
}

func (s *Service) ObservePartialFailure(op string) {
	s.partialFailures.WithLabelValues(op).Inc()
}

// Registry exposes the registry for gathering.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// WriteText writes the current metrics in the prometheus text exposition format.
func (s *Service) WriteText(w io.Writer) error {
	families, err := s.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "failed to gather metrics")
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "failed to encode metric family")
		}
	}

	return nil
}
