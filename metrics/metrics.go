// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Vote outcomes
const (
	VotePersisted = "persisted"
	VoteDenied    = "denied"
	VoteLocalOnly = "local_only"
	VoteFailed    = "failed"
	VoteRejected  = "rejected"
)

// Metrics holds the counters for wallet and voting activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	Votes           *prometheus.CounterVec
	VoteDuration    prometheus.Histogram
	ConnectAttempts *prometheus.CounterVec
	PollLoads       *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Votes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "voting",
				Name:      "votes_total",
				Help:      "Vote attempts by outcome",
			},
			[]string{"outcome"},
		),
		VoteDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "voting",
				Name:      "vote_duration_seconds",
				Help:      "Time from vote request to settlement, confirmation delay included",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		ConnectAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wallet",
				Name:      "connect_attempts_total",
				Help:      "Wallet connect attempts by outcome",
			},
			[]string{"outcome"},
		),
		PollLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "voting",
				Name:      "poll_loads_total",
				Help:      "Poll list loads by source (backend, seed, failed)",
			},
			[]string{"source"},
		),
	}
}

func (m *Metrics) ObserveVote(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.Votes.WithLabelValues(outcome).Inc()
	m.VoteDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveConnect(outcome string) {
	if m == nil {
		return
	}
	m.ConnectAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLoad(source string) {
	if m == nil {
		return
	}
	m.PollLoads.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
