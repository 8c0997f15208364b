package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCompleted     = "completed"
	outcomeFailed        = "failed"
	outcomeTimedOut      = "timed_out"
	outcomeUnknownStatus = "unknown_status"
	outcomeCancelled     = "cancelled"
	outcomeError         = "error"
)

var (
	pollSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamma_poll_sessions_total",
			Help: "Poll sessions by terminal outcome",
		},
		[]string{"outcome"},
	)
	pollAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamma_poll_attempts_total",
			Help: "Status fetches issued by poll sessions, by observed status",
		},
		[]string{"status"},
	)
	pollSessionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamma_poll_session_duration_seconds",
			Help:    "Wall-clock duration of poll sessions",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"outcome"},
	)
)
