package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_cycles_total",
			Help: "Total number of interaction cycles by final encoding state",
		},
		[]string{"state"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_predictions_total",
			Help: "Total number of price predictions by terminal state",
		},
		[]string{"state"},
	)

	ExplanationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_explanations_total",
			Help: "Total number of explanations by terminal state",
		},
		[]string{"state"},
	)

	CycleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carprice_cycle_duration_seconds",
			Help:    "Duration of one interaction cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"explain"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)
)
