package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	VisitorsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visitors_created_total",
		Help: "Visitors registered since process start",
	})

	VisitorsConverted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visitors_converted_total",
		Help: "Visitors converted to members since process start",
	})

	ContactAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_attempts_total",
		Help: "Contact attempts logged, by method and outcome",
	}, []string{"method", "outcome"})

	VisitsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visits_recorded_total",
		Help: "Attendance records registered since process start",
	})
)
