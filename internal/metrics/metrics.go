// Package metrics provides Prometheus metrics for the task board.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskflow"

// TaskOps counts board mutations by operation.
var TaskOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "task_operations_total",
	Help:      "Total task board operations.",
}, []string{"op"})

// TasksActive tracks the number of active tasks.
var TasksActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "tasks_active",
	Help:      "Number of active tasks.",
})

// TasksCompleted tracks the number of completed tasks kept on the board.
var TasksCompleted = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "tasks_completed",
	Help:      "Number of completed tasks.",
})

// TimersRunning tracks pause timers that have not yet expired.
var TimersRunning = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "timers_running",
	Help:      "Number of running pause timers.",
})

// TimersExpired counts timers that reached their end.
var TimersExpired = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "timers_expired_total",
	Help:      "Total pause timers that expired.",
})

// Compactions counts order key renumbering passes.
var Compactions = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "order_compactions_total",
	Help:      "Total order key renumbering passes.",
})

// Predictions counts model prediction calls by kind and outcome.
var Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "predictions_total",
	Help:      "Total prediction requests.",
}, []string{"kind", "result"})

// PredictionLatency tracks model call duration in seconds.
var PredictionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "prediction_latency_seconds",
	Help:      "Prediction request duration in seconds.",
	Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
}, []string{"kind"})

// HTTPRequests counts API requests by route pattern and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "http_requests_total",
	Help:      "Total HTTP API requests.",
}, []string{"method", "route", "status"})
