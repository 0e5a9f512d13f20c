// Package metrics exposes Prometheus instrumentation for bot commands.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	creditAdjustmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_adjustments_total",
			Help: "Total number of social credit adjustments by direction",
		},
		[]string{"direction"},
	)
	expelAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expel_attempts_total",
			Help: "Total number of expel attempts by result",
		},
		[]string{"result"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by code and severity",
		},
		[]string{"code", "severity"},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordAdjustment counts a score change; direction is "increment" or "decrement".
func RecordAdjustment(direction string) {
	if direction == "" {
		direction = "unknown"
	}

	creditAdjustmentsTotal.WithLabelValues(direction).Inc()
}

// RecordExpel counts an expel attempt outcome.
func RecordExpel(result string) {
	if result == "" {
		result = "unknown"
	}

	expelAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(code, severity string) {
	if code == "" {
		code = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(code, severity).Inc()
}
