package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_events_consumed_total",
		Help: "Total number of broker messages processed, by event type.",
	},
		[]string{"type"},
	)

	DecodeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_decode_failures_total",
		Help: "Total number of broker messages skipped as undecodable.",
	})

	TransitionsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_transitions_rejected_total",
		Help: "Total number of status transitions rejected by the lifecycle graph.",
	})

	NotificationsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_notifications_sent_total",
		Help: "Total number of payloads enqueued to a live client connection.",
	},
		[]string{"recipient"},
	)

	NotificationsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_notifications_dropped_total",
		Help: "Total number of payloads dropped: recipient offline or queue full.",
	},
		[]string{"recipient"},
	)

	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_connected_clients",
		Help: "Current number of authenticated client connections.",
	})
)
