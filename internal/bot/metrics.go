package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	MessagesRelayed      prometheus.Counter
	RepliesRouted        prometheus.Counter
	EventsDropped        *prometheus.CounterVec
	CommandsProcessed    prometheus.Counter
	RemindersFired       prometheus.Counter
	ErrorsTotal          prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		MessagesRelayed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_bot_messages_relayed_total",
			Help: "Total number of user messages forwarded to the admin",
		}),

		RepliesRouted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_bot_replies_routed_total",
			Help: "Total number of admin replies routed back to users",
		}),

		EventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_bot_events_dropped_total",
			Help: "Total number of inbound events dropped before relay",
		}, []string{"reason"}),

		CommandsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_bot_commands_processed_total",
			Help: "Total number of admin commands processed",
		}),

		RemindersFired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_bot_reminders_fired_total",
			Help: "Total number of reminders delivered",
		}),

		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_bot_errors_total",
			Help: "Total number of processing errors",
		}),

		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "relay_bot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
