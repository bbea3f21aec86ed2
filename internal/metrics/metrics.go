package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	// NotificationsFanned counts persisted notifications by category.
	NotificationsFanned *prometheus.CounterVec
	// FanoutFailures counts suppressed fan-out errors.
	FanoutFailures prometheus.Counter
	// BusPublishes counts events published to the realtime bus by room kind.
	BusPublishes *prometheus.CounterVec
	// ConnectedClients tracks currently registered websocket connections.
	ConnectedClients prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		NotificationsFanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskhub_notifications_fanned_total",
			Help: "Notifications persisted by the fan-out, by category.",
		}, []string{"category"}),
		FanoutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskhub_fanout_failures_total",
			Help: "Fan-out errors that were caught and suppressed.",
		}),
		BusPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskhub_bus_publishes_total",
			Help: "Events published to the realtime bus, by room kind.",
		}, []string{"kind"}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taskhub_connected_clients",
			Help: "Currently connected websocket clients.",
		}),
	}

	reg.MustRegister(m.NotificationsFanned, m.FanoutFailures, m.BusPublishes, m.ConnectedClients)
	return m
}
