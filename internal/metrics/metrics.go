// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orderbot"

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	messages      prometheus.Counter
	intents       *prometheus.CounterVec
	ordersPlaced  prometheus.Counter
	cartMutations *prometheus.CounterVec
	duration      prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Chat messages handled.",
		}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Chat messages by classified intent.",
		}, []string{"intent"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders placed through checkout.",
		}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart add and remove operations.",
		}, []string{"op"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_duration_seconds",
			Help:      "Time to handle one chat message, including session store round trips.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}

	reg.MustRegister(m.messages, m.intents, m.ordersPlaced, m.cartMutations, m.duration)
	return m
}

func (m *Metrics) ObserveMessage(intent string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.messages.Inc()
	m.intents.WithLabelValues(intent).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) OrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func (m *Metrics) CartMutation(op string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(op).Inc()
}
