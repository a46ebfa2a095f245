package cart

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/utafrali/storefront/internal/domain"
)

// ChangeKind classifies a cart mutation.
type ChangeKind string

const (
	ChangeUpdated    ChangeKind = "updated"
	ChangeCleared    ChangeKind = "cleared"
	ChangeCheckedOut ChangeKind = "checked_out"
)

// Change describes the cart state after a mutation.
type Change struct {
	Kind    ChangeKind
	Session string
	Cart    domain.Cart
}

// Badge returns the badge derived from the changed cart.
func (c Change) Badge() domain.Badge {
	return domain.NewBadge(c.Cart.ItemCount())
}

// Listener is notified after each persisted cart mutation. Errors are logged
// by the Store and never returned to the caller of the mutation.
type Listener interface {
	OnCartChange(ctx context.Context, change Change) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, change Change) error

// OnCartChange calls f.
func (f ListenerFunc) OnCartChange(ctx context.Context, change Change) error {
	return f(ctx, change)
}

// MetricsListener records cart mutations and the latest badge count.
type MetricsListener struct {
	mutations *prometheus.CounterVec
	items     prometheus.Histogram
}

// NewMetricsListener creates the cart metrics and registers them with reg.
func NewMetricsListener(reg prometheus.Registerer) *MetricsListener {
	m := &MetricsListener{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Subsystem: "cart",
				Name:      "mutations_total",
				Help:      "Total number of persisted cart mutations by kind",
			},
			[]string{"kind"},
		),
		items: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "storefront",
				Subsystem: "cart",
				Name:      "item_count",
				Help:      "Total cart quantity observed after each mutation",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),
	}
	reg.MustRegister(m.mutations, m.items)
	return m
}

// OnCartChange implements Listener.
func (m *MetricsListener) OnCartChange(_ context.Context, change Change) error {
	m.mutations.WithLabelValues(string(change.Kind)).Inc()
	m.items.Observe(float64(change.Cart.ItemCount()))
	return nil
}
