// Package source loads the product collection from a static JSON document.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/utafrali/storefront/internal/domain"
)

// Source fetches the full product collection. Any failure is reported as an
// error matching apperrors.ErrUnavailable.
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// ErrMissingData is returned for documents without a top-level "data" list.
var ErrMissingData = errors.New(`catalog document has no "data" list`)

// maxDocumentSize bounds the catalog document read from any source.
const maxDocumentSize = 16 << 20

type document struct {
	Data *[]domain.Product `json:"data"`
}

// Decode parses a catalog document of the form {"data": [...]}.
func Decode(r io.Reader) ([]domain.Product, error) {
	var doc document
	dec := json.NewDecoder(io.LimitReader(r, maxDocumentSize))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Data == nil {
		return nil, ErrMissingData
	}
	return *doc.Data, nil
}

// Metrics records catalog fetch outcomes and latency. A nil *Metrics records
// nothing.
type Metrics struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the catalog fetch metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Subsystem: "catalog",
				Name:      "fetch_total",
				Help:      "Total number of catalog fetches by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storefront",
				Subsystem: "catalog",
				Name:      "fetch_duration_seconds",
				Help:      "Catalog fetch duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}
	reg.MustRegister(m.fetches, m.duration)
	return m
}

func (m *Metrics) observe(source string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "unavailable"
	}
	m.fetches.WithLabelValues(source, outcome).Inc()
	m.duration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// Option configures a source.
type Option func(*options)

type options struct {
	metrics *Metrics
}

// WithMetrics records every fetch in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
