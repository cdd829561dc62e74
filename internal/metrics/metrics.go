// Package metrics holds the Prometheus collectors of the intake service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_lookups_total",
			Help: "Address lookups by kind (code, city) and the source that answered them",
		},
		[]string{"kind", "source"},
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_lookup_duration_seconds",
			Help:    "Duration of address lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_uploads_total",
			Help: "Uploaded image files by outcome (stored, skipped)",
		},
		[]string{"outcome"},
	)

	Listings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_listings_total",
			Help: "Accepted listing submissions",
		},
	)
)
