// Package metrics definiert die Prometheus-Metriken des Dienstes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Metrics struct {
	DoiResolutions  *prometheus.CounterVec
	ArchiveRequests *prometheus.CounterVec
	Publications    *prometheus.CounterVec
	ArchiveUp       prometheus.Gauge
}

// New registriert alle Metriken an reg. In Tests eine eigene Registry
// verwenden, sonst kollidieren die Namen.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DoiResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prereview_doi_resolutions_total",
			Help: "DOI lookups by outcome.",
		}, []string{"outcome"}),
		ArchiveRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prereview_archive_requests_total",
			Help: "Requests to the archive service by operation and outcome.",
		}, []string{"operation", "outcome"}),
		Publications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prereview_publications_total",
			Help: "Review publications by kind (review, rapid-review) and outcome.",
		}, []string{"kind", "outcome"}),
		ArchiveUp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "prereview_archive_up",
			Help: "1 if the last archive probe succeeded, 0 otherwise.",
		}),
	}
}

// Nop liefert Metriken an einer Wegwerf-Registry.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
