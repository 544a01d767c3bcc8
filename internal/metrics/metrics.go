package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configurator_generations_total",
			Help: "Generation requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "configurator_generation_duration_seconds",
			Help:    "Time spent in the generation pipeline",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"endpoint"},
	)

	ArtifactBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "configurator_artifact_bytes_total",
			Help: "Bytes written to artifact storage",
		},
	)

	ArtifactsPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "configurator_artifacts_pruned_total",
			Help: "Artifacts removed by the retention policy",
		},
	)
)
