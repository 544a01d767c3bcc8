package handlers

import (
	"time"

	"fm-configurator/internal/metrics"
	"fm-configurator/internal/services"
)

func observe(endpoint string, start time.Time, serr *services.StageError) {
	outcome := "success"
	if serr != nil {
		outcome = serr.Kind.String()
	}
	metrics.GenerationsTotal.WithLabelValues(endpoint, outcome).Inc()
	metrics.GenerationDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
