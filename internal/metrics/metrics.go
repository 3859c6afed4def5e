package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_evaluations_total",
			Help: "Total number of CV evaluations by outcome (pass, fail or failure kind)",
		},
		[]string{"outcome"},
	)

	ModelRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cv_model_request_duration_seconds",
			Help:    "Duration of language model requests in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)

	PDFPagesExtracted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cv_pdf_pages_extracted",
			Help:    "Number of pages found in uploaded CV documents",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)
)
