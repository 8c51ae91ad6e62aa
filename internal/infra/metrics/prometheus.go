package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framelingo_jobs_processed_total",
		Help: "Total number of media jobs processed, by status",
	}, []string{"status"})

	JobStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "framelingo_job_stage_duration_seconds",
		Help:    "Duration of pipeline stages",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
	}, []string{"stage"})

	FramesSampledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framelingo_frames_sampled_total",
		Help: "Total number of frames sampled across all jobs",
	})

	RegionsDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framelingo_regions_detected_total",
		Help: "Total number of text regions detected across all jobs",
	})

	FrameOCRFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framelingo_frame_ocr_failures_total",
		Help: "Frames whose OCR invocation failed and contributed zero regions",
	})

	TranslationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framelingo_translations_total",
		Help: "Distinct-string translation resolutions, by outcome (ok, failed, skipped)",
	}, []string{"outcome"})

	ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "framelingo_active_jobs",
		Help: "Number of media jobs currently in the pipeline",
	})
)
