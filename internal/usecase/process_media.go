package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/framelingo/framelingo-annotation-service/internal/domain/entity"
	"github.com/framelingo/framelingo-annotation-service/internal/domain/port"
	"github.com/framelingo/framelingo-annotation-service/internal/imaging"
	"github.com/framelingo/framelingo-annotation-service/internal/infra/metrics"
	"github.com/framelingo/framelingo-annotation-service/internal/translate"
)

// RegionDetector turns one sampled frame into zero or more text regions.
type RegionDetector interface {
	Detect(ctx context.Context, frame entity.SampledFrame) ([]entity.TextRegion, error)
}

// TranslationDispatcher resolves distinct source strings for one job.
type TranslationDispatcher interface {
	Dispatch(ctx context.Context, requests []translate.Request, targetLang string) map[string]entity.TranslationEntry
}

type ProcessMediaUseCase struct {
	sampler    port.FrameSampler
	detector   RegionDetector
	dispatcher TranslationDispatcher
	renderer   port.OverlayRenderer
	logger     *zap.Logger
	workers    int
}

type ProcessMediaConfig struct {
	DetectWorkers int
}

func NewProcessMediaUseCase(
	sampler port.FrameSampler,
	detector RegionDetector,
	dispatcher TranslationDispatcher,
	renderer port.OverlayRenderer,
	logger *zap.Logger,
	cfg ProcessMediaConfig,
) *ProcessMediaUseCase {
	workers := cfg.DetectWorkers
	if workers < 1 {
		workers = 1
	}
	return &ProcessMediaUseCase{
		sampler:    sampler,
		detector:   detector,
		dispatcher: dispatcher,
		renderer:   renderer,
		logger:     logger,
		workers:    workers,
	}
}

// Execute runs the full pipeline for one job and blocks until every
// frame's detection and every distinct string's translation has resolved.
// Partial results are never returned mid-flight.
func (uc *ProcessMediaUseCase) Execute(ctx context.Context, job *entity.MediaJob) (*entity.PipelineResult, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessMediaUseCase.Execute")
	defer span.End()

	if err := job.Validate(); err != nil {
		metrics.JobsProcessedTotal.WithLabelValues("invalid_params").Inc()
		return nil, err
	}

	span.SetAttributes(
		attribute.String("job.id", job.ID.String()),
		attribute.String("job.kind", string(job.Kind)),
		attribute.String("job.target_language", job.TargetLanguage),
	)

	log := uc.logger.With(zap.String("job_id", job.ID.String()), zap.String("kind", string(job.Kind)))

	metrics.ActiveJobs.Inc()
	defer metrics.ActiveJobs.Dec()
	totalTimer := time.Now()

	// Frame sampling
	sampleStart := time.Now()
	ctxSample, spanSample := tracer.Start(ctx, "sample_frames")
	frames, err := uc.sampler.Sample(ctxSample, job.SourcePath, job.Kind, job.MaxFrames)
	spanSample.End()
	if err != nil {
		log.Error("frame sampling failed", zap.Error(err))
		metrics.JobsProcessedTotal.WithLabelValues("unreadable").Inc()
		return nil, err
	}
	metrics.JobStageDuration.WithLabelValues("sample").Observe(time.Since(sampleStart).Seconds())
	metrics.FramesSampledTotal.Add(float64(len(frames)))

	// Region detection across frames, bounded worker pool. Results land in
	// an index-addressed slice so completion order never leaks into the
	// result ordering.
	detectStart := time.Now()
	ctxDetect, spanDetect := tracer.Start(ctx, "detect_regions")
	frameRegions, err := uc.detectAll(ctxDetect, frames, log)
	spanDetect.End()
	if err != nil {
		metrics.JobsProcessedTotal.WithLabelValues("engine_unavailable").Inc()
		return nil, err
	}
	metrics.JobStageDuration.WithLabelValues("detect").Observe(time.Since(detectStart).Seconds())

	// Translation dispatch over every region's text; the dispatcher dedupes
	// and degrades per-string, so this stage cannot fail the job.
	translateStart := time.Now()
	ctxTranslate, spanTranslate := tracer.Start(ctx, "translate")
	requests := collectRequests(frameRegions)
	translations := uc.dispatcher.Dispatch(ctxTranslate, requests, job.TargetLanguage)
	spanTranslate.End()
	metrics.JobStageDuration.WithLabelValues("translate").Observe(time.Since(translateStart).Seconds())

	// Aggregation
	aggStart := time.Now()
	_, spanAgg := tracer.Start(ctx, "aggregate")
	result, err := uc.aggregate(job, frames, frameRegions, translations)
	spanAgg.End()
	if err != nil {
		log.Error("aggregation failed", zap.Error(err))
		metrics.JobsProcessedTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.JobStageDuration.WithLabelValues("aggregate").Observe(time.Since(aggStart).Seconds())

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.JobStageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	log.Info("job completed",
		zap.Int("frames_processed", result.FramesProcessed),
		zap.Int("total_text_regions", result.TotalTextRegions),
		zap.Strings("languages_detected", result.LanguagesDetected),
	)
	return result, nil
}

// detectAll fans frame detection out over the worker pool. A frame whose
// OCR invocation fails contributes zero regions; the job fails only when
// every single frame failed.
func (uc *ProcessMediaUseCase) detectAll(ctx context.Context, frames []entity.SampledFrame, log *zap.Logger) ([][]entity.TextRegion, error) {
	frameRegions := make([][]entity.TextRegion, len(frames))
	frameErrs := make([]error, len(frames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, frame := range frames {
		g.Go(func() error {
			regions, err := uc.detector.Detect(gctx, frame)
			if err != nil {
				log.Warn("frame OCR failed, continuing without it",
					zap.Int("frame_number", frame.FrameNumber),
					zap.Error(err),
				)
				metrics.FrameOCRFailuresTotal.Inc()
				frameErrs[i] = err
				return nil
			}
			frameRegions[i] = regions
			return nil
		})
	}
	_ = g.Wait()

	failures := 0
	var lastErr error
	regionCount := 0
	for i := range frames {
		if frameErrs[i] != nil {
			failures++
			lastErr = frameErrs[i]
		}
		regionCount += len(frameRegions[i])
	}
	metrics.RegionsDetectedTotal.Add(float64(regionCount))

	if len(frames) > 0 && failures == len(frames) {
		return nil, &entity.EngineUnavailableError{FramesAttempted: len(frames), LastErr: lastErr}
	}
	return frameRegions, nil
}

// collectRequests walks regions in frame order, preserving first-seen
// source-language attribution per string.
func collectRequests(frameRegions [][]entity.TextRegion) []translate.Request {
	var requests []translate.Request
	for _, regions := range frameRegions {
		for _, region := range regions {
			requests = append(requests, translate.Request{
				Text:           region.Text,
				SourceLanguage: region.Language,
			})
		}
	}
	return requests
}

// aggregate joins frames, regions and translations into the response
// object. Region order inside a frame is detection order; frame order is
// sampling order; languages_detected keeps first-seen order so repeated
// runs over the same input are identical.
func (uc *ProcessMediaUseCase) aggregate(
	job *entity.MediaJob,
	frames []entity.SampledFrame,
	frameRegions [][]entity.TextRegion,
	translations map[string]entity.TranslationEntry,
) (*entity.PipelineResult, error) {
	result := &entity.PipelineResult{
		FramesProcessed:   len(frames),
		LanguagesDetected: []string{},
		TargetLanguage:    job.TargetLanguage,
		Frames:            make([]entity.FrameResult, 0, len(frames)),
	}
	seenLangs := map[string]bool{}

	for i, frame := range frames {
		regions := frameRegions[i]
		detections := make([]entity.Detection, 0, len(regions))
		annotated := make([]port.AnnotatedRegion, 0, len(regions))

		for _, region := range regions {
			if !seenLangs[region.Language] {
				seenLangs[region.Language] = true
				result.LanguagesDetected = append(result.LanguagesDetected, region.Language)
			}

			detection := entity.Detection{
				Text:       region.Text,
				Language:   region.Language,
				Confidence: region.Confidence,
				Box:        region.Box,
			}
			caption := region.Text
			if entry, ok := translations[region.Text]; ok && entry.Status == entity.TranslationStatusOK {
				translated := entry.TranslatedText
				detection.TranslatedText = &translated
				caption = translated
			}
			detections = append(detections, detection)
			annotated = append(annotated, port.AnnotatedRegion{Region: region, Caption: caption})
			result.TotalTextRegions++
		}

		originalB64, err := imaging.ToBase64JPEG(frame.Image)
		if err != nil {
			return nil, fmt.Errorf("encode frame %d: %w", frame.FrameNumber, err)
		}
		annotatedB64, err := imaging.ToBase64JPEG(uc.renderer.Render(frame.Image, annotated))
		if err != nil {
			return nil, fmt.Errorf("encode annotated frame %d: %w", frame.FrameNumber, err)
		}

		result.Frames = append(result.Frames, entity.FrameResult{
			FrameNumber:    frame.FrameNumber,
			OriginalFrame:  originalB64,
			AnnotatedFrame: annotatedB64,
			Detections:     detections,
		})
	}
	return result, nil
}
