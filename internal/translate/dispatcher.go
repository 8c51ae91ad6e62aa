// Package translate resolves the distinct source strings of one job into
// translations. The cache is job-scoped: it lives and dies with a single
// Dispatch call and is never shared across jobs.
package translate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/framelingo/framelingo-annotation-service/internal/detector"
	"github.com/framelingo/framelingo-annotation-service/internal/domain/entity"
	"github.com/framelingo/framelingo-annotation-service/internal/domain/port"
	"github.com/framelingo/framelingo-annotation-service/internal/infra/metrics"
)

// Request is one distinct source string with the language it was first
// seen in (ISO-639-3).
type Request struct {
	Text           string
	SourceLanguage string
}

type Dispatcher struct {
	translator  port.Translator
	concurrency int
	retryDelay  time.Duration
	logger      *zap.Logger
}

func NewDispatcher(translator port.Translator, concurrency int, retryDelay time.Duration, logger *zap.Logger) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{
		translator:  translator,
		concurrency: concurrency,
		retryDelay:  retryDelay,
		logger:      logger,
	}
}

// Dispatch translates every distinct request into targetLang and returns
// a mapping keyed by source text. Identical strings are translated exactly
// once; strings already in the target language are resolved without an
// external call. Per-string failures degrade to status=failed and never
// fail the job, so Dispatch has no error return.
func (d *Dispatcher) Dispatch(ctx context.Context, requests []Request, targetLang string) map[string]entity.TranslationEntry {
	entries := make(map[string]entity.TranslationEntry, len(requests))

	// Job-scoped dedupe: first sighting of a string creates its entry.
	distinct := make([]Request, 0, len(requests))
	for _, req := range requests {
		if req.Text == "" {
			continue
		}
		if _, seen := entries[req.Text]; seen {
			continue
		}
		entries[req.Text] = entity.TranslationEntry{}
		distinct = append(distinct, req)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for _, req := range distinct {
		g.Go(func() error {
			entry := d.resolve(gctx, req, targetLang)
			mu.Lock()
			entries[req.Text] = entry
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return entries
}

func (d *Dispatcher) resolve(ctx context.Context, req Request, targetLang string) entity.TranslationEntry {
	entry := entity.TranslationEntry{
		SourceText:     req.Text,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: targetLang,
	}

	sourceCode := detector.TranslateCode(req.SourceLanguage)
	if sourceCode == targetLang {
		entry.TranslatedText = req.Text
		entry.Status = entity.TranslationStatusOK
		metrics.TranslationsTotal.WithLabelValues("skipped").Inc()
		return entry
	}

	translated, err := d.translator.Translate(ctx, req.Text, sourceCode, targetLang)
	if err != nil {
		d.logger.Warn("translation failed, retrying once",
			zap.String("source_lang", sourceCode),
			zap.Error(err),
		)
		if waitErr := d.backoff(ctx); waitErr == nil {
			translated, err = d.translator.Translate(ctx, req.Text, sourceCode, targetLang)
		}
	}

	if err != nil {
		tfe := &entity.TranslationFailedError{Text: req.Text, Err: err}
		d.logger.Warn("translation failed permanently", zap.Error(tfe))
		entry.Status = entity.TranslationStatusFailed
		metrics.TranslationsTotal.WithLabelValues("failed").Inc()
		return entry
	}

	entry.TranslatedText = translated
	entry.Status = entity.TranslationStatusOK
	metrics.TranslationsTotal.WithLabelValues("ok").Inc()
	return entry
}

func (d *Dispatcher) backoff(ctx context.Context) error {
	timer := time.NewTimer(d.retryDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
