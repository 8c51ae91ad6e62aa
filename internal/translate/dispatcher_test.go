package translate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/framelingo/framelingo-annotation-service/internal/domain/entity"
)

// countingTranslator records per-text call counts and can fail the first
// N attempts for selected strings.
type countingTranslator struct {
	mu        sync.Mutex
	calls     map[string]int
	failTexts map[string]int // text -> number of attempts to fail
	result    func(text string) string
}

func newCountingTranslator() *countingTranslator {
	return &countingTranslator{
		calls:     map[string]int{},
		failTexts: map[string]int{},
		result:    func(text string) string { return "T:" + text },
	}
}

func (c *countingTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[text]++
	if remaining := c.failTexts[text]; remaining > 0 {
		c.failTexts[text] = remaining - 1
		return "", errors.New("service unavailable")
	}
	return c.result(text), nil
}

func (c *countingTranslator) callCount(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[text]
}

func newTestDispatcher(tr *countingTranslator, concurrency int) *Dispatcher {
	return NewDispatcher(tr, concurrency, time.Millisecond, zap.NewNop())
}

func TestDispatchTranslatesEachDistinctStringOnce(t *testing.T) {
	tr := newCountingTranslator()
	d := newTestDispatcher(tr, 4)

	// The same caption seen on many frames plus one other string.
	requests := []Request{
		{Text: "नमस्ते", SourceLanguage: "hin"},
		{Text: "नमस्ते", SourceLanguage: "hin"},
		{Text: "नमस्ते", SourceLanguage: "hin"},
		{Text: "breaking news", SourceLanguage: "eng"},
	}
	entries := d.Dispatch(context.Background(), requests, "fr")

	require.Len(t, entries, 2)
	assert.Equal(t, 1, tr.callCount("नमस्ते"))
	assert.Equal(t, 1, tr.callCount("breaking news"))
	assert.Equal(t, "T:नमस्ते", entries["नमस्ते"].TranslatedText)
	assert.Equal(t, entity.TranslationStatusOK, entries["नमस्ते"].Status)
}

func TestDispatchSkipsSameLanguage(t *testing.T) {
	tr := newCountingTranslator()
	d := newTestDispatcher(tr, 2)

	entries := d.Dispatch(context.Background(), []Request{
		{Text: "already english", SourceLanguage: "eng"},
	}, "en")

	require.Len(t, entries, 1)
	entry := entries["already english"]
	assert.Equal(t, entity.TranslationStatusOK, entry.Status)
	assert.Equal(t, "already english", entry.TranslatedText)
	assert.Equal(t, 0, tr.callCount("already english"), "no external call for same-language text")
}

func TestDispatchRetriesOnceThenSucceeds(t *testing.T) {
	tr := newCountingTranslator()
	tr.failTexts["flaky"] = 1
	d := newTestDispatcher(tr, 2)

	entries := d.Dispatch(context.Background(), []Request{
		{Text: "flaky", SourceLanguage: "hin"},
	}, "en")

	entry := entries["flaky"]
	assert.Equal(t, entity.TranslationStatusOK, entry.Status)
	assert.Equal(t, "T:flaky", entry.TranslatedText)
	assert.Equal(t, 2, tr.callCount("flaky"))
}

func TestDispatchMarksFailedAfterRetry(t *testing.T) {
	tr := newCountingTranslator()
	tr.failTexts["नमस्ते"] = 2
	d := newTestDispatcher(tr, 2)

	entries := d.Dispatch(context.Background(), []Request{
		{Text: "नमस्ते", SourceLanguage: "hin"},
	}, "en")

	entry := entries["नमस्ते"]
	assert.Equal(t, entity.TranslationStatusFailed, entry.Status)
	assert.Empty(t, entry.TranslatedText)
	assert.Equal(t, 2, tr.callCount("नमस्ते"), "exactly one retry")
}

func TestDispatchIgnoresEmptyStrings(t *testing.T) {
	tr := newCountingTranslator()
	d := newTestDispatcher(tr, 2)

	entries := d.Dispatch(context.Background(), []Request{{Text: ""}}, "en")
	assert.Empty(t, entries)
}

func TestDispatchRespectsConcurrencyLimit(t *testing.T) {
	const limit = 3
	var inFlight, maxInFlight atomic.Int32

	tr := newCountingTranslator()
	slow := &slowTranslator{inner: tr, inFlight: &inFlight, maxInFlight: &maxInFlight}
	d := NewDispatcher(slow, limit, time.Millisecond, zap.NewNop())

	requests := make([]Request, 20)
	for i := range requests {
		requests[i] = Request{Text: string(rune('a' + i)), SourceLanguage: "hin"}
	}
	entries := d.Dispatch(context.Background(), requests, "en")

	assert.Len(t, entries, 20)
	assert.LessOrEqual(t, maxInFlight.Load(), int32(limit))
}

type slowTranslator struct {
	inner       *countingTranslator
	inFlight    *atomic.Int32
	maxInFlight *atomic.Int32
}

func (s *slowTranslator) Translate(ctx context.Context, text, src, tgt string) (string, error) {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		observed := s.maxInFlight.Load()
		if cur <= observed || s.maxInFlight.CompareAndSwap(observed, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return s.inner.Translate(ctx, text, src, tgt)
}

func TestDispatchFirstSeenLanguageWins(t *testing.T) {
	tr := newCountingTranslator()
	d := newTestDispatcher(tr, 1)

	entries := d.Dispatch(context.Background(), []Request{
		{Text: "dup", SourceLanguage: "hin"},
		{Text: "dup", SourceLanguage: "ben"},
	}, "en")

	require.Len(t, entries, 1)
	assert.Equal(t, "hin", entries["dup"].SourceLanguage)
	assert.Equal(t, 1, tr.callCount("dup"))
}
