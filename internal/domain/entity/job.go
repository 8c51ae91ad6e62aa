package entity

import (
	"image"
	"time"

	"github.com/google/uuid"
)

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

const (
	DefaultMaxFrames = 8
	MaxFramesLimit   = 30
)

// MediaJob is one processing request. It is owned by a single pipeline
// invocation and never outlives it.
type MediaJob struct {
	ID             uuid.UUID
	SourcePath     string
	Kind           MediaKind
	TargetLanguage string
	MaxFrames      int
	CreatedAt      time.Time
}

func NewMediaJob(sourcePath string, kind MediaKind, targetLanguage string, maxFrames int) *MediaJob {
	if maxFrames == 0 {
		maxFrames = DefaultMaxFrames
	}
	return &MediaJob{
		ID:             uuid.New(),
		SourcePath:     sourcePath,
		Kind:           kind,
		TargetLanguage: targetLanguage,
		MaxFrames:      maxFrames,
		CreatedAt:      time.Now().UTC(),
	}
}

// Validate rejects a job before any processing begins.
func (j *MediaJob) Validate() error {
	if j.SourcePath == "" {
		return &InvalidParameterError{Param: "file", Reason: "no media payload"}
	}
	if j.Kind != MediaKindImage && j.Kind != MediaKindVideo {
		return &InvalidParameterError{Param: "kind", Reason: "must be image or video"}
	}
	if j.TargetLanguage == "" {
		return &InvalidParameterError{Param: "target_lang", Reason: "must not be empty"}
	}
	if j.MaxFrames <= 0 {
		return &InvalidParameterError{Param: "max_frames", Reason: "must be positive"}
	}
	if j.MaxFrames > MaxFramesLimit {
		return &InvalidParameterError{Param: "max_frames", Reason: "exceeds limit"}
	}
	return nil
}

// SampledFrame is one frame emitted by the sampler. FrameNumber follows
// emission order starting at 0, not the source video index.
type SampledFrame struct {
	FrameNumber int
	Image       image.Image
	Timestamp   time.Duration
}

// BoundingBox is a text region's position in source-frame pixel coordinates.
type BoundingBox struct {
	X      int
	Y      int
	Width  int
	Height int
}

// TextRegion is one normalized OCR detection. Immutable once created.
type TextRegion struct {
	FrameNumber int
	Box         BoundingBox
	Text        string
	Language    string // ISO-639-3
	Confidence  int    // clamped to [0,100]
}

type TranslationStatus string

const (
	TranslationStatusOK     TranslationStatus = "ok"
	TranslationStatusFailed TranslationStatus = "failed"
)

// TranslationEntry is the resolved translation for one distinct
// (source text, target language) pair. Created on first sighting,
// resolved once, read many times.
type TranslationEntry struct {
	SourceText     string
	SourceLanguage string // ISO-639-3
	TargetLanguage string
	TranslatedText string
	Status         TranslationStatus
}
