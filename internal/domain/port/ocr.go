package port

import (
	"context"
	"image"
)

// RawSpan is one span as reported by the OCR engine, before any
// normalization. Block, Paragraph and Line index the engine's layout so
// word spans can be regrouped into lines. Language is the engine's own
// hint when it has one, empty otherwise.
type RawSpan struct {
	Text       string
	X          int
	Y          int
	Width      int
	Height     int
	Confidence float64 // engine scale, 0-100
	Block      int
	Paragraph  int
	Line       int
	Language   string
}

// TextRecognizer is the narrow seam to the external OCR capability:
// given an image, return raw text spans with boxes and confidence.
type TextRecognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]RawSpan, error)
}
