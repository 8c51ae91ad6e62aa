package port

import (
	"image"

	"github.com/framelingo/framelingo-annotation-service/internal/domain/entity"
)

// AnnotatedRegion pairs a detected region with the caption the overlay
// should draw for it (translated text when available, original otherwise).
type AnnotatedRegion struct {
	Region  entity.TextRegion
	Caption string
}

// OverlayRenderer draws boxes and captions onto a frame. It is a pure
// collaborator: the pipeline never touches pixels itself.
type OverlayRenderer interface {
	Render(frame image.Image, regions []AnnotatedRegion) image.Image
}
