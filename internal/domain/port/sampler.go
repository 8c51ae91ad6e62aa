package port

import (
	"context"

	"github.com/framelingo/framelingo-annotation-service/internal/domain/entity"
)

// FrameSampler turns a media file into an ordered, finite frame sequence.
// For still images it emits exactly one frame; for video it selects up to
// maxFrames indices at uniform stride across the full duration.
type FrameSampler interface {
	Sample(ctx context.Context, path string, kind entity.MediaKind, maxFrames int) ([]entity.SampledFrame, error)
}
