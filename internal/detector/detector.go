// Package detector normalizes raw OCR output into typed text regions:
// word spans are regrouped into lines, confidence is clamped, boxes are
// clipped to frame bounds and every region gets a language.
package detector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/framelingo/framelingo-annotation-service/internal/domain/entity"
	"github.com/framelingo/framelingo-annotation-service/internal/domain/port"
	"github.com/framelingo/framelingo-annotation-service/internal/imaging"
)

type Detector struct {
	recognizer port.TextRecognizer
	logger     *zap.Logger
}

func New(recognizer port.TextRecognizer, logger *zap.Logger) *Detector {
	return &Detector{recognizer: recognizer, logger: logger}
}

// Detect runs preprocessing and OCR on one frame and returns zero or more
// regions. A degenerate (blank) frame is not an error, it simply yields
// none. An error here means the OCR invocation itself failed; the caller
// decides whether that is job-fatal.
func (d *Detector) Detect(ctx context.Context, frame entity.SampledFrame) ([]entity.TextRegion, error) {
	pre := imaging.Preprocess(frame.Image)

	spans, err := d.recognizer.Recognize(ctx, pre)
	if err != nil {
		return nil, fmt.Errorf("recognize frame %d: %w", frame.FrameNumber, err)
	}

	regions := d.normalize(groupLines(spans), frame)

	d.logger.Debug("frame detected",
		zap.Int("frame_number", frame.FrameNumber),
		zap.Int("raw_spans", len(spans)),
		zap.Int("regions", len(regions)),
	)
	return regions, nil
}

type lineKey struct {
	block, par, line int
}

type lineGroup struct {
	key        lineKey
	texts      []string
	boxes      []entity.BoundingBox
	confidence float64
	languages  []string
}

// groupLines merges word-level spans that share a layout line into one
// logical region, in the engine's reading order.
func groupLines(spans []port.RawSpan) []lineGroup {
	index := make(map[lineKey]*lineGroup)
	for _, s := range spans {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		key := lineKey{s.Block, s.Paragraph, s.Line}
		g, ok := index[key]
		if !ok {
			g = &lineGroup{key: key}
			index[key] = g
		}
		g.texts = append(g.texts, strings.TrimSpace(s.Text))
		g.boxes = append(g.boxes, entity.BoundingBox{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height})
		g.confidence += s.Confidence
		if s.Language != "" {
			g.languages = append(g.languages, s.Language)
		}
	}

	groups := make([]lineGroup, 0, len(index))
	for _, g := range index {
		g.confidence /= float64(len(g.texts))
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].key, groups[j].key
		if a.block != b.block {
			return a.block < b.block
		}
		if a.par != b.par {
			return a.par < b.par
		}
		return a.line < b.line
	})
	return groups
}

func (d *Detector) normalize(groups []lineGroup, frame entity.SampledFrame) []entity.TextRegion {
	bounds := frame.Image.Bounds()
	regions := make([]entity.TextRegion, 0, len(groups))

	for _, g := range groups {
		text := strings.Join(g.texts, " ")
		box, ok := clampBox(mergeBoxes(g.boxes), bounds.Dx(), bounds.Dy())
		if !ok {
			continue
		}

		lang := ""
		if len(g.languages) > 0 {
			lang = NormalizeLanguage(g.languages[0])
		}
		if lang == "" {
			lang = DetectLanguage(text)
		}

		regions = append(regions, entity.TextRegion{
			FrameNumber: frame.FrameNumber,
			Box:         box,
			Text:        text,
			Language:    lang,
			Confidence:  clampConfidence(g.confidence),
		})
	}
	return regions
}

func mergeBoxes(boxes []entity.BoundingBox) entity.BoundingBox {
	minX, minY := boxes[0].X, boxes[0].Y
	maxX := boxes[0].X + boxes[0].Width
	maxY := boxes[0].Y + boxes[0].Height
	for _, b := range boxes[1:] {
		if b.X < minX {
			minX = b.X
		}
		if b.Y < minY {
			minY = b.Y
		}
		if b.X+b.Width > maxX {
			maxX = b.X + b.Width
		}
		if b.Y+b.Height > maxY {
			maxY = b.Y + b.Height
		}
	}
	return entity.BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// clampBox clips a box to the frame. Boxes that fall entirely outside are
// dropped rather than emitted with zero area.
func clampBox(b entity.BoundingBox, frameW, frameH int) (entity.BoundingBox, bool) {
	x0 := max(b.X, 0)
	y0 := max(b.Y, 0)
	x1 := min(b.X+b.Width, frameW)
	y1 := min(b.Y+b.Height, frameH)
	if x1 <= x0 || y1 <= y0 {
		return entity.BoundingBox{}, false
	}
	return entity.BoundingBox{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

func clampConfidence(c float64) int {
	v := int(math.Round(c))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
