package entity

import (
	"encoding/json"
	"fmt"
)

// Detection is one text region joined with its resolved translation, in
// the exact shape the presentation layer binds to.
type Detection struct {
	Text           string      `json:"text"`
	Language       string      `json:"language"`
	TranslatedText *string     `json:"translated_text"`
	Confidence     int         `json:"confidence"`
	Box            BoundingBox `json:"bounding_box"`
}

// FrameResult carries one frame's detections plus the original and
// annotated renders as base64 JPEG.
type FrameResult struct {
	FrameNumber    int         `json:"frame_number"`
	OriginalFrame  string      `json:"original_frame"`
	AnnotatedFrame string      `json:"annotated_frame"`
	Detections     []Detection `json:"detections"`
}

// PipelineResult is the sole artifact crossing the system boundary.
// Frames are ordered by frame number; languages keep first-seen order.
type PipelineResult struct {
	FramesProcessed   int           `json:"frames_processed"`
	TotalTextRegions  int           `json:"total_text_regions"`
	LanguagesDetected []string      `json:"languages_detected"`
	TargetLanguage    string        `json:"target_language"`
	Frames            []FrameResult `json:"frames"`
}

// MarshalJSON renders the box as the [x, y, w, h] array the UI expects.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X, b.Y, b.Width, b.Height})
}

func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var arr [4]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("bounding box must be [x, y, w, h]: %w", err)
	}
	b.X, b.Y, b.Width, b.Height = arr[0], arr[1], arr[2], arr[3]
	return nil
}
