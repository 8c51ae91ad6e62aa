package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBoxMarshalsAsArray(t *testing.T) {
	box := BoundingBox{X: 10, Y: 20, Width: 30, Height: 40}

	data, err := json.Marshal(box)
	require.NoError(t, err)
	assert.JSONEq(t, `[10,20,30,40]`, string(data))

	var back BoundingBox
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, box, back)
}

func TestDetectionNullTranslation(t *testing.T) {
	det := Detection{
		Text:       "नमस्ते",
		Language:   "hin",
		Confidence: 87,
		Box:        BoundingBox{X: 1, Y: 2, Width: 3, Height: 4},
	}

	data, err := json.Marshal(det)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "translated_text")
	assert.Nil(t, decoded["translated_text"])
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0}, decoded["bounding_box"])
}

func TestPipelineResultFieldNames(t *testing.T) {
	result := PipelineResult{
		FramesProcessed:   1,
		TotalTextRegions:  2,
		LanguagesDetected: []string{"eng", "hin"},
		TargetLanguage:    "en",
		Frames: []FrameResult{
			{FrameNumber: 0, OriginalFrame: "b64", AnnotatedFrame: "b64", Detections: []Detection{}},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"frames_processed", "total_text_regions", "languages_detected", "target_language", "frames"} {
		assert.Contains(t, decoded, key)
	}
	frame := decoded["frames"].([]any)[0].(map[string]any)
	for _, key := range []string{"frame_number", "original_frame", "annotated_frame", "detections"} {
		assert.Contains(t, frame, key)
	}
}
