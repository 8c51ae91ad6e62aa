package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessKeepsDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))
	out := Preprocess(src)
	assert.Equal(t, src.Bounds(), out.Bounds())
}

func TestPreprocessStretchesContrast(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 100})
	src.SetGray(1, 0, color.Gray{Y: 150})

	out := Preprocess(src)
	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), out.GrayAt(1, 0).Y)
}

func TestPreprocessFlatImagePassesThrough(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 128
	}

	out := Preprocess(src)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(128), v)
	}
}

func TestBase64JPEGRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))

	encoded, err := ToBase64JPEG(src)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	img, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}
