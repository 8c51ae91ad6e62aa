package imaging

import (
	"image"
	"image/color"
)

// Preprocess normalizes a frame before OCR: grayscale conversion followed
// by a linear contrast stretch. It is a pure transform with no error path;
// a flat (single-intensity) image passes through unchanged.
func Preprocess(src image.Image) *image.Gray {
	gray := Grayscale(src)
	return stretchContrast(gray)
}

// Grayscale converts any image to 8-bit grayscale.
func Grayscale(src image.Image) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return gray
}

func stretchContrast(gray *image.Gray) *image.Gray {
	minV, maxV := uint8(255), uint8(0)
	for _, v := range gray.Pix {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV >= maxV {
		return gray
	}

	out := image.NewGray(gray.Bounds())
	scale := 255.0 / float64(maxV-minV)
	for i, v := range gray.Pix {
		out.Pix[i] = uint8(float64(v-minV) * scale)
	}
	return out
}
