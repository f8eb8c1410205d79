package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// normalizeThreshold is the fixed global cutoff applied after grayscale
// conversion: values strictly below it become black, the rest white.
const normalizeThreshold = 200

// Normalize converts img to grayscale and applies the fixed global threshold.
// The result contains exactly two pixel values, 0 and 255.
func Normalize(img image.Image) *image.NRGBA {
	return binarize(imaging.Grayscale(img), normalizeThreshold)
}

// DecodeAndNormalize decodes raw image bytes and normalizes the result.
// Undecodable input wraps ErrBadImage.
func DecodeAndNormalize(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	return Normalize(img), nil
}

// binarize performs a simple global threshold on a grayscale image.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray < threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
