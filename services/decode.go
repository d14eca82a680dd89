package services

import (
	"bytes"
	"fmt"
	"image"

	// decoders for the formats users actually upload
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	"roomvizapi/vision"
)

// phone photos come in at 4000px+; analysis quality plateaus far below that
const maxAnalysisDim = 1024

// DecodeRGBA turns uploaded image bytes into the flat RGBA buffer the
// analysis engine works on. The engine itself never touches container
// formats; a decode failure is surfaced here and must leave whatever
// analysis state the caller holds untouched. Oversized images are
// downscaled before sampling.
func DecodeRGBA(imageBytes []byte) (*vision.PixelBuffer, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}
	if bounds.Dx() > maxAnalysisDim || bounds.Dy() > maxAnalysisDim {
		img = imaging.Fit(img, maxAnalysisDim, maxAnalysisDim, imaging.Lanczos)
		bounds = img.Bounds()
	}

	width, height := bounds.Dx(), bounds.Dy()
	buf := vision.NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			buf.Set(x, y, uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
		}
	}
	return buf, nil
}
