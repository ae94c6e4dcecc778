package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// jpegQuality for re-encoded exports. Recognition does not benefit from
// higher quality.
const jpegQuality = 85

// downscale decodes an image and, when its larger dimension exceeds
// maxSize, scales it down proportionally. The result is always JPEG, so
// the returned extension is ".jpg". Images already within bounds are
// returned re-encoded only if they were not JPEG to begin with.
func downscale(data []byte, maxSize int) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	larger := width
	if height > larger {
		larger = height
	}
	if larger <= maxSize {
		if format == "jpeg" {
			return data, ".jpg", nil
		}
		return encodeJPEG(img)
	}

	scale := float64(maxSize) / float64(larger)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(width)*scale), int(float64(height)*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return encodeJPEG(dst)
}

func encodeJPEG(img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("could not encode image: %w", err)
	}
	return buf.Bytes(), ".jpg", nil
}
