package frontend

import (
	"bytes"
	"image"
	"math"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const mimeSVG = "image/svg+xml"

// imageDimensions reads the pixel size from the image header without decoding
// the full image. SVGs report their viewBox size.
func imageDimensions(contentType string, data []byte) (int, int, bool) {
	if len(data) == 0 {
		return 0, 0, false
	}

	if strings.EqualFold(contentType, mimeSVG) {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
		if err != nil || icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
			return 0, 0, false
		}
		return int(math.Round(icon.ViewBox.W)), int(math.Round(icon.ViewBox.H)), true
	}

	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return config.Width, config.Height, true
}
