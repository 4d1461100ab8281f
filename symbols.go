package pixelterm

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// symbolRamp orders glyphs from dark to bright. Ten steps is enough for
// a recognizable preview on terminals with nothing better than ASCII.
const symbolRamp = " .:-=+*#%@"

// encodeSymbols renders the image as plain text, one glyph per cell
// picked by luminance. This is the floor every terminal can display.
func encodeSymbols(img image.Image, box RenderBox) ([]byte, error) {
	if box.WidthCells <= 0 || box.HeightCells <= 0 {
		return nil, fmt.Errorf("symbols: empty render box")
	}

	// one sample per cell; the box already carries the aspect correction
	sampled := resize.Resize(uint(box.WidthCells), uint(box.HeightCells), img, resize.Bilinear)

	var out bytes.Buffer
	out.Grow(box.HeightCells * (box.WidthCells + 2))
	bounds := sampled.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if y > bounds.Min.Y {
			out.WriteString("\r\n")
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray := color.GrayModel.Convert(sampled.At(x, y)).(color.Gray)
			idx := int(gray.Y) * (len(symbolRamp) - 1) / 255
			out.WriteByte(symbolRamp[idx])
		}
	}
	return out.Bytes(), nil
}
