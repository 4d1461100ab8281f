package pixelterm

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"github.com/mattn/go-sixel"
	"github.com/soniakeys/quant/median"
)

// sixelPaletteSize is the register count requested from the terminal.
// 256 is the ceiling most sixel terminals advertise.
const sixelPaletteSize = 256

// encodeSixel produces a sixel DCS payload. The image is scaled to the
// box, quantized to a median-cut palette, and encoded. The encoder
// emits the complete DCS introducer and terminator itself, so the
// output is wrapped for tmux but never re-wrapped in another DCS.
func encodeSixel(img image.Image, box RenderBox, geo ViewportGeometry) ([]byte, error) {
	scaled := scaleToBox(img, box, geo)
	paletted := quantizeForSixel(scaled)

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Dither = false // quantization already happened
	enc.Colors = sixelPaletteSize
	if err := enc.Encode(paletted); err != nil {
		return nil, fmt.Errorf("sixel: encode: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("sixel: encoder produced no output")
	}

	return []byte(wrapTmuxPassthrough(buf.String())), nil
}

// quantizeForSixel reduces the image to a median-cut palette sized for
// sixel color registers. Already-paletted images that fit pass through
// untouched.
func quantizeForSixel(img image.Image) *image.Paletted {
	if p, ok := img.(*image.Paletted); ok && len(p.Palette) <= sixelPaletteSize {
		return p
	}

	quantizer := median.Quantizer(sixelPaletteSize)
	palette := quantizer.Palette(img).ColorPalette()

	bounds := img.Bounds()
	paletted := image.NewPaletted(bounds, palette)
	draw.Draw(paletted, bounds, img, bounds.Min, draw.Src)
	return paletted
}
