package pixelterm

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/x/mosaic"
)

// encodeHalfblocks renders the image as Unicode half-block characters
// with 24-bit color escapes, two vertical pixels per cell. mosaic scales
// the source internally, so the unscaled image goes straight in.
//
// The session runs the terminal in raw mode, where a bare \n no longer
// implies a carriage return, so line breaks are rewritten to \r\n.
func encodeHalfblocks(img image.Image, box RenderBox) ([]byte, error) {
	if box.WidthCells <= 0 || box.HeightCells <= 0 {
		return nil, fmt.Errorf("halfblocks: empty render box")
	}

	m := mosaic.New().
		Width(box.WidthCells).
		Height(box.HeightCells)
	rendered := m.Render(img)

	rendered = strings.ReplaceAll(rendered, "\r\n", "\n")
	rendered = strings.ReplaceAll(rendered, "\n", "\r\n")
	return []byte(rendered), nil
}
