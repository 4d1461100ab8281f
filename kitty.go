package pixelterm

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"
)

// kittyChunkSize is the payload size limit per APC escape. The kitty
// graphics protocol requires base64 data to be split into chunks of at
// most 4096 bytes, chained with the m= continuation flag.
const kittyChunkSize = 4096

// encodeKitty produces a kitty graphics protocol payload: the image is
// scaled to the box, PNG-encoded, base64'd, and emitted as a chain of
// APC escapes. a=T transmits and displays in one step, f=100 marks PNG
// data, q=2 suppresses terminal responses (they would bleed into the
// keyboard stream), and C=1 keeps the cursor in place so the status
// line lands where the caller expects it.
func encodeKitty(img image.Image, box RenderBox, geo ViewportGeometry) ([]byte, error) {
	scaled := scaleToBox(img, box, geo)

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, scaled); err != nil {
		return nil, fmt.Errorf("kitty: png encode: %w", err)
	}

	data := base64.StdEncoding.EncodeToString(pngBuf.Bytes())

	var out strings.Builder
	first := true
	for len(data) > 0 {
		n := len(data)
		if n > kittyChunkSize {
			n = kittyChunkSize
		}
		chunk := data[:n]
		data = data[n:]

		more := 0
		if len(data) > 0 {
			more = 1
		}

		var seq string
		if first {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,q=2,C=1,c=%d,r=%d,m=%d;%s\x1b\\",
				box.WidthCells, box.HeightCells, more, chunk)
			first = false
		} else {
			seq = fmt.Sprintf("\x1b_Gm=%d;%s\x1b\\", more, chunk)
		}
		// each chunk is wrapped individually so tmux forwards them intact
		out.WriteString(wrapTmuxPassthrough(seq))
	}

	return []byte(out.String()), nil
}

// kittyClearAll deletes every image the terminal currently holds.
// Issued before each new frame so stale frames never linger behind
// the one being drawn.
func kittyClearAll() []byte {
	return []byte(wrapTmuxPassthrough("\x1b_Ga=d,d=A\x1b\\"))
}
