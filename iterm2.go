package pixelterm

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"slices"
	"strings"
)

// iterm2ChunkSize is the multipart threshold. iTerm2 accepts single
// File= payloads up to 256KB; anything larger goes through the
// MultipartFile / FilePart / FileEnd sequence.
const iterm2ChunkSize = 0x40000

// encodeITerm2 produces an iTerm2 OSC 1337 inline image payload. The
// image is scaled to the box and JPEG-encoded. doNotMoveCursor keeps
// the cursor where the frame started so the status line can be placed
// deterministically afterwards.
func encodeITerm2(img image.Image, box RenderBox, geo ViewportGeometry) ([]byte, error) {
	scaled := scaleToBox(img, box, geo)

	var jpgBuf bytes.Buffer
	if err := jpeg.Encode(&jpgBuf, scaled, nil); err != nil {
		return nil, fmt.Errorf("iterm2: jpeg encode: %w", err)
	}
	raw := jpgBuf.Bytes()

	pxW, pxH := box.PixelSize(geo)
	params := fmt.Sprintf("inline=1;doNotMoveCursor=1;size=%d;width=%dpx;height=%dpx;preserveAspectRatio=1",
		len(raw), pxW, pxH)

	encoded := base64.StdEncoding.EncodeToString(raw)
	if len(raw) <= iterm2ChunkSize {
		seq := fmt.Sprintf("\x1b]1337;File=%s:%s\x07", params, encoded)
		return []byte(wrapTmuxPassthrough(seq)), nil
	}

	// large image: multipart transfer
	var out strings.Builder
	out.WriteString(wrapTmuxPassthrough(fmt.Sprintf("\x1b]1337;MultipartFile=%s\x07", params)))
	for chunk := range slices.Chunk([]byte(encoded), iterm2ChunkSize) {
		out.WriteString(wrapTmuxPassthrough(fmt.Sprintf("\x1b]1337;FilePart=%s\x07", chunk)))
	}
	out.WriteString(wrapTmuxPassthrough("\x1b]1337;FileEnd\x07"))
	return []byte(out.String()), nil
}
