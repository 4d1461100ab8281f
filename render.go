package pixelterm

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Backend selects how frames are rasterized.
type Backend int

const (
	// BackendBuiltin encodes protocol payloads in process.
	BackendBuiltin Backend = iota
	// BackendChafa shells out to the chafa rasterizer.
	BackendChafa
)

// ParseBackend converts a config value into a Backend.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "", "builtin", "auto":
		return BackendBuiltin, nil
	case "chafa":
		return BackendChafa, nil
	default:
		return BackendBuiltin, fmt.Errorf("unknown render backend %q", s)
	}
}

func (b Backend) String() string {
	if b == BackendChafa {
		return "chafa"
	}
	return "builtin"
}

// RenderedFrame is a terminal-writable payload for one entry. It is valid
// only while the geometry it was computed for matches the live viewport and
// the entry still exists.
type RenderedFrame struct {
	Payload  []byte
	Entry    ImageEntry
	Box      RenderBox
	Geometry ViewportGeometry
	Protocol Protocol
}

// ValidFor reports whether the frame may be displayed under g.
func (f *RenderedFrame) ValidFor(g ViewportGeometry) bool {
	return f != nil && f.Geometry.Equal(g)
}

// Renderer produces RenderedFrames for a fixed protocol. It is stateless
// apart from configuration: rendering is a pure transformation, and writing
// to the terminal belongs to the caller.
type Renderer struct {
	protocol     Protocol
	backend      Backend
	chafaPath    string
	reservedRows int
}

// NewRenderer builds a renderer for the detected protocol. With
// BackendChafa the chafa binary is resolved up front; a missing binary is
// ErrRasterizerMissing and the session must not start.
func NewRenderer(protocol Protocol, backend Backend, reservedRows int) (*Renderer, error) {
	r := &Renderer{protocol: protocol, backend: backend, reservedRows: reservedRows}
	if backend == BackendChafa {
		path, err := lookupChafa()
		if err != nil {
			return nil, err
		}
		r.chafaPath = path
	}
	if protocol.Tier() == TierGraphics && inTmux() {
		enableTmuxPassthrough()
	}
	return r, nil
}

// Protocol returns the protocol this renderer encodes for.
func (r *Renderer) Protocol() Protocol { return r.protocol }

// RenderFor renders entry sized for the given geometry: the image's aspect
// ratio decides the box. This is the path the browser and preloader use.
func (r *Renderer) RenderFor(entry ImageEntry, g ViewportGeometry) (*RenderedFrame, error) {
	if r.backend == BackendChafa {
		w, h, err := imageDimensions(entry.Path)
		if err != nil {
			return nil, renderErr(entry.Path, err)
		}
		box := ComputeBox(g, float64(w)/float64(h), r.reservedRows)
		payload, err := r.renderChafa(entry.Path, box)
		if err != nil {
			return nil, renderErr(entry.Path, err)
		}
		return &RenderedFrame{Payload: payload, Entry: entry, Box: box, Geometry: g, Protocol: r.protocol}, nil
	}

	img, err := loadImage(entry.Path)
	if err != nil {
		return nil, renderErr(entry.Path, err)
	}
	bounds := img.Bounds()
	box := ComputeBox(g, float64(bounds.Dx())/float64(bounds.Dy()), r.reservedRows)
	return r.encode(img, entry, box, g)
}

// Render rasterizes entry into an explicit box. Box and geometry must agree;
// ComputeBox output for the same geometry always does.
func (r *Renderer) Render(entry ImageEntry, box RenderBox, g ViewportGeometry) (*RenderedFrame, error) {
	if r.backend == BackendChafa {
		payload, err := r.renderChafa(entry.Path, box)
		if err != nil {
			return nil, renderErr(entry.Path, err)
		}
		return &RenderedFrame{Payload: payload, Entry: entry, Box: box, Geometry: g, Protocol: r.protocol}, nil
	}
	img, err := loadImage(entry.Path)
	if err != nil {
		return nil, renderErr(entry.Path, err)
	}
	return r.encode(img, entry, box, g)
}

func (r *Renderer) encode(img image.Image, entry ImageEntry, box RenderBox, g ViewportGeometry) (*RenderedFrame, error) {
	var (
		payload []byte
		err     error
	)
	switch r.protocol {
	case Kitty:
		payload, err = encodeKitty(img, box, g)
	case ITerm2:
		payload, err = encodeITerm2(img, box, g)
	case Sixel:
		payload, err = encodeSixel(img, box, g)
	case Halfblocks:
		payload, err = encodeHalfblocks(img, box)
	case Symbols:
		payload, err = encodeSymbols(img, box)
	default:
		err = fmt.Errorf("unhandled protocol %s", r.protocol)
	}
	if err != nil {
		return nil, renderErr(entry.Path, err)
	}
	return &RenderedFrame{Payload: payload, Entry: entry, Box: box, Geometry: g, Protocol: r.protocol}, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// imageDimensions reads just the header. Cheap enough to run per entry.
func imageDimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("degenerate dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// scaleToBox resizes img to the box's pixel footprint. The interpolator
// follows the size delta: quality for moderate downscales, speed when the
// source dwarfs the target or the image is upscaled.
func scaleToBox(img image.Image, box RenderBox, g ViewportGeometry) image.Image {
	pxW, pxH := box.PixelSize(g)
	if pxW <= 0 || pxH <= 0 {
		return img
	}
	bounds := img.Bounds()
	if bounds.Dx() == pxW && bounds.Dy() == pxH {
		return img
	}

	var interp resize.InterpolationFunction
	sourcePixels := bounds.Dx() * bounds.Dy()
	targetPixels := pxW * pxH
	switch {
	case sourcePixels > targetPixels*4:
		interp = resize.Bilinear
	case sourcePixels > targetPixels:
		interp = resize.Lanczos3
	default:
		interp = resize.Bilinear
	}
	return resize.Resize(uint(pxW), uint(pxH), img, interp)
}
