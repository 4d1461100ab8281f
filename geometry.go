package pixelterm

import (
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/blacktop/pixelterm/pkg/csi"
)

// ViewportGeometry is the terminal size sampled at startup and on every
// resize event. Cell dimensions are in pixels.
type ViewportGeometry struct {
	Cols       int
	Rows       int
	CellWidth  int
	CellHeight int
}

// Equal reports whether two geometries match. Frames rendered under one
// geometry must never be shown under another.
func (g ViewportGeometry) Equal(o ViewportGeometry) bool {
	return g == o
}

// PixelWidth returns the viewport width in pixels.
func (g ViewportGeometry) PixelWidth() int { return g.Cols * g.CellWidth }

// PixelHeight returns the viewport height in pixels.
func (g ViewportGeometry) PixelHeight() int { return g.Rows * g.CellHeight }

// CurrentGeometry samples the terminal size. probe allows CSI queries for the
// cell size; pass false once the interactive loop owns stdin, because query
// responses would bleed into the keyboard stream.
func CurrentGeometry(probe bool) ViewportGeometry {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		cols, rows = 80, 24
	}

	cw, ch, ok := cellSizeFromIoctl()
	if !ok && probe && csi.QuerySupported() {
		cw, ch, ok = csi.QueryCellSize()
		if !ok {
			cw, ch, ok = csi.QueryFontSize()
		}
	}
	if !ok {
		cw, ch = cellSizeFallback()
	}

	return ViewportGeometry{Cols: cols, Rows: rows, CellWidth: cw, CellHeight: ch}
}

// cellSizeFallback guesses the cell pixel size from the terminal type.
func cellSizeFallback() (width, height int) {
	termEnv := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	switch {
	case termProgram == "vscode":
		return 7, 14
	case termProgram == "iTerm.app":
		return 8, 16
	case termProgram == "WezTerm":
		return 8, 18
	case termProgram == "Alacritty":
		return 7, 15
	case strings.Contains(termEnv, "kitty"):
		return 8, 16
	case strings.Contains(termEnv, "xterm"):
		return 7, 14
	default:
		return 8, 16
	}
}
