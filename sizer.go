package pixelterm

// RenderBox is the target rendering size in terminal cells.
type RenderBox struct {
	WidthCells  int
	HeightCells int
}

// PixelSize converts the box to pixels under the given geometry.
func (b RenderBox) PixelSize(g ViewportGeometry) (width, height int) {
	return b.WidthCells * g.CellWidth, b.HeightCells * g.CellHeight
}

// ComputeBox fits an image of the given aspect ratio (width/height) into the
// viewport, leaving reservedRows for status lines. Aspect ratio is preserved
// in pixel space (cells are not square), the larger fitting dimension is
// filled, and neither bound is exceeded. Degenerate inputs yield a 1x1 box.
// Pure and deterministic: the preload cache keys on its output.
func ComputeBox(g ViewportGeometry, aspect float64, reservedRows int) RenderBox {
	cols := g.Cols
	rows := g.Rows - reservedRows
	if cols <= 0 || rows <= 0 || aspect <= 0 || g.CellWidth <= 0 || g.CellHeight <= 0 {
		return RenderBox{WidthCells: 1, HeightCells: 1}
	}

	availW := float64(cols * g.CellWidth)
	availH := float64(rows * g.CellHeight)

	var pxW, pxH float64
	if availH*aspect <= availW {
		// height-bound: fill the full height
		pxW, pxH = availH*aspect, availH
	} else {
		// width-bound: fill the full width
		pxW, pxH = availW, availW/aspect
	}

	wc := int(pxW) / g.CellWidth
	hc := int(pxH) / g.CellHeight
	if wc < 1 {
		wc = 1
	}
	if hc < 1 {
		hc = 1
	}
	if wc > cols {
		wc = cols
	}
	if hc > rows {
		hc = rows
	}
	return RenderBox{WidthCells: wc, HeightCells: hc}
}
