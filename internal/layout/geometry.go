// Package layout computes the grid geometry shared by the document renderer
// and the preview synthesizer: how many fixed-size cells fit on a page, how
// many pages a list of images needs, and where each image lands.
package layout

// Page holds physical page dimensions in mm.
type Page struct {
	W, H float64
}

// Margins holds the four page margins in mm.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Geometry is the derived layout for one settings and image-count
// combination. It is never mutated; callers recompute it wholesale whenever
// settings or the image count change.
type Geometry struct {
	PageW, PageH           float64 // page size in mm
	OriginX, OriginY       float64 // top-left corner of the printable area
	PrintableW, PrintableH float64 // page minus margins
	CellW, CellH           float64 // fixed cell size in mm
	Columns, Rows          int
	CellsPerPage           int
	PageCount              int
	ImageCount             int
}

// Cell identifies one grid slot by page index and row/column position.
type Cell struct {
	Page, Row, Col int
}

// ConfigError reports layout inputs that cannot produce a grid. It is
// returned before any rendering starts so callers can show it to the user
// instead of crashing mid-render.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid grid configuration: " + e.Reason
}

// Compute derives the grid geometry for a page, margins, cell size and image
// count. Columns and rows are floored so no cell overflows the printable
// area; the max(1, ...) guard keeps a single oversized cell renderable
// (overflow accepted in that degenerate case rather than zero cells).
func Compute(page Page, m Margins, cellW, cellH float64, imageCount int) (Geometry, error) {
	printableW := page.W - m.Left - m.Right
	printableH := page.H - m.Top - m.Bottom
	if printableW <= 0 || printableH <= 0 {
		return Geometry{}, &ConfigError{Reason: "printable area is not positive"}
	}
	if cellW <= 0 || cellH <= 0 {
		return Geometry{}, &ConfigError{Reason: "cell size is not positive"}
	}

	columns := max(1, int(printableW/cellW))
	rows := max(1, int(printableH/cellH))
	cellsPerPage := columns * rows
	if cellsPerPage <= 0 {
		// Unreachable past the guards above, kept as a defensive check.
		return Geometry{}, &ConfigError{Reason: "no cell fits on the page"}
	}

	pageCount := 0
	if imageCount > 0 {
		pageCount = (imageCount + cellsPerPage - 1) / cellsPerPage
	}

	return Geometry{
		PageW:        page.W,
		PageH:        page.H,
		OriginX:      m.Left,
		OriginY:      m.Top,
		PrintableW:   printableW,
		PrintableH:   printableH,
		CellW:        cellW,
		CellH:        cellH,
		Columns:      columns,
		Rows:         rows,
		CellsPerPage: cellsPerPage,
		PageCount:    pageCount,
		ImageCount:   imageCount,
	}, nil
}

// Cell returns the slot for image index i: row-major, left-to-right,
// top-to-bottom, page by page. Pure index decomposition, O(1).
func (g Geometry) Cell(i int) Cell {
	within := i % g.CellsPerPage
	return Cell{
		Page: i / g.CellsPerPage,
		Row:  within / g.Columns,
		Col:  within % g.Columns,
	}
}

// CellOrigin returns the top-left corner of a cell in page coordinates (mm).
func (g Geometry) CellOrigin(c Cell) (x, y float64) {
	return g.OriginX + float64(c.Col)*g.CellW, g.OriginY + float64(c.Row)*g.CellH
}

// AspectFit scales srcW x srcH uniformly to fit inside boxW x boxH while
// preserving aspect ratio. When the source is wider than the box, width
// binds and height shrinks; otherwise height binds.
func AspectFit(srcW, srcH, boxW, boxH float64) (w, h float64) {
	if srcW <= 0 || srcH <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}
	srcAspect := srcW / srcH
	boxAspect := boxW / boxH
	if srcAspect > boxAspect {
		return boxW, boxW / srcAspect
	}
	return boxH * srcAspect, boxH
}

// FitRect aspect-fits a srcW x srcH image into the box at (boxX, boxY) and
// centers it on both axes, returning the draw rectangle.
func FitRect(srcW, srcH, boxX, boxY, boxW, boxH float64) (x, y, w, h float64) {
	w, h = AspectFit(srcW, srcH, boxW, boxH)
	return boxX + (boxW-w)/2, boxY + (boxH-h)/2, w, h
}

// LineOffsets returns the n+1 evenly spaced offsets that divide span into n
// intervals, starting at 0. Both renderers draw grid lines at these offsets
// so the preview and the document can never disagree.
func LineOffsets(span float64, n int) []float64 {
	if n < 1 || span <= 0 {
		return nil
	}
	step := span / float64(n)
	offsets := make([]float64, n+1)
	for i := range offsets {
		offsets[i] = float64(i) * step
	}
	return offsets
}
