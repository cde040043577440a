// Package preview synthesizes the on-screen proxy of one layout page: a
// scene of draw commands scaled to a display surface, plus a rasterizer
// that executes the scene into an image. The scene is built from the same
// layout geometry the document renderer consumes, so the preview can never
// drift from the printed result.
package preview

import (
	"image"

	"github.com/kozaktomas/gridsheet/internal/layout"
	"github.com/kozaktomas/gridsheet/internal/settings"
	"github.com/kozaktomas/gridsheet/internal/thumbs"
)

// PaddingPx is the fixed padding kept between the page rectangle and each
// surface edge.
const PaddingPx = 10

// Rect is an axis-aligned rectangle in surface pixel coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Line is one grid line segment in surface pixel coordinates.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Placement is one thumbnail aspect-fitted into its scaled cell.
type Placement struct {
	Index int
	Rect  Rect
	Image *image.NRGBA
}

// Scene is the ordered list of draw commands for one synthesized page:
// page rectangle first, then grid lines, then thumbnail placements.
type Scene struct {
	SurfaceW, SurfaceH int
	Page               Rect
	Scale              float64 // mm to surface pixels
	GridVisible        bool
	GridColor          settings.RGB
	GridWidth          int
	Lines              []Line
	Images             []Placement
}

// Synthesize builds the scene for one representative page. The page
// rectangle is scaled to fit the surface minus the fixed padding while
// preserving the true page aspect ratio, centered; margins and cell size
// scale proportionally from mm into pixel space. Only the first rows*cols
// thumbnails appear; the preview shows one page, not the full pagination.
// Pure and deterministic: identical inputs yield identical scenes.
func Synthesize(tn []thumbs.Thumb, geo layout.Geometry, set settings.Grid, surfaceW, surfaceH int) Scene {
	scene := Scene{
		SurfaceW:    surfaceW,
		SurfaceH:    surfaceH,
		GridVisible: set.GridLineVisible,
		GridColor:   set.GridColor,
		GridWidth:   set.GridWidth,
	}

	availW := float64(surfaceW - 2*PaddingPx)
	availH := float64(surfaceH - 2*PaddingPx)
	if availW <= 0 || availH <= 0 {
		return scene
	}

	pageW, pageH := layout.AspectFit(geo.PageW, geo.PageH, availW, availH)
	scene.Scale = pageW / geo.PageW
	scene.Page = Rect{
		X: float64(PaddingPx) + (availW-pageW)/2,
		Y: float64(PaddingPx) + (availH-pageH)/2,
		W: pageW,
		H: pageH,
	}

	s := scene.Scale
	originX := scene.Page.X + geo.OriginX*s
	originY := scene.Page.Y + geo.OriginY*s
	printableW := geo.PrintableW * s
	printableH := geo.PrintableH * s

	if set.GridLineVisible {
		bottom := originY + printableH
		for _, dx := range layout.LineOffsets(printableW, geo.Columns) {
			x := originX + dx
			scene.Lines = append(scene.Lines, Line{X1: x, Y1: originY, X2: x, Y2: bottom})
		}
		right := originX + printableW
		for _, dy := range layout.LineOffsets(printableH, geo.Rows) {
			y := originY + dy
			scene.Lines = append(scene.Lines, Line{X1: originX, Y1: y, X2: right, Y2: y})
		}
	}

	count := len(tn)
	if count > geo.CellsPerPage {
		count = geo.CellsPerPage
	}
	cellW := geo.CellW * s
	cellH := geo.CellH * s
	for i := 0; i < count; i++ {
		t := tn[i]
		if t.Image == nil {
			continue
		}
		cell := geo.Cell(i)
		b := t.Image.Bounds()
		cellX := originX + float64(cell.Col)*cellW
		cellY := originY + float64(cell.Row)*cellH
		x, y, w, h := layout.FitRect(float64(b.Dx()), float64(b.Dy()), cellX, cellY, cellW, cellH)
		scene.Images = append(scene.Images, Placement{
			Index: i,
			Rect:  Rect{X: x, Y: y, W: w, H: h},
			Image: t.Image,
		})
	}
	return scene
}
