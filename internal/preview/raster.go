package preview

import (
	"image"
	"image/color"
	stddraw "image/draw"

	xdraw "golang.org/x/image/draw"
)

var (
	surfaceColor = color.NRGBA{R: 64, G: 64, B: 64, A: 255}
	borderColor  = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// Rasterize executes a scene into an image: gray surface, white page with a
// one pixel black border, thumbnails composited over the page, grid lines
// stroked in the configured color and pixel width.
func Rasterize(scene Scene) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, scene.SurfaceW, scene.SurfaceH))
	fillRect(dst, dst.Bounds(), surfaceColor)
	if scene.Page.W <= 0 || scene.Page.H <= 0 {
		return dst
	}

	page := toPixels(scene.Page)
	fillRect(dst, page, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	strokeRect(dst, page, borderColor)

	if scene.GridVisible {
		lineColor := color.NRGBA{R: scene.GridColor.R, G: scene.GridColor.G, B: scene.GridColor.B, A: 255}
		for _, l := range scene.Lines {
			strokeLine(dst, l, scene.GridWidth, lineColor)
		}
	}

	for _, p := range scene.Images {
		r := toPixels(p.Rect)
		if r.Dx() < 1 || r.Dy() < 1 {
			continue
		}
		xdraw.BiLinear.Scale(dst, r, p.Image, p.Image.Bounds(), xdraw.Over, nil)
	}
	return dst
}

// toPixels rounds a scene rectangle to whole pixels.
func toPixels(r Rect) image.Rectangle {
	x0 := int(r.X + 0.5)
	y0 := int(r.Y + 0.5)
	return image.Rect(x0, y0, x0+int(r.W+0.5), y0+int(r.H+0.5))
}

func fillRect(dst *image.NRGBA, r image.Rectangle, c color.Color) {
	stddraw.Draw(dst, r, image.NewUniform(c), image.Point{}, stddraw.Src)
}

// strokeRect draws a one pixel outline just inside r.
func strokeRect(dst *image.NRGBA, r image.Rectangle, c color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// strokeLine draws a rectilinear grid line as a filled rectangle width
// pixels thick, centered on the line.
func strokeLine(dst *image.NRGBA, l Line, width int, c color.Color) {
	if width < 1 {
		width = 1
	}
	half := float64(width) / 2
	var r image.Rectangle
	if l.X1 == l.X2 { // vertical
		r = image.Rect(int(l.X1-half+0.5), int(l.Y1+0.5), int(l.X1+half+0.5), int(l.Y2+0.5))
		if r.Dx() < 1 {
			r.Max.X = r.Min.X + 1
		}
	} else { // horizontal
		r = image.Rect(int(l.X1+0.5), int(l.Y1-half+0.5), int(l.X2+0.5), int(l.Y1+half+0.5))
		if r.Dy() < 1 {
			r.Max.Y = r.Min.Y + 1
		}
	}
	fillRect(dst, r, c)
}
