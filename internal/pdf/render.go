// Package pdf renders the grid layout into a paginated PDF document.
package pdf

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"log"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/kozaktomas/gridsheet/internal/layout"
	"github.com/kozaktomas/gridsheet/internal/settings"
)

// SkippedImage records one source that could not be placed.
type SkippedImage struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report summarizes a finished render.
type Report struct {
	PageCount  int            `json:"page_count"`
	ImageCount int            `json:"image_count"`
	Placed     int            `json:"placed"`
	Skipped    []SkippedImage `json:"skipped,omitempty"`
}

// Render lays the images out according to the settings snapshot and returns
// the finished document bytes. Progress lands on onProgress (0-100, once per
// image) when non-nil. The context is checked once per image; a cancelled
// render returns ctx.Err() with no document and no report. A source that
// fails to decode is logged, recorded in the report and leaves its cell
// blank; it never aborts the document.
func Render(ctx context.Context, paths []string, set settings.Grid, onProgress func(int)) ([]byte, *Report, error) {
	if len(paths) == 0 {
		return nil, nil, errors.New("no images to render")
	}
	geo, err := set.Geometry(len(paths))
	if err != nil {
		return nil, nil, err
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: geo.PageW, Ht: geo.PageH},
	})
	doc.SetAutoPageBreak(false, 0)

	report := &Report{PageCount: geo.PageCount, ImageCount: len(paths)}
	targetW := layout.TargetPixels(geo.CellW, set.OutputDPI)
	targetH := layout.TargetPixels(geo.CellH, set.OutputDPI)

	page := -1
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		cell := geo.Cell(i)
		if cell.Page != page {
			// The final page never gets a trailing break: a page is only
			// opened when an image actually lands on it.
			doc.AddPage()
			if set.GridLineVisible {
				drawGridLines(doc, geo, set)
			}
			page = cell.Page
		}

		img, err := prepareImage(path, targetW, targetH)
		if err != nil {
			log.Printf("WARNING: skipping %s: %v", path, err)
			report.Skipped = append(report.Skipped, SkippedImage{Path: path, Reason: err.Error()})
		} else {
			placeImage(doc, geo, cell, img)
			report.Placed++
		}

		if onProgress != nil {
			onProgress((i + 1) * 100 / len(paths))
		}
	}

	if doc.Err() {
		return nil, nil, fmt.Errorf("failed to compose document: %w", doc.Error())
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), report, nil
}

// placeImage draws one prepared image aspect-fitted and centered in its
// cell. Images are registered under a content hash so a file appearing in
// several cells embeds only once.
func placeImage(doc *gofpdf.Fpdf, geo layout.Geometry, cell layout.Cell, img *prepared) {
	cellX, cellY := geo.CellOrigin(cell)
	x, y, w, h := layout.FitRect(float64(img.width), float64(img.height), cellX, cellY, geo.CellW, geo.CellH)

	name := fmt.Sprintf("img_%x", sha1.Sum(img.data))
	opts := gofpdf.ImageOptions{ImageType: img.imageType, ReadDpi: true}
	if doc.GetImageInfo(name) == nil {
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.data))
	}
	doc.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

// drawGridLines strokes the columns+1 vertical and rows+1 horizontal lines
// spanning the printable area. The configured stroke width is in points and
// converts to the document's mm unit here.
func drawGridLines(doc *gofpdf.Fpdf, geo layout.Geometry, set settings.Grid) {
	doc.SetDrawColor(int(set.GridColor.R), int(set.GridColor.G), int(set.GridColor.B))
	doc.SetLineWidth(float64(set.GridWidth) / layout.MMToPt)

	bottom := geo.OriginY + geo.PrintableH
	for _, dx := range layout.LineOffsets(geo.PrintableW, geo.Columns) {
		x := geo.OriginX + dx
		doc.Line(x, geo.OriginY, x, bottom)
	}
	right := geo.OriginX + geo.PrintableW
	for _, dy := range layout.LineOffsets(geo.PrintableH, geo.Rows) {
		y := geo.OriginY + dy
		doc.Line(geo.OriginX, y, right, y)
	}
}
