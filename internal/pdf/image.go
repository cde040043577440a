package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/kozaktomas/gridsheet/internal/layout"
)

// prepared is an image ready for placement: encoded bytes plus the pixel
// dimensions that drive the aspect-fit rectangle.
type prepared struct {
	data      []byte
	imageType string // "PNG" or "JPEG"
	width     int
	height    int
}

// prepareImage loads one source file and runs the placement pipeline:
// decode, downsample to the cell's target pixel size (never upsampling),
// flatten any alpha onto opaque white, re-encode as PNG. CMYK JPEGs skip
// the pipeline: their original bytes embed unchanged so the color
// separation survives into the document.
func prepareImage(path string, targetW, targetH int) (*prepared, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	bounds := img.Bounds()

	if _, cmyk := img.(*image.CMYK); cmyk && format == "jpeg" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return &prepared{
			data:      data,
			imageType: "JPEG",
			width:     bounds.Dx(),
			height:    bounds.Dy(),
		}, nil
	}

	w, h := fitWithin(bounds.Dx(), bounds.Dy(), targetW, targetH)
	flat := flattenOnWhite(img, w, h)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return &prepared{
		data:      buf.Bytes(),
		imageType: "PNG",
		width:     w,
		height:    h,
	}, nil
}

// fitWithin returns the pixel size scaled down to fit maxW x maxH while
// keeping aspect ratio. Sources already inside the bounds keep their size.
func fitWithin(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= maxW && srcH <= maxH {
		return srcW, srcH
	}
	w, h := layout.AspectFit(float64(srcW), float64(srcH), float64(maxW), float64(maxH))
	return max(1, int(w)), max(1, int(h))
}

// flattenOnWhite resamples img to w x h over an opaque white canvas, using
// the source alpha as the mask. Indexed, grayscale and YCbCr sources come
// out as plain RGB; nothing in the result is transparent.
func flattenOnWhite(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
