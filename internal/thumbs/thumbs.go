// Package thumbs prepares the small preview thumbnails and runs the
// cancellable batch worker that loads them.
package thumbs

import (
	"context"
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"
)

// BoxSize is the bounding box (px) thumbnails are downscaled into.
const BoxSize = 200

// Thumb is one preview thumbnail. Placeholder marks sources that failed to
// decode and were replaced by a neutral gray box.
type Thumb struct {
	Path        string
	Image       *image.NRGBA
	Placeholder bool
}

// Load decodes and downscales the sources into BoxSize-bounded thumbnails in
// input order. Non-RGB sources normalize to RGB on the way; nothing is ever
// upscaled. A source that fails to decode becomes a placeholder instead of
// failing the batch. The context is checked once per image; a cancelled
// batch returns ctx.Err() and no thumbnails at all. Empty input succeeds
// immediately with an empty result.
func Load(ctx context.Context, paths []string, onProgress func(int)) ([]Thumb, error) {
	if len(paths) == 0 {
		return []Thumb{}, nil
	}

	out := make([]Thumb, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t := Thumb{Path: path}
		img, err := imaging.Open(path)
		if err != nil {
			log.Printf("WARNING: thumbnail for %s unavailable: %v", path, err)
			t.Image = Placeholder()
			t.Placeholder = true
		} else {
			t.Image = imaging.Fit(img, BoxSize, BoxSize, imaging.Lanczos)
		}
		out = append(out, t)

		if onProgress != nil {
			onProgress((i + 1) * 100 / len(paths))
		}
	}
	return out, nil
}

// Placeholder returns the neutral gray box shown for sources that cannot be
// decoded.
func Placeholder() *image.NRGBA {
	return imaging.New(BoxSize, BoxSize, color.NRGBA{R: 192, G: 192, B: 192, A: 255})
}
