package handlers

import (
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kozaktomas/gridsheet/internal/imagelist"
	"github.com/kozaktomas/gridsheet/internal/layout"
	"github.com/kozaktomas/gridsheet/internal/preview"
	"github.com/kozaktomas/gridsheet/internal/settings"
	"github.com/kozaktomas/gridsheet/internal/thumbs"
)

// Preview surface bounds accepted from the width/height query parameters.
const (
	defaultSurfaceW = 800
	defaultSurfaceH = 600
	minSurface      = 64
	maxSurface      = 4096
)

// PreviewHandler renders the synthesized first page as a PNG. Thumbnails
// are cached across requests keyed by path and mtime; batches for uncached
// sources run through a Batcher, so a newer preview request supersedes a
// slower older one instead of racing it.
type PreviewHandler struct {
	store   *settings.Store
	list    *imagelist.List
	batcher *thumbs.Batcher
	cache   *lru.Cache[string, thumbs.Thumb]
}

// NewPreviewHandler creates a new preview handler with a thumbnail cache of
// the given size.
func NewPreviewHandler(store *settings.Store, list *imagelist.List, cacheSize int) *PreviewHandler {
	cache, err := lru.New[string, thumbs.Thumb](cacheSize)
	if err != nil {
		panic(fmt.Sprintf("invalid thumbnail cache size %d: %v", cacheSize, err))
	}
	return &PreviewHandler{
		store:   store,
		list:    list,
		batcher: &thumbs.Batcher{},
		cache:   cache,
	}
}

// Get synthesizes and rasterizes the representative page.
func (h *PreviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	surfaceW := surfaceParam(r, "width", defaultSurfaceW)
	surfaceH := surfaceParam(r, "height", defaultSurfaceH)

	paths := h.list.Paths()
	set := h.store.Get()
	geo, err := set.Geometry(len(paths))
	if err != nil {
		var cfgErr *layout.ConfigError
		if errors.As(err, &cfgErr) {
			respondError(w, http.StatusUnprocessableEntity, cfgErr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The preview shows one page; load thumbnails only for the sources that
	// can actually appear on it.
	if len(paths) > geo.CellsPerPage {
		paths = paths[:geo.CellsPerPage]
	}

	tn, ok := h.loadThumbs(w, r, paths)
	if !ok {
		return
	}

	img := preview.Rasterize(preview.Synthesize(tn, geo, set, surfaceW, surfaceH))
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, img); err != nil {
		// Headers are gone; nothing left to do but note it.
		return
	}
}

// loadThumbs assembles thumbnails for paths in order, serving from the
// cache where possible and batching the misses. On failure it writes the
// error response and returns false.
func (h *PreviewHandler) loadThumbs(w http.ResponseWriter, r *http.Request, paths []string) ([]thumbs.Thumb, bool) {
	var misses []string
	for _, p := range paths {
		if _, ok := h.cache.Get(cacheKey(p)); !ok {
			misses = append(misses, p)
		}
	}

	if len(misses) > 0 {
		b := h.batcher.Start(r.Context(), misses)
		select {
		case loaded := <-b.Done():
			for _, t := range loaded {
				h.cache.Add(cacheKey(t.Path), t)
			}
		case err := <-b.Err():
			respondError(w, http.StatusInternalServerError, err.Error())
			return nil, false
		case <-b.Stopped():
			// The worker stopped with nothing on Done or Err: a newer
			// preview request superseded this one.
			select {
			case loaded := <-b.Done():
				for _, t := range loaded {
					h.cache.Add(cacheKey(t.Path), t)
				}
			default:
				respondError(w, http.StatusConflict, "preview superseded by a newer request")
				return nil, false
			}
		}
	}

	out := make([]thumbs.Thumb, 0, len(paths))
	for _, p := range paths {
		if t, ok := h.cache.Get(cacheKey(p)); ok {
			out = append(out, t)
			continue
		}
		// Evicted between the batch and assembly; show a placeholder rather
		// than re-running the batch.
		out = append(out, thumbs.Thumb{Path: p, Image: thumbs.Placeholder(), Placeholder: true})
	}
	return out, true
}

// cacheKey ties a cache entry to the file's modification time, so an edited
// image re-renders instead of serving its stale thumbnail.
func cacheKey(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	return fmt.Sprintf("%s|%d", path, info.ModTime().UnixNano())
}

// surfaceParam parses one preview dimension, clamped to sane pixel bounds.
func surfaceParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if n < minSurface {
		return minSurface
	}
	if n > maxSurface {
		return maxSurface
	}
	return n
}
