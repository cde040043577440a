package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/gridsheet/internal/imagelist"
)

// ImagesHandler handles image list endpoints.
type ImagesHandler struct {
	list *imagelist.List
}

// NewImagesHandler creates a new images handler.
func NewImagesHandler(list *imagelist.List) *ImagesHandler {
	return &ImagesHandler{list: list}
}

// ImageEntry is one image list item in API responses.
type ImageEntry struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
}

// AddRequest represents an image add request. Entries may be files or
// directories; directories expand to their supported images.
type AddRequest struct {
	Paths []string `json:"paths"`
}

// List returns the image list in placement order.
func (h *ImagesHandler) List(w http.ResponseWriter, r *http.Request) {
	paths := h.list.Paths()
	entries := make([]ImageEntry, len(paths))
	for i, p := range paths {
		entries[i] = ImageEntry{Index: i, Path: p}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"images": entries,
		"count":  len(entries),
	})
}

// Add appends files or directory contents to the list.
func (h *ImagesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if len(req.Paths) == 0 {
		respondError(w, http.StatusBadRequest, "paths is required")
		return
	}

	added, err := h.list.Add(req.Paths...)
	if err != nil {
		log.Printf("WARNING: image add failed: %s", sanitizeForLog(err.Error()))
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"added": added,
		"count": h.list.Len(),
	})
}

// Clear removes all images from the list.
func (h *ImagesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.list.Clear()
	respondJSON(w, http.StatusOK, map[string]any{"count": 0})
}

// Remove deletes a single image by list index.
func (h *ImagesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid index")
		return
	}
	if err := h.list.Remove(index); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"count": h.list.Len()})
}

// OrderRequest represents a reorder request: the full path list in its new
// order.
type OrderRequest struct {
	Paths []string `json:"paths"`
}

// Reorder replaces the list order with the given permutation.
func (h *ImagesHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if err := h.list.SetOrder(req.Paths); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"count": h.list.Len()})
}
