package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kozaktomas/gridsheet/internal/settings"
)

// SettingsHandler handles grid settings endpoints.
type SettingsHandler struct {
	store *settings.Store
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get returns the current settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Get())
}

// Update validates, applies and persists new settings. Partial bodies are
// merged over the current settings, so a client can change one field.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	grid := h.store.Get()
	if err := json.NewDecoder(r.Body).Decode(&grid); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if err := grid.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.store.Set(grid); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, grid)
}

// Reset restores and persists the built-in defaults.
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	grid, err := h.store.Reset()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, grid)
}

// PageSizes returns the known page size tags.
func (h *SettingsHandler) PageSizes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"page_sizes": settings.PageTags()})
}
