package handlers

import (
	"errors"
	"net/http"

	"github.com/kozaktomas/gridsheet/internal/imagelist"
	"github.com/kozaktomas/gridsheet/internal/layout"
	"github.com/kozaktomas/gridsheet/internal/settings"
)

// GeometryHandler exposes the derived grid geometry for the current
// settings and image list.
type GeometryHandler struct {
	store *settings.Store
	list  *imagelist.List
}

// NewGeometryHandler creates a new geometry handler.
func NewGeometryHandler(store *settings.Store, list *imagelist.List) *GeometryHandler {
	return &GeometryHandler{store: store, list: list}
}

// GeometryResponse summarizes the grid for the UI.
type GeometryResponse struct {
	Columns      int `json:"columns"`
	Rows         int `json:"rows"`
	CellsPerPage int `json:"cells_per_page"`
	PageCount    int `json:"page_count"`
	ImageCount   int `json:"image_count"`
}

// Get computes and returns the geometry summary.
func (h *GeometryHandler) Get(w http.ResponseWriter, r *http.Request) {
	geo, err := h.store.Get().Geometry(h.list.Len())
	if err != nil {
		var cfgErr *layout.ConfigError
		if errors.As(err, &cfgErr) {
			respondError(w, http.StatusUnprocessableEntity, cfgErr.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, GeometryResponse{
		Columns:      geo.Columns,
		Rows:         geo.Rows,
		CellsPerPage: geo.CellsPerPage,
		PageCount:    geo.PageCount,
		ImageCount:   geo.ImageCount,
	})
}
