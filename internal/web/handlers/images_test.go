package handlers

import (
	"encoding/json"
	"fmt"
	"image/color"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kozaktomas/gridsheet/internal/imagelist"
)

func TestImagesListEmpty(t *testing.T) {
	h := NewImagesHandler(imagelist.New())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/images", nil))

	assertStatusCode(t, rec, http.StatusOK)
	var got struct {
		Images []ImageEntry `json:"images"`
		Count  int          `json:"count"`
	}
	parseJSONResponse(t, rec, &got)
	if got.Count != 0 || len(got.Images) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}
}

func TestImagesAddAndList(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writePNG(t, filepath.Join(dir, "a.png"), 10, 10, color.White),
		writePNG(t, filepath.Join(dir, "b.png"), 10, 10, color.White),
	}
	list := imagelist.New()
	h := NewImagesHandler(list)

	body, _ := json.Marshal(AddRequest{Paths: paths})
	rec := httptest.NewRecorder()
	h.Add(rec, httptest.NewRequest(http.MethodPost, "/api/v1/images", strings.NewReader(string(body))))

	assertStatusCode(t, rec, http.StatusOK)
	var got struct {
		Added int `json:"added"`
		Count int `json:"count"`
	}
	parseJSONResponse(t, rec, &got)
	if got.Added != 2 || got.Count != 2 {
		t.Errorf("expected 2 added, got %+v", got)
	}
	if list.Len() != 2 {
		t.Errorf("expected 2 entries in the list, got %d", list.Len())
	}
}

func TestImagesAddDirectoryExpands(t *testing.T) {
	dir := t.TempDir()
	// Natural order: img2 before img10.
	writePNG(t, filepath.Join(dir, "img10.png"), 10, 10, color.White)
	writePNG(t, filepath.Join(dir, "img2.png"), 10, 10, color.White)

	list := imagelist.New()
	h := NewImagesHandler(list)

	body := fmt.Sprintf(`{"paths": [%q]}`, dir)
	rec := httptest.NewRecorder()
	h.Add(rec, httptest.NewRequest(http.MethodPost, "/api/v1/images", strings.NewReader(body)))

	assertStatusCode(t, rec, http.StatusOK)
	paths := list.Paths()
	if len(paths) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(paths))
	}
	if filepath.Base(paths[0]) != "img2.png" || filepath.Base(paths[1]) != "img10.png" {
		t.Errorf("expected natural order, got %v", paths)
	}
}

func TestImagesAddFailures(t *testing.T) {
	h := NewImagesHandler(imagelist.New())

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{"paths": `, http.StatusBadRequest},
		{"empty paths", `{"paths": []}`, http.StatusBadRequest},
		{"missing file", `{"paths": ["/nonexistent/img.png"]}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Add(rec, httptest.NewRequest(http.MethodPost, "/api/v1/images", strings.NewReader(tt.body)))
			assertStatusCode(t, rec, tt.code)
		})
	}
}

func TestImagesClear(t *testing.T) {
	list := testList(t, 3)
	h := NewImagesHandler(list)

	rec := httptest.NewRecorder()
	h.Clear(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/images", nil))

	assertStatusCode(t, rec, http.StatusOK)
	if list.Len() != 0 {
		t.Errorf("expected empty list after clear, got %d", list.Len())
	}
}

func TestImagesRemove(t *testing.T) {
	list := testList(t, 3)
	h := NewImagesHandler(list)
	victim := list.Paths()[1]

	req := requestWithChiParams(httptest.NewRequest(http.MethodDelete, "/api/v1/images/1", nil),
		map[string]string{"index": "1"})
	rec := httptest.NewRecorder()
	h.Remove(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	for _, p := range list.Paths() {
		if p == victim {
			t.Errorf("entry %s still present after remove", p)
		}
	}

	req = requestWithChiParams(httptest.NewRequest(http.MethodDelete, "/api/v1/images/9", nil),
		map[string]string{"index": "9"})
	rec = httptest.NewRecorder()
	h.Remove(rec, req)
	assertStatusCode(t, rec, http.StatusNotFound)
}

func TestImagesReorder(t *testing.T) {
	list := testList(t, 3)
	h := NewImagesHandler(list)

	paths := list.Paths()
	reversed := []string{paths[2], paths[1], paths[0]}
	body, _ := json.Marshal(OrderRequest{Paths: reversed})

	rec := httptest.NewRecorder()
	h.Reorder(rec, httptest.NewRequest(http.MethodPut, "/api/v1/images/order", strings.NewReader(string(body))))

	assertStatusCode(t, rec, http.StatusOK)
	got := list.Paths()
	for i := range reversed {
		if got[i] != reversed[i] {
			t.Errorf("position %d: expected %s, got %s", i, reversed[i], got[i])
		}
	}
}

func TestImagesReorderRejectsBadPermutation(t *testing.T) {
	list := testList(t, 2)
	h := NewImagesHandler(list)

	body := `{"paths": ["/not/in/list.png", "/also/missing.png"]}`
	rec := httptest.NewRecorder()
	h.Reorder(rec, httptest.NewRequest(http.MethodPut, "/api/v1/images/order", strings.NewReader(body)))
	assertStatusCode(t, rec, http.StatusUnprocessableEntity)
}
