package settings

import (
	"math"
	"reflect"
	"testing"
)

func TestPageDims(t *testing.T) {
	tests := []struct {
		tag  string
		w, h float64
	}{
		{"A4", 210, 297},
		{"A3", 297, 420},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			page, err := PageDims(tt.tag)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(page.W-tt.w) > 0.001 || math.Abs(page.H-tt.h) > 0.001 {
				t.Errorf("%s: expected %.0fx%.0fmm, got %.2fx%.2f", tt.tag, tt.w, tt.h, page.W, page.H)
			}
		})
	}
}

func TestPageDims_Unknown(t *testing.T) {
	if _, err := PageDims("B5"); err == nil {
		t.Error("expected an error for an unknown tag")
	}
	if _, err := PageDims(""); err == nil {
		t.Error("expected an error for an empty tag")
	}
}

func TestPageTags(t *testing.T) {
	tags := PageTags()
	if !reflect.DeepEqual(tags, []string{"A3", "A4"}) {
		t.Errorf("expected [A3 A4], got %v", tags)
	}
}
