package pdf

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kozaktomas/gridsheet/internal/layout"
	"github.com/kozaktomas/gridsheet/internal/settings"
)

func fixtures(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, string(rune('a'+i))+".png")
		paths = append(paths, writePNG(t, name, 40, 30, color.NRGBA{R: uint8(i * 40), G: 100, B: 200, A: 255}))
	}
	return paths
}

func TestRender_SinglePage(t *testing.T) {
	paths := fixtures(t, 4)

	var progress []int
	doc, report, err := Render(context.Background(), paths, settings.Default(), func(p int) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF-")) {
		t.Error("output does not look like a PDF")
	}
	if report.PageCount != 1 {
		t.Errorf("PageCount: expected 1, got %d", report.PageCount)
	}
	if report.Placed != 4 || report.ImageCount != 4 {
		t.Errorf("expected 4 placed of 4, got %d of %d", report.Placed, report.ImageCount)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("expected no skips, got %v", report.Skipped)
	}
	if !reflect.DeepEqual(progress, []int{25, 50, 75, 100}) {
		t.Errorf("expected progress [25 50 75 100], got %v", progress)
	}
}

func TestRender_MultiplePages(t *testing.T) {
	// 95x130mm cells on A4: 2x2 grid per page, 6 images -> 2 pages.
	set := settings.Default()
	set.ColWidthMM = 95
	set.RowHeightMM = 130

	doc, report, err := Render(context.Background(), fixtures(t, 6), set, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.PageCount != 2 {
		t.Errorf("PageCount: expected 2, got %d", report.PageCount)
	}
	if !bytes.Contains(doc, []byte("/Count 2")) {
		t.Error("document page tree should contain two pages")
	}
}

func TestRender_SkipsCorruptImage(t *testing.T) {
	paths := fixtures(t, 3)
	bad := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(bad, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	paths = append(paths[:1], append([]string{bad}, paths[1:]...)...)

	doc, report, err := Render(context.Background(), paths, settings.Default(), nil)
	if err != nil {
		t.Fatalf("a corrupt image must not abort the render: %v", err)
	}
	if len(doc) == 0 {
		t.Fatal("expected a document")
	}
	if report.Placed != 3 {
		t.Errorf("Placed: expected 3, got %d", report.Placed)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Path != bad {
		t.Errorf("expected %s in skip list, got %v", bad, report.Skipped)
	}
}

func TestRender_EmptyList(t *testing.T) {
	if _, _, err := Render(context.Background(), nil, settings.Default(), nil); err == nil {
		t.Error("expected an error for an empty image list")
	}
}

func TestRender_InvalidSettings(t *testing.T) {
	set := settings.Default()
	set.ColWidthMM = 0

	_, _, err := Render(context.Background(), fixtures(t, 1), set, nil)
	if err == nil {
		t.Fatal("expected a configuration error")
	}
	var cfgErr *layout.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected *layout.ConfigError, got %T: %v", err, err)
	}
}

func TestRender_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	doc, report, err := Render(ctx, fixtures(t, 5), settings.Default(), func(int) {
		calls++
		if calls == 2 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if doc != nil || report != nil {
		t.Error("a cancelled render must deliver no output")
	}
	if calls >= 5 {
		t.Errorf("cancellation should stop the loop early, saw %d progress calls", calls)
	}
}

func TestRender_GridLinesChangeOutput(t *testing.T) {
	paths := fixtures(t, 1)

	on := settings.Default()
	off := settings.Default()
	off.GridLineVisible = false

	withGrid, _, err := Render(context.Background(), paths, on, nil)
	if err != nil {
		t.Fatal(err)
	}
	withoutGrid, _, err := Render(context.Background(), paths, off, nil)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(withGrid, withoutGrid) {
		t.Error("grid lines should change the document content")
	}
}

func TestRender_DuplicatePathsEmbedOnce(t *testing.T) {
	paths := fixtures(t, 1)
	same := []string{paths[0], paths[0], paths[0]}

	doc, report, err := Render(context.Background(), same, settings.Default(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Placed != 3 {
		t.Errorf("expected 3 placements, got %d", report.Placed)
	}
	// A document with the image embedded three times would be roughly three
	// times larger; registration by content hash keeps one copy.
	single, _, err := Render(context.Background(), paths, settings.Default(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc) > len(single)*2 {
		t.Errorf("duplicate placements look embedded repeatedly: %d vs %d bytes", len(doc), len(single))
	}
}
