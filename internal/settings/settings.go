// Package settings holds the grid configuration: cell size, margins, page
// size, grid line styling and output resolution. A Grid value is a snapshot;
// workers receive it by value and never see later edits.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/kozaktomas/gridsheet/internal/layout"
)

// DefaultFileName is the settings file used when no explicit path is given.
const DefaultFileName = "grid_settings.json"

// Grid is one layout configuration. The JSON field names are the on-disk
// settings file contract.
type Grid struct {
	RowHeightMM     float64 `json:"row_height_mm"`
	ColWidthMM      float64 `json:"col_width_mm"`
	GridLineVisible bool    `json:"grid_line_visible"`
	GridColor       RGB     `json:"grid_color"`
	GridWidth       int     `json:"grid_width"`
	PageSize        string  `json:"page_size"`
	MarginTopMM     float64 `json:"margin_top_mm"`
	MarginBottomMM  float64 `json:"margin_bottom_mm"`
	MarginLeftMM    float64 `json:"margin_left_mm"`
	MarginRightMM   float64 `json:"margin_right_mm"`
	OutputDPI       int     `json:"output_dpi"`
}

// Default returns the built-in settings: 10mm cells on A4 with 10mm margins,
// a visible 1pt black grid, 300 DPI output.
func Default() Grid {
	return Grid{
		RowHeightMM:     10,
		ColWidthMM:      10,
		GridLineVisible: true,
		GridColor:       RGB{R: 0, G: 0, B: 0},
		GridWidth:       1,
		PageSize:        "A4",
		MarginTopMM:     10,
		MarginBottomMM:  10,
		MarginLeftMM:    10,
		MarginRightMM:   10,
		OutputDPI:       300,
	}
}

// Load reads settings from path. Loading is best-effort: a missing,
// unreadable or unparsable file falls back to defaults without returning an
// error. Unknown fields are ignored, absent fields keep their defaults.
func Load(path string) Grid {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARNING: could not read settings file %s: %v", path, err)
		}
		return Default()
	}

	g := Default()
	if err := json.Unmarshal(data, &g); err != nil {
		log.Printf("WARNING: could not parse settings file %s: %v", path, err)
		return Default()
	}
	if _, err := PageDims(g.PageSize); err != nil {
		log.Printf("WARNING: settings file %s: %v", path, err)
		return Default()
	}
	return g
}

// Save writes settings to path as indented JSON. Unlike Load, save failures
// propagate to the caller.
func (g Grid) Save(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Validate rejects values outside the ranges the settings surface accepts.
func (g Grid) Validate() error {
	if g.ColWidthMM <= 0 || g.RowHeightMM <= 0 {
		return errors.New("cell size must be positive")
	}
	if g.MarginTopMM < 0 || g.MarginBottomMM < 0 || g.MarginLeftMM < 0 || g.MarginRightMM < 0 {
		return errors.New("margins must not be negative")
	}
	if g.GridWidth < 1 || g.GridWidth > 10 {
		return errors.New("grid line width must be between 1 and 10")
	}
	if g.OutputDPI < 72 || g.OutputDPI > 1200 {
		return errors.New("output DPI must be between 72 and 1200")
	}
	if _, err := PageDims(g.PageSize); err != nil {
		return err
	}
	return nil
}

// Margins returns the page margins in layout units.
func (g Grid) Margins() layout.Margins {
	return layout.Margins{
		Top:    g.MarginTopMM,
		Bottom: g.MarginBottomMM,
		Left:   g.MarginLeftMM,
		Right:  g.MarginRightMM,
	}
}

// Geometry computes the grid geometry for this snapshot and an image count.
func (g Grid) Geometry(imageCount int) (layout.Geometry, error) {
	page, err := PageDims(g.PageSize)
	if err != nil {
		return layout.Geometry{}, err
	}
	return layout.Compute(page, g.Margins(), g.ColWidthMM, g.RowHeightMM, imageCount)
}

// RGB is a grid line color, persisted as a "#rrggbb" string.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *RGB) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHexColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseHexColor parses a "#rrggbb" string into an RGB value.
func ParseHexColor(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, fmt.Errorf("invalid color %q: expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
