package settings

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/gridsheet/internal/layout"
)

//go:embed pagesizes.yaml
var pageSizesYAML []byte

type pageCatalog struct {
	Sizes map[string]pageEntry `yaml:"sizes"`
}

type pageEntry struct {
	WidthMM  float64 `yaml:"width_mm"`
	HeightMM float64 `yaml:"height_mm"`
}

var catalog pageCatalog

func init() {
	// This is an embedded file so this error should never happen in practice.
	if err := yaml.Unmarshal(pageSizesYAML, &catalog); err != nil {
		panic("failed to unmarshal embedded pagesizes.yaml: " + err.Error())
	}
}

// PageDims resolves a page size tag (e.g. "A4") to physical dimensions.
func PageDims(tag string) (layout.Page, error) {
	entry, ok := catalog.Sizes[tag]
	if !ok {
		return layout.Page{}, fmt.Errorf("unknown page size %q", tag)
	}
	return layout.Page{W: entry.WidthMM, H: entry.HeightMM}, nil
}

// PageTags returns the known page size tags in sorted order.
func PageTags() []string {
	tags := make([]string, 0, len(catalog.Sizes))
	for tag := range catalog.Sizes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
