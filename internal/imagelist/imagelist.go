// Package imagelist maintains the ordered list of source images. Order is
// significant: it determines grid placement. The list is owned by the
// surrounding layer (CLI or web panel); render and thumbnail workers only
// ever see snapshot copies.
package imagelist

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/maruel/natural"
	"golang.org/x/text/unicode/norm"
)

var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".gif":  true,
}

// IsSupported reports whether the path carries a supported raster extension.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// List is a mutable ordered collection of image paths, safe for concurrent
// use.
type List struct {
	mu    sync.RWMutex
	paths []string
}

func New() *List {
	return &List{}
}

// Add appends image files to the list. Directory entries expand
// non-recursively to their supported files in natural order; explicitly
// named files must exist and carry a supported extension. Returns the number
// of images added; on error the entries processed so far stay in the list.
func (l *List) Add(entries ...string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := 0
	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil {
			return added, fmt.Errorf("failed to read %s: %w", entry, err)
		}
		if info.IsDir() {
			files, err := scanDir(entry)
			if err != nil {
				return added, err
			}
			l.paths = append(l.paths, files...)
			added += len(files)
			continue
		}
		if !IsSupported(entry) {
			return added, fmt.Errorf("unsupported image format: %s", entry)
		}
		l.paths = append(l.paths, entry)
		added++
	}
	return added, nil
}

// scanDir lists the supported image files directly inside dir, in natural
// order (img2 before img10).
func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsSupported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Slice(files, func(i, j int) bool {
		return natural.Less(sortKey(files[i]), sortKey(files[j]))
	})
	return files, nil
}

// sortKey is the NFC-normalized path, so composed and decomposed spellings
// of the same name order together.
func sortKey(path string) string {
	return norm.NFC.String(path)
}

// Paths returns a snapshot copy of the list in order.
func (l *List) Paths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.paths...)
}

// Len returns the number of images in the list.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.paths)
}

// Clear removes all entries.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = nil
}

// Remove deletes the entry at index i.
func (l *List) Remove(i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.paths) {
		return fmt.Errorf("index %d out of range (%d images)", i, len(l.paths))
	}
	l.paths = append(l.paths[:i], l.paths[i+1:]...)
	return nil
}

// Move relocates the entry at index from to index to, shifting the entries
// between them.
func (l *List) Move(from, to int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.paths)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d -> %d out of range (%d images)", from, to, n)
	}
	if from == to {
		return nil
	}
	p := l.paths[from]
	l.paths = append(l.paths[:from], l.paths[from+1:]...)
	l.paths = append(l.paths[:to], append([]string{p}, l.paths[to:]...)...)
	return nil
}

// SetOrder replaces the list order with the given permutation of the current
// paths. The new order must contain exactly the current entries.
func (l *List) SetOrder(paths []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(paths) != len(l.paths) {
		return fmt.Errorf("order has %d entries, list has %d", len(paths), len(l.paths))
	}
	counts := make(map[string]int, len(l.paths))
	for _, p := range l.paths {
		counts[p]++
	}
	for _, p := range paths {
		counts[p]--
		if counts[p] < 0 {
			return fmt.Errorf("order contains unknown path %s", p)
		}
	}
	l.paths = append([]string(nil), paths...)
	return nil
}
