package pixelterm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ImageEntry identifies one image in the browse list. Background
// renders are handed the entry itself, never a live list index, so a
// foreground delete cannot change what they render.
type ImageEntry struct {
	Path  string
	Index int
}

func (e ImageEntry) Name() string { return filepath.Base(e.Path) }

// imageExtensions is the set of file extensions treated as browsable
// images. Matching is case-insensitive.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
}

// IsImagePath reports whether the path's extension marks it as an image.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Scan builds the ordered browse list for a path. A directory yields
// its images; a file yields its parent directory's images with the
// start index positioned on that file. An optional glob pattern
// narrows the listing by file name. Entries come back sorted by file
// name (os.ReadDir guarantees the order).
func Scan(path, pattern string) ([]ImageEntry, int, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, 0, err
	}

	dir := abs
	focus := ""
	if !info.IsDir() {
		if !IsImagePath(abs) {
			return nil, 0, fmt.Errorf("%s: %w", abs, ErrNotImage)
		}
		dir = filepath.Dir(abs)
		focus = abs
	}

	var matcher glob.Glob
	if pattern != "" {
		matcher, err = glob.Compile(pattern)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pattern %q: %w", pattern, err)
		}
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, err
	}

	var entries []ImageEntry
	start := 0
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if !IsImagePath(name) {
			continue
		}
		if matcher != nil && !matcher.Match(name) {
			continue
		}
		full := filepath.Join(dir, name)
		if full == focus {
			start = len(entries)
		}
		entries = append(entries, ImageEntry{Path: full, Index: len(entries)})
	}

	if len(entries) == 0 {
		return nil, 0, fmt.Errorf("%s: %w", dir, ErrNoImages)
	}
	return entries, start, nil
}
