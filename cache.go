package ifedit

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bodgit/ifedit/feature"
	"github.com/bodgit/ifedit/frm"
)

// ErrOutsideData is returned for image references that are absolute or
// climb out of the data directory
var ErrOutsideData = errors.New("image path is outside the data directory")

// ImageCache holds decoded frame containers keyed by image reference so
// each container is decoded at most once
type ImageCache struct {
	dir     string
	entries map[feature.ImageRef]*frm.Container
}

// NewImageCache returns an empty cache resolving paths relative to dir
func NewImageCache(dir string) *ImageCache {
	return &ImageCache{
		dir:     dir,
		entries: make(map[feature.ImageRef]*frm.Container),
	}
}

// Path returns the file that ref refers to. Either slash may be used as the
// path separator.
func (c *ImageCache) Path(ref feature.ImageRef) (string, error) {
	p := filepath.FromSlash(strings.ReplaceAll(ref.Path, "\\", "/"))
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: %s", ErrOutsideData, ref.Path)
	}
	return filepath.Join(c.dir, p), nil
}

// Get returns the container for ref, decoding it if it is not cached. A
// missing file results in an empty container.
func (c *ImageCache) Get(ref feature.ImageRef) (*frm.Container, error) {
	if fc, ok := c.entries[ref]; ok {
		return fc, nil
	}
	name, err := c.Path(ref)
	if err != nil {
		return nil, err
	}
	fc, err := frm.ReadFile(name)
	if err != nil {
		return nil, err
	}
	c.entries[ref] = fc
	return fc, nil
}

// Cached reports whether ref has already been decoded
func (c *ImageCache) Cached(ref feature.ImageRef) bool {
	_, ok := c.entries[ref]
	return ok
}

// Invalidate forgets any decoded container for ref
func (c *ImageCache) Invalidate(ref feature.ImageRef) {
	delete(c.entries, ref)
}

// Len returns the number of cached containers
func (c *ImageCache) Len() int {
	return len(c.entries)
}
