// Package assets serves the site's local media: an asset source (disk in
// development, object storage in production) and a width-constrained
// thumbnailer for site-relative image URLs.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the source.
var ErrNotFound = errors.New("asset not found")

// Source yields the raw bytes for an asset key.
type Source interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// DiskSource reads assets from a directory tree.
type DiskSource struct {
	root string
}

// NewDiskSource serves assets rooted at dir.
func NewDiskSource(dir string) *DiskSource {
	return &DiskSource{root: dir}
}

// Open returns the file for key. Keys are slash-separated relative paths;
// anything escaping the root is rejected.
func (d *DiskSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	clean := filepath.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	path := filepath.Join(d.root, filepath.FromSlash(clean))

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("opening asset %s: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return f, nil
}
