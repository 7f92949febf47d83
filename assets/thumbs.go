package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"path"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"

	"github.com/atlasgroupe/siteserv/imgopt"
)

// MaxRenderWidth bounds the width a request can ask for.
const MaxRenderWidth = 2400

// Thumbnailer produces width-constrained JPEG renditions of source
// assets. Site-relative image URLs carry a "w" hint from the URL
// optimizer's local bypass; this is where that hint is honored.
type Thumbnailer struct {
	source Source
}

// NewThumbnailer wraps an asset source.
func NewThumbnailer(source Source) *Thumbnailer {
	return &Thumbnailer{source: source}
}

// Source exposes the wrapped asset source for untransformed delivery.
func (t *Thumbnailer) Source() Source {
	return t.source
}

// IsImagePath reports whether key names a raster or vector image the
// thumbnailer knows how to serve.
func IsImagePath(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg":
		return true
	}
	return false
}

// Render returns the asset bytes and content type for key, downscaled to
// at most width pixels wide. Vector images pass through untouched; raster
// images are never upscaled. width <= 0 serves the original dimensions.
func (t *Thumbnailer) Render(ctx context.Context, key string, width int) ([]byte, string, error) {
	rc, err := t.source.Open(ctx, key)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	if strings.EqualFold(path.Ext(key), ".svg") {
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", key, err)
		}
		return data, "image/svg+xml", nil
	}

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", key, err)
	}

	if width > MaxRenderWidth {
		width = MaxRenderWidth
	}
	if width > 0 && img.Bounds().Dx() > width {
		img = resize.Resize(uint(width), 0, img, resize.Lanczos3)
	}

	quality := imgopt.EffectiveQuality(width, imgopt.DefaultQuality)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("encoding %s: %w", key, err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
