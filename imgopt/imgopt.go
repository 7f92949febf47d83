// Package imgopt rewrites arbitrary image source URLs into the delivery
// CDN's transform-query scheme. The mapping is pure string work: no I/O,
// no lookups, and no failure mode that propagates to the caller.
package imgopt

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Config holds the delivery endpoint and the recognized storage origins.
// The provider list is a closed enumeration; unrecognized hosts fall back
// to being treated as keys under the configured account.
type Config struct {
	// Endpoint is the optimizer base URL, e.g. "https://ik.imagekit.io".
	Endpoint string `json:"endpoint"`
	// Account is the account segment appended to Endpoint.
	Account string `json:"account"`
	// StorageHost is the generic object-storage API host whose URLs carry
	// the encoded object key after an "/o/" path marker.
	StorageHost string `json:"storageHost"`
	// CustomDomain is the production storage domain, matched with or
	// without a "cdn." subdomain prefix.
	CustomDomain string `json:"customDomain"`
	// DevDomain is the development fallback storage domain.
	DevDomain string `json:"devDomain"`
	// CacheSeconds is the cache-control hint attached to rewritten URLs.
	CacheSeconds int `json:"cacheSeconds"`
}

// DefaultQuality is used when a caller does not request a quality.
const DefaultQuality = 80

// DefaultConfig returns the configuration used when no overrides are set.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = "https://ik.imagekit.io"
	}
	if c.Account == "" {
		c.Account = "atlasgroupe"
	}
	if c.StorageHost == "" {
		c.StorageHost = "firebasestorage.googleapis.com"
	}
	if c.CustomDomain == "" {
		c.CustomDomain = "media.atlasgroupe.com"
	}
	if c.DevDomain == "" {
		c.DevDomain = "atlasgroupe-dev.appspot.com"
	}
	if c.CacheSeconds <= 0 {
		c.CacheSeconds = 2592000 // 30 days
	}
	return c
}

// Optimizer builds delivery URLs for a fixed account. Construct one at
// startup and share it; all methods are safe for concurrent use.
type Optimizer struct {
	cfg  Config
	base string // endpoint + "/" + account
	host string // endpoint host, for re-optimization detection
}

// New returns an Optimizer for the given config, filling in defaults for
// any zero fields.
func New(cfg Config) *Optimizer {
	cfg = cfg.withDefaults()
	o := &Optimizer{
		cfg:  cfg,
		base: strings.TrimRight(cfg.Endpoint, "/") + "/" + strings.Trim(cfg.Account, "/"),
	}
	if u, err := url.Parse(cfg.Endpoint); err == nil && u.Host != "" {
		o.host = u.Host
	} else {
		o.host = strings.TrimRight(strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://"), "/")
	}
	return o
}

// EffectiveQuality applies the size-tiered quality cap. Smaller rendered
// widths tolerate heavier compression, so the ceiling drops as width
// shrinks. The cap is a ceiling, never a floor: the caller's requested
// quality is returned unchanged when it is already below the tier cap.
func EffectiveQuality(width, quality int) int {
	var ceiling int
	switch {
	case width > 1200:
		ceiling = 85
	case width > 800:
		ceiling = 80
	case width > 400:
		ceiling = 75
	default:
		ceiling = 70
	}
	if quality < ceiling {
		return quality
	}
	return ceiling
}

// Optimize maps src to a delivery URL for the given rendered width and
// requested quality. Rule order matters: SVG and site-relative checks must
// run before any host matching, otherwise a local path could be mistaken
// for a storage key. Malformed input degrades to a best-effort passthrough;
// Optimize never fails.
func (o *Optimizer) Optimize(src string, width, quality int) string {
	if src == "" {
		return src
	}
	if quality <= 0 {
		quality = DefaultQuality
	}

	// Vector images are never transcoded; only a display width hint is added.
	if isSVG(src) {
		return appendWidthParam(src, width)
	}

	// Site-relative assets are served locally and bypass the CDN entirely.
	if strings.HasPrefix(src, "/") {
		return appendWidthParam(src, width)
	}

	eq := EffectiveQuality(width, quality)
	flags := o.transformFlags(width, eq)

	// Already on the delivery host: replace the transform in place so
	// repeated optimization stays idempotent.
	if strings.Contains(src, o.host) {
		return o.reoptimize(src, width, eq)
	}

	// Generic object-storage API URL: the encoded key follows "/o/".
	if strings.Contains(src, o.cfg.StorageHost) {
		if key, ok := storageAPIKey(src); ok {
			// alt=media keeps the origin's passthrough semantics intact.
			return fmt.Sprintf("%s/%s?alt=media&tr=w-%d,%s", o.base, key, width, flags)
		}
	}

	// Production custom domain, with or without a cdn. prefix, carries the
	// key directly after the domain. Checked before the dev fallback.
	if key, ok := domainKey(src, o.cfg.CustomDomain); ok {
		return fmt.Sprintf("%s/%s?tr=w-%d,%s", o.base, key, width, flags)
	}
	if key, ok := domainKey(src, o.cfg.DevDomain); ok {
		return fmt.Sprintf("%s/%s?tr=w-%d,%s", o.base, key, width, flags)
	}

	// Unrecognized host: treat src as a key under the account. This arm
	// guarantees termination with some usable URL.
	return fmt.Sprintf("%s/%s?tr=w-%d,%s", o.base, strings.TrimPrefix(src, "/"), width, flags)
}

// transformFlags builds the comma-joined flag list: target format, a
// progressive-rendering hint for large renditions, quality, and the
// cache-control hint. Empty segments are dropped.
func (o *Optimizer) transformFlags(width, quality int) string {
	parts := make([]string, 0, 4)
	parts = append(parts, "f-webp")
	if width > 800 {
		parts = append(parts, "pr-true")
	}
	parts = append(parts, "q-"+strconv.Itoa(quality))
	parts = append(parts, "c-maxage-"+strconv.Itoa(o.cfg.CacheSeconds))
	return strings.Join(parts, ",")
}

// reoptimize replaces the transform parameter on a URL that already points
// at the delivery host. The tr parameter is set, not appended, so a second
// pass reflects only the latest width and quality. The query is assembled
// by hand because Values.Encode would percent-escape the commas inside tr,
// and the transform grammar wants them literal.
func (o *Optimizer) reoptimize(src string, width, quality int) string {
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	q := u.Query()
	q.Del("tr")
	q.Del("ik-cache")
	raw := q.Encode()
	if raw != "" {
		raw += "&"
	}
	u.RawQuery = raw + fmt.Sprintf("tr=w-%d,q-%d,f-webp&ik-cache=%d", width, quality, o.cfg.CacheSeconds)
	return u.String()
}

// storageAPIKey extracts the decoded object key from a storage API URL of
// the form ".../o/<url-encoded-key>?...".
func storageAPIKey(src string) (string, bool) {
	i := strings.Index(src, "/o/")
	if i < 0 {
		return "", false
	}
	key := src[i+len("/o/"):]
	if j := strings.IndexByte(key, '?'); j >= 0 {
		key = key[:j]
	}
	if key == "" {
		return "", false
	}
	if decoded, err := url.PathUnescape(key); err == nil {
		key = decoded
	}
	return key, true
}

// domainKey extracts the storage key that directly follows the given
// domain in src.
func domainKey(src, domain string) (string, bool) {
	if domain == "" {
		return "", false
	}
	i := strings.Index(src, domain)
	if i < 0 {
		return "", false
	}
	key := strings.TrimPrefix(src[i+len(domain):], "/")
	if j := strings.IndexByte(key, '?'); j >= 0 {
		key = key[:j]
	}
	if key == "" {
		return "", false
	}
	return key, true
}

// isSVG reports whether src names a vector image, ignoring any query string.
func isSVG(src string) bool {
	if j := strings.IndexByte(src, '?'); j >= 0 {
		src = src[:j]
	}
	return strings.HasSuffix(strings.ToLower(src), ".svg")
}

// appendWidthParam adds a display width hint, preserving any existing
// query string.
func appendWidthParam(src string, width int) string {
	sep := "?"
	if strings.Contains(src, "?") {
		sep = "&"
	}
	return src + sep + "w=" + strconv.Itoa(width)
}
