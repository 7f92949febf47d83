// Package gallery implements the media gallery state machine: a one-shot
// fetch of a collection's media list, client-side reveal pagination over
// the already-fetched array, type filtering, and the modal viewer.
package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// ItemType discriminates rendering and modal behavior for a media item.
type ItemType string

const (
	TypeImage ItemType = "image"
	TypeVideo ItemType = "video"
)

// MediaItem is one displayable asset from the content store. ID is stable
// but not guaranteed unique within a list; the source data can repeat it.
type MediaItem struct {
	URL  string   `json:"url"`
	ID   string   `json:"id"`
	Type ItemType `json:"type"`
}

// DisplayItem is a MediaItem paired with a list-rendering key. UniqueID
// encodes position, not identity: it must be recomputed whenever the
// backing slice changes and must never be used as a cache key.
type DisplayItem struct {
	MediaItem
	UniqueID string `json:"uniqueId"`
}

// Phase represents the gallery's lifecycle state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseError
	PhaseEmpty
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "Loading"
	case PhaseError:
		return "Error"
	case PhaseEmpty:
		return "Empty"
	case PhaseLoaded:
		return "Loaded"
	default:
		return "Unknown"
	}
}

// MarshalJSON serializes Phase as a lowercase string for JSON.
func (p Phase) MarshalJSON() ([]byte, error) {
	var str string
	switch p {
	case PhaseLoading:
		str = "loading"
	case PhaseError:
		str = "error"
	case PhaseEmpty:
		str = "empty"
	case PhaseLoaded:
		str = "loaded"
	default:
		str = "unknown"
	}
	return json.Marshal(str)
}

// Filter narrows the fetched list by item type before pagination.
type Filter string

const (
	FilterAll   Filter = "all"
	FilterImage Filter = "image"
	FilterVideo Filter = "video"
)

// Fetcher returns the full media list for a collection in one request.
// There is no server-side pagination on this path; pagination is a
// client-side reveal of already-downloaded items.
type Fetcher interface {
	FetchMedia(ctx context.Context, collection string) ([]MediaItem, error)
}

// DefaultPageSize is the initial and incremental reveal size.
const DefaultPageSize = 12

// Options tune a Gallery. Zero values select the defaults.
type Options struct {
	// PageSize is the initial reveal size and the load-more increment.
	PageSize int
	// RevealDelay is the artificial pause before revealing more items, so
	// the reveal does not feel instant. The data is already local; no
	// correctness depends on the duration. Zero disables it.
	RevealDelay time.Duration
}

// Gallery owns the fetched media list and all pagination and filter state.
// The modal viewer only reads from it. All methods are safe for concurrent
// use; the fetchingMore guard makes overlapping load-more triggers no-ops.
type Gallery struct {
	fetcher     Fetcher
	collection  string
	pageSize    int
	revealDelay time.Duration

	mu           sync.Mutex
	phase        Phase
	err          error
	retries      int
	items        []MediaItem
	filter       Filter
	displayCount int
	fetchingMore bool
}

// New creates a Gallery for the given collection key. Call Load before
// reading items.
func New(f Fetcher, collection string, opts Options) *Gallery {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Gallery{
		fetcher:     f,
		collection:  collection,
		pageSize:    opts.PageSize,
		revealDelay: opts.RevealDelay,
		phase:       PhaseLoading,
		filter:      FilterAll,
	}
}

// Load fetches the full media list and settles the gallery into the
// Loaded, Empty, or Error phase. A failure discards any previously loaded
// list for this gallery.
func (g *Gallery) Load(ctx context.Context) error {
	items, err := g.fetcher.FetchMedia(ctx, g.collection)

	g.mu.Lock()
	defer g.mu.Unlock()

	if err != nil {
		g.items = nil
		g.displayCount = 0
		g.phase = PhaseError
		g.err = fmt.Errorf("fetching media for %q: %w", g.collection, err)
		return g.err
	}

	g.err = nil
	g.settleLocked(items)
	return nil
}

// LoadItems installs an already-fetched media list and settles the gallery
// into the Loaded or Empty phase without touching the fetcher. Used when
// the caller already holds the collection document.
func (g *Gallery) LoadItems(items []MediaItem) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = nil
	g.settleLocked(items)
}

func (g *Gallery) settleLocked(items []MediaItem) {
	g.items = items
	if len(items) == 0 {
		g.phase = PhaseEmpty
		g.displayCount = 0
		return
	}
	g.phase = PhaseLoaded
	g.displayCount = min(g.pageSize, len(g.filteredLocked()))
}

// Retry re-issues the same fetch and bumps the retry counter. The counter
// is diagnostic only; retries are operator-initiated, never automatic.
func (g *Gallery) Retry(ctx context.Context) error {
	g.mu.Lock()
	g.retries++
	g.mu.Unlock()
	return g.Load(ctx)
}

// SetFilter narrows the already-fetched list and resets the visible count
// to the initial page size, clamped to the new filtered length. It never
// triggers a fetch.
func (g *Gallery) SetFilter(f Filter) {
	if f != FilterImage && f != FilterVideo {
		f = FilterAll
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filter = f
	g.displayCount = min(g.pageSize, len(g.filteredLocked()))
}

// SetDisplayCount restores a reveal position, clamped to the filtered
// length. Used when pagination state round-trips through the client.
func (g *Gallery) SetDisplayCount(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n < 0 {
		n = 0
	}
	g.displayCount = min(n, len(g.filteredLocked()))
}

// LoadMore reveals the next page of already-fetched items after the
// configured delay. It reports whether a reveal happened; triggers while a
// reveal is in flight, or with nothing left to reveal, are no-ops.
func (g *Gallery) LoadMore() bool {
	g.mu.Lock()
	if g.phase != PhaseLoaded || g.fetchingMore || g.displayCount >= len(g.filteredLocked()) {
		g.mu.Unlock()
		return false
	}
	g.fetchingMore = true
	delay := g.revealDelay
	g.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	// A filter change may have raced the delay; recompute against the
	// current filtered length. Last writer wins.
	g.mu.Lock()
	g.displayCount = min(g.displayCount+g.pageSize, len(g.filteredLocked()))
	g.fetchingMore = false
	g.mu.Unlock()
	return true
}

// Filtered returns the fetched list narrowed by the current filter. The
// slice is computed fresh on every call; callers must not mutate items.
func (g *Gallery) Filtered() []MediaItem {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filteredLocked()
}

func (g *Gallery) filteredLocked() []MediaItem {
	if g.filter == FilterAll {
		out := make([]MediaItem, len(g.items))
		copy(out, g.items)
		return out
	}
	var out []MediaItem
	for _, it := range g.items {
		if string(it.Type) == string(g.filter) {
			out = append(out, it)
		}
	}
	return out
}

// Visible returns the currently revealed leading slice of the filtered
// list, with position-derived rendering keys.
func (g *Gallery) Visible() []DisplayItem {
	g.mu.Lock()
	defer g.mu.Unlock()
	filtered := g.filteredLocked()
	n := min(g.displayCount, len(filtered))
	out := make([]DisplayItem, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, DisplayItem{
			MediaItem: filtered[i],
			UniqueID:  fmt.Sprintf("%s_%d", filtered[i].ID, i),
		})
	}
	return out
}

// HasMore reports whether more filtered items remain to reveal.
func (g *Gallery) HasMore() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.displayCount < len(g.filteredLocked())
}

// Phase returns the gallery's current lifecycle phase.
func (g *Gallery) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Err returns the error from the last failed fetch, if any.
func (g *Gallery) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Retries returns how many manual retries have been issued.
func (g *Gallery) Retries() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.retries
}

// DisplayCount returns how many filtered items are currently revealed.
func (g *Gallery) DisplayCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.displayCount
}

// Filter returns the active type filter.
func (g *Gallery) Filter() Filter {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filter
}
