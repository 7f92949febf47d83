package gallery

import "math"

// Zoom bounds and the multiplicative step applied per zoom action.
const (
	MinZoom  = 0.5
	MaxZoom  = 5.0
	ZoomStep = 1.2
)

// Pan is a pixel offset applied to the zoomed image. It is only
// meaningful while zoom > 1.
type Pan struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewer is the full-screen modal over a gallery's filtered list. It is
// created on tile click, mutated by keyboard and pointer handlers, and
// discards all state on close. The viewer only reads the gallery; every
// index refers to the filtered list, never the raw fetched array.
//
// Like the UI event loop it models, a Viewer is driven from a single
// goroutine and is not synchronized.
type Viewer struct {
	gallery  *Gallery
	registry *Playback

	open       bool
	index      int
	zoom       float64
	pan        Pan
	dragging   bool
	dragStart  Pan // pointer position when the drag began
	panStart   Pan // pan offset when the drag began
	playing    bool
	muted      bool
	fullscreen bool
}

// NewViewer creates a closed viewer over the gallery. registry may be nil
// when no inline players exist.
func NewViewer(g *Gallery, registry *Playback) *Viewer {
	return &Viewer{gallery: g, registry: registry, zoom: 1}
}

// Open opens the modal at the clicked tile's position in the filtered
// list and pauses any inline grid players. It reports whether the modal
// opened; an empty filtered list cannot be opened.
func (v *Viewer) Open(index int) bool {
	items := v.gallery.Filtered()
	if len(items) == 0 {
		return false
	}
	if index < 0 {
		index = 0
	}
	if index >= len(items) {
		index = len(items) - 1
	}
	v.open = true
	v.index = index
	v.resetView()
	if v.registry != nil {
		v.registry.PauseAll()
	}
	return true
}

// Close discards the entire viewer state. Nothing survives a close/reopen
// cycle except what is recomputed from the gallery.
func (v *Viewer) Close() {
	v.open = false
	v.index = 0
	v.resetView()
}

// IsOpen reports whether the modal is open.
func (v *Viewer) IsOpen() bool { return v.open }

// Index returns the current position in the filtered list.
func (v *Viewer) Index() int { return v.index }

// Current returns the item under the viewer, if the modal is open and the
// filtered list is non-empty.
func (v *Viewer) Current() (MediaItem, bool) {
	if !v.open {
		return MediaItem{}, false
	}
	items := v.gallery.Filtered()
	if len(items) == 0 || v.index >= len(items) {
		return MediaItem{}, false
	}
	return items[v.index], true
}

// Next advances circularly through the filtered list.
func (v *Viewer) Next() { v.navigate(1) }

// Prev steps back circularly through the filtered list.
func (v *Viewer) Prev() { v.navigate(-1) }

func (v *Viewer) navigate(delta int) {
	if !v.open {
		return
	}
	n := len(v.gallery.Filtered())
	if n == 0 {
		return
	}
	v.index = ((v.index+delta)%n + n) % n
	// Navigation resets zoom, pan, and playback flags unconditionally.
	v.resetView()
}

func (v *Viewer) resetView() {
	v.zoom = 1
	v.pan = Pan{}
	v.dragging = false
	v.playing = false
	v.muted = false
	v.fullscreen = false
}

// Zoom returns the current zoom factor.
func (v *Viewer) Zoom() float64 { return v.zoom }

// CurrentPan returns the current pan offset.
func (v *Viewer) CurrentPan() Pan { return v.pan }

// ZoomIn multiplies the zoom by one step, clamped to MaxZoom. Zoom only
// applies to image items.
func (v *Viewer) ZoomIn() {
	if !v.isImage() {
		return
	}
	v.zoom = math.Min(v.zoom*ZoomStep, MaxZoom)
}

// ZoomOut divides the zoom by one step, clamped to MinZoom. Dropping back
// to 1 or below clears the pan offset.
func (v *Viewer) ZoomOut() {
	if !v.isImage() {
		return
	}
	v.zoom = math.Max(v.zoom/ZoomStep, MinZoom)
	if v.zoom <= 1 {
		v.pan = Pan{}
	}
}

// ResetZoom returns the view to exactly {zoom: 1, pan: {0,0}}.
func (v *Viewer) ResetZoom() {
	if !v.isImage() {
		return
	}
	v.zoom = 1
	v.pan = Pan{}
	v.dragging = false
}

// PointerDown begins a pan drag, capturing the drag origin relative to the
// current offset. Dragging has no effect unless zoomed past 1.
func (v *Viewer) PointerDown(x, y float64) {
	if !v.open || v.zoom <= 1 {
		return
	}
	v.dragging = true
	v.dragStart = Pan{X: x, Y: y}
	v.panStart = v.pan
}

// PointerMove updates the pan continuously while a drag is active.
func (v *Viewer) PointerMove(x, y float64) {
	if !v.dragging {
		return
	}
	v.pan = Pan{
		X: v.panStart.X + x - v.dragStart.X,
		Y: v.panStart.Y + y - v.dragStart.Y,
	}
}

// PointerUp ends the drag.
func (v *Viewer) PointerUp() {
	v.dragging = false
}

// IsPlaying reports whether the current video item is playing.
func (v *Viewer) IsPlaying() bool { return v.playing }

// IsMuted reports whether the current video item is muted.
func (v *Viewer) IsMuted() bool { return v.muted }

// IsFullscreen reports whether the viewer is in fullscreen mode.
func (v *Viewer) IsFullscreen() bool { return v.fullscreen }

// TogglePlay flips playback for video items; inert for images.
func (v *Viewer) TogglePlay() {
	if !v.isVideo() {
		return
	}
	v.playing = !v.playing
	if v.playing && v.registry != nil {
		v.registry.PauseAll()
	}
}

// ToggleMute flips mute for video items; inert for images.
func (v *Viewer) ToggleMute() {
	if !v.isVideo() {
		return
	}
	v.muted = !v.muted
}

// ToggleFullscreen flips the fullscreen flag.
func (v *Viewer) ToggleFullscreen() {
	if !v.open {
		return
	}
	v.fullscreen = !v.fullscreen
}

// HandleKey applies the modal keyboard contract and reports whether the
// key was consumed. Keys are inert while the modal is closed. Zoom keys
// only act on image items; play and mute only on videos.
func (v *Viewer) HandleKey(key string) bool {
	if !v.open {
		return false
	}
	switch key {
	case "Escape":
		v.Close()
	case "ArrowLeft":
		v.Prev()
	case "ArrowRight":
		v.Next()
	case " ", "Space":
		if !v.isVideo() {
			return false
		}
		v.TogglePlay()
	case "m", "M":
		if !v.isVideo() {
			return false
		}
		v.ToggleMute()
	case "+", "=":
		if !v.isImage() {
			return false
		}
		v.ZoomIn()
	case "-":
		if !v.isImage() {
			return false
		}
		v.ZoomOut()
	case "0":
		if !v.isImage() {
			return false
		}
		v.ResetZoom()
	default:
		return false
	}
	return true
}

func (v *Viewer) isImage() bool {
	item, ok := v.Current()
	return ok && item.Type == TypeImage
}

func (v *Viewer) isVideo() bool {
	item, ok := v.Current()
	return ok && item.Type == TypeVideo
}
