package gallery

import (
	"context"
	"math"
	"testing"
)

func loadedGallery(t *testing.T, images, videos int) *Gallery {
	t.Helper()
	g := New(&fakeFetcher{items: makeItems(images, videos)}, "gallery", Options{PageSize: 10})
	if err := g.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return g
}

type fakePlayer struct {
	pauses int
}

func (p *fakePlayer) Pause() { p.pauses++ }

// TestModalWraparound tests circular navigation over the filtered list.
func TestModalWraparound(t *testing.T) {
	const m = 4
	g := loadedGallery(t, m, 0)
	v := NewViewer(g, nil)

	if !v.Open(m - 1) {
		t.Fatal("Open failed")
	}
	v.Next()
	if v.Index() != 0 {
		t.Errorf("next from last index = %d, want 0", v.Index())
	}
	v.Prev()
	if v.Index() != m-1 {
		t.Errorf("previous from 0 = %d, want %d", v.Index(), m-1)
	}

	// A full lap in either direction returns to the start.
	for i := 0; i < m; i++ {
		v.Next()
	}
	if v.Index() != m-1 {
		t.Errorf("full forward lap landed on %d, want %d", v.Index(), m-1)
	}
}

// TestModalNavigatesPastRevealed tests that navigation ranges over the
// whole filtered list, not just the revealed slice: from the last revealed
// tile, Next continues into the unrevealed remainder instead of wrapping.
func TestModalNavigatesPastRevealed(t *testing.T) {
	g := New(&fakeFetcher{items: makeItems(30, 0)}, "gallery", Options{PageSize: 12})
	if err := g.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if g.DisplayCount() != 12 {
		t.Fatalf("displayCount = %d, want 12", g.DisplayCount())
	}
	v := NewViewer(g, nil)

	if !v.Open(11) {
		t.Fatal("Open failed")
	}
	v.Next()
	if v.Index() != 12 {
		t.Errorf("next from last revealed tile = %d, want 12", v.Index())
	}
	v.Prev()
	v.Prev()
	if v.Index() != 10 {
		t.Errorf("index = %d, want 10", v.Index())
	}

	// Wraparound happens at the filtered length, not the revealed count.
	for v.Index() != 29 {
		v.Next()
	}
	v.Next()
	if v.Index() != 0 {
		t.Errorf("next from filtered end = %d, want 0", v.Index())
	}
}

// TestOpenClampsAndEmpty tests open behavior at the boundaries.
func TestOpenClampsAndEmpty(t *testing.T) {
	g := loadedGallery(t, 3, 0)
	v := NewViewer(g, nil)

	if !v.Open(99) {
		t.Fatal("Open with an out-of-range index should still open")
	}
	if v.Index() != 2 {
		t.Errorf("index = %d, want clamp to 2", v.Index())
	}
	v.Close()

	g.SetFilter(FilterVideo) // no videos fetched
	if v.Open(0) {
		t.Error("Open over an empty filtered list should fail")
	}
}

// TestZoomClamping tests that zoom stays within [0.5, 5] and reset is exact.
func TestZoomClamping(t *testing.T) {
	g := loadedGallery(t, 2, 0)
	v := NewViewer(g, nil)
	v.Open(0)

	for i := 0; i < 50; i++ {
		v.ZoomIn()
		if v.Zoom() > MaxZoom {
			t.Fatalf("zoom %f exceeded %f after %d steps", v.Zoom(), MaxZoom, i+1)
		}
	}
	if v.Zoom() != MaxZoom {
		t.Errorf("zoom = %f, want saturation at %f", v.Zoom(), MaxZoom)
	}

	for i := 0; i < 50; i++ {
		v.ZoomOut()
		if v.Zoom() < MinZoom {
			t.Fatalf("zoom %f dropped below %f after %d steps", v.Zoom(), MinZoom, i+1)
		}
	}
	if v.Zoom() != MinZoom {
		t.Errorf("zoom = %f, want saturation at %f", v.Zoom(), MinZoom)
	}

	v.ResetZoom()
	if v.Zoom() != 1 || v.CurrentPan() != (Pan{}) {
		t.Errorf("reset gave zoom=%f pan=%+v, want exactly zoom=1 pan={0,0}", v.Zoom(), v.CurrentPan())
	}
}

// TestZoomStepRatio tests the multiplicative 1.2 step.
func TestZoomStepRatio(t *testing.T) {
	g := loadedGallery(t, 1, 0)
	v := NewViewer(g, nil)
	v.Open(0)

	v.ZoomIn()
	if math.Abs(v.Zoom()-1.2) > 1e-9 {
		t.Errorf("one zoom-in from 1.0 = %f, want 1.2", v.Zoom())
	}
	v.ZoomOut()
	if math.Abs(v.Zoom()-1.0) > 1e-9 {
		t.Errorf("zoom-out back = %f, want 1.0", v.Zoom())
	}
}

// TestPanRequiresZoom tests that dragging has no effect at zoom 1 and
// accumulates relative to the drag origin when zoomed.
func TestPanRequiresZoom(t *testing.T) {
	g := loadedGallery(t, 2, 0)
	v := NewViewer(g, nil)
	v.Open(0)

	v.PointerDown(10, 10)
	v.PointerMove(50, 60)
	v.PointerUp()
	if v.CurrentPan() != (Pan{}) {
		t.Errorf("pan = %+v at zoom 1, want no effect", v.CurrentPan())
	}

	v.ZoomIn() // 1.2 > 1, panning allowed
	v.PointerDown(10, 10)
	v.PointerMove(50, 60)
	if got := v.CurrentPan(); got != (Pan{X: 40, Y: 50}) {
		t.Errorf("pan = %+v, want {40 50}", got)
	}
	v.PointerMove(15, 15)
	if got := v.CurrentPan(); got != (Pan{X: 5, Y: 5}) {
		t.Errorf("pan = %+v, want {5 5}", got)
	}
	v.PointerUp()

	// A second drag starts from the current offset.
	v.PointerDown(0, 0)
	v.PointerMove(-5, 10)
	if got := v.CurrentPan(); got != (Pan{X: 0, Y: 15}) {
		t.Errorf("pan = %+v, want {0 15}", got)
	}

	// Moves after pointer-up change nothing.
	v.PointerUp()
	before := v.CurrentPan()
	v.PointerMove(500, 500)
	if v.CurrentPan() != before {
		t.Error("pointer move after release should not pan")
	}
}

// TestNavigationResetsView tests that changing the index resets zoom, pan,
// and the playback flags unconditionally.
func TestNavigationResetsView(t *testing.T) {
	g := loadedGallery(t, 2, 1)
	v := NewViewer(g, nil)
	v.Open(0)

	v.ZoomIn()
	v.ZoomIn()
	v.PointerDown(0, 0)
	v.PointerMove(30, 30)
	v.ToggleFullscreen()

	v.Next()
	if v.Zoom() != 1 || v.CurrentPan() != (Pan{}) {
		t.Errorf("navigation kept zoom=%f pan=%+v", v.Zoom(), v.CurrentPan())
	}
	if v.IsFullscreen() || v.IsPlaying() || v.IsMuted() {
		t.Error("navigation should clear display and playback flags")
	}
}

// TestKeyboardContract tests the modal key map, including type gating.
func TestKeyboardContract(t *testing.T) {
	// Layout: indexes 0,1 are images, index 2 is a video.
	g := loadedGallery(t, 2, 1)
	v := NewViewer(g, nil)

	if v.HandleKey("ArrowRight") {
		t.Error("keys must be inert while the modal is closed")
	}

	v.Open(0)
	if !v.HandleKey("ArrowRight") || v.Index() != 1 {
		t.Errorf("ArrowRight: index = %d, want 1", v.Index())
	}
	if !v.HandleKey("ArrowLeft") || v.Index() != 0 {
		t.Errorf("ArrowLeft: index = %d, want 0", v.Index())
	}

	if !v.HandleKey("+") {
		t.Error("+ should zoom an image")
	}
	if v.HandleKey(" ") {
		t.Error("space should be inert on an image item")
	}
	if v.HandleKey("m") {
		t.Error("m should be inert on an image item")
	}
	if !v.HandleKey("0") || v.Zoom() != 1 {
		t.Errorf("0 should reset zoom, got %f", v.Zoom())
	}

	// Move onto the video item.
	v.Open(2)
	if v.HandleKey("+") || v.HandleKey("-") || v.HandleKey("0") {
		t.Error("zoom keys should be inert on a video item")
	}
	if !v.HandleKey(" ") || !v.IsPlaying() {
		t.Error("space should toggle play on a video item")
	}
	if !v.HandleKey("M") || !v.IsMuted() {
		t.Error("M should toggle mute on a video item")
	}

	if !v.HandleKey("Escape") || v.IsOpen() {
		t.Error("Escape should close the modal")
	}
	if v.HandleKey("x") {
		t.Error("unmapped keys should not be consumed")
	}
}

// TestCloseDiscardsState tests that nothing survives a close/reopen cycle.
func TestCloseDiscardsState(t *testing.T) {
	g := loadedGallery(t, 3, 0)
	v := NewViewer(g, nil)
	v.Open(2)
	v.ZoomIn()
	v.Close()

	if v.IsOpen() {
		t.Fatal("viewer should be closed")
	}
	if _, ok := v.Current(); ok {
		t.Error("Current should report nothing while closed")
	}

	v.Open(1)
	if v.Index() != 1 || v.Zoom() != 1 {
		t.Errorf("reopen carried state: index=%d zoom=%f", v.Index(), v.Zoom())
	}
}

// TestOpenPausesInlinePlayers tests that opening the modal pauses every
// registered grid player.
func TestOpenPausesInlinePlayers(t *testing.T) {
	g := loadedGallery(t, 1, 2)
	reg := NewPlayback()
	a, b := &fakePlayer{}, &fakePlayer{}
	reg.Register("vid0_1", a)
	reg.Register("vid1_2", b)

	v := NewViewer(g, reg)
	v.Open(0)

	if a.pauses != 1 || b.pauses != 1 {
		t.Errorf("pauses = %d/%d, want 1/1", a.pauses, b.pauses)
	}
}

// TestPauseAllExcept tests sibling exclusion in the playback registry.
func TestPauseAllExcept(t *testing.T) {
	reg := NewPlayback()
	a, b, c := &fakePlayer{}, &fakePlayer{}, &fakePlayer{}
	reg.Register("a", a)
	reg.Register("b", b)
	reg.Register("c", c)

	reg.PauseAllExcept("b")
	if a.pauses != 1 || b.pauses != 0 || c.pauses != 1 {
		t.Errorf("pauses = %d/%d/%d, want 1/0/1", a.pauses, b.pauses, c.pauses)
	}

	reg.Unregister("a")
	if reg.Len() != 2 {
		t.Errorf("len = %d, want 2", reg.Len())
	}
	reg.PauseAll()
	if a.pauses != 1 || b.pauses != 1 || c.pauses != 2 {
		t.Errorf("pauses = %d/%d/%d, want 1/1/2", a.pauses, b.pauses, c.pauses)
	}
}
