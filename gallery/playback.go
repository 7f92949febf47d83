package gallery

import "sync"

// Player is a playable media handle that can be paused. Inline grid
// videos and the modal's video register themselves here.
type Player interface {
	Pause()
}

// Playback is the owned registry of active playable handles. At most one
// handle should be audible at a time; callers enforce that by pausing all
// siblings whenever one starts.
type Playback struct {
	mu      sync.Mutex
	players map[string]Player
}

// NewPlayback returns an empty registry.
func NewPlayback() *Playback {
	return &Playback{players: make(map[string]Player)}
}

// Register adds or replaces the handle for id.
func (p *Playback) Register(id string, player Player) {
	if player == nil {
		return
	}
	p.mu.Lock()
	p.players[id] = player
	p.mu.Unlock()
}

// Unregister removes the handle for id, if present.
func (p *Playback) Unregister(id string) {
	p.mu.Lock()
	delete(p.players, id)
	p.mu.Unlock()
}

// PauseAllExcept pauses every registered handle except the named one.
func (p *Playback) PauseAllExcept(id string) {
	p.mu.Lock()
	paused := make([]Player, 0, len(p.players))
	for pid, player := range p.players {
		if pid != id {
			paused = append(paused, player)
		}
	}
	p.mu.Unlock()

	// Pause outside the lock; a handle's Pause may call back into the registry.
	for _, player := range paused {
		player.Pause()
	}
}

// PauseAll pauses every registered handle.
func (p *Playback) PauseAll() {
	p.PauseAllExcept("")
}

// Len returns the number of registered handles.
func (p *Playback) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.players)
}
