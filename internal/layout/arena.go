package layout

import "fmt"

// Handle is a stable reference to a Target. It stays comparable after the
// target is destroyed; lookups then fail because the generation moved on.
type Handle struct {
	slot uint32
	gen  uint32
}

// Valid reports whether h was ever issued. It says nothing about liveness.
func (h Handle) Valid() bool { return h.gen != 0 }

func (h Handle) String() string { return fmt.Sprintf("%d#%d", h.slot, h.gen) }

type arenaEntry struct {
	gen    uint32
	target *Target
}

// Arena owns every Target. Spaces, strategies and the drag controller hold
// Handles and resolve them here.
type Arena struct {
	entries []arenaEntry
	free    []uint32
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) alloc(t *Target) Handle {
	var slot uint32
	if n := len(a.free); n > 0 {
		slot = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		slot = uint32(len(a.entries))
		a.entries = append(a.entries, arenaEntry{})
	}
	e := &a.entries[slot]
	e.gen++
	e.target = t
	h := Handle{slot: slot, gen: e.gen}
	t.handle = h
	t.arena = a
	return h
}

// NewTarget creates a target for a mapped window.
func (a *Arena) NewTarget(w Window) *Target {
	t := &Target{window: w}
	a.alloc(t)
	return t
}

// NewGroup creates a group target that takes over first's layout slot. The
// member becomes a ghost of the group and no longer takes part in placement.
func (a *Arena) NewGroup(first *Target) *Target {
	g := &Target{}
	g.group = &Group{owner: g}
	a.alloc(g)
	g.box = first.box
	g.floating = first.floating
	g.lastFloatingSize = first.lastFloatingSize
	g.fullscreen = first.fullscreen
	g.placed = true
	if sp := first.space; sp != nil {
		sp.replaceTarget(first, g)
	}
	g.group.add(first)
	return g
}

// Get resolves h. It fails for released or reused slots.
func (a *Arena) Get(h Handle) (*Target, bool) {
	if !h.Valid() || int(h.slot) >= len(a.entries) {
		return nil, false
	}
	e := a.entries[h.slot]
	if e.gen != h.gen || e.target == nil {
		return nil, false
	}
	return e.target, true
}

// Release destroys the target behind h. Outstanding handles go stale.
func (a *Arena) Release(h Handle) {
	if _, ok := a.Get(h); !ok {
		return
	}
	e := &a.entries[h.slot]
	e.target.destroyed = true
	e.target = nil
	a.free = append(a.free, h.slot)
}

// Len returns the number of live targets.
func (a *Arena) Len() int {
	return len(a.entries) - len(a.free)
}

// Resolve maps handles to live targets, skipping stale ones.
func (a *Arena) Resolve(handles []Handle) []*Target {
	out := make([]*Target, 0, len(handles))
	for _, h := range handles {
		if t, ok := a.Get(h); ok {
			out = append(out, t)
		}
	}
	return out
}
