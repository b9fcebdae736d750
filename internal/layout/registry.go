package layout

import (
	"sort"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
)

// TiledFactory builds a tiled strategy bound to space.
type TiledFactory func(space *Space) TiledStrategy

// FloatingFactory builds a floating strategy bound to space.
type FloatingFactory func(space *Space) FloatingStrategy

// Registry maps strategy names to factories. Third party strategies register
// here next to the built in ones.
type Registry struct {
	tiled    map[string]TiledFactory
	floating map[string]FloatingFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tiled:    make(map[string]TiledFactory),
		floating: make(map[string]FloatingFactory),
	}
}

// RegisterTiled adds a tiled strategy. Names are unique.
func (r *Registry) RegisterTiled(name string, f TiledFactory) error {
	if _, ok := r.tiled[name]; ok {
		return tserrors.New(tserrors.ErrCodeInvalidArgument, "tiled strategy %q already registered", name)
	}
	r.tiled[name] = f
	return nil
}

// RegisterFloating adds a floating strategy. Names are unique.
func (r *Registry) RegisterFloating(name string, f FloatingFactory) error {
	if _, ok := r.floating[name]; ok {
		return tserrors.New(tserrors.ErrCodeInvalidArgument, "floating strategy %q already registered", name)
	}
	r.floating[name] = f
	return nil
}

func (r *Registry) newTiled(name string, s *Space) (TiledStrategy, error) {
	f, ok := r.tiled[name]
	if !ok {
		return nil, tserrors.New(tserrors.ErrCodeUnknownStrategy, "unknown tiled strategy %q", name)
	}
	return f(s), nil
}

func (r *Registry) newFloating(name string, s *Space) (FloatingStrategy, error) {
	f, ok := r.floating[name]
	if !ok {
		return nil, tserrors.New(tserrors.ErrCodeUnknownStrategy, "unknown floating strategy %q", name)
	}
	return f(s), nil
}

// TiledNames returns the registered tiled strategy names, sorted.
func (r *Registry) TiledNames() []string {
	names := make([]string, 0, len(r.tiled))
	for n := range r.tiled {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FloatingNames returns the registered floating strategy names, sorted.
func (r *Registry) FloatingNames() []string {
	names := make([]string, 0, len(r.floating))
	for n := range r.floating {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
