package layout_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/layout/layouttest"
	"github.com/Gaurav-Gosain/tessera/internal/layout/strategies"
)

// recorder is a strategy that logs the calls it receives. Floating
// placements land at recordedFloat.
type recorder struct {
	space *layout.Space
	kind  string
	log   *[]string
}

var recordedFloat = geom.Box{X: 100, Y: 100, W: 300, H: 200}

func (r *recorder) note(op string, t *layout.Target, extra string) {
	*r.log = append(*r.log, fmt.Sprintf("%d %s %s %s%s", r.space.ID(), r.kind, op, t.ID(), extra))
}

func (r *recorder) NewTarget(t *layout.Target) {
	r.note("new", t, "")
	r.place(t)
}

func (r *recorder) MovedTarget(t *layout.Target, focal *geom.Vector2D) {
	extra := ""
	if focal != nil {
		extra = fmt.Sprintf(" at %g,%g", focal.X, focal.Y)
	}
	if t.FromTiled() {
		extra += " from tiled"
	}
	r.note("moved", t, extra)
	r.place(t)
}

func (r *recorder) place(t *layout.Target) {
	if r.kind == "floating" {
		t.SetPositionGlobal(recordedFloat)
		return
	}
	t.SetPositionGlobal(r.space.WorkArea())
}

func (r *recorder) RemoveTarget(t *layout.Target) { r.note("remove", t, "") }

func (r *recorder) ReplaceTarget(old, new *layout.Target) {
	r.note("replace", old, " with "+new.ID())
}

func (r *recorder) ResizeTarget(geom.Vector2D, *layout.Target, geom.Corner) {}
func (r *recorder) MoveTargetInDirection(*layout.Target, geom.Direction, bool) {}
func (r *recorder) SwapTargets(a, b *layout.Target) {}
func (r *recorder) Recalculate() {}
func (r *recorder) LayoutMsg(string) error { return nil }
func (r *recorder) NextCandidate(*layout.Target) *layout.Target { return nil }
func (r *recorder) FocusChanged(*layout.Target) {}
func (r *recorder) MoveTarget(geom.Vector2D, *layout.Target) {}

func recordingRegistry(t *testing.T, log *[]string) *layout.Registry {
	t.Helper()
	reg := layout.NewRegistry()
	require.NoError(t, reg.RegisterTiled("rec", func(s *layout.Space) layout.TiledStrategy {
		return &recorder{space: s, kind: "tiled", log: log}
	}))
	require.NoError(t, reg.RegisterFloating("rec", func(s *layout.Space) layout.FloatingStrategy {
		return &recorder{space: s, kind: "floating", log: log}
	}))
	return reg
}

var (
	leftMonitor  = geom.Box{W: 1920, H: 1080}
	rightMonitor = geom.Box{X: 1920, W: 1920, H: 1080}
)

func TestArenaHandles(t *testing.T) {
	arena := layout.NewArena()
	require.False(t, layout.Handle{}.Valid())
	_, ok := arena.Get(layout.Handle{})
	require.False(t, ok)

	first := arena.NewTarget(&layouttest.Window{IDValue: "first"})
	h1 := first.Handle()
	require.True(t, h1.Valid())
	got, ok := arena.Get(h1)
	require.True(t, ok)
	require.Same(t, first, got)
	require.True(t, first.Alive())

	arena.Release(h1)
	_, ok = arena.Get(h1)
	require.False(t, ok, "released handle still resolves")
	require.False(t, first.Alive())
	require.Zero(t, arena.Len())

	second := arena.NewTarget(&layouttest.Window{IDValue: "second"})
	h2 := second.Handle()
	require.Equal(t, "0#1", h1.String())
	require.Equal(t, "0#2", h2.String(), "slot should be reused with a new generation")
	require.NotEqual(t, h1, h2)

	_, ok = arena.Get(h1)
	require.False(t, ok, "stale handle resolves to the slot's new target")
	got, ok = arena.Get(h2)
	require.True(t, ok)
	require.Same(t, second, got)
	require.Equal(t, []*layout.Target{second}, arena.Resolve([]layout.Handle{h1, h2}))

	arena.Release(h1)
	require.Equal(t, 1, arena.Len(), "releasing a stale handle must not free the slot again")
}

func TestAssignToSpace(t *testing.T) {
	var log []string
	reg := recordingRegistry(t, &log)
	env := layouttest.NewEnv()
	left := env.NewSpace(t, reg, "rec", "rec", leftMonitor)
	right := env.NewSpace(t, reg, "rec", "rec", rightMonitor)

	a := env.Targets.NewTarget(&layouttest.Window{IDValue: "a"})
	f := env.Targets.NewTarget(&layouttest.Window{IDValue: "f"})
	f.SetInitialFloating(true)
	focal := geom.Vec(2000, 100)

	steps := []struct {
		name  string
		do    func()
		want  []string
		space *layout.Space
	}{
		{
			name:  "first placement is new",
			do:    func() { a.AssignToSpace(left, nil) },
			want:  []string{"1 tiled new a"},
			space: left,
		},
		{
			name:  "same space is a no-op",
			do:    func() { a.AssignToSpace(left, nil) },
			space: left,
		},
		{
			name:  "another space is a move with the focal point",
			do:    func() { a.AssignToSpace(right, &focal) },
			want:  []string{"1 tiled remove a", "2 tiled moved a at 2000,100"},
			space: right,
		},
		{
			name: "nil space only removes",
			do:   func() { a.AssignToSpace(nil, nil) },
			want: []string{"2 tiled remove a"},
		},
		{
			name:  "a placed target comes back as moved",
			do:    func() { a.AssignToSpace(left, nil) },
			want:  []string{"1 tiled moved a"},
			space: left,
		},
		{
			name:  "initially floating goes to the floating strategy",
			do:    func() { f.AssignToSpace(left, nil) },
			want:  []string{"1 floating new f"},
			space: left,
		},
	}

	for _, st := range steps {
		log = nil
		st.do()
		require.Equal(t, st.want, log, st.name)
		if st.space == nil {
			require.Nil(t, a.Space(), st.name)
		} else {
			require.Same(t, st.space, a.Space(), st.name)
		}
	}
	require.True(t, left.Has(a))
	require.False(t, right.Has(a))
	require.True(t, f.Floating())
	require.Same(t, left, f.Space())
}

func TestSetFloating(t *testing.T) {
	var log []string
	reg := recordingRegistry(t, &log)
	env := layouttest.NewEnv()
	s := env.NewSpace(t, reg, "rec", "rec", leftMonitor)
	algo := s.Algorithm()
	a := env.Open(s, "a")
	b := env.Open(s, "b")

	log = nil
	algo.SetFloating(a, true)
	require.Equal(t, []string{"1 tiled remove a", "1 floating moved a from tiled"}, log)
	require.True(t, a.Floating())
	require.False(t, a.FromTiled(), "from tiled must only be set during placement")
	require.Same(t, s, a.Space())
	require.True(t, s.Has(a))
	require.Equal(t, []*layout.Target{b}, algo.TiledTargets())
	require.Equal(t, []*layout.Target{a}, algo.FloatingTargets())
	require.Equal(t, recordedFloat, a.Box())

	log = nil
	algo.SetFloating(a, true)
	require.Empty(t, log, "setting the current mode again")

	algo.SetFloating(a, false)
	require.Equal(t, []string{"1 floating remove a", "1 tiled moved a"}, log)
	require.False(t, a.Floating())
	require.Same(t, s, a.Space())
	require.Equal(t, recordedFloat.Size(), a.LastFloatingSize(), "leaving floating remembers the size")
	require.Equal(t, []*layout.Target{b, a}, algo.TiledTargets())
	require.Empty(t, algo.FloatingTargets())
}

func TestNextCandidateFloating(t *testing.T) {
	type fixture struct {
		env          *layouttest.Env
		a, f1, f2, o *layout.Target
	}
	setup := func(t *testing.T) fixture {
		var log []string
		reg := recordingRegistry(t, &log)
		env := layouttest.NewEnv()
		s := env.NewSpace(t, reg, "rec", "rec", leftMonitor)
		other := env.NewSpace(t, reg, "rec", "rec", rightMonitor)
		fx := fixture{env: env}
		fx.a = env.Open(s, "a")
		fx.o = env.Open(other, "o")
		fx.f1 = env.OpenFloating(s, &layouttest.Window{IDValue: "f1"})
		fx.f2 = env.OpenFloating(s, &layouttest.Window{IDValue: "f2"})
		return fx
	}

	tests := []struct {
		name string
		edit func(fx fixture)
		want func(fx fixture) *layout.Target
	}{
		{
			name: "most recent floating target of the space",
			want: func(fx fixture) *layout.Target { return fx.f1 },
		},
		{
			name: "skips hidden targets and other spaces",
			edit: func(fx fixture) { fx.f1.SetHidden(true) },
			want: func(fx fixture) *layout.Target { return fx.a },
		},
		{
			name: "falls back to members without history",
			edit: func(fx fixture) { fx.env.History = nil },
			want: func(fx fixture) *layout.Target { return fx.f1 },
		},
		{
			name: "nothing visible left",
			edit: func(fx fixture) {
				fx.env.History = nil
				fx.f1.SetHidden(true)
				fx.a.SetHidden(true)
			},
			want: func(fixture) *layout.Target { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := setup(t)
			if tt.edit != nil {
				tt.edit(fx)
			}
			got := fx.f2.Space().Algorithm().NextCandidate(fx.f2)
			if want := tt.want(fx); want == nil {
				require.Nil(t, got)
			} else {
				require.Same(t, want, got)
			}
		})
	}
}

func TestDesiredGeometry(t *testing.T) {
	pos := geom.Vec(10, 20)
	tests := []struct {
		name    string
		window  *layouttest.Window
		want    layout.DesiredGeometry
		wantErr error
	}{
		{"nothing requested", &layouttest.Window{}, layout.DesiredGeometry{}, layout.ErrNoDesired},
		{"size", &layouttest.Window{ReqSize: geom.Vec(300, 200)}, layout.DesiredGeometry{Size: geom.Vec(300, 200)}, nil},
		{"size and position", &layouttest.Window{ReqSize: geom.Vec(300, 200), ReqPos: &pos}, layout.DesiredGeometry{Size: geom.Vec(300, 200), Pos: &pos}, nil},
		{"zero width", &layouttest.Window{ReqSize: geom.Vec(0, 200)}, layout.DesiredGeometry{}, layout.ErrInvalidDesired},
		{"sub pixel height", &layouttest.Window{ReqSize: geom.Vec(300, 0.5)}, layout.DesiredGeometry{}, layout.ErrInvalidDesired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := layout.NewArena().NewTarget(tt.window)
			got, err := target.DesiredGeometry()
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidDesiredGeometryHides(t *testing.T) {
	env := layouttest.NewEnv()
	s := env.NewSpace(t, strategies.Default(), "dwindle", "default", leftMonitor)

	bad := env.OpenFloating(s, &layouttest.Window{IDValue: "bad", ReqSize: geom.Vec(0, 200)})
	require.True(t, bad.Hidden(), "degenerate request should hide the target")
	require.Same(t, s, bad.Space())

	good := env.OpenFloating(s, &layouttest.Window{IDValue: "good", ReqSize: geom.Vec(300, 200)})
	require.False(t, good.Hidden())
	require.Equal(t, geom.Vec(300, 200), good.Box().Size())
}
