package floating_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/layout/floating"
	"github.com/Gaurav-Gosain/tessera/internal/layout/layouttest"
	"github.com/Gaurav-Gosain/tessera/internal/layout/strategies"
	"github.com/Gaurav-Gosain/tessera/internal/rules"
)

var monitor = geom.Box{W: 1920, H: 1080}

// ruleEnv adds a fixed rule match to the test Env.
type ruleEnv struct {
	*layouttest.Env
	match rules.Match
}

func (e *ruleEnv) RulesFor(*layout.Target) rules.Match { return e.match }

func vec(x, y float64) *geom.Vector2D {
	v := geom.Vec(x, y)
	return &v
}

func mustExpr(t *testing.T, s string) *rules.Expr {
	t.Helper()
	e, err := rules.ParseExpr(s)
	if err != nil {
		t.Fatal(err)
	}
	return &e
}

func TestNewTargetPlacement(t *testing.T) {
	tests := []struct {
		name       string
		window     layouttest.Window
		remembered geom.Vector2D
		want       geom.Box
		hidden     bool
	}{
		{
			name: "default size centered",
			want: geom.Box{X: 640, Y: 340, W: 640, H: 400},
		},
		{
			name:   "requested size clamped to min",
			window: layouttest.Window{ReqSize: geom.Vec(300, 200), Min: geom.Vec(400, 100)},
			want:   geom.Box{X: 760, Y: 440, W: 400, H: 200},
		},
		{
			name:   "requested position",
			window: layouttest.Window{ReqSize: geom.Vec(300, 200), ReqPos: vec(50, 60)},
			want:   geom.Box{X: 50, Y: 60, W: 300, H: 200},
		},
		{
			name:   "requested position fitted",
			window: layouttest.Window{ReqSize: geom.Vec(300, 200), ReqPos: vec(1800, 1000)},
			want:   geom.Box{X: 1620, Y: 880, W: 300, H: 200},
		},
		{
			name:   "decorations kept on screen",
			window: layouttest.Window{ReqSize: geom.Vec(300, 200), ReqPos: vec(0, 0), Ext: geom.UniformExtents(4)},
			want:   geom.Box{X: 4, Y: 4, W: 300, H: 200},
		},
		{
			name:       "remembered size",
			remembered: geom.Vec(800, 600),
			want:       geom.Box{X: 560, Y: 240, W: 800, H: 600},
		},
		{
			name:   "degenerate request hides",
			window: layouttest.Window{ReqSize: geom.Vec(0, 50)},
			want:   geom.Box{X: 640, Y: 340, W: 640, H: 400},
			hidden: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := layouttest.NewEnv()
			s := env.NewSpace(t, strategies.Default(), "dwindle", floating.Name, monitor)

			w := tt.window
			w.IDValue = "w"
			target := env.Targets.NewTarget(&w)
			target.SetInitialFloating(true)
			target.SetLastFloatingSize(tt.remembered)
			target.AssignToSpace(s, nil)

			if diff := cmp.Diff(tt.want, target.Box()); diff != "" {
				t.Errorf("box mismatch (-want +got):\n%s", diff)
			}
			if target.Hidden() != tt.hidden {
				t.Errorf("hidden = %v, want %v", target.Hidden(), tt.hidden)
			}
		})
	}
}

func TestNewTargetRules(t *testing.T) {
	tests := []struct {
		name  string
		match func(t *testing.T) rules.Match
		want  geom.Box
	}{
		{
			name:  "size",
			match: func(t *testing.T) rules.Match { return rules.Match{Size: mustExpr(t, "50% 50%")} },
			want:  geom.Box{X: 480, Y: 270, W: 960, H: 540},
		},
		{
			name:  "position",
			match: func(t *testing.T) rules.Match { return rules.Match{Position: mustExpr(t, "10 20")} },
			want:  geom.Box{X: 10, Y: 20, W: 640, H: 400},
		},
		{
			name: "center beats position",
			match: func(t *testing.T) rules.Match {
				return rules.Match{Position: mustExpr(t, "10 20"), Center: true}
			},
			want: geom.Box{X: 640, Y: 340, W: 640, H: 400},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &ruleEnv{Env: layouttest.NewEnv(), match: tt.match(t)}
			env.Self = env
			s := env.NewSpace(t, strategies.Default(), "dwindle", floating.Name, monitor)

			target := env.OpenFloating(s, &layouttest.Window{IDValue: "w"})
			if diff := cmp.Diff(tt.want, target.Box()); diff != "" {
				t.Errorf("box mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFitBoxInWorkArea(t *testing.T) {
	area := geom.Box{X: 100, Y: 100, W: 800, H: 600}
	ext := geom.Extents{TopLeft: geom.Vec(2, 30), BottomRight: geom.Vec(2, 2)}

	inputs := []geom.Box{
		{X: 200, Y: 200, W: 300, H: 200},
		{X: -500, Y: 300, W: 300, H: 200},
		{X: 850, Y: 650, W: 300, H: 200},
		{X: 0, Y: 0, W: 5000, H: 5000},
		{X: 10000, Y: -10000, W: 10, H: 10},
		{X: 100, Y: 100, W: 800, H: 600},
	}

	for _, in := range inputs {
		t.Run(in.String(), func(t *testing.T) {
			got := floating.FitBoxInWorkArea(in, ext, area).AddExtents(ext)
			if got.X < area.X-geom.Epsilon || got.Y < area.Y-geom.Epsilon ||
				got.X+got.W > area.X+area.W+geom.Epsilon || got.Y+got.H > area.Y+area.H+geom.Epsilon {
				t.Errorf("expanded box %v leaves %v", got, area)
			}
		})
	}

	inside := geom.Box{X: 200, Y: 200, W: 300, H: 200}
	if got := floating.FitBoxInWorkArea(inside, ext, area); got != inside {
		t.Errorf("box already inside moved to %v", got)
	}
}

func TestResizeBox(t *testing.T) {
	box := geom.Box{X: 100, Y: 100, W: 400, H: 300}
	minSize := geom.Vec(100, 100)
	delta := geom.Vec(50, 20)

	tests := []struct {
		name    string
		corner  geom.Corner
		delta   geom.Vector2D
		maxSize geom.Vector2D
		want    geom.Box
	}{
		{"bottom right", geom.CornerBottomRight, delta, geom.Vector2D{}, geom.Box{X: 100, Y: 100, W: 450, H: 320}},
		{"none acts as bottom right", geom.CornerNone, delta, geom.Vector2D{}, geom.Box{X: 100, Y: 100, W: 450, H: 320}},
		{"top left", geom.CornerTopLeft, delta, geom.Vector2D{}, geom.Box{X: 150, Y: 120, W: 350, H: 280}},
		{"top right", geom.CornerTopRight, delta, geom.Vector2D{}, geom.Box{X: 100, Y: 120, W: 450, H: 280}},
		{"bottom left", geom.CornerBottomLeft, delta, geom.Vector2D{}, geom.Box{X: 150, Y: 100, W: 350, H: 320}},
		{"min holds opposite corner", geom.CornerTopLeft, geom.Vec(1000, 1000), geom.Vector2D{}, geom.Box{X: 400, Y: 300, W: 100, H: 100}},
		{"max", geom.CornerBottomRight, delta, geom.Vec(420, 0), geom.Box{X: 100, Y: 100, W: 420, H: 320}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := floating.ResizeBox(box, tt.delta, tt.corner, minSize, tt.maxSize)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ResizeBox mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMoveTargetInDirectionIsFlush(t *testing.T) {
	tests := []struct {
		dir  geom.Direction
		want geom.Box
	}{
		{geom.DirectionLeft, geom.Box{X: 2, Y: 340, W: 640, H: 400}},
		{geom.DirectionRight, geom.Box{X: 1278, Y: 340, W: 640, H: 400}},
		{geom.DirectionUp, geom.Box{X: 640, Y: 2, W: 640, H: 400}},
		{geom.DirectionDown, geom.Box{X: 640, Y: 678, W: 640, H: 400}},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			env := layouttest.NewEnv()
			s := env.NewSpace(t, strategies.Default(), "dwindle", floating.Name, monitor)
			target := env.OpenFloating(s, &layouttest.Window{IDValue: "w", Ext: geom.UniformExtents(2)})

			s.Algorithm().MoveTargetInDirection(target, tt.dir, false)
			if diff := cmp.Diff(tt.want, target.Box()); diff != "" {
				t.Errorf("box mismatch (-want +got):\n%s", diff)
			}

			// Already flush with no monitor beyond: nothing changes.
			s.Algorithm().MoveTargetInDirection(target, tt.dir, false)
			if diff := cmp.Diff(tt.want, target.Box()); diff != "" {
				t.Errorf("second move changed the box (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFloatingRoundTripThroughTiling(t *testing.T) {
	env := layouttest.NewEnv()
	s := env.NewSpace(t, strategies.Default(), "dwindle", floating.Name, monitor)
	a := env.Open(s, "a")
	a.SetLastFloatingSize(geom.Vec(800, 600))

	s.Algorithm().SetFloating(a, true)
	if diff := cmp.Diff(geom.Box{X: 560, Y: 240, W: 800, H: 600}, a.Box()); diff != "" {
		t.Errorf("floating box mismatch (-want +got):\n%s", diff)
	}
	if got := s.Algorithm().FloatingTargets(); len(got) != 1 || got[0] != a {
		t.Errorf("floating targets = %v", got)
	}

	a.SetPositionGlobal(geom.Box{X: 10, Y: 10, W: 700, H: 500})
	s.Algorithm().SetFloating(a, false)
	if a.Box() != monitor {
		t.Errorf("tiled box = %v, want %v", a.Box(), monitor)
	}
	if got := a.LastFloatingSize(); got != geom.Vec(700, 500) {
		t.Errorf("float memory = %v, want [700, 500]", got)
	}
}

func TestMovedAcrossMonitorsKeepsRelativeSpot(t *testing.T) {
	env := layouttest.NewEnv()
	left := env.NewSpace(t, strategies.Default(), "dwindle", floating.Name, monitor)
	right := env.NewSpace(t, strategies.Default(), "dwindle", floating.Name, monitor.Translate(geom.Vec(1920, 0)))

	target := env.OpenFloating(left, &layouttest.Window{IDValue: "w", ReqSize: geom.Vec(640, 400), ReqPos: vec(100, 100)})
	target.AssignToSpace(right, nil)

	want := geom.Box{X: 2020, Y: 100, W: 640, H: 400}
	if diff := cmp.Diff(want, target.Box()); diff != "" {
		t.Errorf("box mismatch (-want +got):\n%s", diff)
	}
}

func TestSwapFloating(t *testing.T) {
	env := layouttest.NewEnv()
	s := env.NewSpace(t, strategies.Default(), "dwindle", floating.Name, monitor)
	a := env.OpenFloating(s, &layouttest.Window{IDValue: "a", ReqSize: geom.Vec(200, 200), ReqPos: vec(0, 0)})
	b := env.OpenFloating(s, &layouttest.Window{IDValue: "b", ReqSize: geom.Vec(300, 300), ReqPos: vec(500, 500)})

	a.Swap(b)
	if a.Box() != (geom.Box{X: 500, Y: 500, W: 300, H: 300}) || b.Box() != (geom.Box{X: 0, Y: 0, W: 200, H: 200}) {
		t.Errorf("after swap a=%v b=%v", a.Box(), b.Box())
	}
}
