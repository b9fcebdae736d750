package scrolling_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/layout/layouttest"
	"github.com/Gaurav-Gosain/tessera/internal/layout/scrolling"
	"github.com/Gaurav-Gosain/tessera/internal/layout/strategies"
)

var monitor = geom.Box{W: 1920, H: 1080}

var approx = cmpopts.EquateApprox(0, 1e-9)

func newSpace(t *testing.T, edit func(*config.Config)) (*layouttest.Env, *layout.Space) {
	t.Helper()
	env := layouttest.NewEnv()
	if edit != nil {
		edit(env.Cfg)
	}
	env.CursorPos = monitor.Middle()
	return env, env.NewSpace(t, strategies.Default(), scrolling.Name, "default", monitor)
}

func strips(t *testing.T, s *layout.Space) *scrolling.Scrolling {
	t.Helper()
	sc, ok := s.Algorithm().Tiled().(*scrolling.Scrolling)
	if !ok {
		t.Fatalf("tiled strategy is %T, want *scrolling.Scrolling", s.Algorithm().Tiled())
	}
	return sc
}

func widths(sc *scrolling.Scrolling) []float64 {
	var out []float64
	for _, st := range sc.Strips() {
		out = append(out, st.Width)
	}
	return out
}

func TestScrollingTwoWindowsInOneColumn(t *testing.T) {
	env, s := newSpace(t, nil)
	sc := strips(t, s)

	a := env.Open(s, "a")
	if diff := cmp.Diff(geom.Box{X: 480, Y: 0, W: 960, H: 1080}, a.Box()); diff != "" {
		t.Fatalf("single strip is not centered (-want +got):\n%s", diff)
	}

	b := env.Open(s, "b")
	want := []geom.Box{{X: 0, Y: 0, W: 955, H: 1080}, {X: 965, Y: 0, W: 955, H: 1080}}
	if diff := cmp.Diff(want, []geom.Box{a.Box(), b.Box()}); diff != "" {
		t.Fatalf("two strips mismatch (-want +got):\n%s", diff)
	}

	s.Algorithm().MoveTargetInDirection(b, geom.DirectionLeft, false)

	info := sc.Strips()
	if len(info) != 1 {
		t.Fatalf("got %d strips after joining, want 1", len(info))
	}
	if diff := cmp.Diff([]float64{0.5, 0.5}, info[0].Fractions, approx); diff != "" {
		t.Errorf("fractions mismatch (-want +got):\n%s", diff)
	}
	want = []geom.Box{{X: 480, Y: 0, W: 960, H: 535}, {X: 480, Y: 545, W: 960, H: 535}}
	if diff := cmp.Diff(want, []geom.Box{a.Box(), b.Box()}); diff != "" {
		t.Errorf("stacked boxes mismatch (-want +got):\n%s", diff)
	}

	env.Close(a)
	if diff := cmp.Diff(geom.Box{X: 480, Y: 0, W: 960, H: 1080}, b.Box()); diff != "" {
		t.Errorf("remaining window mismatch (-want +got):\n%s", diff)
	}
	if env.Focused() != b {
		t.Errorf("focus after close = %v, want b", env.Focused())
	}
}

func TestScrollingFractionsSumToOne(t *testing.T) {
	env, s := newSpace(t, nil)
	sc := strips(t, s)
	algo := s.Algorithm()

	a := env.Open(s, "a")
	b := env.Open(s, "b")
	algo.MoveTargetInDirection(b, geom.DirectionLeft, false)
	c := env.Open(s, "c")
	algo.MoveTargetInDirection(c, geom.DirectionLeft, false)

	check := func(step string) {
		t.Helper()
		for i, st := range sc.Strips() {
			var sum float64
			for _, f := range st.Fractions {
				sum += f
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("%s: strip %d fractions %v sum to %g", step, i, st.Fractions, sum)
			}
		}
	}

	check("three in one strip")
	if got := sc.Strips()[0].Fractions; len(got) != 3 {
		t.Fatalf("fractions = %v, want three items", got)
	}

	algo.ResizeTarget(geom.Vec(0, 108), b, geom.CornerBottomRight)
	check("after secondary resize")
	if diff := cmp.Diff([]float64{1.0 / 3, 1.0/3 + 0.1, 1.0/3 - 0.1}, sc.Strips()[0].Fractions, approx); diff != "" {
		t.Errorf("resize fractions mismatch (-want +got):\n%s", diff)
	}

	env.Close(a)
	check("after close")
	if diff := cmp.Diff([]float64{0.65, 0.35}, sc.Strips()[0].Fractions, approx); diff != "" {
		t.Errorf("renormalized fractions mismatch (-want +got):\n%s", diff)
	}
}

func TestScrollingFollowFocus(t *testing.T) {
	env, s := newSpace(t, nil)
	sc := strips(t, s)

	a := env.Open(s, "a")
	env.Open(s, "b")
	c := env.Open(s, "c")

	if got := sc.Offset(); got != 960 {
		t.Errorf("offset after opening c = %g, want 960 (clamped to content end)", got)
	}
	if diff := cmp.Diff(geom.Box{X: 965, Y: 0, W: 955, H: 1080}, c.Box()); diff != "" {
		t.Errorf("c box mismatch (-want +got):\n%s", diff)
	}

	env.Focus(a)
	if got := sc.Offset(); got != 0 {
		t.Errorf("offset after focusing a = %g, want 0", got)
	}
	if diff := cmp.Diff(geom.Box{X: 0, Y: 0, W: 955, H: 1080}, a.Box()); diff != "" {
		t.Errorf("a box mismatch (-want +got):\n%s", diff)
	}
}

func TestScrollingResizeEdges(t *testing.T) {
	t.Run("trailing", func(t *testing.T) {
		env, s := newSpace(t, nil)
		a := env.Open(s, "a")
		b := env.Open(s, "b")

		s.Algorithm().ResizeTarget(geom.Vec(192, 0), a, geom.CornerBottomRight)

		want := []geom.Box{{X: 0, Y: 0, W: 1147, H: 1080}, {X: 1157, Y: 0, W: 955, H: 1080}}
		if diff := cmp.Diff(want, []geom.Box{a.Box(), b.Box()}); diff != "" {
			t.Errorf("boxes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("leading keeps the far edge", func(t *testing.T) {
		env, s := newSpace(t, nil)
		a := env.Open(s, "a")
		b := env.Open(s, "b")

		s.Algorithm().ResizeTarget(geom.Vec(-192, 0), b, geom.CornerTopLeft)

		want := []geom.Box{{X: -192, Y: 0, W: 955, H: 1080}, {X: 773, Y: 0, W: 1147, H: 1080}}
		if diff := cmp.Diff(want, []geom.Box{a.Box(), b.Box()}); diff != "" {
			t.Errorf("boxes mismatch (-want +got):\n%s", diff)
		}
		if got := strips(t, s).Offset(); got != 192 {
			t.Errorf("offset = %g, want 192", got)
		}
	})

	t.Run("leading shrink clamps on the next pass", func(t *testing.T) {
		env, s := newSpace(t, nil)
		sc := strips(t, s)
		env.Open(s, "a")
		b := env.Open(s, "b")

		s.Algorithm().ResizeTarget(geom.Vec(192, 0), b, geom.CornerTopLeft)
		if got := sc.Offset(); got != -192 {
			t.Errorf("offset after resize = %g, want -192", got)
		}
		if got := b.Box().X + b.Box().W; got != 1920 {
			t.Errorf("b right edge = %g, want 1920", got)
		}

		// 960 + 768 px of content is narrower than the viewport and centers
		s.Recalculate()
		if got := sc.Offset(); got != -96 {
			t.Errorf("offset after recalculation = %g, want -96", got)
		}
	})
}

func TestScrollingCrowdedStripResize(t *testing.T) {
	env, s := newSpace(t, nil)
	sc := strips(t, s)
	algo := s.Algorithm()

	env.Open(s, "w0")
	for i := 1; i < 12; i++ {
		w := env.Open(s, fmt.Sprintf("w%d", i))
		algo.MoveTargetInDirection(w, geom.DirectionLeft, false)
	}
	info := sc.Strips()
	if len(info) != 1 || len(info[0].Fractions) != 12 {
		t.Fatalf("strips = %+v, want one strip of 12", info)
	}

	algo.ResizeTarget(geom.Vec(0, 54), info[0].Targets[0], geom.CornerBottomRight)

	got := sc.Strips()[0].Fractions
	var sum float64
	for _, f := range got {
		sum += f
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("fractions %v sum to %g", got, sum)
	}
	if got[0] <= 1.0/12 {
		t.Errorf("grown item = %g, want more than 1/12", got[0])
	}
	if got[1] >= 1.0/12 || got[1] <= 0 {
		t.Errorf("neighbour = %g, want in (0, 1/12)", got[1])
	}
}

func TestScrollingConfig(t *testing.T) {
	tests := []struct {
		name string
		edit func(*config.Config)
		want geom.Box
	}{
		{
			name: "fullscreen on one column",
			edit: func(c *config.Config) { c.Scrolling.FullscreenOnOneColumn = true },
			want: monitor,
		},
		{
			name: "workspace direction down",
			edit: func(c *config.Config) {
				c.Workspaces = []config.WorkspaceRule{{Workspace: 1, Direction: "down"}}
			},
			want: geom.Box{X: 0, Y: 270, W: 1920, H: 540},
		},
		{
			name: "narrow column",
			edit: func(c *config.Config) { c.Scrolling.ColumnWidth = 0.25 },
			want: geom.Box{X: 720, Y: 0, W: 480, H: 1080},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, s := newSpace(t, tt.edit)
			a := env.Open(s, "a")
			if diff := cmp.Diff(tt.want, a.Box()); diff != "" {
				t.Errorf("box mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScrollingLayoutMsg(t *testing.T) {
	tests := []struct {
		msg        string
		wantWidths []float64
		wantOffset float64
	}{
		{"colresize +0.1", []float64{0.5, 0.6}, 192},
		{"colresize 0.25", []float64{0.5, 0.25}, -240},
		{"colresize all 0.25", []float64{0.25, 0.25}, -480},
		{"colresize +conf", []float64{0.5, 0.667}, 320.64},
		{"colresize -conf", []float64{0.5, 0.333}, -160.32},
		{"colresize 5", []float64{0.5, 1}, 960},
		{"fit active", []float64{0.5, 1}, 960},
		{"fit tobeg", []float64{0.5, 0.5}, 0},
		{"move -100", []float64{0.5, 0.5}, -100},
		{"move +col", []float64{0.5, 0.5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			env, s := newSpace(t, nil)
			env.Open(s, "a")
			env.Open(s, "b")

			if err := s.LayoutMsg(tt.msg); err != nil {
				t.Fatalf("LayoutMsg(%q): %v", tt.msg, err)
			}
			sc := strips(t, s)
			if diff := cmp.Diff(tt.wantWidths, widths(sc), approx); diff != "" {
				t.Errorf("widths mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantOffset, sc.Offset(), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
				t.Errorf("offset mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScrollingFocusMessages(t *testing.T) {
	env, s := newSpace(t, nil)
	a := env.Open(s, "a")
	b := env.Open(s, "b")

	steps := []struct {
		msg  string
		want *layout.Target
	}{
		{"focus l", a},
		{"focus l", a},
		{"focus r", b},
		{"focus u", b},
		{"move -col", a},
	}
	for _, st := range steps {
		if err := s.LayoutMsg(st.msg); err != nil {
			t.Fatalf("LayoutMsg(%q): %v", st.msg, err)
		}
		if got := env.Focused(); got != st.want {
			t.Errorf("after %q focused = %s, want %s", st.msg, got.ID(), st.want.ID())
		}
	}
}

func TestScrollingPromoteAndSwap(t *testing.T) {
	env, s := newSpace(t, nil)
	sc := strips(t, s)
	a := env.Open(s, "a")
	b := env.Open(s, "b")

	s.Algorithm().MoveTargetInDirection(b, geom.DirectionLeft, false)
	if n := len(sc.Strips()); n != 1 {
		t.Fatalf("got %d strips, want 1", n)
	}

	if err := s.LayoutMsg("promote"); err != nil {
		t.Fatalf("promote: %v", err)
	}
	info := sc.Strips()
	if len(info) != 2 || info[0].Targets[0] != a || info[1].Targets[0] != b {
		t.Fatalf("promote did not split b into its own strip: %+v", info)
	}

	// b is last; swapping right wraps to the front.
	if err := s.LayoutMsg("swapcol r"); err != nil {
		t.Fatalf("swapcol: %v", err)
	}
	info = sc.Strips()
	if info[0].Targets[0] != b || info[1].Targets[0] != a {
		t.Errorf("swapcol r order = %s, %s; want b, a", info[0].Targets[0].ID(), info[1].Targets[0].ID())
	}
	want := []geom.Box{{X: 0, Y: 0, W: 955, H: 1080}, {X: 965, Y: 0, W: 955, H: 1080}}
	if diff := cmp.Diff(want, []geom.Box{b.Box(), a.Box()}); diff != "" {
		t.Errorf("boxes after swap mismatch (-want +got):\n%s", diff)
	}
}

func TestScrollingLayoutMsgErrors(t *testing.T) {
	tests := []struct {
		msg  string
		open bool
		code tserrors.Code
	}{
		{"", true, tserrors.ErrCodeInvalidCommand},
		{"spin", true, tserrors.ErrCodeInvalidCommand},
		{"move", true, tserrors.ErrCodeInvalidArgument},
		{"move far", true, tserrors.ErrCodeInvalidArgument},
		{"colresize", true, tserrors.ErrCodeInvalidArgument},
		{"colresize wide", true, tserrors.ErrCodeInvalidArgument},
		{"colresize all", true, tserrors.ErrCodeInvalidArgument},
		{"fit some", true, tserrors.ErrCodeInvalidArgument},
		{"focus sideways", true, tserrors.ErrCodeInvalidArgument},
		{"swapcol u", true, tserrors.ErrCodeInvalidArgument},
		{"fit all", false, tserrors.ErrCodeNoTarget},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			env, s := newSpace(t, nil)
			if tt.open {
				env.Open(s, "a")
			}
			err := s.LayoutMsg(tt.msg)
			if !tserrors.Is(err, tt.code) {
				t.Errorf("LayoutMsg(%q) = %v, want code %s", tt.msg, err, tt.code)
			}
		})
	}
}
