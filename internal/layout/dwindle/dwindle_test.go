package dwindle_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/layout/dwindle"
	"github.com/Gaurav-Gosain/tessera/internal/layout/layouttest"
	"github.com/Gaurav-Gosain/tessera/internal/layout/strategies"
)

var monitor = geom.Box{W: 1920, H: 1080}

func newSpace(t *testing.T) (*layouttest.Env, *layout.Space) {
	t.Helper()
	env := layouttest.NewEnv()
	env.CursorPos = monitor.Middle()
	s := env.NewSpace(t, strategies.Default(), dwindle.Name, "default", monitor)
	return env, s
}

func tree(t *testing.T, s *layout.Space) *dwindle.Dwindle {
	t.Helper()
	d, ok := s.Algorithm().Tiled().(*dwindle.Dwindle)
	if !ok {
		t.Fatalf("tiled strategy is %T, want *dwindle.Dwindle", s.Algorithm().Tiled())
	}
	return d
}

func boxes(targets ...*layout.Target) []geom.Box {
	out := make([]geom.Box, len(targets))
	for i, t := range targets {
		out[i] = t.Box()
	}
	return out
}

func TestDwindleThreeWindowsAtCenter(t *testing.T) {
	env, s := newSpace(t)

	w1 := env.Open(s, "w1")
	if diff := cmp.Diff(monitor, w1.Box()); diff != "" {
		t.Fatalf("first window box mismatch (-want +got):\n%s", diff)
	}

	w2 := env.Open(s, "w2")
	w3 := env.Open(s, "w3")

	want := []geom.Box{
		{X: 0, Y: 0, W: 955, H: 1080},
		{X: 965, Y: 0, W: 955, H: 535},
		{X: 965, Y: 545, W: 955, H: 535},
	}
	if diff := cmp.Diff(want, boxes(w1, w2, w3)); diff != "" {
		t.Errorf("boxes mismatch (-want +got):\n%s", diff)
	}

	got := boxes(w1, w2, w3)
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			if got[i].Intersects(got[j]) {
				t.Errorf("%v overlaps %v", got[i], got[j])
			}
		}
	}
}

func TestDwindlePartition(t *testing.T) {
	cursors := []geom.Vector2D{
		{X: 100, Y: 100}, {X: 1800, Y: 900}, {X: 960, Y: 20},
		{X: 10, Y: 1000}, {X: 1500, Y: 300}, {X: 700, Y: 700},
		{X: 1919, Y: 0}, {X: 300, Y: 540},
	}
	ratios := []float64{0.1, 0.55, 1, 1.45, 1.9}

	for _, ratio := range ratios {
		for n := 1; n <= len(cursors); n++ {
			t.Run(fmt.Sprintf("ratio %g with %d windows", ratio, n), func(t *testing.T) {
				env, s := newSpace(t)
				env.Cfg.General.GapsIn = 0

				var targets []*layout.Target
				for i := 0; i < n; i++ {
					env.CursorPos = cursors[i]
					targets = append(targets, env.Open(s, fmt.Sprintf("w%d", i)))
					if err := s.LayoutMsg(fmt.Sprintf("splitratio exact %g", ratio)); err != nil {
						t.Fatalf("splitratio: %v", err)
					}
				}

				total, leaves := tree(t, s).Nodes()
				if leaves != n || total != 2*n-1 {
					t.Fatalf("got %d nodes with %d leaves, want %d with %d", total, leaves, 2*n-1, n)
				}

				var area float64
				for i, a := range targets {
					area += a.Box().W * a.Box().H
					for _, b := range targets[i+1:] {
						if a.Box().Intersects(b.Box()) {
							t.Errorf("%s %v overlaps %s %v", a.ID(), a.Box(), b.ID(), b.Box())
						}
					}
				}
				if want := monitor.W * monitor.H; area != want {
					t.Errorf("leaf area = %g, want %g", area, want)
				}
			})
		}
	}
}

func TestDwindleInsertRemoveRestores(t *testing.T) {
	env, s := newSpace(t)
	a := env.Open(s, "a")
	b := env.Open(s, "b")
	c := env.Open(s, "c")
	before := boxes(a, b, c)
	beforeTotal, _ := tree(t, s).Nodes()

	d := env.Open(s, "d")
	env.Close(d)

	if diff := cmp.Diff(before, boxes(a, b, c)); diff != "" {
		t.Errorf("boxes not restored (-want +got):\n%s", diff)
	}
	if total, _ := tree(t, s).Nodes(); total != beforeTotal {
		t.Errorf("node count = %d, want %d", total, beforeTotal)
	}
}

func TestDwindleRemoveLast(t *testing.T) {
	env, s := newSpace(t)
	a := env.Open(s, "a")
	env.Close(a)

	if total, _ := tree(t, s).Nodes(); total != 0 {
		t.Errorf("node count = %d after closing the only window", total)
	}

	b := env.Open(s, "b")
	if diff := cmp.Diff(monitor, b.Box()); diff != "" {
		t.Errorf("reopened window box mismatch (-want +got):\n%s", diff)
	}
}

func TestDwindleLayoutMsg(t *testing.T) {
	tests := []struct {
		name string
		msgs []string
		want []geom.Box
	}{
		{
			name: "togglesplit",
			msgs: []string{"togglesplit"},
			want: []geom.Box{
				{X: 0, Y: 0, W: 1920, H: 535},
				{X: 0, Y: 545, W: 1920, H: 535},
			},
		},
		{
			name: "togglesplit twice",
			msgs: []string{"togglesplit", "togglesplit"},
			want: []geom.Box{
				{X: 0, Y: 0, W: 955, H: 1080},
				{X: 965, Y: 0, W: 955, H: 1080},
			},
		},
		{
			name: "swapsplit",
			msgs: []string{"swapsplit"},
			want: []geom.Box{
				{X: 965, Y: 0, W: 955, H: 1080},
				{X: 0, Y: 0, W: 955, H: 1080},
			},
		},
		{
			name: "splitratio exact",
			msgs: []string{"splitratio exact 1.5"},
			want: []geom.Box{
				{X: 0, Y: 0, W: 1435, H: 1080},
				{X: 1445, Y: 0, W: 475, H: 1080},
			},
		},
		{
			name: "splitratio relative clamps",
			msgs: []string{"splitratio -5"},
			want: []geom.Box{
				{X: 0, Y: 0, W: 91, H: 1080},
				{X: 101, Y: 0, W: 1819, H: 1080},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, s := newSpace(t)
			a := env.Open(s, "a")
			b := env.Open(s, "b")
			for _, msg := range tt.msgs {
				if err := s.LayoutMsg(msg); err != nil {
					t.Fatalf("LayoutMsg(%q): %v", msg, err)
				}
			}
			if diff := cmp.Diff(tt.want, boxes(a, b)); diff != "" {
				t.Errorf("boxes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDwindleLayoutMsgErrors(t *testing.T) {
	tests := []struct {
		name    string
		open    bool
		msg     string
		wantErr tserrors.Code
	}{
		{"unknown command", true, "explode", tserrors.ErrCodeInvalidCommand},
		{"empty", true, "", tserrors.ErrCodeInvalidCommand},
		{"no focus", false, "togglesplit", tserrors.ErrCodeNoTarget},
		{"bad ratio", true, "splitratio wide", tserrors.ErrCodeInvalidArgument},
		{"bad direction", true, "preselect sideways", tserrors.ErrCodeInvalidArgument},
		{"missing direction", true, "preselect", tserrors.ErrCodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, s := newSpace(t)
			if tt.open {
				env.Open(s, "a")
			}
			err := s.LayoutMsg(tt.msg)
			if got := tserrors.GetCode(err); got != tt.wantErr {
				t.Errorf("LayoutMsg(%q) code = %q, want %q (err %v)", tt.msg, got, tt.wantErr, err)
			}
		})
	}
}

func TestDwindlePreselect(t *testing.T) {
	tests := []struct {
		dir       string
		permanent bool
		want      []geom.Box
	}{
		{
			dir:  "l",
			want: []geom.Box{{X: 965, Y: 0, W: 955, H: 1080}, {X: 0, Y: 0, W: 955, H: 1080}},
		},
		{
			dir:  "d",
			want: []geom.Box{{X: 0, Y: 0, W: 1920, H: 535}, {X: 0, Y: 545, W: 1920, H: 535}},
		},
		{
			dir:  "u",
			want: []geom.Box{{X: 0, Y: 545, W: 1920, H: 535}, {X: 0, Y: 0, W: 1920, H: 535}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			env, s := newSpace(t)
			a := env.Open(s, "a")
			if err := s.LayoutMsg("preselect " + tt.dir); err != nil {
				t.Fatal(err)
			}
			b := env.Open(s, "b")
			if diff := cmp.Diff(tt.want, boxes(a, b)); diff != "" {
				t.Errorf("boxes mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("one shot", func(t *testing.T) {
		env, s := newSpace(t)
		env.Open(s, "a")
		if err := s.LayoutMsg("preselect d"); err != nil {
			t.Fatal(err)
		}
		env.Open(s, "b")
		c := env.Open(s, "c")
		// b is 1920x540, so without the override c splits it side by side.
		if c.Box().H != 535 || c.Box().W != 955 {
			t.Errorf("third window box = %v, want a 955x535 quarter", c.Box())
		}
	})
}

func TestDwindleMoveToRoot(t *testing.T) {
	tests := []struct {
		msg  string
		want []geom.Box
	}{
		{
			msg: "movetoroot",
			want: []geom.Box{
				{X: 0, Y: 545, W: 955, H: 535},
				{X: 0, Y: 0, W: 955, H: 535},
				{X: 965, Y: 0, W: 955, H: 1080},
			},
		},
		{
			msg: "movetoroot unstable",
			want: []geom.Box{
				{X: 965, Y: 545, W: 955, H: 535},
				{X: 965, Y: 0, W: 955, H: 535},
				{X: 0, Y: 0, W: 955, H: 1080},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			env, s := newSpace(t)
			a := env.Open(s, "a")
			b := env.Open(s, "b")
			c := env.Open(s, "c")
			if err := s.LayoutMsg(tt.msg); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, boxes(a, b, c)); diff != "" {
				t.Errorf("boxes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDwindleResize(t *testing.T) {
	tests := []struct {
		name  string
		smart bool
		delta geom.Vector2D
		want  []geom.Box
	}{
		{
			name:  "smart grow",
			smart: true,
			delta: geom.Vec(100, 0),
			want:  []geom.Box{{X: 0, Y: 0, W: 1055, H: 1080}, {X: 1065, Y: 0, W: 855, H: 1080}},
		},
		{
			name:  "legacy grow",
			delta: geom.Vec(100, 0),
			want:  []geom.Box{{X: 0, Y: 0, W: 1055, H: 1080}, {X: 1065, Y: 0, W: 855, H: 1080}},
		},
		{
			name:  "vertical delta ignored on full height node",
			smart: true,
			delta: geom.Vec(0, 300),
			want:  []geom.Box{{X: 0, Y: 0, W: 955, H: 1080}, {X: 965, Y: 0, W: 955, H: 1080}},
		},
		{
			name:  "clamped shrink",
			smart: true,
			delta: geom.Vec(-5000, 0),
			want:  []geom.Box{{X: 0, Y: 0, W: 91, H: 1080}, {X: 101, Y: 0, W: 1819, H: 1080}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, s := newSpace(t)
			env.Cfg.Dwindle.SmartResizing = tt.smart
			a := env.Open(s, "a")
			b := env.Open(s, "b")

			s.Algorithm().ResizeTarget(tt.delta, a, geom.CornerNone)

			if diff := cmp.Diff(tt.want, boxes(a, b)); diff != "" {
				t.Errorf("boxes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDwindleSmartResizeCompensatesInner(t *testing.T) {
	env, s := newSpace(t)
	env.Cfg.General.GapsIn = 0
	a := env.Open(s, "a")
	b := env.Open(s, "b")
	env.Focus(a)
	env.CursorPos = geom.Vec(900, 540)
	if err := s.LayoutMsg("preselect r"); err != nil {
		t.Fatal(err)
	}
	c := env.Open(s, "c")

	// a | c | b with c between two vertical splits.
	if a.Box().W != 480 || c.Box().X != 480 || b.Box().X != 960 {
		t.Fatalf("unexpected start layout: a=%v c=%v b=%v", a.Box(), c.Box(), b.Box())
	}

	s.Algorithm().ResizeTarget(geom.Vec(100, 0), c, geom.CornerBottomRight)

	if got := a.Box(); got.W != 480 {
		t.Errorf("left neighbour moved: %v", got)
	}
	if got := c.Box(); got.X != 480 || got.W != 580 {
		t.Errorf("c box = %v, want x=480 w=580", got)
	}
	if got := b.Box(); got.X != 1060 {
		t.Errorf("right neighbour x = %g, want 1060", got.X)
	}
}

func TestDwindleMoveInDirection(t *testing.T) {
	env, s := newSpace(t)
	a := env.Open(s, "a")
	b := env.Open(s, "b")

	s.Algorithm().MoveTargetInDirection(a, geom.DirectionRight, false)

	want := []geom.Box{{X: 965, Y: 0, W: 955, H: 1080}, {X: 0, Y: 0, W: 955, H: 1080}}
	if diff := cmp.Diff(want, boxes(a, b)); diff != "" {
		t.Errorf("boxes mismatch (-want +got):\n%s", diff)
	}
}

func TestDwindleMoveAcrossMonitors(t *testing.T) {
	env, left := newSpace(t)
	right := env.NewSpace(t, strategies.Default(), dwindle.Name, "default", monitor.Translate(geom.Vec(1920, 0)))

	a := env.Open(left, "a")
	left.Algorithm().MoveTargetInDirection(a, geom.DirectionRight, false)

	if a.Space() != right {
		t.Fatalf("target stayed on space %d", a.Space().ID())
	}
	if diff := cmp.Diff(right.WorkArea(), a.Box()); diff != "" {
		t.Errorf("box mismatch (-want +got):\n%s", diff)
	}
	if total, _ := tree(t, left).Nodes(); total != 0 {
		t.Errorf("left tree still has %d nodes", total)
	}
}

func TestDwindlePseudo(t *testing.T) {
	env, s := newSpace(t)
	a := env.Open(s, "a")
	a.SetPseudo(true)
	a.SetPseudoSize(geom.Vec(400, 300))
	s.Recalculate()

	want := geom.Box{X: 760, Y: 390, W: 400, H: 300}
	if diff := cmp.Diff(want, a.Box()); diff != "" {
		t.Errorf("pseudo box mismatch (-want +got):\n%s", diff)
	}

	s.Algorithm().ResizeTarget(geom.Vec(100, 100), a, geom.CornerNone)
	if got := a.Box().Size(); got != geom.Vec(500, 400) {
		t.Errorf("pseudo size after resize = %v, want [500, 400]", got)
	}
}

func TestDwindleSwap(t *testing.T) {
	env, s := newSpace(t)
	a := env.Open(s, "a")
	b := env.Open(s, "b")
	ba, bb := a.Box(), b.Box()

	a.Swap(b)

	if a.Box() != bb || b.Box() != ba {
		t.Errorf("swap gave a=%v b=%v, want a=%v b=%v", a.Box(), b.Box(), bb, ba)
	}
	if env.Focused() != b {
		t.Errorf("focus moved to %v", env.Focused())
	}
}
