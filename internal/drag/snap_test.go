package drag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
)

var screen = geom.Box{W: 1920, H: 1080}

func windowOnly(mode Mode, corners geom.CornerMask, others ...Obstacle) SnapInput {
	return SnapInput{
		Config:  config.SnapConfig{Enabled: true, WindowGap: 10},
		Mode:    mode,
		Corners: corners,
		Others:  others,
		Work:    screen,
		Monitor: screen,
	}
}

func TestSnap(t *testing.T) {
	left := Obstacle{Box: geom.Box{X: 0, Y: 0, W: 500, H: 500}}

	tests := []struct {
		name string
		box  geom.Box
		in   SnapInput
		want geom.Box
	}{
		{
			name: "move within gap aligns",
			box:  geom.Box{X: 508, Y: 100, W: 300, H: 300},
			in:   windowOnly(ModeMove, geom.MaskAll, left),
			want: geom.Box{X: 500, Y: 100, W: 300, H: 300},
		},
		{
			name: "move beyond gap is untouched",
			box:  geom.Box{X: 515, Y: 100, W: 300, H: 300},
			in:   windowOnly(ModeMove, geom.MaskAll, left),
			want: geom.Box{X: 515, Y: 100, W: 300, H: 300},
		},
		{
			name: "no overlap on the other axis",
			box:  geom.Box{X: 508, Y: 600, W: 300, H: 300},
			in:   windowOnly(ModeMove, geom.MaskAll, left),
			want: geom.Box{X: 508, Y: 600, W: 300, H: 300},
		},
		{
			name: "resize holds the opposite edge",
			box:  geom.Box{X: 508, Y: 100, W: 300, H: 300},
			in:   windowOnly(ModeResize, geom.MaskTopLeft, left),
			want: geom.Box{X: 500, Y: 100, W: 308, H: 300},
		},
		{
			name: "resize ignores edges that do not move",
			box:  geom.Box{X: 508, Y: 100, W: 300, H: 300},
			in:   windowOnly(ModeResize, geom.MaskBottomRight, left),
			want: geom.Box{X: 508, Y: 100, W: 300, H: 300},
		},
		{
			name: "corner lines up the top edges",
			box:  geom.Box{X: 506, Y: 6, W: 300, H: 300},
			in:   windowOnly(ModeMove, geom.MaskAll, left),
			want: geom.Box{X: 500, Y: 0, W: 300, H: 300},
		},
		{
			name: "borders add up",
			box:  geom.Box{X: 510, Y: 100, W: 300, H: 300},
			in: func() SnapInput {
				in := windowOnly(ModeMove, geom.MaskAll, Obstacle{Box: left.Box, Border: 2})
				in.Border = 2
				return in
			}(),
			want: geom.Box{X: 504, Y: 100, W: 300, H: 300},
		},
		{
			name: "overlapping borders",
			box:  geom.Box{X: 510, Y: 100, W: 300, H: 300},
			in: func() SnapInput {
				in := windowOnly(ModeMove, geom.MaskAll, Obstacle{Box: left.Box, Border: 2})
				in.Border = 2
				in.Config.BorderOverlap = true
				return in
			}(),
			want: geom.Box{X: 502, Y: 100, W: 300, H: 300},
		},
		{
			name: "monitor edge",
			box:  geom.Box{X: 1615, Y: 300, W: 300, H: 300},
			in: SnapInput{
				Config:  config.SnapConfig{MonitorGap: 10},
				Mode:    ModeMove,
				Corners: geom.MaskAll,
				Work:    screen,
				Monitor: screen,
			},
			want: geom.Box{X: 1620, Y: 300, W: 300, H: 300},
		},
		{
			name: "reserved area first, raw monitor edge second",
			box:  geom.Box{X: 3, Y: 34, W: 300, H: 300},
			in: SnapInput{
				Config:  config.SnapConfig{MonitorGap: 10},
				Mode:    ModeMove,
				Corners: geom.MaskAll,
				Work:    geom.Box{X: 0, Y: 30, W: 1920, H: 1050},
				Monitor: screen,
			},
			want: geom.Box{X: 0, Y: 30, W: 300, H: 300},
		},
		{
			name: "force ratio recomputes the height after snapping",
			box:  geom.Box{X: 100, Y: 100, W: 395, H: 250},
			in: func() SnapInput {
				in := windowOnly(ModeResizeForceRatio, geom.MaskBottomRight, Obstacle{Box: geom.Box{X: 500, Y: 0, W: 400, H: 1000}})
				in.BeginSize = geom.Vec(300, 200)
				return in
			}(),
			want: geom.Box{X: 100, Y: 100, W: 400, H: 400 * 200.0 / 300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snap(tt.box, tt.in)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("Snap mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSnapGapBoundary(t *testing.T) {
	const gap = 10
	other := Obstacle{Box: geom.Box{X: 0, Y: 0, W: 500, H: 500}}

	for d := 0.0; d <= 2*gap; d++ {
		box := geom.Box{X: 500 + d, Y: 100, W: 200, H: 200}
		got := Snap(box, windowOnly(ModeMove, geom.MaskAll, other))

		want := box
		if d < gap {
			want.X = 500
		}
		if got != want {
			t.Errorf("distance %g: got %v, want %v", d, got, want)
		}
	}
}
