package scrolling

import (
	"math"
	"slices"
	"strconv"
	"strings"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
)

// LayoutMsg runs a scrolling command:
//
//	move <+col|-col|+px|-px>
//	colresize <+d|-d|v|all v|+conf|-conf>
//	fit <active|visible|all|toend|tobeg>
//	focus <l|r|u|d>
//	promote
//	swapcol <l|r>
func (s *Scrolling) LayoutMsg(msg string) error {
	args := strings.Fields(msg)
	if len(args) == 0 {
		return tserrors.New(tserrors.ErrCodeInvalidCommand, "empty layout message")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "move":
		return s.move(rest)
	case "colresize", "fit", "focus", "promote", "swapcol":
	default:
		return tserrors.New(tserrors.ErrCodeInvalidCommand, "unknown scrolling command %q", cmd)
	}

	f, si, ii, err := s.focused()
	if err != nil {
		return err
	}

	switch cmd {
	case "colresize":
		err = s.colresize(si, rest)
	case "fit":
		err = s.fit(si, rest)
	case "focus":
		err = s.focusDir(si, ii, rest)
	case "promote":
		s.promote(f, si, ii)
	case "swapcol":
		err = s.swapcol(si, rest)
	}
	return err
}

func (s *Scrolling) focused() (*layout.Target, int, int, error) {
	f := s.env().Focused()
	si, ii := s.find(f)
	if si < 0 {
		return nil, -1, -1, tserrors.New(tserrors.ErrCodeNoTarget, "no focused window in the strips")
	}
	return f, si, ii, nil
}

func needArg(cmd string, args []string) error {
	if len(args) == 0 {
		return tserrors.New(tserrors.ErrCodeInvalidArgument, "%s needs an argument", cmd)
	}
	return nil
}

func (s *Scrolling) move(args []string) error {
	if err := needArg("move", args); err != nil {
		return err
	}

	switch args[0] {
	case "+col", "-col":
		step := 1
		if args[0] == "-col" {
			step = -1
		}
		cur := 0
		if _, si, _, err := s.focused(); err == nil {
			cur = si
		}
		next := cur + step
		if next < 0 || next >= len(s.strips) {
			return nil
		}
		starts, _ := s.starts()
		s.offset = starts[next]
		s.userScrolled = false
		s.Recalculate()
		if t := s.targetOf(s.strips[next].items[0]); t != nil {
			s.env().Focus(t)
		}
		return nil
	}

	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "move %q", args[0])
	}
	s.offset += v
	s.userScrolled = true
	s.Recalculate()
	return nil
}

func (s *Scrolling) colresize(si int, args []string) error {
	if err := needArg("colresize", args); err != nil {
		return err
	}
	st := s.strips[si]

	switch arg := args[0]; {
	case arg == "all":
		if len(args) < 2 {
			return tserrors.New(tserrors.ErrCodeInvalidArgument, "colresize all needs a width")
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "colresize all %q", args[1])
		}
		for _, o := range s.strips {
			o.width = geom.Clamp(v, minStripWidth, maxStripWidth)
		}
	case arg == "+conf" || arg == "-conf":
		st.width = cycleWidth(s.cfg().Scrolling.ExplicitColumnWidths, st.width, arg == "+conf")
	default:
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "colresize %q", arg)
		}
		if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
			v += st.width
		}
		st.width = geom.Clamp(v, minStripWidth, maxStripWidth)
	}

	s.bringIntoView(si)
	s.Recalculate()
	return nil
}

// cycleWidth returns the next configured width above (or below) current,
// wrapping around.
func cycleWidth(widths []float64, current float64, up bool) float64 {
	if len(widths) == 0 {
		return current
	}
	sorted := slices.Sorted(slices.Values(widths))
	if up {
		for _, w := range sorted {
			if w > current+geom.Epsilon {
				return geom.Clamp(w, minStripWidth, maxStripWidth)
			}
		}
		return geom.Clamp(sorted[0], minStripWidth, maxStripWidth)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] < current-geom.Epsilon {
			return geom.Clamp(sorted[i], minStripWidth, maxStripWidth)
		}
	}
	return geom.Clamp(sorted[len(sorted)-1], minStripWidth, maxStripWidth)
}

func (s *Scrolling) fit(si int, args []string) error {
	if err := needArg("fit", args); err != nil {
		return err
	}

	var from, to int
	switch args[0] {
	case "active":
		from, to = si, si
	case "all":
		from, to = 0, len(s.strips)-1
	case "toend":
		from, to = si, len(s.strips)-1
	case "tobeg":
		from, to = 0, si
	case "visible":
		from, to = -1, -1
		for i := range s.strips {
			if s.visibleFraction(i) > 0 {
				if from < 0 {
					from = i
				}
				to = i
			}
		}
		if from < 0 {
			return nil
		}
	default:
		return tserrors.New(tserrors.ErrCodeInvalidArgument, "fit %q is not one of active, visible, all, toend, tobeg", args[0])
	}

	w := geom.Clamp(1/float64(to-from+1), minStripWidth, maxStripWidth)
	for i := from; i <= to; i++ {
		s.strips[i].width = w
	}
	starts, _ := s.starts()
	s.offset = starts[from]
	s.userScrolled = false
	s.Recalculate()
	return nil
}

func (s *Scrolling) focusDir(si, ii int, args []string) error {
	if err := needArg("focus", args); err != nil {
		return err
	}
	dir, err := geom.ParseDirection(args[0])
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "focus")
	}

	ax := s.axis()
	stripStep, itemStep := ax.step(dir)
	var next *layout.Target

	if stripStep != 0 {
		nb := si + stripStep
		if nb < 0 || nb >= len(s.strips) {
			return nil
		}
		// Pick the tile in the neighbour strip closest to ours on the
		// secondary axis.
		cur := s.targetOf(s.strips[si].items[ii])
		best := math.Inf(1)
		for _, it := range s.strips[nb].items {
			t := s.targetOf(it)
			if t == nil {
				continue
			}
			d := math.Abs(ax.secondaryOf(t.Box().Middle()) - ax.secondaryOf(cur.Box().Middle()))
			if d < best {
				best, next = d, t
			}
		}
	} else {
		nb := ii + itemStep
		if nb < 0 || nb >= len(s.strips[si].items) {
			return nil
		}
		next = s.targetOf(s.strips[si].items[nb])
	}

	if next != nil {
		s.env().Focus(next)
	}
	return nil
}

// promote moves t out of a shared strip into its own strip right after it.
func (s *Scrolling) promote(t *layout.Target, si, ii int) {
	st := s.strips[si]
	if len(st.items) < 2 {
		return
	}
	st.remove(ii)
	s.strips = slices.Insert(s.strips, si+1, s.newStrip(t))
	s.bringIntoView(si + 1)
	s.Recalculate()
}

func (s *Scrolling) swapcol(si int, args []string) error {
	if err := needArg("swapcol", args); err != nil {
		return err
	}
	dir, err := geom.ParseDirection(args[0])
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "swapcol")
	}
	step, _ := s.axis().step(dir)
	if step == 0 {
		return tserrors.New(tserrors.ErrCodeInvalidArgument, "swapcol direction %s is across the strips", dir)
	}
	n := len(s.strips)
	nb := ((si+step)%n + n) % n
	s.strips[si], s.strips[nb] = s.strips[nb], s.strips[si]
	s.bringIntoView(nb)
	s.Recalculate()
	return nil
}
