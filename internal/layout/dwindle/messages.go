package dwindle

import (
	"strconv"
	"strings"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
)

// LayoutMsg runs a dwindle command:
//
//	togglesplit              flip the orientation of the focused split
//	swapsplit                swap the two halves of the focused split
//	movetoroot [unstable]    move the focused subtree next to the root split
//	preselect <dir|none>     choose the side of the next split
//	splitratio <+d|-d|exact v>
func (d *Dwindle) LayoutMsg(msg string) error {
	args := strings.Fields(msg)
	if len(args) == 0 {
		return tserrors.New(tserrors.ErrCodeInvalidCommand, "empty layout message")
	}

	switch args[0] {
	case "preselect":
		return d.preselect(args[1:])
	case "togglesplit", "swapsplit", "movetoroot", "splitratio":
	default:
		return tserrors.New(tserrors.ErrCodeInvalidCommand, "unknown dwindle command %q", args[0])
	}

	n, err := d.focusedNode()
	if err != nil {
		return err
	}

	switch args[0] {
	case "togglesplit":
		if n.parent == nil {
			return nil
		}
		n.parent.splitTop = !n.parent.splitTop
		n.parent.pinned = true
		n.parent.recalc(d)
	case "swapsplit":
		if n.parent == nil {
			return nil
		}
		p := n.parent
		p.children[0], p.children[1] = p.children[1], p.children[0]
		p.recalc(d)
	case "movetoroot":
		stable := len(args) < 2 || args[1] != "unstable"
		d.moveToRoot(n, stable)
	case "splitratio":
		return d.splitRatio(n, args[1:])
	}
	return nil
}

func (d *Dwindle) focusedNode() (*node, error) {
	f := d.env().Focused()
	if f == nil || f.Space() != d.space || f.Floating() {
		return nil, tserrors.New(tserrors.ErrCodeNoTarget, "no focused tiled window")
	}
	n := d.nodeFor(f)
	if n == nil {
		return nil, tserrors.New(tserrors.ErrCodeNoTarget, "focused window %s is not in the tree", f.ID())
	}
	return n, nil
}

func (d *Dwindle) preselect(args []string) error {
	if len(args) == 0 {
		return tserrors.New(tserrors.ErrCodeInvalidArgument, "preselect needs a direction")
	}
	if args[0] == "none" || args[0] == "default" {
		d.override = geom.DirectionDefault
		return nil
	}
	dir, err := geom.ParseDirection(args[0])
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "preselect")
	}
	d.override = dir
	return nil
}

// moveToRoot swaps n with the root child that is not its ancestor. A stable
// move also swaps the root children so n keeps its side of the screen.
func (d *Dwindle) moveToRoot(n *node, stable bool) {
	if n.parent == nil {
		return
	}

	ancestor, root := n, n.parent
	for root.parent != nil {
		ancestor, root = root, root.parent
	}

	swapIdx := 1 - root.childIndex(ancestor)
	other := root.children[swapIdx]
	if other == n {
		return
	}

	parent := n.parent
	idx := parent.childIndex(n)
	if idx < 0 {
		d.logger().Error("internal bug: dwindle node missing from its parent")
		return
	}

	parent.children[idx] = other
	root.children[swapIdx] = n
	other.parent = parent
	n.parent = root

	if stable {
		root.children[0], root.children[1] = root.children[1], root.children[0]
	}
	root.recalc(d)
}

func (d *Dwindle) splitRatio(n *node, args []string) error {
	if len(args) == 0 {
		return tserrors.New(tserrors.ErrCodeInvalidArgument, "splitratio needs a value")
	}

	exact := args[0] == "exact"
	raw := args[0]
	if exact {
		if len(args) < 2 {
			return tserrors.New(tserrors.ErrCodeInvalidArgument, "splitratio exact needs a value")
		}
		raw = args[1]
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeInvalidArgument, err, "splitratio %q", raw)
	}

	p := n.parent
	if p == nil {
		return nil
	}
	if exact {
		p.ratio = v
	} else {
		p.ratio += v
	}
	p.ratio = geom.Clamp(p.ratio, minRatio, maxRatio)
	p.recalc(d)
	return nil
}

// Nodes returns the node count and the leaf count, for introspection.
func (d *Dwindle) Nodes() (total, leaves int) {
	for _, n := range d.nodes {
		total++
		if n.isLeaf() {
			leaves++
		}
	}
	return total, leaves
}

// Leaves returns the targets in tree order, left to right.
func (d *Dwindle) Leaves() []*layout.Target {
	var out []*layout.Target
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		if n.isLeaf() {
			if t := d.targetOf(n); t != nil {
				out = append(out, t)
			}
			return
		}
		walk(n.children[0])
		walk(n.children[1])
	}
	walk(d.root())
	return out
}
