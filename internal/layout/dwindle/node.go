package dwindle

import (
	"github.com/Gaurav-Gosain/tessera/internal/geom"
	"github.com/Gaurav-Gosain/tessera/internal/layout"
)

const (
	minRatio = 0.1
	maxRatio = 1.9
)

// node is a dwindle tree node. Leaves hold a target and no children;
// internal nodes hold two children, a ratio and an orientation.
type node struct {
	parent   *node
	children [2]*node
	target   layout.Handle
	internal bool

	box      geom.Box
	splitTop bool
	// pinned keeps splitTop across recalculations even without
	// preserve_split, set by preselection and togglesplit.
	pinned bool
	ratio  float64
	valid  bool
}

func (n *node) isLeaf() bool { return !n.internal }

// sibling returns the other child of n's parent.
func (n *node) sibling() *node {
	if n.parent == nil {
		return nil
	}
	if n.parent.children[0] == n {
		return n.parent.children[1]
	}
	return n.parent.children[0]
}

// childIndex returns 0 or 1, or -1 when c is not a child of n.
func (n *node) childIndex(c *node) int {
	switch c {
	case n.children[0]:
		return 0
	case n.children[1]:
		return 1
	}
	return -1
}

// recalc splits n's box between its children by ratio and recurses down to
// the leaves, which apply their box to the target.
func (n *node) recalc(d *Dwindle) {
	if n.isLeaf() {
		d.applyNodeToTarget(n)
		return
	}

	cfg := d.cfg().Dwindle
	if !cfg.PreserveSplit && !cfg.SmartSplit && !n.pinned {
		n.splitTop = n.box.H*cfg.SplitWidthMultiplier > n.box.W
	}

	b := n.box
	if !n.splitTop {
		first := b.W / 2 * n.ratio
		n.children[0].box = geom.Box{X: b.X, Y: b.Y, W: first, H: b.H}
		n.children[1].box = geom.Box{X: b.X + first, Y: b.Y, W: b.W - first, H: b.H}
	} else {
		first := b.H / 2 * n.ratio
		n.children[0].box = geom.Box{X: b.X, Y: b.Y, W: b.W, H: first}
		n.children[1].box = geom.Box{X: b.X, Y: b.Y + first, W: b.W, H: b.H - first}
	}

	n.children[0].recalc(d)
	n.children[1].recalc(d)
}
