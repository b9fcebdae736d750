// Package rules matches window rules against new windows and resolves their
// size and position expressions.
//
// Expressions are pairs of values separated by a space. Each value is either
// absolute pixels ("400", "400px") or a percentage of the work area
// ("50%"). Positions are relative to the work area origin.
package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
)

// Value is one axis of an expression.
type Value struct {
	N       float64
	Percent bool
}

// Resolve returns the value in pixels for an axis of length total.
func (v Value) Resolve(total float64) float64 {
	if v.Percent {
		return total * v.N / 100
	}
	return v.N
}

func (v Value) String() string {
	if v.Percent {
		return strconv.FormatFloat(v.N, 'g', -1, 64) + "%"
	}
	return strconv.FormatFloat(v.N, 'g', -1, 64)
}

// ParseValue parses "400", "400px" or "50%".
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	var v Value
	switch {
	case strings.HasSuffix(s, "%"):
		v.Percent = true
		s = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid value %q", s)
	}
	v.N = n
	return v, nil
}

// Expr is an x/y pair of values.
type Expr struct {
	X, Y Value
}

// ParseExpr parses "W H" or "X Y".
func ParseExpr(s string) (Expr, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Expr{}, fmt.Errorf("expression %q needs two values", s)
	}
	x, err := ParseValue(fields[0])
	if err != nil {
		return Expr{}, err
	}
	y, err := ParseValue(fields[1])
	if err != nil {
		return Expr{}, err
	}
	return Expr{X: x, Y: y}, nil
}

// Resolve returns the pair in pixels against area's size.
func (e Expr) Resolve(area geom.Box) geom.Vector2D {
	return geom.Vec(e.X.Resolve(area.W), e.Y.Resolve(area.H))
}

func (e Expr) String() string { return e.X.String() + " " + e.Y.String() }

type rule struct {
	class, title *regexp.Regexp
	src          config.WindowRule
	size, pos    *Expr
}

// Set is a compiled list of rules, applied in order.
type Set struct {
	rules []rule
}

// Compile parses every rule, collecting all errors.
func Compile(cfgs []config.WindowRule) (*Set, error) {
	set := &Set{}
	var errs error
	for i, c := range cfgs {
		r := rule{src: c}
		var err error
		if c.Class != "" {
			if r.class, err = regexp.Compile(c.Class); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("window_rule[%d].class: %w", i, err))
			}
		}
		if c.Title != "" {
			if r.title, err = regexp.Compile(c.Title); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("window_rule[%d].title: %w", i, err))
			}
		}
		if c.Size != "" {
			e, err := ParseExpr(c.Size)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("window_rule[%d].size: %w", i, err))
			}
			r.size = &e
		}
		if c.Position != "" {
			e, err := ParseExpr(c.Position)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("window_rule[%d].position: %w", i, err))
			}
			r.pos = &e
		}
		set.rules = append(set.rules, r)
	}
	if errs != nil {
		return nil, tserrors.Wrap(tserrors.ErrCodeConfig, errs, "invalid window rules")
	}
	return set, nil
}

// Match is the merged effect of every rule matching a window.
type Match struct {
	Float     bool
	Pseudo    bool
	Center    bool
	Size      *Expr
	Position  *Expr
	Workspace int
}

// Empty reports whether no rule matched.
func (m Match) Empty() bool { return m == Match{} }

// Match returns the merged result for a window. Later rules override earlier
// ones field by field.
func (s *Set) Match(class, title string) Match {
	var m Match
	if s == nil {
		return m
	}
	for _, r := range s.rules {
		if r.class != nil && !r.class.MatchString(class) {
			continue
		}
		if r.title != nil && !r.title.MatchString(title) {
			continue
		}
		if r.class == nil && r.title == nil {
			continue
		}
		m.Float = m.Float || r.src.Float
		m.Pseudo = m.Pseudo || r.src.Pseudo
		m.Center = m.Center || r.src.Center
		if r.size != nil {
			m.Size = r.size
		}
		if r.pos != nil {
			m.Position = r.pos
		}
		if r.src.Workspace != 0 {
			m.Workspace = r.src.Workspace
		}
	}
	return m
}

// Len returns the number of compiled rules.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}
