// Package strategies wires the built in layouts into a registry.
package strategies

import (
	"github.com/Gaurav-Gosain/tessera/internal/layout"
	"github.com/Gaurav-Gosain/tessera/internal/layout/dwindle"
	"github.com/Gaurav-Gosain/tessera/internal/layout/floating"
	"github.com/Gaurav-Gosain/tessera/internal/layout/monocle"
	"github.com/Gaurav-Gosain/tessera/internal/layout/scrolling"
)

// Default returns a registry holding dwindle, scrolling and monocle as tiled
// strategies and the default floating strategy.
func Default() *layout.Registry {
	reg := layout.NewRegistry()
	must(reg.RegisterTiled(dwindle.Name, dwindle.New))
	must(reg.RegisterTiled(scrolling.Name, scrolling.New))
	must(reg.RegisterTiled(monocle.Name, monocle.New))
	must(reg.RegisterFloating(floating.Name, floating.New))
	return reg
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
