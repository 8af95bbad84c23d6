// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
)

// Area is the tree-owning container of a network: it holds every Bus, Link,
// Generator, Load and Relay as a sub-object (so gdcomp's aggregation walk
// sizes, offsets and Jacobian counts them) while Bus.attached references
// (not ownership) are what let power actually flow between them. Area plays
// the role fem.Domain plays for its cells: the root that owns everything and
// contributes no physics of its own.
type Area struct {
	gdcomp.Base

	Buses      []*Bus
	Links      []*Link
	Generators []*Generator
	Loads      []*Load
	Relays     []*Relay
}

func NewArea(name string) *Area {
	o := &Area{}
	o.Init(o, name)
	return o
}

func (o *Area) base() *gdcomp.Base { return &o.Base }
func (o *Area) TypeName() string   { return "area" }

// AddBus/AddLink/AddGenerator/AddLoad/AddRelay both register the device for
// direct typed access (o.Buses, ...) and adopt it into the owning tree via
// Base.AddSubObject, so it participates in size/offset/Jacobian aggregation.
func (o *Area) AddBus(b *Bus) *Bus {
	o.Buses = append(o.Buses, b)
	o.AddSubObject(b)
	return b
}
func (o *Area) AddLink(l *Link) *Link {
	o.Links = append(o.Links, l)
	o.AddSubObject(l)
	return l
}
func (o *Area) AddGenerator(g *Generator) *Generator {
	o.Generators = append(o.Generators, g)
	o.AddSubObject(g)
	return g
}
func (o *Area) AddLoad(ld *Load) *Load {
	o.Loads = append(o.Loads, ld)
	o.AddSubObject(ld)
	return ld
}
func (o *Area) AddRelay(r *Relay) *Relay {
	o.Relays = append(o.Relays, r)
	o.AddSubObject(r)
	return r
}

// BusByName finds a direct bus by name without descending into generators'
// own sub-object trees (governors/exciters), unlike the generic Find.
func (o *Area) BusByName(name string) *Bus {
	for _, b := range o.Buses {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

func (o *Area) LocalStateSizes(mode gdmode.Mode) gdmode.StateSizes { return gdmode.StateSizes{} }
func (o *Area) LocalJacobianCount(mode gdmode.Mode) int            { return 0 }
func (o *Area) LocalRootCount(mode gdmode.Mode) (int, int)         { return 0, 0 }
func (o *Area) SetOffset(base int, mode gdmode.Mode, order gdcomp.OffsetOrder) {
	o.Table.SetOffset(base, mode)
}
func (o *Area) GuessState(t float64, state, dstate []float64, mode gdmode.Mode) {}
func (o *Area) SetState(t float64, state, dstate []float64, mode gdmode.Mode)   {}
func (o *Area) Residual(inputs []float64, sd *gdmode.StateData, resid []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Area) Derivative(inputs []float64, sd *gdmode.StateData, deriv []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Area) AlgebraicUpdate(inputs []float64, sd *gdmode.StateData, update []float64, mode gdmode.Mode, alpha float64) error {
	return nil
}
func (o *Area) JacobianElements(inputs []float64, sd *gdmode.StateData, sink gdcomp.JacobianSink, inputLocs []int, mode gdmode.Mode) error {
	return nil
}
func (o *Area) IoPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Area) OutputPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Area) RootTest(inputs []float64, sd *gdmode.StateData, roots []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Area) RootTrigger(t float64, inputs []float64, mask []bool, mode gdmode.Mode) gdmode.ChangeCode {
	return gdmode.NoChange
}
func (o *Area) RootCheck(sd *gdmode.StateData, mode gdmode.Mode) error { return nil }
func (o *Area) GetOutputs(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) []float64 {
	return nil
}
func (o *Area) GetOutput(index int) float64                               { return 0 }
func (o *Area) Timestep(t float64, inputs []float64, mode gdmode.Mode) error { return nil }
