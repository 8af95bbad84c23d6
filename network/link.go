// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"math"

	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
)

// Link is a transmission branch between two buses, modeled as a series
// admittance (R+jX reduced to G,B). It carries no states of its own — it is
// a pure function of its two end buses' voltage/angle — and attaches itself
// to both ends so Bus.Residual can fold its flow into the power balance
// without Link ever being walked from a global list.
type Link struct {
	gdcomp.Base

	From, To   *Bus
	R, X       float64 // per-unit series resistance/reactance
	g, b       float64 // derived conductance/susceptance

	Tripped bool // set by a Relay's RootTrigger; a tripped link carries no flow
}

func NewLink(name string, from, to *Bus, r, x float64) *Link {
	o := &Link{From: from, To: to, R: r, X: x}
	o.Init(o, name)
	o.recomputeAdmittance()
	from.Attach(linkEnd{link: o, reversed: false})
	to.Attach(linkEnd{link: o, reversed: true})
	return o
}

// linkEnd is one terminal's view of a Link: the From terminal sees the flow
// leaving it, the To terminal sees the same flow arriving with reversed sign.
// Two distinct values let both ends attach to the same underlying Link
// without either reading the other's sign convention.
type linkEnd struct {
	link     *Link
	reversed bool
}

func (e linkEnd) Inject(sd *gdmode.StateData, mode gdmode.Mode) (p, q float64) {
	p, q = e.link.flowFrom()
	if e.reversed {
		return -p, -q
	}
	return p, q
}

func (o *Link) recomputeAdmittance() {
	denom := o.R*o.R + o.X*o.X
	if denom == 0 {
		o.g, o.b = 0, 0
		return
	}
	o.g = o.R / denom
	o.b = -o.X / denom
}

func (o *Link) base() *gdcomp.Base { return &o.Base }
func (o *Link) TypeName() string   { return "link" }

func (o *Link) LocalStateSizes(mode gdmode.Mode) gdmode.StateSizes { return gdmode.StateSizes{Jac: 4} }
func (o *Link) LocalJacobianCount(mode gdmode.Mode) int            { return 4 }
func (o *Link) LocalRootCount(mode gdmode.Mode) (int, int)         { return 0, 0 }
func (o *Link) SetOffset(base int, mode gdmode.Mode, order gdcomp.OffsetOrder) {
	o.Table.SetOffset(base, mode)
}
func (o *Link) GuessState(t float64, state, dstate []float64, mode gdmode.Mode) {}
func (o *Link) SetState(t float64, state, dstate []float64, mode gdmode.Mode)   {}

func (o *Link) Residual(inputs []float64, sd *gdmode.StateData, resid []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Link) Derivative(inputs []float64, sd *gdmode.StateData, deriv []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Link) AlgebraicUpdate(inputs []float64, sd *gdmode.StateData, update []float64, mode gdmode.Mode, alpha float64) error {
	return nil
}
func (o *Link) JacobianElements(inputs []float64, sd *gdmode.StateData, sink gdcomp.JacobianSink, inputLocs []int, mode gdmode.Mode) error {
	return nil
}
func (o *Link) IoPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Link) OutputPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}

func (o *Link) RootTest(inputs []float64, sd *gdmode.StateData, roots []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Link) RootTrigger(t float64, inputs []float64, mask []bool, mode gdmode.Mode) gdmode.ChangeCode {
	return gdmode.NoChange
}
func (o *Link) RootCheck(sd *gdmode.StateData, mode gdmode.Mode) error { return nil }

// Terminals returns the two buses this link connects, used by the driver's
// connectivity pass and high-angle-trip check without exposing From/To's
// field layout.
func (o *Link) Terminals() (*Bus, *Bus) { return o.From, o.To }

// flowFrom returns (P,Q) flowing out of the From bus toward the To bus.
func (o *Link) flowFrom() (p, q float64) {
	if o.Tripped {
		return 0, 0
	}
	v1, a1 := o.From.BusVoltage(), o.From.BusAngle()
	v2, a2 := o.To.BusVoltage(), o.To.BusAngle()
	d := a1 - a2
	p = v1 * v1 * o.g - v1*v2*(o.g*math.Cos(d)+o.b*math.Sin(d))
	q = -v1*v1*o.b - v1*v2*(o.g*math.Sin(d)-o.b*math.Cos(d))
	return p, q
}

// GetOutputs reports flow as seen from the From terminal: [P, Q]. The To
// terminal's view (with reversed sign) is available to Bus only through the
// linkEnd wrapper created in NewLink, not through this general-purpose
// Component accessor.
func (o *Link) GetOutputs(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) []float64 {
	p, q := o.flowFrom()
	return []float64{p, q}
}

func (o *Link) GetOutput(index int) float64 {
	out := o.GetOutputs(nil, nil, gdmode.Local)
	if index < 0 || index >= len(out) {
		return 0
	}
	return out[index]
}

func (o *Link) Timestep(t float64, inputs []float64, mode gdmode.Mode) error { return nil }

func (o *Link) Set(name string, value float64, unit string) (gdcomp.SetResult, error) {
	switch name {
	case "r":
		o.R = value
		o.recomputeAdmittance()
		return gdcomp.Recognized, nil
	case "x":
		o.X = value
		o.recomputeAdmittance()
		return gdcomp.Recognized, nil
	}
	return o.Base.Set(name, value, unit)
}
