// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
)

// Load is a ZIP (constant-impedance/current/power) load attached to one bus.
// It carries no states: its injection is a pure function of the bus's
// present voltage, recomputed every residual evaluation (spec.md §4.2,
// "Residual ... may read but never write State/Derivative").
type Load struct {
	gdcomp.Base

	Bus *Bus

	P0, Q0 float64 // per-unit real/reactive demand at nominal voltage
	FracZ  float64 // fraction modeled as constant impedance
	FracI  float64 // fraction modeled as constant current
	// remainder (1 - FracZ - FracI) is constant power
}

func NewLoad(name string, bus *Bus, p0, q0 float64) *Load {
	o := &Load{Bus: bus, P0: p0, Q0: q0}
	o.Init(o, name)
	bus.Attach(o)
	return o
}

func (o *Load) base() *gdcomp.Base { return &o.Base }
func (o *Load) TypeName() string   { return "load" }

func (o *Load) LocalStateSizes(mode gdmode.Mode) gdmode.StateSizes { return gdmode.StateSizes{} }
func (o *Load) LocalJacobianCount(mode gdmode.Mode) int            { return 0 }
func (o *Load) LocalRootCount(mode gdmode.Mode) (int, int)         { return 0, 0 }
func (o *Load) SetOffset(base int, mode gdmode.Mode, order gdcomp.OffsetOrder) {
	o.Table.SetOffset(base, mode)
}
func (o *Load) GuessState(t float64, state, dstate []float64, mode gdmode.Mode) {}
func (o *Load) SetState(t float64, state, dstate []float64, mode gdmode.Mode)   {}
func (o *Load) Residual(inputs []float64, sd *gdmode.StateData, resid []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Load) Derivative(inputs []float64, sd *gdmode.StateData, deriv []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Load) AlgebraicUpdate(inputs []float64, sd *gdmode.StateData, update []float64, mode gdmode.Mode, alpha float64) error {
	return nil
}
func (o *Load) JacobianElements(inputs []float64, sd *gdmode.StateData, sink gdcomp.JacobianSink, inputLocs []int, mode gdmode.Mode) error {
	return nil
}
func (o *Load) IoPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Load) OutputPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Load) RootTest(inputs []float64, sd *gdmode.StateData, roots []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Load) RootTrigger(t float64, inputs []float64, mask []bool, mode gdmode.Mode) gdmode.ChangeCode {
	return gdmode.NoChange
}
func (o *Load) RootCheck(sd *gdmode.StateData, mode gdmode.Mode) error { return nil }

// Inject returns the load's demand as negative generation: P,Q drawn from
// the bus scale with voltage according to FracZ/FracI/constant-power split.
// A disabled load (contingency outage) injects nothing.
func (o *Load) Inject(sd *gdmode.StateData, mode gdmode.Mode) (p, q float64) {
	if o.Flags.Has(gdcomp.FlagDisabled) {
		return 0, 0
	}
	v := o.Bus.BusVoltage()
	fracP := 1 - o.FracZ - o.FracI
	scale := o.FracZ*v*v + o.FracI*v + fracP
	return -o.P0 * scale, -o.Q0 * scale
}

func (o *Load) GetOutputs(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) []float64 {
	p, q := o.Inject(sd, mode)
	return []float64{p, q}
}
func (o *Load) GetOutput(index int) float64 {
	out := o.GetOutputs(nil, nil, gdmode.Local)
	if index < 0 || index >= len(out) {
		return 0
	}
	return out[index]
}

func (o *Load) Timestep(t float64, inputs []float64, mode gdmode.Mode) error { return nil }

func (o *Load) Set(name string, value float64, unit string) (gdcomp.SetResult, error) {
	switch name {
	case "p0":
		o.P0 = value
		o.PostAlert(gdcomp.AlertParameterChanged, gdmode.ParameterChange)
		return gdcomp.Recognized, nil
	case "q0":
		o.Q0 = value
		o.PostAlert(gdcomp.AlertParameterChanged, gdmode.ParameterChange)
		return gdcomp.Recognized, nil
	case "fracz":
		o.FracZ = value
		return gdcomp.Recognized, nil
	case "fraci":
		o.FracI = value
		return gdcomp.Recognized, nil
	}
	return o.Base.Set(name, value, unit)
}
