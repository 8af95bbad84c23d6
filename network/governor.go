// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
)

// Governor is a first-order lag governor: one differential state (its
// mechanical power output) chasing a reference through time constant Tg,
// droop-corrected by the attached generator's speed deviation. It is added
// as a sub-object of its Generator (for size/offset aggregation) and also
// held by a direct field so Generator.Derivative can read its output
// without walking the tree.
type Governor struct {
	gdcomp.Base

	Gen *Generator

	Tg    float64 // time constant, seconds
	Droop float64 // per-unit speed droop, e.g. 0.05 for 5%
	PRef  float64 // reference power setpoint

	pm float64 // live cache, populated by SetState
}

func NewGovernor(name string, gen *Generator, tg, droop, pRef float64) *Governor {
	o := &Governor{Gen: gen, Tg: tg, Droop: droop, PRef: pRef, pm: pRef}
	o.Init(o, name)
	gen.Governor = o
	gen.AddSubObject(o)
	return o
}

func (o *Governor) base() *gdcomp.Base { return &o.Base }
func (o *Governor) TypeName() string   { return "governor" }

func (o *Governor) LocalStateSizes(mode gdmode.Mode) gdmode.StateSizes {
	if !mode.Dynamic {
		return gdmode.StateSizes{}
	}
	return gdmode.StateSizes{Diff: 1, Jac: 2}
}
func (o *Governor) LocalJacobianCount(mode gdmode.Mode) int    { return o.LocalStateSizes(mode).Jac }
func (o *Governor) LocalRootCount(mode gdmode.Mode) (int, int) { return 0, 0 }
func (o *Governor) SetOffset(base int, mode gdmode.Mode, order gdcomp.OffsetOrder) {
	o.Table.SetOffset(base, mode)
}

func (o *Governor) GuessState(t float64, state, dstate []float64, mode gdmode.Mode) {
	slot := o.Table.Get(mode)
	if slot.DiffOffset != gdmode.NullOffset {
		state[slot.DiffOffset] = o.PRef
	}
}

func (o *Governor) SetState(t float64, state, dstate []float64, mode gdmode.Mode) {
	slot := o.Table.Get(mode)
	if slot.DiffOffset == gdmode.NullOffset {
		o.pm = o.PRef
		return
	}
	o.pm = state[slot.DiffOffset]
}

func (o *Governor) Residual(inputs []float64, sd *gdmode.StateData, resid []float64, mode gdmode.Mode) error {
	return nil
}

// Derivative implements pm' = (target - pm) / Tg where target droops the
// reference by the generator's present speed deviation.
func (o *Governor) Derivative(inputs []float64, sd *gdmode.StateData, deriv []float64, mode gdmode.Mode) error {
	if !mode.Dynamic {
		return nil
	}
	target := o.PRef - o.Gen.omega/o.Droop
	deriv[0] = (target - o.pm) / o.Tg
	return nil
}

func (o *Governor) AlgebraicUpdate(inputs []float64, sd *gdmode.StateData, update []float64, mode gdmode.Mode, alpha float64) error {
	return nil
}
func (o *Governor) JacobianElements(inputs []float64, sd *gdmode.StateData, sink gdcomp.JacobianSink, inputLocs []int, mode gdmode.Mode) error {
	slot := o.Table.Get(mode)
	if slot.DiffOffset == gdmode.NullOffset {
		return nil
	}
	sink.Put(slot.DiffOffset, slot.DiffOffset, -1/o.Tg)
	return nil
}
func (o *Governor) IoPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Governor) OutputPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Governor) RootTest(inputs []float64, sd *gdmode.StateData, roots []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Governor) RootTrigger(t float64, inputs []float64, mask []bool, mode gdmode.Mode) gdmode.ChangeCode {
	return gdmode.NoChange
}
func (o *Governor) RootCheck(sd *gdmode.StateData, mode gdmode.Mode) error { return nil }

func (o *Governor) GetOutputs(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) []float64 {
	return []float64{o.pm}
}
func (o *Governor) GetOutput(index int) float64 { return o.pm }

func (o *Governor) Timestep(t float64, inputs []float64, mode gdmode.Mode) error { return nil }

// MechanicalPower returns the governor's present power output, read by
// Generator.Derivative in place of its static Pm field.
func (o *Governor) MechanicalPower() float64 { return o.pm }

func (o *Governor) Set(name string, value float64, unit string) (gdcomp.SetResult, error) {
	switch name {
	case "pref":
		o.PRef = value
		o.PostAlert(gdcomp.AlertParameterChanged, gdmode.ParameterChange)
		return gdcomp.Recognized, nil
	case "droop":
		o.Droop = value
		return gdcomp.Recognized, nil
	}
	return o.Base.Set(name, value, unit)
}
