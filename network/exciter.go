// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
)

// Exciter is a first-order lag voltage regulator: one differential state
// (field voltage / internal EMF) chasing a target set by the terminal
// voltage error through gain Ka and time constant Ta. It only feeds back
// Generator.Eq, the real-power-relevant EMF; it does not model field current
// limiting or a separate reactive-power output, left for a future model
// (no component in this tree consumes it, so it is not built speculatively).
type Exciter struct {
	gdcomp.Base

	Gen *Generator

	Ta, Ka  float64
	VRef    float64

	eq float64 // live cache, populated by SetState
}

func NewExciter(name string, gen *Generator, ta, ka, vRef float64) *Exciter {
	o := &Exciter{Gen: gen, Ta: ta, Ka: ka, VRef: vRef, eq: gen.Eq}
	o.Init(o, name)
	gen.Exciter = o
	gen.AddSubObject(o)
	return o
}

func (o *Exciter) base() *gdcomp.Base { return &o.Base }
func (o *Exciter) TypeName() string   { return "exciter" }

func (o *Exciter) LocalStateSizes(mode gdmode.Mode) gdmode.StateSizes {
	if !mode.Dynamic {
		return gdmode.StateSizes{}
	}
	return gdmode.StateSizes{Diff: 1, Jac: 2}
}
func (o *Exciter) LocalJacobianCount(mode gdmode.Mode) int    { return o.LocalStateSizes(mode).Jac }
func (o *Exciter) LocalRootCount(mode gdmode.Mode) (int, int) { return 0, 0 }
func (o *Exciter) SetOffset(base int, mode gdmode.Mode, order gdcomp.OffsetOrder) {
	o.Table.SetOffset(base, mode)
}

func (o *Exciter) GuessState(t float64, state, dstate []float64, mode gdmode.Mode) {
	slot := o.Table.Get(mode)
	if slot.DiffOffset != gdmode.NullOffset {
		state[slot.DiffOffset] = o.Gen.Eq
	}
}

func (o *Exciter) SetState(t float64, state, dstate []float64, mode gdmode.Mode) {
	slot := o.Table.Get(mode)
	if slot.DiffOffset == gdmode.NullOffset {
		o.eq = o.Gen.Eq
		return
	}
	o.eq = state[slot.DiffOffset]
	o.Gen.Eq = o.eq
}

func (o *Exciter) Residual(inputs []float64, sd *gdmode.StateData, resid []float64, mode gdmode.Mode) error {
	return nil
}

func (o *Exciter) Derivative(inputs []float64, sd *gdmode.StateData, deriv []float64, mode gdmode.Mode) error {
	if !mode.Dynamic {
		return nil
	}
	vErr := o.VRef - o.Gen.Bus.BusVoltage()
	target := o.Ka * vErr
	deriv[0] = (target - o.eq) / o.Ta
	return nil
}

func (o *Exciter) AlgebraicUpdate(inputs []float64, sd *gdmode.StateData, update []float64, mode gdmode.Mode, alpha float64) error {
	return nil
}
func (o *Exciter) JacobianElements(inputs []float64, sd *gdmode.StateData, sink gdcomp.JacobianSink, inputLocs []int, mode gdmode.Mode) error {
	slot := o.Table.Get(mode)
	if slot.DiffOffset == gdmode.NullOffset {
		return nil
	}
	sink.Put(slot.DiffOffset, slot.DiffOffset, -1/o.Ta)
	return nil
}
func (o *Exciter) IoPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Exciter) OutputPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Exciter) RootTest(inputs []float64, sd *gdmode.StateData, roots []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Exciter) RootTrigger(t float64, inputs []float64, mask []bool, mode gdmode.Mode) gdmode.ChangeCode {
	return gdmode.NoChange
}
func (o *Exciter) RootCheck(sd *gdmode.StateData, mode gdmode.Mode) error { return nil }

func (o *Exciter) GetOutputs(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) []float64 {
	return []float64{o.eq}
}
func (o *Exciter) GetOutput(index int) float64 { return o.eq }

func (o *Exciter) Timestep(t float64, inputs []float64, mode gdmode.Mode) error { return nil }

func (o *Exciter) Set(name string, value float64, unit string) (gdcomp.SetResult, error) {
	switch name {
	case "vref":
		o.VRef = value
		o.PostAlert(gdcomp.AlertParameterChanged, gdmode.ParameterChange)
		return gdcomp.Recognized, nil
	case "ka":
		o.Ka = value
		return gdcomp.Recognized, nil
	}
	return o.Base.Set(name, value, unit)
}
