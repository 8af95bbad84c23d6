// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"math"

	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
)

// Generator is a classical second-order synchronous machine: rotor angle and
// speed deviation as differential states, connected to one bus through a
// fixed reactance Xd. The swing equation
//
//	delta' = omega
//	omega' = (Pm - Pe - D*omega) / (2*H)
//
// is the dynamic analogue of fem's e_beam.go mass-matrix residual: both
// reduce "d^2(state)/dt^2 = f(state)" to a first-order pair carried in the
// Diff partition of the state vector.
type Generator struct {
	gdcomp.Base

	Bus *Bus

	H   float64 // inertia constant, seconds
	D   float64 // damping coefficient
	Xd  float64 // per-unit transient reactance
	Eq  float64 // per-unit internal EMF magnitude, held constant absent an exciter
	Pm  float64 // per-unit mechanical power, held constant absent a governor

	Governor *Governor // optional, nil if none attached
	Exciter  *Exciter  // optional, nil if none attached

	delta, omega float64 // live cache, populated by SetState
}

func NewGenerator(name string, bus *Bus, h, d, xd, eq, pm float64) *Generator {
	o := &Generator{Bus: bus, H: h, D: d, Xd: xd, Eq: eq, Pm: pm}
	o.Init(o, name)
	bus.Attach(o)
	return o
}

func (o *Generator) base() *gdcomp.Base { return &o.Base }
func (o *Generator) TypeName() string   { return "generator" }

func (o *Generator) LocalStateSizes(mode gdmode.Mode) gdmode.StateSizes {
	if !mode.Dynamic {
		return gdmode.StateSizes{}
	}
	return gdmode.StateSizes{Diff: 2, Jac: 6}
}
func (o *Generator) LocalJacobianCount(mode gdmode.Mode) int    { return o.LocalStateSizes(mode).Jac }
func (o *Generator) LocalRootCount(mode gdmode.Mode) (int, int) { return 0, 0 }
func (o *Generator) SetOffset(base int, mode gdmode.Mode, order gdcomp.OffsetOrder) {
	o.Table.SetOffset(base, mode)
}

func (o *Generator) GuessState(t float64, state, dstate []float64, mode gdmode.Mode) {
	slot := o.Table.Get(mode)
	if slot.DiffOffset == gdmode.NullOffset {
		return
	}
	state[slot.DiffOffset] = o.Bus.BusAngle()
	state[slot.DiffOffset+1] = 0
}

func (o *Generator) SetState(t float64, state, dstate []float64, mode gdmode.Mode) {
	slot := o.Table.Get(mode)
	if slot.DiffOffset == gdmode.NullOffset {
		o.delta, o.omega = o.Bus.BusAngle(), 0
		return
	}
	o.delta = state[slot.DiffOffset]
	o.omega = state[slot.DiffOffset+1]
}

// electricalPower returns Pe, the real power the machine delivers to its bus
// through Xd, using the classical Eq*V/Xd*sin(delta - busAngle) relation.
func (o *Generator) electricalPower() float64 {
	v := o.Bus.BusVoltage()
	return o.Eq * v / o.Xd * math.Sin(o.delta-o.Bus.BusAngle())
}

func (o *Generator) Residual(inputs []float64, sd *gdmode.StateData, resid []float64, mode gdmode.Mode) error {
	return nil
}

func (o *Generator) Derivative(inputs []float64, sd *gdmode.StateData, deriv []float64, mode gdmode.Mode) error {
	if !mode.Dynamic {
		return nil
	}
	pm := o.Pm
	if o.Governor != nil {
		pm = o.Governor.MechanicalPower()
	}
	pe := o.electricalPower()
	deriv[0] = o.omega
	deriv[1] = (pm - pe - o.D*o.omega) / (2 * o.H)
	return nil
}

func (o *Generator) AlgebraicUpdate(inputs []float64, sd *gdmode.StateData, update []float64, mode gdmode.Mode, alpha float64) error {
	return nil
}

func (o *Generator) JacobianElements(inputs []float64, sd *gdmode.StateData, sink gdcomp.JacobianSink, inputLocs []int, mode gdmode.Mode) error {
	if !mode.Dynamic {
		return nil
	}
	slot := o.Table.Get(mode)
	if slot.DiffOffset == gdmode.NullOffset {
		return nil
	}
	d0, d1 := slot.DiffOffset, slot.DiffOffset+1
	sink.Put(d0, d1, -1)
	v := o.Bus.BusVoltage()
	dPeDdelta := o.Eq * v / o.Xd * math.Cos(o.delta-o.Bus.BusAngle())
	sink.Put(d1, d0, dPeDdelta/(2*o.H))
	sink.Put(d1, d1, o.D/(2*o.H))
	return nil
}

func (o *Generator) IoPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Generator) OutputPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}

func (o *Generator) RootTest(inputs []float64, sd *gdmode.StateData, roots []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Generator) RootTrigger(t float64, inputs []float64, mask []bool, mode gdmode.Mode) gdmode.ChangeCode {
	return gdmode.NoChange
}
func (o *Generator) RootCheck(sd *gdmode.StateData, mode gdmode.Mode) error { return nil }

// Inject returns the machine's real power output and an assumed-constant
// reactive contribution; a full Q model would need the exciter's field
// current, omitted here (see Exciter's doc comment).
func (o *Generator) Inject(sd *gdmode.StateData, mode gdmode.Mode) (p, q float64) {
	if o.Flags.Has(gdcomp.FlagDisabled) {
		return 0, 0
	}
	if !mode.Dynamic {
		return o.Pm, 0
	}
	return o.electricalPower(), 0
}

func (o *Generator) GetOutputs(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) []float64 {
	p, q := o.Inject(sd, mode)
	return []float64{p, q, o.delta, o.omega}
}
func (o *Generator) GetOutput(index int) float64 {
	out := o.GetOutputs(nil, nil, gdmode.DAE)
	if index < 0 || index >= len(out) {
		return 0
	}
	return out[index]
}

func (o *Generator) Timestep(t float64, inputs []float64, mode gdmode.Mode) error { return nil }

func (o *Generator) Set(name string, value float64, unit string) (gdcomp.SetResult, error) {
	switch name {
	case "pm":
		o.Pm = value
		o.PostAlert(gdcomp.AlertParameterChanged, gdmode.ParameterChange)
		return gdcomp.Recognized, nil
	case "eq":
		o.Eq = value
		o.PostAlert(gdcomp.AlertParameterChanged, gdmode.ParameterChange)
		return gdcomp.Recognized, nil
	case "h":
		o.H = value
		return gdcomp.Recognized, nil
	}
	return o.Base.Set(name, value, unit)
}
