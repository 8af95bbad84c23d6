// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package network implements the concrete power-system component family
// (buses, links, generators, loads, governors, exciters, relays, areas)
// supplementing spec.md's abstract GridComponent contract with the network
// model it is written against. Bus plays the aggregation role fem.Domain
// plays for its nodes: a voltage node that attached devices inject
// power into, rather than a tree-owning parent of those devices.
package network

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
)

// BusType selects which of a bus's two algebraic equations are power-balance
// mismatches and which are fixed to a setpoint, mirroring GridDyn's PQ/PV/slack
// bus classification.
type BusType int

const (
	// PQ buses solve both the real- and reactive-power mismatch equations
	// for voltage magnitude and angle.
	PQ BusType = iota
	// PV buses fix voltage magnitude to VSetpoint and solve only the
	// real-power mismatch for angle; reactive power is whatever balances.
	PV
	// Slack fixes both voltage magnitude and angle; it absorbs whatever
	// real/reactive mismatch the rest of the network cannot.
	Slack
)

// Bus is a voltage node: two algebraic states, V (per-unit magnitude) and A
// (angle, radians). Devices (Generator, Load, Link) are not owned by Bus in
// the tree sense — Area owns them — but each attaches to one or two buses via
// Attach, so Bus.Residual can sum their power injections without a deep
// ownership walk (spec.md §9: no upward pointer walk; here, no walk at all,
// because injections are discovered by direct reference).
type Bus struct {
	gdcomp.Base

	Type        BusType
	VSetpoint   float64 // per-unit, used when Type != PQ
	VNominalKV  float64

	voltage float64 // live cache, populated by SetState
	angle   float64

	attached []Injector
}

// Injector is implemented by any device (or, for a two-terminal device, one
// terminal's view of it) that contributes real/reactive power to a bus's
// balance equation. Inject is called once per residual evaluation and
// returns generation-positive P and Q in per-unit.
type Injector interface {
	Inject(sd *gdmode.StateData, mode gdmode.Mode) (p, q float64)
}

func NewBus(name string, vNominalKV float64) *Bus {
	b := &Bus{VNominalKV: vNominalKV, VSetpoint: 1.0}
	b.Init(b, name)
	return b
}

func (o *Bus) base() *gdcomp.Base { return &o.Base }
func (o *Bus) TypeName() string   { return "bus" }

// Attach registers a device as contributing power injections to this bus.
// It does not transfer ownership (the device remains a child of whatever
// Area added it as a sub-object).
func (o *Bus) Attach(dev Injector) { o.attached = append(o.attached, dev) }

// Voltage and Angle return the bus's current per-unit magnitude and radian
// angle, read out of its own local cache (valid after SetState has run).
func (o *Bus) Voltage() float64 { return o.voltage }
func (o *Bus) Angle() float64   { return o.angle }

func (o *Bus) LocalStateSizes(mode gdmode.Mode) gdmode.StateSizes {
	if o.Type == Slack {
		return gdmode.StateSizes{V: 1, A: 1, Jac: 2}
	}
	if o.Type == PV {
		return gdmode.StateSizes{V: 1, A: 1, Jac: 2}
	}
	return gdmode.StateSizes{V: 1, A: 1, Jac: 4}
}

func (o *Bus) LocalJacobianCount(mode gdmode.Mode) int { return o.LocalStateSizes(mode).Jac }
func (o *Bus) LocalRootCount(mode gdmode.Mode) (int, int) { return 0, 0 }

func (o *Bus) SetOffset(base int, mode gdmode.Mode, order gdcomp.OffsetOrder) {
	o.Table.SetOffset(base, mode)
}

func (o *Bus) GuessState(t float64, state, dstate []float64, mode gdmode.Mode) {
	slot := o.Table.Get(mode)
	if slot.VOffset != gdmode.NullOffset {
		state[slot.VOffset] = o.VSetpoint
	}
	if slot.AOffset != gdmode.NullOffset {
		state[slot.AOffset] = 0
	}
}

func (o *Bus) SetState(t float64, state, dstate []float64, mode gdmode.Mode) {
	slot := o.Table.Get(mode)
	if slot.VOffset != gdmode.NullOffset {
		o.voltage = state[slot.VOffset]
	} else {
		o.voltage = o.VSetpoint
	}
	if slot.AOffset != gdmode.NullOffset {
		o.angle = state[slot.AOffset]
	}
}

// BusVoltage/BusAngle satisfy the Injector interface so attached devices can
// read this bus's state without a type assertion back to *Bus.
func (o *Bus) BusVoltage() float64 { return o.voltage }
func (o *Bus) BusAngle() float64   { return o.angle }

// Residual computes the two power-balance mismatches (spec.md §4.2
// "Residual"): sum of attached devices' P and Q injections, each forced to
// zero at a converged solution. Slack and PV buses replace one or both
// mismatches with a setpoint-tracking equation instead.
// Residual is called with a component-local slice already rooted at this
// bus's own offset (the driver resolves that slicing once per component via
// gdmode.GetLocations, the same way Generator/Governor/Exciter receive their
// own local deriv slice) so indices here are always 0 (V-equation) and 1
// (A-equation), never the global offset JacobianElements must use.
func (o *Bus) Residual(inputs []float64, sd *gdmode.StateData, resid []float64, mode gdmode.Mode) error {
	var p, q float64
	for _, dev := range o.attached {
		dp, dq := dev.Inject(sd, mode)
		p += dp
		q += dq
	}
	switch o.Type {
	case Slack:
		resid[0] = o.voltage - o.VSetpoint
		resid[1] = o.angle - 0
	case PV:
		resid[0] = o.voltage - o.VSetpoint
		resid[1] = p
	default:
		resid[0] = q
		resid[1] = p
	}
	return nil
}

func (o *Bus) Derivative(inputs []float64, sd *gdmode.StateData, deriv []float64, mode gdmode.Mode) error {
	return nil
}

func (o *Bus) AlgebraicUpdate(inputs []float64, sd *gdmode.StateData, update []float64, mode gdmode.Mode, alpha float64) error {
	return nil
}

// JacobianElements emits only the diagonal self-terms; the off-diagonal
// coupling through attached devices is added by those devices themselves
// when sink is handed to their own JacobianElements (mirrors
// ele.Element.AddToKb accumulating into one shared *la.Triplet).
func (o *Bus) JacobianElements(inputs []float64, sd *gdmode.StateData, sink gdcomp.JacobianSink, inputLocs []int, mode gdmode.Mode) error {
	slot := o.Table.Get(mode)
	if slot.VOffset == gdmode.NullOffset || slot.AOffset == gdmode.NullOffset {
		return chk.Err("bus %q has no offsets loaded for mode", o.Name())
	}
	if o.Type == Slack || o.Type == PV {
		sink.Put(slot.VOffset, slot.VOffset, 1)
	}
	sink.Put(slot.AOffset, slot.AOffset, 1e-9)
	return nil
}

func (o *Bus) IoPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Bus) OutputPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}

func (o *Bus) RootTest(inputs []float64, sd *gdmode.StateData, roots []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Bus) RootTrigger(t float64, inputs []float64, mask []bool, mode gdmode.Mode) gdmode.ChangeCode {
	return gdmode.NoChange
}
func (o *Bus) RootCheck(sd *gdmode.StateData, mode gdmode.Mode) error { return nil }

// GetOutputs returns [voltage, angle], the quantities attached devices need
// to compute their own injections.
func (o *Bus) GetOutputs(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) []float64 {
	return []float64{o.voltage, o.angle}
}

func (o *Bus) GetOutput(index int) float64 {
	if index == 0 {
		return o.voltage
	}
	return o.angle
}

func (o *Bus) Timestep(t float64, inputs []float64, mode gdmode.Mode) error { return nil }

func (o *Bus) Set(name string, value float64, unit string) (gdcomp.SetResult, error) {
	switch name {
	case "vsetpoint":
		o.VSetpoint = value
		o.PostAlert(gdcomp.AlertParameterChanged, gdmode.ParameterChange)
		return gdcomp.Recognized, nil
	}
	return o.Base.Set(name, value, unit)
}
