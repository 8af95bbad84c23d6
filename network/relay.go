// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
)

// Relay is a protective device monitoring one bus's voltage against a
// threshold. When the monitored voltage crosses Threshold it trips its
// Target link and reports an ObjectChange, exercising the root-finding half
// of the math contract (spec.md §4.2 "Roots") rather than the residual half.
type Relay struct {
	gdcomp.Base

	Monitor   *Bus
	Target    *Link
	Threshold float64 // per-unit; trips when voltage falls below this
	Delay     float64 // seconds between root crossing and trip taking effect

	armedAt float64
	tripped bool
}

func NewRelay(name string, monitor *Bus, target *Link, threshold, delay float64) *Relay {
	o := &Relay{Monitor: monitor, Target: target, Threshold: threshold, Delay: delay}
	o.Init(o, name)
	return o
}

func (o *Relay) base() *gdcomp.Base { return &o.Base }
func (o *Relay) TypeName() string   { return "relay" }

func (o *Relay) LocalStateSizes(mode gdmode.Mode) gdmode.StateSizes { return gdmode.StateSizes{} }
func (o *Relay) LocalJacobianCount(mode gdmode.Mode) int            { return 0 }
func (o *Relay) LocalRootCount(mode gdmode.Mode) (int, int) {
	if o.tripped {
		return 0, 0
	}
	return 1, 0
}
func (o *Relay) SetOffset(base int, mode gdmode.Mode, order gdcomp.OffsetOrder) {
	o.Table.SetOffset(base, mode)
}
func (o *Relay) GuessState(t float64, state, dstate []float64, mode gdmode.Mode) {}
func (o *Relay) SetState(t float64, state, dstate []float64, mode gdmode.Mode)   {}
func (o *Relay) Residual(inputs []float64, sd *gdmode.StateData, resid []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Relay) Derivative(inputs []float64, sd *gdmode.StateData, deriv []float64, mode gdmode.Mode) error {
	return nil
}
func (o *Relay) AlgebraicUpdate(inputs []float64, sd *gdmode.StateData, update []float64, mode gdmode.Mode, alpha float64) error {
	return nil
}
func (o *Relay) JacobianElements(inputs []float64, sd *gdmode.StateData, sink gdcomp.JacobianSink, inputLocs []int, mode gdmode.Mode) error {
	return nil
}
func (o *Relay) IoPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *Relay) OutputPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}

// RootTest evaluates voltage - Threshold; a sign change from positive to
// negative means the monitored voltage has sagged through the threshold.
func (o *Relay) RootTest(inputs []float64, sd *gdmode.StateData, roots []float64, mode gdmode.Mode) error {
	if o.tripped || len(roots) == 0 {
		return nil
	}
	roots[0] = o.Monitor.BusVoltage() - o.Threshold
	return nil
}

// RootTrigger fires the trip once the root is crossed, disabling Target and
// reporting ObjectChange so the driver knows the Jacobian structure changed
// (spec.md §4.2, change-code ordering: object_change < jacobian_change).
func (o *Relay) RootTrigger(t float64, inputs []float64, mask []bool, mode gdmode.Mode) gdmode.ChangeCode {
	if o.tripped || len(mask) == 0 || !mask[0] {
		return gdmode.NoChange
	}
	o.tripped = true
	o.Target.Tripped = true
	o.PostAlert(gdcomp.AlertObjectRemoved, gdmode.ObjectChange)
	return gdmode.ObjectChange
}

func (o *Relay) RootCheck(sd *gdmode.StateData, mode gdmode.Mode) error { return nil }

func (o *Relay) GetOutputs(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) []float64 {
	if o.tripped {
		return []float64{1}
	}
	return []float64{0}
}
func (o *Relay) GetOutput(index int) float64 {
	if o.tripped {
		return 1
	}
	return 0
}

func (o *Relay) Timestep(t float64, inputs []float64, mode gdmode.Mode) error { return nil }

func (o *Relay) Set(name string, value float64, unit string) (gdcomp.SetResult, error) {
	switch name {
	case "threshold":
		o.Threshold = value
		return gdcomp.Recognized, nil
	}
	return o.Base.Set(name, value, unit)
}

// Tripped reports whether the relay has already operated.
func (o *Relay) Tripped() bool { return o.tripped }
