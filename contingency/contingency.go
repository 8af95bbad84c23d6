// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contingency

import (
	"context"
	"fmt"

	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
	"github.com/cpmech/griddyn/gdsim"
	"github.com/cpmech/griddyn/network"
)

// EventKind names what a contingency event disables.
type EventKind int

const (
	DisableBus EventKind = iota
	DisableLink
	DisableGenerator
	DisableLoad
)

func (k EventKind) String() string {
	switch k {
	case DisableBus:
		return "bus"
	case DisableLink:
		return "link"
	case DisableGenerator:
		return "generator"
	case DisableLoad:
		return "load"
	}
	return "unknown"
}

// Event names one component, by its name within the area, to disable at a
// contingency stage.
type Event struct {
	Kind   EventKind
	Target string
}

// apply disables the named component on area, returning an error if no
// component of that kind and name exists.
func (e Event) apply(area *network.Area) error {
	switch e.Kind {
	case DisableBus:
		if b := area.BusByName(e.Target); b != nil {
			b.Flags = b.Flags.Set(gdcomp.FlagDisabled)
			return nil
		}
	case DisableLink:
		for _, l := range area.Links {
			if l.Name() == e.Target {
				l.Tripped = true
				return nil
			}
		}
	case DisableGenerator:
		for _, g := range area.Generators {
			if g.Name() == e.Target {
				g.Flags = g.Flags.Set(gdcomp.FlagDisabled)
				return nil
			}
		}
	case DisableLoad:
		for _, ld := range area.Loads {
			if ld.Name() == e.Target {
				ld.Flags = ld.Flags.Set(gdcomp.FlagDisabled)
				return nil
			}
		}
	}
	return fmt.Errorf("contingency: no %s named %q", e.Kind, e.Target)
}

// Violation names one out-of-limit quantity found while collecting a
// contingency's results, or a stage that failed to converge.
type Violation struct {
	Stage  int
	Kind   string // "low_voltage", "high_voltage", "convergence_failure"
	Object string
	Value  float64
}

// Result holds what execute collects after running every stage: the final
// converged bus voltages/angles, line flows, and any violations found along
// the way.
type Result struct {
	BusVoltages map[string]float64
	BusAngles   map[string]float64
	LineFlowsP  map[string]float64
	LineFlowsQ  map[string]float64
	Violations  []Violation
}

// Future carries a Contingency's result across goroutines, channel-based
// per the teacher pack's absence of any "golang.org/x/sync"-style future
// library.
type Future struct {
	ch chan Result
}

func newFuture() *Future {
	return &Future{ch: make(chan Result, 1)}
}

func (f *Future) deliver(r Result) { f.ch <- r }

// Wait blocks until the result is delivered or ctx is cancelled.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case r := <-f.ch:
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Contingency is a set of event lists grouped by stage and an owning base
// simulation (spec.md §4.7): execute clones the base, applies each stage's
// events in order, runs power flow after each stage, and collects results or
// a convergence-failure violation.
type Contingency struct {
	Id     int
	Name   string
	Stages [][]Event

	base *network.Area
	tol  gdsim.Tolerances

	Done   bool
	Future *Future
}

// NewContingency returns a contingency that will clone base and run tol's
// tolerances when executed.
func NewContingency(id int, name string, stages [][]Event, base *network.Area, tol gdsim.Tolerances) *Contingency {
	return &Contingency{Id: id, Name: name, Stages: stages, base: base, tol: tol, Future: newFuture()}
}

// execute clones the base simulation, then for each stage applies that
// stage's events, runs power flow, and either collects bus/line results or
// records a CONVERGENCE_FAILURE violation for that stage (spec.md §4.7). No
// field of the clone is shared with base or with any other contingency's
// clone, so concurrent execute calls across contingencies never race.
func (c *Contingency) execute() Result {
	clone := c.base.Clone()
	driver := gdsim.NewDriver(clone, c.tol)

	var result Result
	for stage, events := range c.Stages {
		for _, ev := range events {
			if err := ev.apply(clone); err != nil {
				result.Violations = append(result.Violations, Violation{Stage: stage, Kind: "apply_error", Object: ev.Target})
				continue
			}
		}
		if err := driver.PowerFlow(); err != nil {
			result.Violations = append(result.Violations, Violation{Stage: stage, Kind: "convergence_failure", Object: err.Error()})
			continue
		}
		collect(clone, stage, &result)
	}
	c.Done = true
	return result
}

// collect reads out bus voltages/angles and line flows, recording a
// low_voltage/high_voltage violation for any bus outside [0.9, 1.1] pu
// (GridDyn's conventional contingency screening band).
func collect(area *network.Area, stage int, r *Result) {
	if r.BusVoltages == nil {
		r.BusVoltages = make(map[string]float64)
		r.BusAngles = make(map[string]float64)
		r.LineFlowsP = make(map[string]float64)
		r.LineFlowsQ = make(map[string]float64)
	}
	for _, b := range area.Buses {
		r.BusVoltages[b.Name()] = b.Voltage()
		r.BusAngles[b.Name()] = b.Angle()
		if b.Voltage() < 0.9 {
			r.Violations = append(r.Violations, Violation{Stage: stage, Kind: "low_voltage", Object: b.Name(), Value: b.Voltage()})
		}
		if b.Voltage() > 1.1 {
			r.Violations = append(r.Violations, Violation{Stage: stage, Kind: "high_voltage", Object: b.Name(), Value: b.Voltage()})
		}
	}
	for _, l := range area.Links {
		out := l.GetOutputs(nil, nil, gdmode.Local)
		if len(out) == 2 {
			r.LineFlowsP[l.Name()] = out[0]
			r.LineFlowsQ[l.Name()] = out[1]
		}
	}
}
