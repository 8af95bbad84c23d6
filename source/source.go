// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package source implements the signal-source family (spec.md §4.2
// "Sources (one coherent family)"): constant, ramp, pulse, sine, file,
// random, function, grabber and comm variants, all behind one interface.
// The shape is modeled on gosl/fun.Func (F/G/H: value, first and second
// time-derivative) the way fem/e_beam.go's Gfcn/QnL/QnR/Qt fields consume a
// fun.Func for a time-varying load, generalized to a stateful source that
// also supports event-driven updates (UpdateOutput) instead of being purely
// evaluated on demand.
package source

// Source is the contract every signal source implements.
type Source interface {
	// ComputeOutput evaluates the source at time t without mutating any
	// internal state (the "read-only evaluate" half of the contract,
	// mirroring GridComponent.Residual's "may read but never write").
	ComputeOutput(t float64) float64

	// UpdateOutput advances internal state (e.g. picks the next random
	// jump time) to time t and returns the new output. Called once per
	// accepted step, never speculatively.
	UpdateOutput(t float64) float64

	// GetOutput returns the most recently computed/updated value without
	// re-evaluating.
	GetOutput() float64

	// GetDoutDt returns d(output)/dt at the last evaluated time, used by
	// components whose Jacobian depends on a source's slope (e.g. a ramp
	// feeding a generator's power reference).
	GetDoutDt() float64
}

// Base is embedded by every concrete source, caching the last-evaluated
// value and its derivative the way gdcomp.Base caches LocalState.
type Base struct {
	name   string
	value  float64
	dvdt   float64
	lastT  float64
}

func (b *Base) Name() string      { return b.name }
func (b *Base) GetOutput() float64 { return b.value }
func (b *Base) GetDoutDt() float64 { return b.dvdt }

func (b *Base) setCache(t, value, dvdt float64) {
	b.lastT = t
	b.value = value
	b.dvdt = dvdt
}
