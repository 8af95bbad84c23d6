// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import "github.com/cpmech/gosl/rnd"

// newVar builds an rnd.VarData the same way inp/sim.go builds one for an
// adjustable random parameter (`rnd.GetDistribution(name)` keyed by a
// distribution name such as "normal", "uniform", "exponential"), letting
// Random reuse whatever distribution names the pack's distribution registry
// already supports instead of a parallel, source-private enum.
func newVar(distName string, mean, stdDev, min, max float64) rnd.VarData {
	return rnd.VarData{D: rnd.GetDistribution(distName), M: mean, S: stdDev, Min: min, Max: max}
}

// Random holds BaseValue plus a jump that UpdateOutput redraws once t reaches
// the scheduled next jump time, the jump magnitude and the time until the
// next jump both sampled from
// configurable distributions via gosl/rnd (spec.md §4.2 "random: ... drawn
// from configurable distributions").
type Random struct {
	Base

	BaseValue float64

	JumpVar     rnd.VarData
	IntervalVar rnd.VarData

	nextJumpTime float64
	current      float64
}

// NewRandom takes distribution names ("uniform", "normal", "exponential",
// ...) the same way inp.Prm.D does, so configuration files can name a
// distribution without this package special-casing any of them.
func NewRandom(name string, base float64, jumpDist string, jumpMean, jumpStdDev float64, intervalDist string, intervalMean, intervalStdDev float64) *Random {
	r := &Random{
		BaseValue:   base,
		current:     base,
		JumpVar:     newVar(jumpDist, jumpMean, jumpStdDev, jumpMean-4*jumpStdDev, jumpMean+4*jumpStdDev),
		IntervalVar: newVar(intervalDist, intervalMean, intervalStdDev, 0, intervalMean+4*intervalStdDev),
	}
	r.name = name
	r.nextJumpTime = r.drawInterval()
	r.setCache(0, base, 0)
	return r
}

func (r *Random) drawInterval() float64 {
	v := r.IntervalVar.D.Sample(r.IntervalVar.M, r.IntervalVar.S, r.IntervalVar.Min, r.IntervalVar.Max)
	if v < 0 {
		return 0
	}
	return v
}

// ComputeOutput is read-only: it reports the current held value without
// advancing the jump schedule, per the Source contract's ComputeOutput/
// UpdateOutput split.
func (r *Random) ComputeOutput(t float64) float64 { return r.current }

// UpdateOutput advances the jump schedule: if t has reached the scheduled
// next jump time, a new value is drawn and the next jump time rescheduled.
func (r *Random) UpdateOutput(t float64) float64 {
	if t >= r.nextJumpTime {
		jump := r.JumpVar.D.Sample(r.JumpVar.M, r.JumpVar.S, r.JumpVar.Min, r.JumpVar.Max)
		r.current = r.BaseValue + jump
		r.nextJumpTime = t + r.drawInterval()
	}
	r.setCache(t, r.current, 0)
	return r.current
}

// NextJumpTime exposes the scheduled next change without exposing the
// private field; nothing in this module calls it.
func (r *Random) NextJumpTime() float64 { return r.nextJumpTime }
