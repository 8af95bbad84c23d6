// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

// Ramp outputs StartValue before StartTime, then rises (or falls) linearly
// at Slope until it reaches StopValue at StopTime (or indefinitely if
// StopTime <= StartTime), then holds. The per-segment linear shape is the
// same one gosl/fun.Add composes out of fun.Cte pieces, but Ramp encodes the
// piecewise change itself instead of requiring the caller to compose it.
type Ramp struct {
	Base

	StartTime, StopTime   float64
	StartValue, StopValue float64
	Slope                 float64 // rise per unit time; NewRamp derives it when StopTime > StartTime
}

func NewRamp(name string, startTime, stopTime, startValue, stopValue float64) *Ramp {
	r := &Ramp{StartTime: startTime, StopTime: stopTime, StartValue: startValue, StopValue: stopValue}
	if stopTime > startTime {
		r.Slope = (stopValue - startValue) / (stopTime - startTime)
	}
	r.name = name
	r.setCache(0, startValue, 0)
	return r
}

func (r *Ramp) ComputeOutput(t float64) float64 {
	switch {
	case t <= r.StartTime:
		return r.StartValue
	case r.StopTime > r.StartTime && t >= r.StopTime:
		return r.StopValue
	default:
		return r.StartValue + r.Slope*(t-r.StartTime)
	}
}

func (r *Ramp) UpdateOutput(t float64) float64 {
	v := r.ComputeOutput(t)
	slope := r.Slope
	if t <= r.StartTime || (r.StopTime > r.StartTime && t >= r.StopTime) {
		slope = 0
	}
	r.setCache(t, v, slope)
	return v
}
