// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import "math"

// Sine is Offset + Amplitude*sin(2*pi*Frequency*t + Phase), the harmonic
// counterpart of gosl/fun.Cte/fun.Add used elsewhere for piecewise-linear
// loads — GetDoutDt returns the exact analytic derivative rather than a
// finite difference, since the closed form is available.
type Sine struct {
	Base

	Offset, Amplitude, Frequency, Phase float64
}

func NewSine(name string, offset, amplitude, frequency, phase float64) *Sine {
	s := &Sine{Offset: offset, Amplitude: amplitude, Frequency: frequency, Phase: phase}
	s.name = name
	s.setCache(0, s.ComputeOutput(0), 0)
	return s
}

func (s *Sine) omega() float64 { return 2 * math.Pi * s.Frequency }

func (s *Sine) ComputeOutput(t float64) float64 {
	return s.Offset + s.Amplitude*math.Sin(s.omega()*t+s.Phase)
}

func (s *Sine) UpdateOutput(t float64) float64 {
	v := s.ComputeOutput(t)
	dv := s.Amplitude * s.omega() * math.Cos(s.omega()*t+s.Phase)
	s.setCache(t, v, dv)
	return v
}
