// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import "math"

// PulseType selects the waveform shape pulseCalc fills the duty window
// with. Square is the only shape whose interior ignores the edge taper;
// every other shape is zero (or Amplitude, inverted) outside the window and
// tapers linearly across its first/last 5%.
type PulseType int

const (
	PulseSquare PulseType = iota
	PulseTriangle
	PulseGaussian
	PulseBiexponential
	PulseExponential
	PulseCosine
	PulseFlattop
	PulseMonocycle
)

func (t PulseType) String() string {
	switch t {
	case PulseSquare:
		return "square"
	case PulseTriangle:
		return "triangle"
	case PulseGaussian:
		return "gaussian"
	case PulseBiexponential:
		return "biexponential"
	case PulseExponential:
		return "exponential"
	case PulseCosine:
		return "cosine"
	case PulseFlattop:
		return "flattop"
	case PulseMonocycle:
		return "monocycle"
	}
	return "unknown"
}

// Pulse outputs BaseValue outside a duty window centered in every Period,
// and a waveform shaped by Type inside it (spec.md §4.2 "pulse"). DutyCycle
// is the window's width as a fraction of Period: 0 holds at BaseValue
// always, 1 holds at BaseValue+Amplitude always (spec.md §8's degenerate
// duty-cycle cases), and anything in between opens a window centered on
// each cycle's midpoint. PhaseShift is a fraction of Period applied before
// the window is located. Invert swaps the in-window and out-of-window
// levels. The derivative is reported as zero everywhere — a pulse's edges
// are genuine discontinuities a root function detects (spec.md §4.2
// "Roots"), not something a smooth GetDoutDt can describe.
type Pulse struct {
	Base

	Type                 PulseType
	BaseValue, Amplitude float64
	Period, DutyCycle    float64
	PhaseShift           float64
	Invert               bool
}

// NewPulse returns a square pulse; set Type/Invert/PhaseShift directly for
// the other variants.
func NewPulse(name string, base, amplitude, period, dutyCycle float64) *Pulse {
	p := &Pulse{BaseValue: base, Amplitude: amplitude, Period: period, DutyCycle: dutyCycle}
	p.name = name
	p.setCache(0, p.ComputeOutput(0), 0)
	return p
}

func (p *Pulse) ComputeOutput(t float64) float64 {
	if p.Period <= 0 {
		return p.BaseValue
	}
	switch {
	case p.DutyCycle <= 0:
		if p.Invert {
			return p.BaseValue + p.Amplitude
		}
		return p.BaseValue
	case p.DutyCycle >= 1:
		if p.Invert {
			return p.BaseValue
		}
		return p.BaseValue + p.Amplitude
	}
	td := math.Mod(t-p.PhaseShift*p.Period, p.Period)
	if td < 0 {
		td += p.Period
	}
	return p.BaseValue + p.pulseCalc(td)
}

func (p *Pulse) UpdateOutput(t float64) float64 {
	v := p.ComputeOutput(t)
	p.setCache(t, v, 0)
	return v
}

// pulseCalc shapes one cycle (ported from the original pulseSource.cpp's
// pulseCalc, which centers the duty window at cloc==0.5 and tapers the
// first/last 5% of it to avoid a discontinuous derivative). td must be in
// [0, Period).
func (p *Pulse) pulseCalc(td float64) float64 {
	cloc := td / p.Period
	prop := (cloc - 0.5 + p.DutyCycle/2) / p.DutyCycle
	if prop < 0 || prop >= 1 {
		if p.Invert {
			return p.Amplitude
		}
		return 0
	}

	mult := 1.0
	switch {
	case prop < 0.05:
		mult = 20 * prop
	case prop > 0.95:
		mult = 20 * (1 - prop)
	}

	var pamp float64
	switch p.Type {
	case PulseSquare:
		pamp = p.Amplitude
	case PulseTriangle:
		if prop < 0.5 {
			pamp = mult * 2 * p.Amplitude * prop
		} else {
			pamp = mult * 2 * p.Amplitude * (1 - prop)
		}
	case PulseGaussian:
		pamp = mult * p.Amplitude * math.Exp(-(prop-0.5)*(prop-0.5)*25)
	case PulseMonocycle:
		pamp = mult * p.Amplitude * 11.6583 * (prop - 0.5) * math.Exp(-(prop-0.5)*(prop-0.5))
	case PulseBiexponential:
		if prop < 0.5 {
			pamp = mult * p.Amplitude * math.Exp(-(0.5-prop)*12)
		} else {
			pamp = mult * p.Amplitude * math.Exp(-(prop-0.5)*12)
		}
	case PulseExponential:
		pamp = mult * p.Amplitude * math.Exp(-prop*6)
	case PulseCosine:
		pamp = mult * p.Amplitude * math.Sin(prop*math.Pi)
	case PulseFlattop:
		switch {
		case prop < 0.25:
			pamp = mult * p.Amplitude / 2 * (-math.Cos(math.Pi*prop*4) + 1)
		case prop > 0.75:
			pamp = mult * p.Amplitude / 2 * math.Cos(math.Pi*(1-prop)*4+1)
		default:
			pamp = p.Amplitude
		}
	}
	if p.Invert {
		pamp = p.Amplitude - pamp
	}
	return pamp
}
