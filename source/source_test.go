// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"math"
	"testing"
)

func TestConstantNeverChanges(t *testing.T) {
	c := NewConstant("c1", 3.5)
	if c.ComputeOutput(100) != 3.5 {
		t.Fatalf("ComputeOutput(100) = %v, want 3.5", c.ComputeOutput(100))
	}
	c.UpdateOutput(100)
	if c.GetOutput() != 3.5 || c.GetDoutDt() != 0 {
		t.Fatalf("got (%v,%v), want (3.5,0)", c.GetOutput(), c.GetDoutDt())
	}
}

func TestRampHoldsBeforeAndAfter(t *testing.T) {
	r := NewRamp("r1", 1, 3, 0, 10)
	if r.ComputeOutput(0) != 0 {
		t.Fatalf("before start = %v, want 0", r.ComputeOutput(0))
	}
	if r.ComputeOutput(2) != 5 {
		t.Fatalf("midpoint = %v, want 5", r.ComputeOutput(2))
	}
	if r.ComputeOutput(10) != 10 {
		t.Fatalf("after stop = %v, want 10", r.ComputeOutput(10))
	}
}

func TestPulseSquareCenteredWindow(t *testing.T) {
	p := NewPulse("p1", 0, 1, 10, 0.5)
	if v := p.ComputeOutput(1); v != 0 {
		t.Fatalf("t=1 = %v, want 0", v)
	}
	if v := p.ComputeOutput(2.5); v != 1 {
		t.Fatalf("t=2.5 = %v, want 1", v)
	}
	if v := p.ComputeOutput(7.5); v != 0 {
		t.Fatalf("t=7.5 = %v, want 0", v)
	}
	// next cycle repeats the same shape.
	if v := p.ComputeOutput(12.5); v != 1 {
		t.Fatalf("t=12.5 = %v, want 1", v)
	}
}

func TestPulseDutyCycleBoundaries(t *testing.T) {
	off := NewPulse("off", 0, 1, 10, 0)
	for _, tt := range []float64{0, 3, 9.99} {
		if v := off.ComputeOutput(tt); v != 0 {
			t.Fatalf("duty=0 at t=%v = %v, want 0", tt, v)
		}
	}
	on := NewPulse("on", 0, 1, 10, 1)
	for _, tt := range []float64{0, 3, 9.99} {
		if v := on.ComputeOutput(tt); v != 1 {
			t.Fatalf("duty=1 at t=%v = %v, want 1", tt, v)
		}
	}
}

func TestPulseInvertSwapsLevels(t *testing.T) {
	p := NewPulse("p1", 0, 1, 10, 0.5)
	p.Invert = true
	if v := p.ComputeOutput(1); v != 1 {
		t.Fatalf("inverted, outside window, t=1 = %v, want 1", v)
	}
	if v := p.ComputeOutput(2.5); v != 0 {
		t.Fatalf("inverted, inside window, t=2.5 = %v, want 0", v)
	}
}

func TestSineDerivativeMatchesAnalytic(t *testing.T) {
	s := NewSine("s1", 0, 2, 1, 0)
	s.UpdateOutput(0)
	want := 2 * 2 * math.Pi
	if math.Abs(s.GetDoutDt()-want) > 1e-9 {
		t.Fatalf("GetDoutDt() = %v, want %v", s.GetDoutDt(), want)
	}
}

func TestGrabberTracksTarget(t *testing.T) {
	target := fakeObservable{v: 4.2}
	g := NewGrabber("g1", target, 0)
	if g.ComputeOutput(0) != 4.2 {
		t.Fatalf("ComputeOutput = %v, want 4.2", g.ComputeOutput(0))
	}
}

type fakeObservable struct{ v float64 }

func (f fakeObservable) GetOutput(index int) float64 { return f.v }

func TestCommReflectsPushedValue(t *testing.T) {
	c := NewComm("comm1", 0)
	c.Push(7)
	v := c.UpdateOutput(1)
	if v != 7 {
		t.Fatalf("UpdateOutput = %v, want 7", v)
	}
}
