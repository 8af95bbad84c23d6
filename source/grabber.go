// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

// Observable is satisfied by anything a Grabber can read a numeric output
// from — in practice a gdcomp.Component, but kept minimal here so this
// package does not import gdcomp (source imports no other package of this
// module).
type Observable interface {
	GetOutput(index int) float64
}

// Grabber is a source whose value is simply another component's output,
// letting one component's signal drive another (e.g. a relay's trip status
// feeding a breaker's open/close command) without a direct Go reference
// between the two component types.
type Grabber struct {
	Base

	Target Observable
	Index  int
}

func NewGrabber(name string, target Observable, index int) *Grabber {
	g := &Grabber{Target: target, Index: index}
	g.name = name
	g.setCache(0, target.GetOutput(index), 0)
	return g
}

func (g *Grabber) ComputeOutput(t float64) float64 { return g.Target.GetOutput(g.Index) }

func (g *Grabber) UpdateOutput(t float64) float64 {
	v := g.Target.GetOutput(g.Index)
	dv := (v - g.value) / maxDt(t-g.lastT)
	g.setCache(t, v, dv)
	return v
}

func maxDt(dt float64) float64 {
	if dt <= 0 {
		return 1
	}
	return dt
}
