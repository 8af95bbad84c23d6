// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import "github.com/cpmech/gosl/fun"

// Function wraps an arbitrary gosl/fun.Func, the same interface
// fem/e_beam.go's Gfcn/QnL/QnR/Qt fields hold for time-varying structural
// loads — letting any composed fun.Cte/fun.Add/fun.Mul expression (or a
// user-supplied fun.Func implementation) serve directly as a source without
// this package knowing its internal shape.
type Function struct {
	Base

	Fcn fun.Func
	X   []float64 // spatial point passed through to Fcn.F/Fcn.G, usually nil
}

func NewFunction(name string, fcn fun.Func) *Function {
	f := &Function{Fcn: fcn}
	f.name = name
	f.setCache(0, fcn.F(0, nil), 0)
	return f
}

func (f *Function) ComputeOutput(t float64) float64 { return f.Fcn.F(t, f.X) }

func (f *Function) UpdateOutput(t float64) float64 {
	v := f.Fcn.F(t, f.X)
	dv := f.Fcn.G(t, f.X)
	f.setCache(t, v, dv)
	return v
}
