// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdmode

// StateSizes records how many state-vector slots, root functions, and
// Jacobian nonzeros a component contributes under one SolverMode.
//
// Separated into {Alg,Diff,V,A}, {AlgRoots,DiffRoots} and Jac so that state
// changes (common — e.g. a load switching between constant-power and
// constant-impedance models) can be refreshed without forcing a root-count
// or Jacobian-count recompute (rarer — e.g. a relay being added).
type StateSizes struct {
	Alg  int // algebraic state count
	Diff int // differential state count
	V    int // voltage-variable count
	A    int // angle-variable count

	AlgRoots  int // algebraic root-function count
	DiffRoots int // differential root-function count

	Jac int // upper bound on Jacobian nonzeros this component will emit
}

// Total returns Alg+Diff+V+A, the invariant total size of spec.md §3.
func (s StateSizes) Total() int { return s.Alg + s.Diff + s.V + s.A }

// Roots returns AlgRoots+DiffRoots.
func (s StateSizes) Roots() int { return s.AlgRoots + s.DiffRoots }

// Add returns the element-wise sum of s and o, used when a parent aggregates
// its children's Total sizes into its own Total (spec.md §4.2 "Size
// aggregation": "walks sub-objects first ... sums their total ... adds
// local").
func (s StateSizes) Add(o StateSizes) StateSizes {
	return StateSizes{
		Alg:       s.Alg + o.Alg,
		Diff:      s.Diff + o.Diff,
		V:         s.V + o.V,
		A:         s.A + o.A,
		AlgRoots:  s.AlgRoots + o.AlgRoots,
		DiffRoots: s.DiffRoots + o.DiffRoots,
		Jac:       s.Jac + o.Jac,
	}
}
