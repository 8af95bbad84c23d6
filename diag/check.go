// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diag

import (
	"math"

	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
	"github.com/cpmech/griddyn/gdsim"
)

// ResidualViolation names one residual entry exceeding residTol.
type ResidualViolation struct {
	Index int
	Value float64
}

// ResidualCheck asserts that, after init, every residual entry is below
// residTol (spec.md §4.6 "residualCheck").
func ResidualCheck(h *gdsim.SolverHandle, sd *gdmode.StateData, residTol float64) ([]ResidualViolation, error) {
	resid := make([]float64, h.Size())
	if err := h.Residual(sd, resid); err != nil {
		return nil, err
	}
	var bad []ResidualViolation
	for i, r := range resid {
		if math.Abs(r) > residTol {
			bad = append(bad, ResidualViolation{Index: i, Value: r})
		}
	}
	return bad, nil
}

// AlgebraicViolation names one algebraic-update entry that does not equal
// the state's current value at that index.
type AlgebraicViolation struct {
	Index   int
	Current float64
	Updated float64
}

// AlgebraicCheck asserts that every algebraic-update entry equals the
// current state value at a converged solution (spec.md §4.6
// "algebraicCheck"); alpha=1 is the fully-implicit blend that makes
// AlgebraicUpdate's output comparable directly to the current state.
func AlgebraicCheck(h *gdsim.SolverHandle, sd *gdmode.StateData, tol float64) ([]AlgebraicViolation, error) {
	update := make([]float64, h.Size())
	if err := h.AlgebraicUpdate(sd, update, 1); err != nil {
		return nil, err
	}
	var bad []AlgebraicViolation
	for i, u := range update {
		if u == 0 {
			continue // untouched entries: component declared no algebraic update here
		}
		if math.Abs(u-sd.State[i]) > tol {
			bad = append(bad, AlgebraicViolation{Index: i, Current: sd.State[i], Updated: u})
		}
	}
	return bad, nil
}

// DerivativeViolation names one derivative entry that disagrees with the
// handle's stored derivative vector.
type DerivativeViolation struct {
	Index int
	Live  float64
	Fresh float64
}

// DerivativeCheck asserts that every derivative entry matches the handle's
// stored derivative (spec.md §4.6 "derivativeCheck").
func DerivativeCheck(h *gdsim.SolverHandle, sd *gdmode.StateData, tol float64) ([]DerivativeViolation, error) {
	fresh := make([]float64, h.Size())
	if err := h.Derivative(sd, fresh); err != nil {
		return nil, err
	}
	live := h.DerivativeVector()
	var bad []DerivativeViolation
	for i, f := range fresh {
		if i >= len(live) {
			break
		}
		if math.Abs(f-live[i]) > tol {
			bad = append(bad, DerivativeViolation{Index: i, Live: live[i], Fresh: f})
		}
	}
	return bad, nil
}

// EquivalenceMismatch names one point of structural disagreement found by
// CheckObjectEquivalence.
type EquivalenceMismatch struct {
	Path   string
	Reason string
}

// CheckObjectEquivalence structurally compares two component trees by name,
// type, sub-object count, and recursively by sub-object name correspondence
// (spec.md §4.6 "checkObjectEquivalence"; used after clone to confirm a
// deep copy reproduced the original tree's shape).
func CheckObjectEquivalence(a, b gdcomp.Component) []EquivalenceMismatch {
	return compareTree(a, b, a.Name())
}

func compareTree(a, b gdcomp.Component, path string) []EquivalenceMismatch {
	var mismatches []EquivalenceMismatch
	if a.Name() != b.Name() {
		mismatches = append(mismatches, EquivalenceMismatch{Path: path, Reason: "name differs: " + a.Name() + " vs " + b.Name()})
	}
	if typeName(a) != typeName(b) {
		mismatches = append(mismatches, EquivalenceMismatch{Path: path, Reason: "type differs: " + typeName(a) + " vs " + typeName(b)})
	}
	as, bs := subObjectsOf(a), subObjectsOf(b)
	if len(as) != len(bs) {
		mismatches = append(mismatches, EquivalenceMismatch{Path: path, Reason: "sub-object count differs"})
		return mismatches
	}
	byName := make(map[string]gdcomp.Component, len(bs))
	for _, s := range bs {
		byName[s.Name()] = s
	}
	for _, sa := range as {
		sb, ok := byName[sa.Name()]
		if !ok {
			mismatches = append(mismatches, EquivalenceMismatch{Path: path + "/" + sa.Name(), Reason: "no corresponding sub-object by name"})
			continue
		}
		mismatches = append(mismatches, compareTree(sa, sb, path+"/"+sa.Name())...)
	}
	return mismatches
}

func typeName(c gdcomp.Component) string {
	if t, ok := c.(interface{ TypeName() string }); ok {
		return t.TypeName()
	}
	return "?"
}

func subObjectsOf(c gdcomp.Component) []gdcomp.Component {
	if s, ok := c.(interface{ SubObjects() []gdcomp.Component }); ok {
		return s.SubObjects()
	}
	return nil
}
