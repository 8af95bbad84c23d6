// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdsim

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/ode"

	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
)

// walkFn is called once per component in the tree, pre-order, by walk.
type walkFn func(c gdcomp.Component)

// walk visits root and every sub-object beneath it, pre-order. Every
// tree-wide pass the driver needs (residual assembly, Jacobian assembly,
// SetState distribution, ...) is one instance of this same traversal,
// mirroring the single recursive cell/node loop fem.Domain's assembly
// routines use instead of a bespoke walker per concern.
func walk(c gdcomp.Component, fn walkFn) {
	fn(c)
	if b, ok := c.(interface{ SubObjects() []gdcomp.Component }); ok {
		for _, s := range b.SubObjects() {
			walk(s, fn)
		}
	}
}

// SolverHandle owns one SolverMode's view of a component tree: its state
// vector, derivative vector, and the machinery to assemble a residual and a
// Jacobian and solve for the state that zeroes the residual (power flow) or
// integrate the dynamic states forward (DAE/partitioned dynamics).
//
// Grounded on fem/domain.go's Domain (owns Sol, Kb *la.Triplet, LinSol) and
// mdl/retention/model.go's Update function (the pack's only concrete
// example of driving gosl/ode.Solver against a callback residual/Jacobian
// pair), generalized from one finite-element domain to one GridComponent
// tree evaluated under one SolverMode.
type SolverHandle struct {
	Root gdcomp.Component
	Mode gdmode.Mode

	state      []float64
	derivative []float64

	jacobian *la.Triplet
	jacNNZ   int
}

// NewSolverHandle sizes and offsets root's tree for mode, then allocates the
// state/derivative vectors and Jacobian triplet.
func NewSolverHandle(root gdcomp.Component, mode gdmode.Mode) *SolverHandle {
	h := &SolverHandle{Root: root, Mode: mode}
	h.reload()
	return h
}

func (h *SolverHandle) reload() {
	base := rootBase(h.Root)
	base.LoadStateSizes(h.Mode)
	n := assignOffsets(h.Root, h.Mode)
	base.LoadJacobianSizes(h.Mode)
	base.LoadRootSizes(h.Mode)

	total := h.Root.OffsetTable().Get(h.Mode).Total
	h.state = make([]float64, n)
	h.derivative = make([]float64, n)
	h.jacNNZ = total.Jac + 1
	h.jacobian = new(la.Triplet)
	h.jacobian.Init(n, n, h.jacNNZ)
}

// assignOffsets distributes one contiguous, non-overlapping offset range
// per component across the whole tree in pre-order, using each component's
// own Local size (populated by LoadStateSizes). It generalizes
// gdmode.Table.SetOffset's V/A/Alg/Diff ordering from "one component,
// placed from its own aggregated Total" to "every component in a tree,
// placed from its own Local slice of a shared running counter" — the walk
// a single component's own SetOffset (which only knows its own Total) has
// no way to perform by itself. Returns the total width consumed.
func assignOffsets(root gdcomp.Component, mode gdmode.Mode) int {
	next := 0
	walk(root, func(c gdcomp.Component) {
		t := c.OffsetTable()
		slot := t.Get(mode)
		local := slot.Local
		place := func(size int, set func(gdmode.Mode, int)) {
			if size > 0 {
				set(mode, next)
				next += size
			} else {
				set(mode, gdmode.NullOffset)
			}
		}
		place(local.V, t.SetVOffset)
		place(local.A, t.SetAOffset)
		place(local.Alg, t.SetAlgOffset)
		place(local.Diff, t.SetDiffOffset)
		slot.StateLoaded = true
	})
	return next
}

// Size returns the total width of the state vector under Mode.
func (h *SolverHandle) Size() int { return len(h.state) }

// State exposes the live state vector (e.g. for a recorder or checkpoint).
func (h *SolverHandle) State() []float64 { return h.state }

// GuessState seeds the state vector from every component's own initial
// guess (spec.md §4.2 "Initial guess").
func (h *SolverHandle) GuessState(time float64) {
	walk(h.Root, func(c gdcomp.Component) {
		c.GuessState(time, h.state, h.derivative, h.Mode)
	})
}

// SetState distributes the solved state vector back out to every
// component's own live cache (spec.md §4.2 "State uptake"), so subsequent
// Inject/electrical-quantity reads see the converged values.
func (h *SolverHandle) SetState(time float64) {
	walk(h.Root, func(c gdcomp.Component) {
		c.SetState(time, h.state, h.derivative, h.Mode)
	})
}

// assembleResidual calls Residual on every component with a local slice
// rooted at that component's own AlgOffset (algebraic modes) or DiffOffset
// (dynamic modes), matching the GetLocations contract every component's
// Residual/Derivative implementation already assumes.
func (h *SolverHandle) assembleResidual(sd *gdmode.StateData, resid []float64) error {
	var outerErr error
	walk(h.Root, func(c gdcomp.Component) {
		if outerErr != nil {
			return
		}
		off := c.OffsetTable().Get(h.Mode)
		if off.Local.Alg == 0 {
			return
		}
		if off.AlgOffset == gdmode.NullOffset {
			return
		}
		local := resid[off.AlgOffset : off.AlgOffset+off.Local.Alg]
		if err := c.Residual(nil, sd, local, h.Mode); err != nil {
			outerErr = err
		}
	})
	return outerErr
}

// assembleDerivative is assembleResidual's analogue for the differential
// partition, used by the dynamic DAE/partitioned strategies.
func (h *SolverHandle) assembleDerivative(sd *gdmode.StateData, deriv []float64) error {
	var outerErr error
	walk(h.Root, func(c gdcomp.Component) {
		if outerErr != nil {
			return
		}
		off := c.OffsetTable().Get(h.Mode)
		if off.Local.Diff == 0 || off.DiffOffset == gdmode.NullOffset {
			return
		}
		local := deriv[off.DiffOffset : off.DiffOffset+off.Local.Diff]
		if err := c.Derivative(nil, sd, local, h.Mode); err != nil {
			outerErr = err
		}
	})
	return outerErr
}

// assembleJacobianInto calls JacobianElements on every component, all
// writing into the one shared sink, the same accumulate-into-one-triplet
// pattern as ele.Element.AddToKb across a fem.Domain's cells.
func (h *SolverHandle) assembleJacobianInto(sd *gdmode.StateData, t *la.Triplet) error {
	t.Start()
	sink := gdcomp.JacobianSink{T: t}
	var outerErr error
	walk(h.Root, func(c gdcomp.Component) {
		if outerErr != nil {
			return
		}
		if err := c.JacobianElements(nil, sd, sink, nil, h.Mode); err != nil {
			outerErr = err
		}
	})
	return outerErr
}

// assembleJacobian assembles into the handle's own persistent triplet, used
// by the algebraic (power-flow) Newton solve.
func (h *SolverHandle) assembleJacobian(sd *gdmode.StateData) error {
	return h.assembleJacobianInto(sd, h.jacobian)
}

// Residual exposes assembleResidual to other packages (diag's JacobianCheck
// needs to re-evaluate the residual at perturbed states without reaching
// into SolverHandle's unexported fields).
func (h *SolverHandle) Residual(sd *gdmode.StateData, resid []float64) error {
	return h.assembleResidual(sd, resid)
}

// Jacobian assembles and returns the handle's analytical Jacobian triplet at
// sd, exported for diag's comparison against its own finite-difference
// estimate.
func (h *SolverHandle) Jacobian(sd *gdmode.StateData) (*la.Triplet, error) {
	if err := h.assembleJacobian(sd); err != nil {
		return nil, err
	}
	return h.jacobian, nil
}

// residualNorm is the infinity norm used against tolerance to decide
// Newton convergence.
func residualNorm(v []float64) float64 {
	max := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > max {
			max = a
		}
	}
	return max
}

// solveAlgebraic runs Newton's method on the algebraic partition of the
// state vector until the residual's infinity norm falls below tol or
// maxIter is exceeded (spec.md §4.4 "power flow"). It drives la.LinSol the
// way fem/s_implicit.go and fem/s_linimp.go do: InitR(tmat, symmetric,
// verbose, timing) to bind the triplet, Fact to factorize, SolveR to
// back-solve one right-hand side.
func (h *SolverHandle) solveAlgebraic(sd *gdmode.StateData, solverName string, tol float64, maxIter int) (iters int, converged bool, err error) {
	n := h.Size()
	resid := make([]float64, n)
	dx := make([]float64, n)

	lis := la.GetSolver(solverName)
	defer lis.Free()

	for iters = 0; iters < maxIter; iters++ {
		for i := range resid {
			resid[i] = 0
		}
		if err = h.assembleResidual(sd, resid); err != nil {
			return iters, false, err
		}
		if residualNorm(resid) < tol {
			return iters, true, nil
		}
		if err = h.assembleJacobian(sd); err != nil {
			return iters, false, err
		}
		neg := make([]float64, n)
		for i, r := range resid {
			neg[i] = -r
		}
		if ierr := lis.InitR(h.jacobian, false, false, false); ierr != nil {
			return iters, false, chk.Err("gdsim: linear solver init failed: %v", ierr)
		}
		if ierr := lis.Fact(); ierr != nil {
			return iters, false, chk.Err("gdsim: linear solver factorization failed: %v", ierr)
		}
		if ierr := lis.SolveR(dx, neg, false); ierr != nil {
			return iters, false, chk.Err("gdsim: linear solve failed: %v", ierr)
		}
		for i := range h.state {
			h.state[i] += dx[i]
		}
		h.SetState(sd.Time)
	}
	return iters, false, nil
}

// integrateDynamic advances the dynamic differential states from t0 to t1
// with gosl/ode.Solver, grounded directly on mdl/retention/model.go's
// Update function: an fcn callback computing the derivative and a jac
// callback filling a *la.Triplet, both driven by one ode.Solver.Solve call.
func (h *SolverHandle) integrateDynamic(sd *gdmode.StateData, t0, t1 float64, atol, rtol float64) error {
	n := h.Size()
	fcn := func(f []float64, dx, x float64, y []float64) error {
		sd.Time = x
		sd.State = y
		return h.assembleDerivative(sd, f)
	}
	jac := func(dfdy *la.Triplet, dx, x float64, y []float64) error {
		if dfdy.Max() == 0 {
			dfdy.Init(n, n, h.jacNNZ)
		}
		sd.Time = x
		sd.State = y
		return h.assembleJacobianInto(sd, dfdy)
	}
	var solver ode.Solver
	solver.Init("Radau5", n, fcn, jac, nil, nil)
	solver.SetTol(atol, rtol)
	solver.Distr = false
	y := append([]float64(nil), h.state...)
	if err := solver.Solve(y, t0, t1, t1-t0, false); err != nil {
		return chk.Err("gdsim: dynamic integration failed: %v", err)
	}
	copy(h.state, y)
	return nil
}

// Derivative exposes assembleDerivative to other packages (diag's
// DerivativeCheck).
func (h *SolverHandle) Derivative(sd *gdmode.StateData, deriv []float64) error {
	return h.assembleDerivative(sd, deriv)
}

// AlgebraicUpdate calls AlgebraicUpdate on every component with a local
// slice rooted at its own AlgOffset, the same local-slicing convention
// assembleResidual uses, exported for diag's AlgebraicCheck.
func (h *SolverHandle) AlgebraicUpdate(sd *gdmode.StateData, update []float64, alpha float64) error {
	var outerErr error
	walk(h.Root, func(c gdcomp.Component) {
		if outerErr != nil {
			return
		}
		off := c.OffsetTable().Get(h.Mode)
		if off.Local.Alg == 0 || off.AlgOffset == gdmode.NullOffset {
			return
		}
		local := update[off.AlgOffset : off.AlgOffset+off.Local.Alg]
		if err := c.AlgebraicUpdate(nil, sd, local, h.Mode, alpha); err != nil {
			outerErr = err
		}
	})
	return outerErr
}

// DerivativeVector exposes the live derivative vector populated by the last
// integrateDynamic/assembleDerivative call.
func (h *SolverHandle) DerivativeVector() []float64 { return h.derivative }

// rootBase asserts that the root exposes the aggregation entry points that
// every type embedding gdcomp.Base gets by promotion, so the driver can call
// them without a type switch.
func rootBase(c gdcomp.Component) interface {
	LoadStateSizes(gdmode.Mode)
	LoadJacobianSizes(gdmode.Mode)
	LoadRootSizes(gdmode.Mode)
} {
	b, ok := c.(interface {
		LoadStateSizes(gdmode.Mode)
		LoadJacobianSizes(gdmode.Mode)
		LoadRootSizes(gdmode.Mode)
	})
	if !ok {
		chk.Panic("gdsim: root component does not embed gdcomp.Base")
	}
	return b
}
