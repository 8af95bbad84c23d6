// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdsim

import (
	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
)

// RecoveryOutcome is the two-valued result every staged attemptFix reports
// (spec.md §4.5: "each exposing attemptFix() -> {more_options,
// out_of_options}").
type RecoveryOutcome int

const (
	MoreOptions RecoveryOutcome = iota
	OutOfOptions
)

// PowerFlowRecovery implements the five-stage power-flow error-recovery
// strategy of spec.md §4.5, kept inside gdsim (rather than a separate
// top-level package) because every stage mutates the driver's live solver
// handle and bus/load flags directly; a standalone package would need the
// same two-way access and so would only reintroduce the coupling as an
// import cycle.
type PowerFlowRecovery struct {
	Driver *Driver
	Handle *SolverHandle
	stage  int
}

// AttemptFix runs the next unattempted stage and reports whether another
// stage remains. cause, when non-nil, additionally triggers the low-voltage
// fix ahead of its normal stage if it is a SOLVER_INVALID_STATE_ERROR
// (spec.md §4.5: "Low-voltage fix is also invoked when the solver returns
// SOLVER_INVALID_STATE_ERROR before counting an attempt").
func (r *PowerFlowRecovery) AttemptFix(cause error) (RecoveryOutcome, error) {
	if serr, ok := cause.(*SolverOperationError); ok && serr.Code == SolverInvalidStateError {
		r.lowVoltageDisconnect()
		return MoreOptions, nil
	}
	r.stage++
	switch r.stage {
	case 1:
		r.fullCheckReInit()
	case 2:
		r.coarseBlockIterate()
	case 3:
		r.pqLowVoltageLimit()
	case 4:
		r.lowVoltageDisconnect()
	case 5:
		r.Driver.tripHighAngleLinks()
		return OutOfOptions, nil
	default:
		return OutOfOptions, nil
	}
	return MoreOptions, nil
}

// fullCheckReInit applies the non-reversible full_check adjustment and
// reinitializes the solver handle if anything changed (spec.md §4.5 stage 1).
func (r *PowerFlowRecovery) fullCheckReInit() {
	if change := r.Driver.powerFlowAdjustFullCheck(); change >= gdmode.NonStateChange {
		r.Handle = r.Driver.reInitHandle(r.Handle.Mode)
	}
}

// coarseBlockIterate reruns the guess/solve/set/adjust cycle once without
// the usual convergence tolerance, then applies the reversible adjustment
// pass (spec.md §4.5 stage 2).
func (r *PowerFlowRecovery) coarseBlockIterate() {
	sd := &gdmode.StateData{Time: r.Driver.currentTime, State: r.Handle.State()}
	r.Handle.GuessState(r.Driver.currentTime)
	r.Handle.solveAlgebraic(sd, r.Driver.Tol.LinSolName, r.Driver.Tol.ResidualTol*10, 1)
	r.Handle.SetState(r.Driver.currentTime)
	r.Driver.powerFlowAdjust(true)
}

// pqLowVoltageLimit switches every load to its PQ low-voltage-limited model
// once (stage 3), guarded by Driver.flags.pqLowVLimitApplied so repeated
// recovery passes don't reapply it (spec.md §4.5: "recorded in a flag so it
// is not repeated").
func (r *PowerFlowRecovery) pqLowVoltageLimit() {
	if r.Driver.flags.pqLowVLimitApplied {
		return
	}
	if !r.anyVoltageBelow(0.7) {
		return
	}
	for _, ld := range r.Driver.Root.Loads {
		ld.Flags = ld.Flags.Set(gdcomp.FlagPQLowVoltageLimit)
	}
	r.Driver.flags.pqLowVLimitApplied = true
	r.coarseBlockIterate()
}

// lowVoltageDisconnect sets FlagLowVoltage on every bus once any bus drops
// below 0.1 pu, then reinitializes the handle (spec.md §4.5 stage 4). No
// disconnect threshold is stored and no solve step reads the flag, so this
// stage disconnects no bus.
func (r *PowerFlowRecovery) lowVoltageDisconnect() {
	if r.Driver.flags.lowVDisconnectSet {
		return
	}
	if !r.anyVoltageBelow(0.1) {
		return
	}
	for _, b := range r.Driver.Root.Buses {
		b.Flags = b.Flags.Set(gdcomp.FlagLowVoltage)
	}
	r.Driver.flags.lowVDisconnectSet = true
	r.Handle = r.Driver.reInitHandle(r.Handle.Mode)
}

func (r *PowerFlowRecovery) anyVoltageBelow(threshold float64) bool {
	for _, b := range r.Driver.Root.Buses {
		if b.Voltage() < threshold {
			return true
		}
	}
	return false
}

// DynamicICRecovery implements the dynamic-initial-condition staged
// recovery of spec.md §4.5: voltage reset, low-voltage root check, a second
// algebraic solve, algebraic root check, each attempted once per stage.
type DynamicICRecovery struct {
	Driver *Driver
	Handle *SolverHandle
	stage  int
}

func (r *DynamicICRecovery) AttemptFix(cause error) (RecoveryOutcome, error) {
	r.stage++
	switch r.stage {
	case 1:
		r.resetVoltage()
	case 2:
		r.lowVoltageRootCheck()
	case 3:
		sd := &gdmode.StateData{Time: r.Driver.currentTime, State: r.Handle.State()}
		_, converged, err := r.Handle.solveAlgebraic(sd, r.Driver.Tol.LinSolName, r.Driver.Tol.ResidualTol, r.Driver.Tol.MaxIterations)
		if err != nil {
			return MoreOptions, err
		}
		if converged {
			return OutOfOptions, nil
		}
	case 4:
		r.algebraicRootCheck()
	default:
		return OutOfOptions, nil
	}
	return MoreOptions, nil
}

// resetVoltage reapplies each bus's setpoint guess, the fault-reset
// recovery's first stage (spec.md §4.4 "voltage reset ... via staged
// fault-reset recovery").
func (r *DynamicICRecovery) resetVoltage() {
	for _, b := range r.Driver.Root.Buses {
		b.GuessState(r.Driver.currentTime, r.Handle.State(), nil, r.Handle.Mode)
	}
}

func (r *DynamicICRecovery) lowVoltageRootCheck() {
	for _, b := range r.Driver.Root.Buses {
		b.RootCheck(nil, r.Handle.Mode)
	}
}

func (r *DynamicICRecovery) algebraicRootCheck() {
	for _, b := range r.Driver.Root.Buses {
		b.RootCheck(nil, r.Handle.Mode)
	}
}
