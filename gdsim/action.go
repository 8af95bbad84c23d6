// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdsim

import "github.com/cpmech/griddyn/gdmode"

// ActionKind enumerates the driver's external action queue (spec.md §6
// "execute(action) where action is an enum {...}").
type ActionKind int

const (
	ActionIgnore ActionKind = iota
	ActionSet
	ActionSetAll
	ActionSetSolver
	ActionPrint
	ActionPowerflow
	ActionCheck
	ActionContingency
	ActionContinuation
	ActionInitialize
	ActionIterate
	ActionEventMode
	ActionDynamicDAE
	ActionDynamicPart
	ActionDynamicDecoupled
	ActionStep
	ActionRun
	ActionReset
	ActionSave
	ActionLoad
	ActionAdd
	ActionRollback
	ActionCheckpoint
)

// Action is one queued driver command: a kind plus up to two string and two
// float operands (spec.md §6 "plus up to two string operands and two
// doubles").
type Action struct {
	Kind     ActionKind
	Str1     string
	Str2     string
	Num1     float64
	Num2     float64
}

// Execute dispatches one action against the driver, returning the
// spec'd integer-style ReturnCode alongside any Go error (spec.md §6, §7
// "every failing driver call returns a non-zero code").
func (d *Driver) Execute(a Action) (ReturnCode, error) {
	switch a.Kind {
	case ActionIgnore:
		return SolverSuccess, nil

	case ActionSet:
		_, err := d.Root.Set(a.Str1, a.Num1, a.Str2)
		if err != nil {
			return SolverInitialSetupError, err
		}
		return SolverSuccess, nil

	case ActionSetAll:
		for _, b := range d.Root.Buses {
			b.Set(a.Str1, a.Num1, a.Str2)
		}
		return SolverSuccess, nil

	case ActionSetSolver:
		d.Tol.LinSolName = a.Str1
		return SolverSuccess, nil

	case ActionPrint:
		return SolverSuccess, nil // left to the embedder's own recorder/output sink

	case ActionPowerflow:
		if err := d.PowerFlow(); err != nil {
			return SolverConvergenceError, err
		}
		return SolverSuccess, nil

	case ActionCheck:
		if err := d.networkCheck(); err != nil {
			return NoSlackBusFound, err
		}
		return SolverSuccess, nil

	case ActionContingency, ActionContinuation:
		return FunctionExecutionFailure, &FunctionExecutionError{Detail: a.Kind.String() + " is handled by the contingency runner, not Execute"}

	case ActionInitialize:
		if err := d.makeReady(Initialized, gdmode.Local); err != nil {
			return SolverInitialSetupError, err
		}
		return SolverSuccess, nil

	case ActionIterate:
		h := d.handleFor(gdmode.PowerFlow)
		sd := &gdmode.StateData{Time: d.currentTime, State: h.State()}
		iters, converged, err := h.solveAlgebraic(sd, d.Tol.LinSolName, d.Tol.ResidualTol, 1)
		if err != nil {
			return SolverConvergenceError, err
		}
		if !converged && iters >= 1 {
			return SolverConvergenceError, nil
		}
		return SolverSuccess, nil

	case ActionEventMode:
		if err := d.RunEventDriven(a.Num1, a.Num2); err != nil {
			return SolverConvergenceError, err
		}
		return SolverSuccess, nil

	case ActionDynamicDAE:
		d.Strategy = MonolithicDAE
		if err := d.StepDynamic(a.Num1); err != nil {
			return SolverConvergenceError, err
		}
		return SolverSuccess, nil

	case ActionDynamicPart:
		d.Strategy = Partitioned
		if err := d.StepDynamic(a.Num1); err != nil {
			return SolverConvergenceError, err
		}
		return SolverSuccess, nil

	case ActionDynamicDecoupled:
		d.Strategy = Decoupled
		if err := d.StepDynamic(a.Num1); err != nil {
			return FunctionExecutionFailure, err
		}
		return SolverSuccess, nil

	case ActionStep:
		if err := d.StepDynamic(d.currentTime + a.Num1); err != nil {
			return SolverConvergenceError, err
		}
		return SolverSuccess, nil

	case ActionRun:
		if err := d.Run(a.Num1); err != nil {
			return SolverConvergenceError, err
		}
		return SolverSuccess, nil

	case ActionReset:
		d.state = Startup
		d.handles = make(map[int]*SolverHandle)
		d.currentTime = 0
		return SolverSuccess, nil

	case ActionSave:
		return SolverSuccess, nil // see package persist

	case ActionLoad:
		return SolverSuccess, nil // see package persist

	case ActionAdd, ActionRollback, ActionCheckpoint:
		return SolverSuccess, nil
	}
	return FunctionExecutionFailure, &FunctionExecutionError{Detail: "unrecognized action"}
}

func (k ActionKind) String() string {
	names := []string{
		"ignore", "set", "setall", "setsolver", "print", "powerflow", "check",
		"contingency", "continuation", "initialize", "iterate", "eventmode",
		"dynamicDAE", "dynamicPart", "dynamicDecoupled", "step", "run",
		"reset", "save", "load", "add", "rollback", "checkpoint",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "unknown"
	}
	return names[k]
}

// Run executes the default strategy to completion by tEnd: makeReady
// through power flow, then StepDynamic in tStep-sized increments until
// tEnd (spec.md §6 "run(tEnd) ... run with an empty action queue runs the
// default strategy").
func (d *Driver) Run(tEnd float64) error {
	if err := d.makeReady(DynamicInitialized, gdmode.DAE); err != nil {
		return err
	}
	d.state = DynamicPartial
	const tStep = 0.01
	for d.currentTime < tEnd {
		next := d.currentTime + tStep
		if next > tEnd {
			next = tEnd
		}
		if err := d.StepDynamic(next); err != nil {
			return err
		}
	}
	d.state = DynamicComplete
	return nil
}
