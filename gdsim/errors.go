// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdsim

import "github.com/cpmech/gosl/chk"

// ReturnCode mirrors the driver's historical integer return codes
// (spec.md §6 "Return codes"), kept as named constants so callers branching
// on the outcome of execute/PowerFlow/DynamicInitialize don't compare
// against bare integers.
type ReturnCode int

const (
	SolverSuccess                ReturnCode = 0
	SolverRootFound              ReturnCode = 2
	SolverConvergenceError       ReturnCode = -12
	SolverInvalidStateError      ReturnCode = -36
	SolverInitialSetupError      ReturnCode = -38
	NoSlackBusFound              ReturnCode = -40
	FunctionExecutionFailure     ReturnCode = -41
)

// Error taxonomy (spec.md §7 "Error Handling Design"): every failure the
// driver can report is one of these five classes, each wrapping chk.Err's
// formatted message the way every other package in this tree reports
// errors, rather than a parallel ad hoc error type per package.
type UnrecognizedParameterError struct{ Name, Component string }

func (e *UnrecognizedParameterError) Error() string {
	return chk.Err("unrecognized parameter %q on %q", e.Name, e.Component).Error()
}

type InvalidFileOperationError struct{ Path, Op string }

func (e *InvalidFileOperationError) Error() string {
	return chk.Err("invalid file operation %q on %q", e.Op, e.Path).Error()
}

type SolverOperationError struct {
	Op   string
	Code ReturnCode
}

func (e *SolverOperationError) Error() string {
	return chk.Err("solver operation %q failed with code %d", e.Op, e.Code).Error()
}

type FunctionExecutionError struct{ Detail string }

func (e *FunctionExecutionError) Error() string {
	return chk.Err("function execution failed: %s", e.Detail).Error()
}

type BadAllocationError struct{ What string }

func (e *BadAllocationError) Error() string {
	return chk.Err("bad allocation: %s", e.What).Error()
}
