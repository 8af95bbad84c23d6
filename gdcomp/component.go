// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gdcomp implements the polymorphic component tree and the math
// contract every node of that tree must satisfy: size declaration, offset
// placement, initial guess, state uptake, residual/derivative/algebraic
// update, Jacobian, root test/trigger, outputs and timestep (spec.md §4.2).
package gdcomp

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/griddyn/gdmode"
)

// JacobianSink is the write-only destination for (row, col, value) Jacobian
// triplets (spec.md §4.2 "Jacobian"), a thin domain-named wrapper around
// gosl/la.Triplet mirroring ele.Element.AddToKb's *la.Triplet parameter.
type JacobianSink struct {
	T *la.Triplet
}

// Put appends one (row, col, value) entry.
func (s JacobianSink) Put(row, col int, value float64) {
	s.T.Put(row, col, value)
}

// Component is the math contract every node of the tree implements
// (spec.md §4.2). A concrete component embeds *Base for the common fields
// (flags, OffsetTable, local state cache, sub-objects) and implements the
// methods below for its own physics.
type Component interface {
	CoreObject

	// Size declaration (init phase A). Must not depend on peers.
	LocalStateSizes(mode gdmode.Mode) gdmode.StateSizes
	LocalJacobianCount(mode gdmode.Mode) int
	LocalRootCount(mode gdmode.Mode) (algRoots, diffRoots int)

	// Offset placement: base is this component's starting offset within
	// its parent's range; order picks one of the five orderings of
	// spec.md §4.2 for distributing offsets among sub-objects.
	SetOffset(base int, mode gdmode.Mode, order OffsetOrder)

	// Initial guess / state uptake (init phase B and every solver callback).
	GuessState(time float64, state, dstateDt []float64, mode gdmode.Mode)
	SetState(time float64, state, dstateDt []float64, mode gdmode.Mode)

	// Evaluation.
	Residual(inputs []float64, sd *gdmode.StateData, resid []float64, mode gdmode.Mode) error
	Derivative(inputs []float64, sd *gdmode.StateData, deriv []float64, mode gdmode.Mode) error
	AlgebraicUpdate(inputs []float64, sd *gdmode.StateData, update []float64, mode gdmode.Mode, alpha float64) error
	JacobianElements(inputs []float64, sd *gdmode.StateData, sink JacobianSink, inputLocs []int, mode gdmode.Mode) error

	// I/O partials, needed only when consumed by another component.
	IoPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64
	OutputPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64

	// Roots.
	RootTest(inputs []float64, sd *gdmode.StateData, roots []float64, mode gdmode.Mode) error
	RootTrigger(time float64, inputs []float64, rootMask []bool, mode gdmode.Mode) gdmode.ChangeCode
	RootCheck(sd *gdmode.StateData, mode gdmode.Mode) error

	// Outputs.
	GetOutputs(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) []float64
	GetOutput(index int) float64

	// Timestep: advances the component locally when the driver is not
	// integrating its states (e.g. a schedule-driven source).
	Timestep(time float64, inputs []float64, mode gdmode.Mode) error
}

// CoreObject is the generic object-tree contract inherited by every
// Component (spec.md §3 "standard object-tree fields inherited from a
// generic CoreObject").
type CoreObject interface {
	Id() int
	UserId() int
	Name() string
	Parent() Component

	OffsetTable() *gdmode.Table

	// Set dispatches a string/numeric parameter by dotted-path name,
	// returning whether it was Recognized — the result-returning
	// replacement for exception-driven parameter dispatch (spec.md §9).
	Set(name string, value float64, unit string) (SetResult, error)
	SetString(name, value string) (SetResult, error)
	SetFlag(name string, value bool) (SetResult, error)
	Get(name, unit string) (float64, error)
	GetString(name string) (string, error)

	Find(name string) Component
	SubObject(typeName string, index int) Component
	FindByUserId(typeName string, id int) Component
	AddSubObject(c Component) error
	RemoveSubObject(name string) error
	ReplaceSubObject(name string, c Component) error
}

// SetResult is the outcome of a Set/SetString/SetFlag call.
type SetResult int

const (
	NotRecognized SetResult = iota
	Recognized
)

// OffsetOrder selects how a parent distributes disjoint offset ranges among
// its sub-objects and its own local state (spec.md §4.2 "Offset placement").
type OffsetOrder int

const (
	OrderMixed OffsetOrder = iota
	OrderGrouped
	OrderAlgebraicGrouped
	OrderVoltageFirst
	OrderAngleFirst
	OrderDifferentialFirst
)
