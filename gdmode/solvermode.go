// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gdmode implements the value types shared by every component and
// solver in the engine: the SolverMode tag, per-mode state sizes, offsets,
// the OffsetTable, and the StateData snapshot handed into every evaluation.
package gdmode

// Approx is a bitset of approximations a SolverMode may request.
type Approx uint32

const (
	ApproxDecoupled   Approx = 1 << iota // algebraic/differential states solved on separate passes
	ApproxSmallAngle                     // sin/cos linearized about the operating angle
	ApproxLinearized                     // network linearized about the operating point
	ApproxDC                             // DC power-flow approximation (no reactive power, unity voltage)
	ApproxForcedRecalc                   // force recomputation even if cached state looks valid
)

// Has reports whether all bits in want are set in a.
func (a Approx) Has(want Approx) bool { return a&want == want }

// Mode is an immutable value identifying a single solve: which subset of the
// math contract applies (dynamic/differential/algebraic/...), which
// approximations are active, and which offset column of a component's
// OffsetTable holds this mode's placement.
//
// Equality over the boolean/approximation fields is structural (Go's ==
// compares all fields, so two Modes differing only in OffsetIndex are NOT
// ==; use SameStructure to ignore the index as spec'd for OffsetTable.find).
type Mode struct {
	Dynamic        bool
	Differential   bool
	Algebraic      bool
	Local          bool
	ExtendedState  bool // reserved; no evaluation path consumes it (see SPEC_FULL DESIGN NOTES)
	Parameters     bool
	Approx         Approx
	OffsetIndex    int // which column of an OffsetTable this mode occupies
	PairedOffsetIndex int // for partitioned modes: the column holding the complementary half's state
}

// SameStructure reports whether two modes are structurally equivalent,
// ignoring OffsetIndex/PairedOffsetIndex — used by OffsetTable.Find to reuse
// an already-allocated column for a newly-requested but equivalent mode.
func (m Mode) SameStructure(o Mode) bool {
	return m.Dynamic == o.Dynamic &&
		m.Differential == o.Differential &&
		m.Algebraic == o.Algebraic &&
		m.Local == o.Local &&
		m.ExtendedState == o.ExtendedState &&
		m.Parameters == o.Parameters &&
		m.Approx == o.Approx
}

// IsPartitioned reports whether this mode consumes state from a paired mode
// (the partitioned-dynamic strategy splits algebraic and differential state
// between two solver handles that exchange data each step).
func (m Mode) IsPartitioned() bool {
	return m.Dynamic && (m.Algebraic || m.Differential) && !(m.Algebraic && m.Differential)
}

// Predefined singletons. OffsetIndex 0 is reserved for Local; the others are
// assigned distinct indices so they may coexist on one OffsetTable without
// clobbering each other's columns (the per-simulation invariant of spec.md
// §3: "distinct SolverModes used concurrently must have distinct
// offsetIndex").
var (
	Local = Mode{Local: true, OffsetIndex: 0}

	PowerFlow = Mode{Algebraic: true, OffsetIndex: 1}

	DAE = Mode{Dynamic: true, Algebraic: true, Differential: true, OffsetIndex: 2}

	DynAlgebraic = Mode{Dynamic: true, Algebraic: true, OffsetIndex: 3, PairedOffsetIndex: 4}

	DynDifferential = Mode{Dynamic: true, Differential: true, OffsetIndex: 4, PairedOffsetIndex: 3}
)
