// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdmode

// StateData is the immutable-by-convention snapshot passed into every
// component evaluation call: time, the full state vector and its
// derivative, optional partitioned-mode aliases, optional scratch buffers,
// and the Cj coefficient the integrator supplies for derivative Jacobians
// (spec.md §3 "StateData" and GLOSSARY "Cj").
type StateData struct {
	Time  float64
	SeqId int

	State      []float64
	Derivative []float64

	// Present only for a partitioned solve, where the driver hands each
	// half of the state to the solver evaluating the other half.
	FullState []float64
	DiffState []float64
	AlgState  []float64

	// Opportunistic scratch: if non-nil, must be the same length as State.
	Scratch []float64

	Cj float64

	AltTime   float64
	PairIndex int

	// ExtraStateInformation holds, per OffsetIndex, the state vector the
	// driver prepopulated for a paired mode when StateData itself carries
	// no Full/Diff/AlgState alias (spec.md §4.1: "either the StateData
	// carries it ... or the driver has prepopulated extraStateInformation").
	ExtraStateInformation [][]float64
}

// Locations is the bundle getLocations returns: pointers (as slices rooted
// at the right offset) into either sd's vectors or a component's local
// cache, resolved uniformly across local/monolithic/partitioned execution.
type Locations struct {
	AlgState  []float64 // algebraic state, rooted at AlgOffset
	DiffState []float64 // differential state, rooted at DiffOffset
	DState    []float64 // derivative of DiffState
	Dest      []float64 // where to write algebraic residual/update contributions
	DestDiff  []float64 // where to write differential residual/derivative contributions
	AlgOffset int
	DiffOffset int
	AlgSize    int
	DiffSize   int
	Time       float64
}

// GetLocations is the central helper of spec.md §4.1: it lets one evaluation
// routine be written once and behave correctly whether dispatched under
// local execution, a monolithic DAE, or a partitioned dynamic solve, without
// the routine itself branching on mode.
//
// localAlg/localDiff are the component's own local-execution caches (used
// when sd is nil or mode is Local); they must be at least as long as the
// component's local state sizes.
func GetLocations(sd *StateData, mode Mode, off *SolverOffsets, localAlg, localDiff []float64) Locations {
	loc := Locations{
		AlgOffset: off.AlgOffset,
		DiffOffset: off.DiffOffset,
		AlgSize:   off.Local.Alg,
		DiffSize:  off.Local.Diff,
	}

	if sd == nil || mode.Local {
		loc.AlgState = sliceAt(localAlg, 0, loc.AlgSize)
		loc.DiffState = sliceAt(localDiff, 0, loc.DiffSize)
		loc.DState = sliceAt(localDiff, 0, loc.DiffSize)
		loc.Dest = loc.AlgState
		loc.DestDiff = loc.DiffState
		loc.Time = 0
		return loc
	}

	loc.Time = sd.Time

	// Algebraic half: read from sd.State/sd.AlgState at AlgOffset, unless
	// this mode is the differential half of a partitioned pair, in which
	// case the algebraic data lives in the paired mode's slot.
	if off.AlgOffset != NullOffset {
		if mode.IsPartitioned() && !mode.Algebraic {
			loc.AlgState = pairedSlice(sd, mode, loc.AlgOffset, loc.AlgSize)
		} else if sd.AlgState != nil {
			loc.AlgState = sliceAt(sd.AlgState, loc.AlgOffset, loc.AlgSize)
		} else {
			loc.AlgState = sliceAt(sd.State, loc.AlgOffset, loc.AlgSize)
		}
	}

	if off.DiffOffset != NullOffset {
		if mode.IsPartitioned() && !mode.Differential {
			loc.DiffState = pairedSlice(sd, mode, loc.DiffOffset, loc.DiffSize)
		} else if sd.DiffState != nil {
			loc.DiffState = sliceAt(sd.DiffState, loc.DiffOffset, loc.DiffSize)
		} else {
			loc.DiffState = sliceAt(sd.State, loc.DiffOffset, loc.DiffSize)
		}
		if sd.Derivative != nil {
			loc.DState = sliceAt(sd.Derivative, loc.DiffOffset, loc.DiffSize)
		}
	}

	loc.Dest = loc.AlgState
	loc.DestDiff = loc.DiffState
	return loc
}

func sliceAt(v []float64, off, size int) []float64 {
	if v == nil || size == 0 {
		return nil
	}
	if off+size > len(v) {
		return nil
	}
	return v[off : off+size]
}

// pairedSlice follows PairedOffsetIndex to find the complementary half's
// data, preferring an explicit StateData alias and falling back to
// ExtraStateInformation.
func pairedSlice(sd *StateData, mode Mode, off, size int) []float64 {
	if mode.Differential && sd.AlgState != nil {
		return sliceAt(sd.AlgState, off, size)
	}
	if mode.Algebraic && sd.DiffState != nil {
		return sliceAt(sd.DiffState, off, size)
	}
	if sd.ExtraStateInformation != nil && mode.PairedOffsetIndex < len(sd.ExtraStateInformation) {
		return sliceAt(sd.ExtraStateInformation[mode.PairedOffsetIndex], off, size)
	}
	return nil
}
