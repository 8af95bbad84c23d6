// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdmode

import "testing"

func TestGetLocationsLocalMode(t *testing.T) {
	off := &SolverOffsets{Local: StateSizes{Alg: 2, Diff: 1}}
	localAlg := []float64{1, 2}
	localDiff := []float64{3}
	loc := GetLocations(nil, Local, off, localAlg, localDiff)
	if len(loc.AlgState) != 2 || loc.AlgState[0] != 1 {
		t.Errorf("expected local alg state, got %v", loc.AlgState)
	}
	if len(loc.DiffState) != 1 || loc.DiffState[0] != 3 {
		t.Errorf("expected local diff state, got %v", loc.DiffState)
	}
}

func TestGetLocationsMonolithicDAE(t *testing.T) {
	off := &SolverOffsets{
		AlgOffset:  2,
		DiffOffset: 4,
		Local:      StateSizes{Alg: 2, Diff: 3},
	}
	sd := &StateData{
		Time:       1.5,
		State:      []float64{0, 0, 10, 11, 20, 21, 22},
		Derivative: []float64{0, 0, 0, 0, 1, 2, 3},
	}
	loc := GetLocations(sd, DAE, off, nil, nil)
	if loc.AlgState[0] != 10 || loc.AlgState[1] != 11 {
		t.Errorf("AlgState = %v, want [10 11]", loc.AlgState)
	}
	if loc.DiffState[0] != 20 || loc.DiffState[2] != 22 {
		t.Errorf("DiffState = %v, want [20 21 22]", loc.DiffState)
	}
	if loc.DState[0] != 1 {
		t.Errorf("DState[0] = %v, want 1", loc.DState[0])
	}
	if loc.Time != 1.5 {
		t.Errorf("Time = %v, want 1.5", loc.Time)
	}
}

func TestGetLocationsPartitionedFollowsPairedAlgState(t *testing.T) {
	// DynDifferential mode reading its algebraic half from sd.AlgState.
	off := &SolverOffsets{
		AlgOffset: 0,
		Local:     StateSizes{Alg: 2},
	}
	sd := &StateData{
		AlgState: []float64{7, 8},
	}
	loc := GetLocations(sd, DynDifferential, off, nil, nil)
	if len(loc.AlgState) != 2 || loc.AlgState[0] != 7 {
		t.Errorf("expected paired alg state via sd.AlgState, got %v", loc.AlgState)
	}
}

func TestGetLocationsPartitionedFallsBackToExtraStateInformation(t *testing.T) {
	off := &SolverOffsets{
		AlgOffset: 1,
		Local:     StateSizes{Alg: 1},
	}
	sd := &StateData{
		ExtraStateInformation: [][]float64{nil, nil, nil, {0, 99}},
	}
	mode := DynDifferential
	loc := GetLocations(sd, mode, off, nil, nil)
	if len(loc.AlgState) != 1 || loc.AlgState[0] != 99 {
		t.Errorf("expected fallback to ExtraStateInformation[3], got %v", loc.AlgState)
	}
}
