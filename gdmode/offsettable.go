// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdmode

// NullOffset marks "this component has no state of this kind in this mode",
// the null-sentinel of spec.md §3.
const NullOffset = -1

// SolverOffsets is the per-component, per-mode placement record: six offsets
// into the mode's global vectors, plus the component's own (Local) and
// subtree-inclusive (Total) StateSizes, plus the three load flags.
type SolverOffsets struct {
	Mode Mode

	AlgOffset  int
	DiffOffset int
	VOffset    int
	AOffset    int
	RootOffset int

	Local StateSizes // this component alone
	Total StateSizes // this component + all descendants, for Mode

	StateLoaded    bool
	JacobianLoaded bool
	RootsLoaded    bool
}

func newSlot() SolverOffsets {
	return SolverOffsets{
		AlgOffset:  NullOffset,
		DiffOffset: NullOffset,
		VOffset:    NullOffset,
		AOffset:    NullOffset,
		RootOffset: NullOffset,
	}
}

// Table is the small, contiguous, OffsetIndex-indexed array of SolverOffsets
// carried by every component (spec.md §3 "OffsetTable"). Element 0 is always
// the local mode. It expands on demand when a mode with a larger OffsetIndex
// is requested.
type Table struct {
	slots []SolverOffsets
}

// NewTable returns a table with its local-mode (index 0) slot pre-allocated.
func NewTable() *Table {
	t := &Table{slots: []SolverOffsets{newSlot()}}
	t.slots[0].Mode = Local
	return t
}

// Get returns the slot for mode.OffsetIndex, allocating intervening slots
// (each with NullOffset offsets) if the table is not yet that large. O(1)
// amortized.
func (t *Table) Get(mode Mode) *SolverOffsets {
	idx := mode.OffsetIndex
	for idx >= len(t.slots) {
		t.slots = append(t.slots, newSlot())
	}
	return &t.slots[idx]
}

// Find returns the first slot whose Mode is structurally equal to mode
// (ignoring OffsetIndex/PairedOffsetIndex), or nil if none matches.
func (t *Table) Find(mode Mode) *SolverOffsets {
	for i := range t.slots {
		if t.slots[i].Mode.SameStructure(mode) {
			return &t.slots[i]
		}
	}
	return nil
}

// Len returns the number of allocated slots.
func (t *Table) Len() int { return len(t.slots) }

// SetOffset sets all sub-offsets (V, A, Alg, Diff, in that order, per
// spec.md §4.1) for mode starting at base, using the slot's Total sizes.
// A kind whose Total size is zero is left at NullOffset.
func (t *Table) SetOffset(base int, mode Mode) {
	s := t.Get(mode)
	s.Mode = mode
	next := base
	if s.Total.V > 0 {
		s.VOffset = next
		next += s.Total.V
	} else {
		s.VOffset = NullOffset
	}
	if s.Total.A > 0 {
		s.AOffset = next
		next += s.Total.A
	} else {
		s.AOffset = NullOffset
	}
	if s.Total.Alg > 0 {
		s.AlgOffset = next
		next += s.Total.Alg
	} else {
		s.AlgOffset = NullOffset
	}
	if s.Total.Diff > 0 {
		s.DiffOffset = next
		next += s.Total.Diff
	} else {
		s.DiffOffset = NullOffset
	}
	s.StateLoaded = true
}

// SetAlgOffset/SetDiffOffset/SetVOffset/SetAOffset/SetRootOffset set one
// offset in isolation, leaving the others untouched — used when a parent
// distributes disjoint sub-ranges to its children one kind at a time under
// one of the five orderings of spec.md §4.2.
func (t *Table) SetAlgOffset(mode Mode, off int)  { t.Get(mode).AlgOffset = off }
func (t *Table) SetDiffOffset(mode Mode, off int) { t.Get(mode).DiffOffset = off }
func (t *Table) SetVOffset(mode Mode, off int)    { t.Get(mode).VOffset = off }
func (t *Table) SetAOffset(mode Mode, off int)    { t.Get(mode).AOffset = off }
func (t *Table) SetRootOffset(mode Mode, off int) { t.Get(mode).RootOffset = off }

// MaxIndex returns the smallest index strictly greater than any index
// occupied by this component's states in mode. Dynamic modes consider both
// algebraic and differential ranges; static modes consider only algebraic.
// Voltage/angle ranges are included whenever their offset is not null.
func (t *Table) MaxIndex(mode Mode) int {
	s := t.Get(mode)
	max := 0
	consider := func(off, size int) {
		if off == NullOffset || size == 0 {
			return
		}
		if end := off + size; end > max {
			max = end
		}
	}
	consider(s.VOffset, s.Total.V)
	consider(s.AOffset, s.Total.A)
	consider(s.AlgOffset, s.Total.Alg)
	if mode.Dynamic {
		consider(s.DiffOffset, s.Total.Diff)
	}
	return max
}

// Unload clears the load flags and null-sentinels the offsets of every slot
// (or, when dynamicOnly is true, only slots whose Mode.Dynamic is set).
func (t *Table) Unload(dynamicOnly bool) {
	for i := range t.slots {
		if dynamicOnly && !t.slots[i].Mode.Dynamic {
			continue
		}
		t.slots[i].StateLoaded = false
		t.slots[i].JacobianLoaded = false
		t.slots[i].RootsLoaded = false
		t.slots[i].AlgOffset = NullOffset
		t.slots[i].DiffOffset = NullOffset
		t.slots[i].VOffset = NullOffset
		t.slots[i].AOffset = NullOffset
		t.slots[i].RootOffset = NullOffset
	}
}

// StateUnload clears only StateLoaded and the state offsets (not the root
// offset or RootsLoaded/JacobianLoaded).
func (t *Table) StateUnload(dynamicOnly bool) {
	for i := range t.slots {
		if dynamicOnly && !t.slots[i].Mode.Dynamic {
			continue
		}
		t.slots[i].StateLoaded = false
		t.slots[i].AlgOffset = NullOffset
		t.slots[i].DiffOffset = NullOffset
		t.slots[i].VOffset = NullOffset
		t.slots[i].AOffset = NullOffset
	}
}

// RootUnload clears only RootsLoaded and the root offset.
func (t *Table) RootUnload(dynamicOnly bool) {
	for i := range t.slots {
		if dynamicOnly && !t.slots[i].Mode.Dynamic {
			continue
		}
		t.slots[i].RootsLoaded = false
		t.slots[i].RootOffset = NullOffset
	}
}

// JacobianUnload clears only JacobianLoaded.
func (t *Table) JacobianUnload(dynamicOnly bool) {
	for i := range t.slots {
		if dynamicOnly && !t.slots[i].Mode.Dynamic {
			continue
		}
		t.slots[i].JacobianLoaded = false
	}
}

// LocalUpdateAll copies the local-mode (index 0) Local sizes into every
// other slot's Local field and marks them loaded, used when a component's
// own size declaration does not vary by mode.
func (t *Table) LocalUpdateAll(dynamicOnly bool) {
	base := t.slots[0].Local
	for i := 1; i < len(t.slots); i++ {
		if dynamicOnly && !t.slots[i].Mode.Dynamic {
			continue
		}
		t.slots[i].Local = base
		t.slots[i].StateLoaded = true
		t.slots[i].JacobianLoaded = true
		t.slots[i].RootsLoaded = true
	}
}
