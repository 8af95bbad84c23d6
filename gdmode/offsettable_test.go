// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdmode

import "testing"

func TestTableGetAllocatesSlots(t *testing.T) {
	tb := NewTable()
	if tb.Len() != 1 {
		t.Fatalf("expected local slot pre-allocated, got Len=%d", tb.Len())
	}
	s := tb.Get(PowerFlow)
	if tb.Len() != 2 {
		t.Fatalf("expected table to grow to Len=2, got %d", tb.Len())
	}
	s.Local = StateSizes{Alg: 2}
	s.Total = StateSizes{Alg: 2}

	s2 := tb.Get(DAE)
	if tb.Len() != 3 {
		t.Fatalf("expected table to grow to Len=3, got %d", tb.Len())
	}
	_ = s2
}

func TestSetOffsetOrderingAndNullSentinel(t *testing.T) {
	tb := NewTable()
	slot := tb.Get(DAE)
	slot.Mode = DAE
	slot.Total = StateSizes{V: 1, A: 1, Alg: 2, Diff: 3}

	tb.SetOffset(10, DAE)
	got := tb.Get(DAE)
	if got.VOffset != 10 {
		t.Errorf("VOffset = %d, want 10", got.VOffset)
	}
	if got.AOffset != 11 {
		t.Errorf("AOffset = %d, want 11", got.AOffset)
	}
	if got.AlgOffset != 12 {
		t.Errorf("AlgOffset = %d, want 12", got.AlgOffset)
	}
	if got.DiffOffset != 14 {
		t.Errorf("DiffOffset = %d, want 14", got.DiffOffset)
	}
	if !got.StateLoaded {
		t.Error("expected StateLoaded=true after SetOffset")
	}

	// a zero-size kind must stay null-sentineled
	slot2 := tb.Get(PowerFlow)
	slot2.Mode = PowerFlow
	slot2.Total = StateSizes{Alg: 2}
	tb.SetOffset(0, PowerFlow)
	got2 := tb.Get(PowerFlow)
	if got2.VOffset != NullOffset || got2.AOffset != NullOffset {
		t.Errorf("expected V/A offsets to stay null-sentineled when size=0, got V=%d A=%d", got2.VOffset, got2.AOffset)
	}
	if got2.AlgOffset != 0 {
		t.Errorf("AlgOffset = %d, want 0", got2.AlgOffset)
	}
}

func TestMaxIndexStaticVsDynamic(t *testing.T) {
	tb := NewTable()
	slot := tb.Get(DAE)
	slot.Mode = DAE
	slot.Total = StateSizes{Alg: 2, Diff: 3}
	tb.SetOffset(5, DAE)

	if got := tb.MaxIndex(DAE); got != 10 {
		t.Errorf("MaxIndex(DAE) = %d, want 10 (5+2+3)", got)
	}

	slot2 := tb.Get(PowerFlow)
	slot2.Mode = PowerFlow
	slot2.Total = StateSizes{Alg: 2}
	tb.SetOffset(5, PowerFlow)
	if got := tb.MaxIndex(PowerFlow); got != 7 {
		t.Errorf("MaxIndex(PowerFlow) = %d, want 7 (static modes ignore diff range)", got)
	}
}

func TestUnloadNullSentinelsOffsets(t *testing.T) {
	tb := NewTable()
	slot := tb.Get(DAE)
	slot.Mode = DAE
	slot.Total = StateSizes{Alg: 2, Diff: 3}
	tb.SetOffset(0, DAE)

	tb.Unload(false)
	got := tb.Get(DAE)
	if got.StateLoaded || got.AlgOffset != NullOffset || got.DiffOffset != NullOffset {
		t.Errorf("Unload did not reset state: %+v", got)
	}
}

func TestUnloadDynamicOnlySparesStaticModes(t *testing.T) {
	tb := NewTable()
	pf := tb.Get(PowerFlow)
	pf.Mode = PowerFlow
	pf.Total = StateSizes{Alg: 1}
	tb.SetOffset(0, PowerFlow)

	dae := tb.Get(DAE)
	dae.Mode = DAE
	dae.Total = StateSizes{Alg: 1, Diff: 1}
	tb.SetOffset(0, DAE)

	tb.Unload(true)

	if !tb.Get(PowerFlow).StateLoaded {
		t.Error("dynamicOnly Unload must not touch static PowerFlow slot")
	}
	if tb.Get(DAE).StateLoaded {
		t.Error("dynamicOnly Unload must clear dynamic DAE slot")
	}
}

func TestFindByStructureIgnoresOffsetIndex(t *testing.T) {
	tb := NewTable()
	slot := tb.Get(DAE)
	slot.Mode = DAE

	probe := DAE
	probe.OffsetIndex = 99
	found := tb.Find(probe)
	if found == nil {
		t.Fatal("expected Find to locate structurally-equal mode regardless of OffsetIndex")
	}
}

func TestLocalUpdateAll(t *testing.T) {
	tb := NewTable()
	tb.slots[0].Local = StateSizes{Alg: 4}
	tb.Get(PowerFlow)
	tb.Get(DAE)
	tb.LocalUpdateAll(false)
	if tb.Get(PowerFlow).Local.Alg != 4 || tb.Get(DAE).Local.Alg != 4 {
		t.Error("LocalUpdateAll must copy local-mode sizes into every slot")
	}
}
