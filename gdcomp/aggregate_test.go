// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdcomp

import (
	"testing"

	"github.com/cpmech/griddyn/gdmode"
)

// fakeLeaf is a minimal Component used only to exercise aggregation,
// dispatch and the factory in isolation from any concrete network model.
type fakeLeaf struct {
	Base
	algSize int
	value   float64
}

func newFakeLeaf(name string, algSize int) *fakeLeaf {
	o := &fakeLeaf{algSize: algSize}
	o.Init(o, name)
	return o
}

func (o *fakeLeaf) base() *Base { return &o.Base }

func (o *fakeLeaf) TypeName() string { return "fakeLeaf" }

func (o *fakeLeaf) LocalStateSizes(mode gdmode.Mode) gdmode.StateSizes {
	return gdmode.StateSizes{Alg: o.algSize}
}
func (o *fakeLeaf) LocalJacobianCount(mode gdmode.Mode) int { return o.algSize }
func (o *fakeLeaf) LocalRootCount(mode gdmode.Mode) (int, int) { return 0, 0 }
func (o *fakeLeaf) SetOffset(base int, mode gdmode.Mode, order OffsetOrder) {
	o.Table.SetOffset(base, mode)
}
func (o *fakeLeaf) GuessState(t float64, state, dstate []float64, mode gdmode.Mode) {}
func (o *fakeLeaf) SetState(t float64, state, dstate []float64, mode gdmode.Mode)   {}
func (o *fakeLeaf) Residual(inputs []float64, sd *gdmode.StateData, resid []float64, mode gdmode.Mode) error {
	return nil
}
func (o *fakeLeaf) Derivative(inputs []float64, sd *gdmode.StateData, deriv []float64, mode gdmode.Mode) error {
	return nil
}
func (o *fakeLeaf) AlgebraicUpdate(inputs []float64, sd *gdmode.StateData, update []float64, mode gdmode.Mode, alpha float64) error {
	return nil
}
func (o *fakeLeaf) JacobianElements(inputs []float64, sd *gdmode.StateData, sink JacobianSink, inputLocs []int, mode gdmode.Mode) error {
	return nil
}
func (o *fakeLeaf) IoPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *fakeLeaf) OutputPartialDerivatives(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) [][]float64 {
	return nil
}
func (o *fakeLeaf) RootTest(inputs []float64, sd *gdmode.StateData, roots []float64, mode gdmode.Mode) error {
	return nil
}
func (o *fakeLeaf) RootTrigger(t float64, inputs []float64, mask []bool, mode gdmode.Mode) gdmode.ChangeCode {
	return gdmode.NoChange
}
func (o *fakeLeaf) RootCheck(sd *gdmode.StateData, mode gdmode.Mode) error { return nil }
func (o *fakeLeaf) GetOutputs(inputs []float64, sd *gdmode.StateData, mode gdmode.Mode) []float64 {
	return []float64{o.value}
}
func (o *fakeLeaf) GetOutput(index int) float64 { return o.value }
func (o *fakeLeaf) Timestep(t float64, inputs []float64, mode gdmode.Mode) error { return nil }

func (o *fakeLeaf) Set(name string, value float64, unit string) (SetResult, error) {
	if name == "value" {
		o.value = value
		return Recognized, nil
	}
	return o.Base.Set(name, value, unit)
}

func TestLoadStateSizesAggregatesLeavesFirst(t *testing.T) {
	parent := newFakeLeaf("parent", 1)
	child1 := newFakeLeaf("child1", 2)
	child2 := newFakeLeaf("child2", 3)
	parent.AddSubObject(child1)
	parent.AddSubObject(child2)

	parent.LoadStateSizes(gdmode.PowerFlow)

	total := parent.Table.Get(gdmode.PowerFlow).Total
	if total.Alg != 1+2+3 {
		t.Fatalf("Total.Alg = %d, want 6", total.Alg)
	}
	if child1.Table.Get(gdmode.PowerFlow).Total.Alg != 2 {
		t.Fatalf("child1 own Total.Alg = %d, want 2", child1.Table.Get(gdmode.PowerFlow).Total.Alg)
	}
}

func TestDottedPathSetDelegatesToChild(t *testing.T) {
	parent := newFakeLeaf("area1", 0)
	child := newFakeLeaf("bus1", 1)
	parent.AddSubObject(child)

	res, err := parent.Set("bus1.value", 1.05, "pu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != Recognized {
		t.Fatalf("expected Recognized, got %v", res)
	}
	if child.value != 1.05 {
		t.Fatalf("child.value = %v, want 1.05", child.value)
	}
}

func TestSetUnrecognizedBareNameReturnsNotRecognized(t *testing.T) {
	leaf := newFakeLeaf("x", 0)
	res, err := leaf.Set("bogus", 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != NotRecognized {
		t.Fatalf("expected NotRecognized, got %v", res)
	}
}

func TestFindResolvesDottedPath(t *testing.T) {
	root := newFakeLeaf("root", 0)
	mid := newFakeLeaf("area1", 0)
	leaf := newFakeLeaf("bus1", 0)
	mid.AddSubObject(leaf)
	root.AddSubObject(mid)

	found := root.Find("area1.bus1")
	if found == nil || found.Name() != "bus1" {
		t.Fatalf("Find(area1.bus1) = %v, want bus1", found)
	}
}

type alertCollector struct{ alerts []Alert }

func (a *alertCollector) PostAlert(al Alert) { a.alerts = append(a.alerts, al) }

func TestAlertPropagatesThroughTree(t *testing.T) {
	root := newFakeLeaf("root", 0)
	child := newFakeLeaf("child", 0)
	root.AddSubObject(child)

	sink := &alertCollector{}
	root.SetAlertSink(sink)

	child.PostAlert(AlertParameterChanged, gdmode.ParameterChange)
	if len(sink.alerts) != 1 {
		t.Fatalf("expected 1 alert propagated to root sink, got %d", len(sink.alerts))
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	Register("unit-test-fakeleaf", func(name string, params map[string]float64) (Component, error) {
		return newFakeLeaf(name, int(params["algSize"])), nil
	})
	c, err := New("unit-test-fakeleaf", "inst1", map[string]float64{"algSize": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name() != "inst1" {
		t.Fatalf("Name() = %q, want inst1", c.Name())
	}
	if _, err := New("does-not-exist", "x", nil); err == nil {
		t.Fatal("expected error for unregistered type")
	}
}
