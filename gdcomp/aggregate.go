// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdcomp

import "github.com/cpmech/griddyn/gdmode"

// LoadStateSizes implements spec.md §4.2 "Size aggregation": walk
// sub-objects first (leaves first), sum their Total into this component's
// Total, add this component's own Local size, and mark the slot's
// StateLoaded flag. Idempotent on repeated calls unless Table.Unload was
// called first, because it always recomputes from LocalStateSizes rather
// than accumulating onto a stale Total.
func (b *Base) LoadStateSizes(mode gdmode.Mode) {
	slot := b.Table.Get(mode)
	slot.Mode = mode
	slot.Local = b.self.LocalStateSizes(mode)

	total := slot.Local
	for _, c := range b.subObjects {
		c.OffsetTable().Get(mode).Mode = mode
		childBase := baseOf(c)
		if childBase != nil {
			childBase.LoadStateSizes(mode)
		}
		total = total.Add(c.OffsetTable().Get(mode).Total)
	}
	slot.Total = total
	slot.StateLoaded = true
}

// LoadJacobianSizes aggregates LocalJacobianCount the same way, into
// StateSizes.Jac, and marks JacobianLoaded.
func (b *Base) LoadJacobianSizes(mode gdmode.Mode) {
	slot := b.Table.Get(mode)
	local := b.self.LocalJacobianCount(mode)
	total := local
	for _, c := range b.subObjects {
		if childBase := baseOf(c); childBase != nil {
			childBase.LoadJacobianSizes(mode)
		}
		total += c.OffsetTable().Get(mode).Total.Jac
	}
	slot.Local.Jac = local
	slot.Total.Jac = total
	slot.JacobianLoaded = true
}

// LoadRootSizes aggregates LocalRootCount the same way, into
// StateSizes.{AlgRoots,DiffRoots}, and marks RootsLoaded.
func (b *Base) LoadRootSizes(mode gdmode.Mode) {
	slot := b.Table.Get(mode)
	la, ld := b.self.LocalRootCount(mode)
	totalA, totalD := la, ld
	for _, c := range b.subObjects {
		if childBase := baseOf(c); childBase != nil {
			childBase.LoadRootSizes(mode)
		}
		ct := c.OffsetTable().Get(mode).Total
		totalA += ct.AlgRoots
		totalD += ct.DiffRoots
	}
	slot.Local.AlgRoots, slot.Local.DiffRoots = la, ld
	slot.Total.AlgRoots, slot.Total.DiffRoots = totalA, totalD
	slot.RootsLoaded = true
}

// baseOf extracts the embedded *Base from a Component so aggregation can
// recurse without every concrete type re-implementing it. Concrete types
// expose this via an unexported accessor satisfied automatically by
// embedding Base (Go promotes the method).
func baseOf(c Component) *Base {
	if b, ok := c.(interface{ base() *Base }); ok {
		return b.base()
	}
	return nil
}

// Concrete components embedding Base add a one-line accessor,
// `func (o *T) base() *gdcomp.Base { return &o.Base }`, so baseOf can reach
// the shared fields without a type switch over every network component.
