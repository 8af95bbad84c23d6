// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdcomp

// Role restricts which phase-specific calls the driver dispatches to a
// component, replacing the C++ Primary/Secondary/SubModel subclass chain
// with a plain field checked by the driver (spec.md §2, §4.2; REDESIGN
// FLAGS in spec.md §9 — tagged variant + narrow trait interfaces instead of
// deep virtual-dispatch hierarchies).
type Role int

const (
	// RolePrimary components (buses, areas) own the top-level size
	// aggregation and are driven directly by the simulation.
	RolePrimary Role = iota
	// RoleSecondary components (links, loads) contribute residual/
	// Jacobian terms but are not themselves offset-placement roots.
	RoleSecondary
	// RoleSubModel components (governors, exciters, relays) are owned by
	// a Primary/Secondary component and evaluated only as part of their
	// owner's contract.
	RoleSubModel
)

func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	case RoleSubModel:
		return "submodel"
	}
	return "unknown"
}
