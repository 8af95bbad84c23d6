// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdcomp

import "github.com/cpmech/gosl/chk"

// AllocatorType builds a new component of a registered type from raw
// parameter data (typically a map decoded from the network description).
type AllocatorType func(name string, params map[string]float64) (Component, error)

// Registry is a name-keyed allocator table, directly mirroring
// ele.SetAllocator/ele.New: every concrete component package registers
// itself via an init() call to Register, and the network loader builds
// components purely by type name without importing the concrete packages.
type Registry struct {
	allocators map[string]AllocatorType
}

// globalRegistry is the default registry used by Register/New, matching
// ele/factory.go's package-level `allocators` map. It is not a "current
// simulation" singleton (spec.md §9): it only holds immutable constructor
// closures, shared read-only across cloned simulations (spec.md §5 "Shared
// only: the global object factory (immutable after startup)").
var globalRegistry = &Registry{allocators: make(map[string]AllocatorType)}

// Register adds a new allocator under typeName. Panics if typeName is
// already registered, matching ele.SetAllocator's chk.Panic-on-duplicate
// behavior: a duplicate registration is a programmer error discovered at
// package-init time, not a runtime condition to recover from.
func Register(typeName string, fcn AllocatorType) {
	if _, ok := globalRegistry.allocators[typeName]; ok {
		chk.Panic("cannot register component type %q: already registered", typeName)
	}
	globalRegistry.allocators[typeName] = fcn
}

// New allocates a new component of the given registered type.
func New(typeName, name string, params map[string]float64) (Component, error) {
	fcn, ok := globalRegistry.allocators[typeName]
	if !ok {
		return nil, chk.Err("cannot find allocator for component type %q", typeName)
	}
	c, err := fcn(name, params)
	if err != nil {
		return nil, chk.Err("allocating component %q of type %q failed:\n%v", name, typeName, err)
	}
	if c == nil {
		return nil, chk.Err("component %q of type %q is not available", name, typeName)
	}
	return c, nil
}

// Registered reports whether typeName has an allocator.
func Registered(typeName string) bool {
	_, ok := globalRegistry.allocators[typeName]
	return ok
}
