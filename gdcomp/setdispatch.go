// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdcomp

import "github.com/cpmech/gosl/chk"

// DispatchSet is the default two-step, result-returning parameter dispatch
// of spec.md §9 ("Replace with a two-step result-returning set"): if name
// contains a dot, the head names a sub-object and the remainder is
// delegated to it; otherwise the caller's own Set should have already
// handled (or failed to recognize) the bare name before falling back here.
// Concrete components call this from their own Set as the final fallback.
func (b *Base) DispatchSet(name string, apply func(child Component, rest string) (SetResult, error)) (SetResult, error) {
	head, rest, hasRest := cutDot(name)
	if !hasRest {
		return NotRecognized, nil
	}
	for _, c := range b.subObjects {
		if c.Name() == head {
			return apply(c, rest)
		}
	}
	return NotRecognized, chk.Err("sub-object %q not found while setting %q on %q", head, name, b.name)
}

// Set is the default CoreObject.Set: components with their own parameters
// should shadow this by implementing Set themselves and falling back to
// Base.DispatchSet. Base's own implementation only does path delegation.
func (b *Base) Set(name string, value float64, unit string) (SetResult, error) {
	return b.DispatchSet(name, func(child Component, rest string) (SetResult, error) {
		return child.Set(rest, value, unit)
	})
}

func (b *Base) SetString(name, value string) (SetResult, error) {
	return b.DispatchSet(name, func(child Component, rest string) (SetResult, error) {
		return child.SetString(rest, value)
	})
}

func (b *Base) SetFlag(name string, value bool) (SetResult, error) {
	return b.DispatchSet(name, func(child Component, rest string) (SetResult, error) {
		return child.SetFlag(rest, value)
	})
}

// Get/GetString default to path delegation only; bare names are a concrete
// component's responsibility.
func (b *Base) Get(name, unit string) (float64, error) {
	head, rest, hasRest := cutDot(name)
	if !hasRest {
		return 0, chk.Err("unrecognized parameter %q on %q", name, b.name)
	}
	for _, c := range b.subObjects {
		if c.Name() == head {
			return c.Get(rest, unit)
		}
	}
	return 0, chk.Err("sub-object %q not found while getting %q on %q", head, name, b.name)
}

func (b *Base) GetString(name string) (string, error) {
	head, rest, hasRest := cutDot(name)
	if !hasRest {
		return "", chk.Err("unrecognized parameter %q on %q", name, b.name)
	}
	for _, c := range b.subObjects {
		if c.Name() == head {
			return c.GetString(rest)
		}
	}
	return "", chk.Err("sub-object %q not found while getting %q on %q", head, name, b.name)
}
