// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import "github.com/cpmech/griddyn/gdcomp"

// init registers the component types that can be built from name+parameters
// alone. Link, Generator, Load, Governor, Exciter and Relay all need a
// pointer to an already-constructed Bus (or Generator, or Link) and so are
// built directly by network-description loading code, not through
// gdcomp.New — mirroring how gofem's element allocators receive resolved
// cell connectivity rather than looking it up themselves.
func init() {
	gdcomp.Register("bus", func(name string, params map[string]float64) (gdcomp.Component, error) {
		b := NewBus(name, params["vnominalkv"])
		if t, ok := params["type"]; ok {
			b.Type = BusType(t)
		}
		if v, ok := params["vsetpoint"]; ok {
			b.VSetpoint = v
		}
		return b, nil
	})
}
