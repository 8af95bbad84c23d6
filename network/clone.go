// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

// Clone returns an independent copy of the area: every Bus, Link, Generator
// (with its Governor/Exciter), Load and Relay is reconstructed through its
// own constructor so the new tree's attachment lists (Bus.attached) and
// sub-object ownership are rebuilt from scratch rather than shared with the
// original. No field of the returned Area aliases a field of o (contingency
// needs this to run N-1/N-1-1/N-2 cases against independent copies of the
// same network without one case's mutation leaking into another's).
func (o *Area) Clone() *Area {
	dst := NewArea(o.Name())

	busMap := make(map[*Bus]*Bus, len(o.Buses))
	for _, b := range o.Buses {
		nb := dst.AddBus(NewBus(b.Name(), b.VNominalKV))
		nb.Type = b.Type
		nb.VSetpoint = b.VSetpoint
		nb.Flags = b.Flags
		busMap[b] = nb
	}

	linkMap := make(map[*Link]*Link, len(o.Links))
	for _, l := range o.Links {
		nl := dst.AddLink(NewLink(l.Name(), busMap[l.From], busMap[l.To], l.R, l.X))
		nl.Tripped = l.Tripped
		nl.Flags = l.Flags
		linkMap[l] = nl
	}

	for _, g := range o.Generators {
		ng := dst.AddGenerator(NewGenerator(g.Name(), busMap[g.Bus], g.H, g.D, g.Xd, g.Eq, g.Pm))
		ng.Flags = g.Flags
		if g.Governor != nil {
			gv := NewGovernor(g.Governor.Name(), ng, g.Governor.Tg, g.Governor.Droop, g.Governor.PRef)
			gv.Flags = g.Governor.Flags
		}
		if g.Exciter != nil {
			ex := NewExciter(g.Exciter.Name(), ng, g.Exciter.Ta, g.Exciter.Ka, g.Exciter.VRef)
			ex.Flags = g.Exciter.Flags
		}
	}

	for _, ld := range o.Loads {
		nl := dst.AddLoad(NewLoad(ld.Name(), busMap[ld.Bus], ld.P0, ld.Q0))
		nl.FracZ = ld.FracZ
		nl.FracI = ld.FracI
		nl.Flags = ld.Flags
	}

	for _, r := range o.Relays {
		nr := dst.AddRelay(NewRelay(r.Name(), busMap[r.Monitor], linkMap[r.Target], r.Threshold, r.Delay))
		nr.Flags = r.Flags
	}

	return dst
}
