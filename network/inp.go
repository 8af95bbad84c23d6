// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// AreaData is the JSON description of a network (spec.md's GLOSSARY
// entities laid out the way inp.Data lays out a .sim file's global
// section): one entry per Bus/Link/Generator/Load/Relay, referencing each
// other by name rather than by pointer, resolved into a live Area by
// LoadAreaFile.
type AreaData struct {
	Name string `json:"name"`

	Buses []struct {
		Name       string  `json:"name"`
		VNominalKV float64 `json:"vnominalkv"`
		Type       BusType `json:"type"`
		VSetpoint  float64 `json:"vsetpoint"`
	} `json:"buses"`

	Links []struct {
		Name string  `json:"name"`
		From string  `json:"from"`
		To   string  `json:"to"`
		R    float64 `json:"r"`
		X    float64 `json:"x"`
	} `json:"links"`

	Generators []struct {
		Name string  `json:"name"`
		Bus  string  `json:"bus"`
		H    float64 `json:"h"`
		D    float64 `json:"d"`
		Xd   float64 `json:"xd"`
		Eq   float64 `json:"eq"`
		Pm   float64 `json:"pm"`

		Governor *struct {
			Name  string  `json:"name"`
			Tg    float64 `json:"tg"`
			Droop float64 `json:"droop"`
			PRef  float64 `json:"pref"`
		} `json:"governor"`

		Exciter *struct {
			Name string  `json:"name"`
			Ta   float64 `json:"ta"`
			Ka   float64 `json:"ka"`
			VRef float64 `json:"vref"`
		} `json:"exciter"`
	} `json:"generators"`

	Loads []struct {
		Name  string  `json:"name"`
		Bus   string  `json:"bus"`
		P0    float64 `json:"p0"`
		Q0    float64 `json:"q0"`
		FracZ float64 `json:"fracz"`
		FracI float64 `json:"fraci"`
	} `json:"loads"`

	Relays []struct {
		Name      string  `json:"name"`
		Monitor   string  `json:"monitor"`
		Target    string  `json:"target"`
		Threshold float64 `json:"threshold"`
		Delay     float64 `json:"delay"`
	} `json:"relays"`
}

// LoadAreaFile reads a JSON network description from fnamepath and builds a
// live Area from it, resolving every by-name cross-reference (link
// endpoints, generator/load buses, relay monitor/target) before returning.
func LoadAreaFile(fnamepath string) (*Area, error) {
	buf, err := io.ReadFile(fnamepath)
	if err != nil {
		return nil, chk.Err("network: cannot read %q: %v", fnamepath, err)
	}
	var data AreaData
	if err := json.Unmarshal(buf, &data); err != nil {
		return nil, chk.Err("network: cannot parse %q: %v", fnamepath, err)
	}
	return BuildArea(&data)
}

// BuildArea resolves an already-parsed AreaData into a live Area.
func BuildArea(data *AreaData) (*Area, error) {
	area := NewArea(data.Name)

	byName := make(map[string]*Bus, len(data.Buses))
	for _, b := range data.Buses {
		nb := area.AddBus(NewBus(b.Name, b.VNominalKV))
		nb.Type = b.Type
		if b.VSetpoint != 0 {
			nb.VSetpoint = b.VSetpoint
		}
		byName[b.Name] = nb
	}

	linkByName := make(map[string]*Link, len(data.Links))
	for _, l := range data.Links {
		from, ok := byName[l.From]
		if !ok {
			return nil, chk.Err("network: link %q references unknown bus %q", l.Name, l.From)
		}
		to, ok := byName[l.To]
		if !ok {
			return nil, chk.Err("network: link %q references unknown bus %q", l.Name, l.To)
		}
		linkByName[l.Name] = area.AddLink(NewLink(l.Name, from, to, l.R, l.X))
	}

	for _, g := range data.Generators {
		bus, ok := byName[g.Bus]
		if !ok {
			return nil, chk.Err("network: generator %q references unknown bus %q", g.Name, g.Bus)
		}
		gen := area.AddGenerator(NewGenerator(g.Name, bus, g.H, g.D, g.Xd, g.Eq, g.Pm))
		if g.Governor != nil {
			NewGovernor(g.Governor.Name, gen, g.Governor.Tg, g.Governor.Droop, g.Governor.PRef)
		}
		if g.Exciter != nil {
			NewExciter(g.Exciter.Name, gen, g.Exciter.Ta, g.Exciter.Ka, g.Exciter.VRef)
		}
	}

	for _, ld := range data.Loads {
		bus, ok := byName[ld.Bus]
		if !ok {
			return nil, chk.Err("network: load %q references unknown bus %q", ld.Name, ld.Bus)
		}
		l := area.AddLoad(NewLoad(ld.Name, bus, ld.P0, ld.Q0))
		l.FracZ = ld.FracZ
		l.FracI = ld.FracI
	}

	for _, r := range data.Relays {
		monitor, ok := byName[r.Monitor]
		if !ok {
			return nil, chk.Err("network: relay %q references unknown bus %q", r.Name, r.Monitor)
		}
		target, ok := linkByName[r.Target]
		if !ok {
			return nil, chk.Err("network: relay %q references unknown link %q", r.Name, r.Target)
		}
		area.AddRelay(NewRelay(r.Name, monitor, target, r.Threshold, r.Delay))
	}

	return area, nil
}
