// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contingency

import (
	"fmt"

	"github.com/cpmech/griddyn/gdsim"
	"github.com/cpmech/griddyn/network"
)

// singleOutages enumerates every bus, link, generator and load disablement
// on area as a one-event, one-stage contingency (spec.md §4.7 "N-1").
func singleOutages(area *network.Area) []Event {
	var out []Event
	for _, b := range area.Buses {
		out = append(out, Event{Kind: DisableBus, Target: b.Name()})
	}
	for _, l := range area.Links {
		out = append(out, Event{Kind: DisableLink, Target: l.Name()})
	}
	for _, g := range area.Generators {
		out = append(out, Event{Kind: DisableGenerator, Target: g.Name()})
	}
	for _, ld := range area.Loads {
		out = append(out, Event{Kind: DisableLoad, Target: ld.Name()})
	}
	return out
}

// BuildN1 returns one single-stage, single-event contingency per component
// in the area.
func BuildN1(area *network.Area, tol gdsim.Tolerances) []*Contingency {
	events := singleOutages(area)
	ctgs := make([]*Contingency, 0, len(events))
	for i, ev := range events {
		name := fmt.Sprintf("N-1:%s:%s", ev.Kind, ev.Target)
		ctgs = append(ctgs, NewContingency(i, name, [][]Event{{ev}}, area, tol))
	}
	return ctgs
}

// BuildN11 returns nested N-1-1 contingencies: every single outage (stage 0)
// followed, as a second stage, by every remaining single outage (spec.md
// §4.7 "N-1-1 (nested)"). Power flow is re-run after each stage inside
// execute, matching the staged "apply, solve, collect" loop.
func BuildN11(area *network.Area, tol gdsim.Tolerances) []*Contingency {
	events := singleOutages(area)
	var ctgs []*Contingency
	id := 0
	for i, first := range events {
		for j, second := range events {
			if i == j {
				continue
			}
			name := fmt.Sprintf("N-1-1:%s:%s+%s:%s", first.Kind, first.Target, second.Kind, second.Target)
			ctgs = append(ctgs, NewContingency(id, name, [][]Event{{first}, {second}}, area, tol))
			id++
		}
	}
	return ctgs
}

// BuildN2 returns N-2 contingencies: the Cartesian product of single
// outages taken two at a time, applied together in one stage (spec.md §4.7
// "N-2 (Cartesian product of N-1)") — unlike N-1-1, both events land in
// stage 0, so only one power-flow solve runs per contingency.
func BuildN2(area *network.Area, tol gdsim.Tolerances) []*Contingency {
	events := singleOutages(area)
	var ctgs []*Contingency
	id := 0
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			name := fmt.Sprintf("N-2:%s:%s+%s:%s", events[i].Kind, events[i].Target, events[j].Kind, events[j].Target)
			ctgs = append(ctgs, NewContingency(id, name, [][]Event{{events[i], events[j]}}, area, tol))
			id++
		}
	}
	return ctgs
}
