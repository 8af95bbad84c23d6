// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdsim

import (
	"testing"

	"github.com/cpmech/griddyn/gdcomp"
	"github.com/cpmech/griddyn/gdmode"
	"github.com/cpmech/griddyn/network"
)

func twoBusArea() *network.Area {
	area := network.NewArea("area1")
	slack := area.AddBus(network.NewBus("slack", 138))
	slack.Type = network.Slack
	slack.VSetpoint = 1.02
	pq := area.AddBus(network.NewBus("pq1", 138))
	area.AddLink(network.NewLink("line1", slack, pq, 0.02, 0.1))
	area.AddLoad(network.NewLoad("load1", pq, 0.8, 0.3))
	return area
}

func TestNewDriverStartsAtStartup(t *testing.T) {
	d := NewDriver(twoBusArea(), DefaultTolerances())
	if d.State() != Startup {
		t.Fatalf("State() = %v, want Startup", d.State())
	}
}

func TestNetworkCheckPromotesPVWhenSlackMissing(t *testing.T) {
	area := network.NewArea("area2")
	pv := area.AddBus(network.NewBus("pv1", 138))
	pv.Type = network.PV
	pv.VSetpoint = 1.05
	other := area.AddBus(network.NewBus("pq2", 138))
	area.AddLink(network.NewLink("line2", pv, other, 0.01, 0.05))

	d := NewDriver(area, DefaultTolerances())
	if err := d.networkCheck(); err != nil {
		t.Fatalf("networkCheck() error = %v", err)
	}
	if pv.Type != network.Slack {
		t.Fatalf("pv.Type = %v, want promoted to Slack", pv.Type)
	}
}

func TestNetworkCheckDisablesIslandWithNoSlackWhenAutoDisconnectAllowed(t *testing.T) {
	area := network.NewArea("area3")
	a := area.AddBus(network.NewBus("a", 138))
	a.Type = network.PQ
	b := area.AddBus(network.NewBus("b", 138))
	b.Type = network.PQ
	area.AddLink(network.NewLink("line3", a, b, 0.01, 0.05))

	d := NewDriver(area, DefaultTolerances())
	if err := d.networkCheck(); err != nil {
		t.Fatalf("networkCheck() error = %v", err)
	}
	if !a.Flags.Has(gdcomp.FlagDisabled) {
		t.Fatalf("expected island buses to be flagged disabled")
	}
}

func TestNetworkCheckReturnsErrorWhenAutoDisconnectForbidden(t *testing.T) {
	area := network.NewArea("area4")
	a := area.AddBus(network.NewBus("a", 138))
	a.Type = network.PQ
	b := area.AddBus(network.NewBus("b", 138))
	b.Type = network.PQ
	area.AddLink(network.NewLink("line4", a, b, 0.01, 0.05))

	tol := DefaultTolerances()
	tol.NoAutoDisconnect = true
	d := NewDriver(area, tol)
	if err := d.networkCheck(); err == nil {
		t.Fatal("expected error when no slack bus exists and auto-disconnect is forbidden")
	}
}

func TestHandleForAllocatesOncePerMode(t *testing.T) {
	d := NewDriver(twoBusArea(), DefaultTolerances())
	h1 := d.handleFor(gdmode.PowerFlow)
	h2 := d.handleFor(gdmode.PowerFlow)
	if h1 != h2 {
		t.Fatal("handleFor should return the same handle for the same mode without a reinit")
	}
	if h1.Size() == 0 {
		t.Fatal("expected a non-empty power-flow state vector for a two-bus area")
	}
}

func TestReInitHandleAllocatesAFreshHandle(t *testing.T) {
	d := NewDriver(twoBusArea(), DefaultTolerances())
	h1 := d.handleFor(gdmode.PowerFlow)
	h2 := d.reInitHandle(gdmode.PowerFlow)
	if h1 == h2 {
		t.Fatal("reInitHandle should discard the previous handle")
	}
}

func TestSolverHandleSizeMatchesTwoPQStatesPerBus(t *testing.T) {
	h := NewSolverHandle(twoBusArea(), gdmode.PowerFlow)
	if h.Size() != 4 {
		t.Fatalf("Size() = %d, want 4 (V,A per bus x 2 buses)", h.Size())
	}
}

func TestGuessStateSeedsSlackAtItsSetpoint(t *testing.T) {
	area := twoBusArea()
	h := NewSolverHandle(area, gdmode.PowerFlow)
	h.GuessState(0)
	slack := area.Buses[0]
	slot := slack.OffsetTable().Get(gdmode.PowerFlow)
	if h.State()[slot.VOffset] != slack.VSetpoint {
		t.Fatalf("slack voltage guess = %v, want %v", h.State()[slot.VOffset], slack.VSetpoint)
	}
}

func TestTripHighAngleLinksTripsBeyondHalfPi(t *testing.T) {
	area := twoBusArea()
	d := NewDriver(area, DefaultTolerances())
	h := d.handleFor(gdmode.PowerFlow)
	h.GuessState(0)
	slot1 := area.Buses[1].OffsetTable().Get(gdmode.PowerFlow)
	h.State()[slot1.AOffset] = 2.0
	h.SetState(0)

	change := d.tripHighAngleLinks()
	if !area.Links[0].Tripped {
		t.Fatal("expected link to trip when angle differential exceeds pi/2")
	}
	if change < gdmode.ObjectChange {
		t.Fatalf("ChangeCode = %v, want at least ObjectChange", change)
	}
}

func TestExecuteIgnoreIsANoop(t *testing.T) {
	d := NewDriver(twoBusArea(), DefaultTolerances())
	code, err := d.Execute(Action{Kind: ActionIgnore})
	if err != nil || code != SolverSuccess {
		t.Fatalf("Execute(ignore) = (%v,%v), want (SolverSuccess,nil)", code, err)
	}
}

func TestExecuteResetReturnsDriverToStartup(t *testing.T) {
	d := NewDriver(twoBusArea(), DefaultTolerances())
	d.state = PowerflowComplete
	d.handleFor(gdmode.PowerFlow)
	code, err := d.Execute(Action{Kind: ActionReset})
	if err != nil || code != SolverSuccess {
		t.Fatalf("Execute(reset) = (%v,%v), want (SolverSuccess,nil)", code, err)
	}
	if d.State() != Startup {
		t.Fatalf("State() after reset = %v, want Startup", d.State())
	}
	if len(d.handles) != 0 {
		t.Fatal("reset should clear cached solver handles")
	}
}

func TestActionKindStringCoversEveryConstant(t *testing.T) {
	for k := ActionIgnore; k <= ActionCheckpoint; k++ {
		if k.String() == "unknown" {
			t.Fatalf("ActionKind %d has no name", k)
		}
	}
}
