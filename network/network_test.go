// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"math"
	"testing"

	"github.com/cpmech/griddyn/gdmode"
)

func twoBusFixture() (*Area, *Bus, *Bus, *Link, *Load) {
	area := NewArea("area1")
	slack := area.AddBus(NewBus("slack", 138))
	slack.Type = Slack
	slack.VSetpoint = 1.0
	pq := area.AddBus(NewBus("pq1", 138))
	link := area.AddLink(NewLink("line1", slack, pq, 0.01, 0.1))
	load := area.AddLoad(NewLoad("load1", pq, 0.5, 0.1))
	return area, slack, pq, link, load
}

func TestAreaAggregatesBusStateSizes(t *testing.T) {
	area, _, _, _, _ := twoBusFixture()
	area.LoadStateSizes(gdmode.PowerFlow)
	total := area.Table.Get(gdmode.PowerFlow).Total
	if total.V != 2 || total.A != 2 {
		t.Fatalf("Total = %+v, want V=2 A=2 (two buses, load contributes no states)", total)
	}
}

func TestBusResidualSumsLineFlowAndLoadInjection(t *testing.T) {
	_, slack, pq, link, load := twoBusFixture()
	slack.voltage, slack.angle = 1.0, 0
	// give pq a small angle offset so the line carries a nonzero flow.
	pq.voltage = 1.0
	pq.angle = -0.001

	resid := make([]float64, 2)
	err := pq.Residual(nil, nil, resid, gdmode.PowerFlow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Not zero (angle picked ad hoc): each mismatch is the line's injection
	// at pq (the From-side flow with reversed sign) plus the load's.
	if math.IsNaN(resid[0]) || math.IsNaN(resid[1]) {
		t.Fatalf("residual contains NaN: %+v", resid)
	}
	lp, lq := link.flowFrom()
	if math.Abs(resid[1]-(-lp-load.P0)) > 1e-12 || math.Abs(resid[0]-(-lq-load.Q0)) > 1e-12 {
		t.Fatalf("residual = %+v, want [%g %g]", resid, -lq-load.Q0, -lp-load.P0)
	}
}

func TestSlackBusResidualTracksSetpoint(t *testing.T) {
	_, slack, _, _, _ := twoBusFixture()
	slack.voltage, slack.angle = 0.95, 0.02
	resid := make([]float64, 2)
	slack.Residual(nil, nil, resid, gdmode.PowerFlow)
	if resid[0] != 0.95-slack.VSetpoint {
		t.Fatalf("resid[0] = %v, want %v", resid[0], 0.95-slack.VSetpoint)
	}
	if resid[1] != 0.02 {
		t.Fatalf("resid[1] = %v, want 0.02", resid[1])
	}
}

func TestLinkTripRemovesFlow(t *testing.T) {
	_, slack, pq, link, _ := twoBusFixture()
	slack.voltage, slack.angle = 1.0, 0
	pq.voltage, pq.angle = 0.98, -0.05

	p, q := link.flowFrom()
	if p == 0 && q == 0 {
		t.Fatal("expected non-zero flow before trip")
	}
	link.Tripped = true
	p, q = link.flowFrom()
	if p != 0 || q != 0 {
		t.Fatalf("flow after trip = (%v,%v), want (0,0)", p, q)
	}
}

func TestRelayTripsTargetOnVoltageSag(t *testing.T) {
	_, slack, pq, link, _ := twoBusFixture()
	relay := NewRelay("relay1", pq, link, 0.9, 0)
	pq.voltage = 0.85
	roots := make([]float64, 1)
	relay.RootTest(nil, nil, roots, gdmode.PowerFlow)
	if roots[0] >= 0 {
		t.Fatalf("expected negative root test (voltage below threshold), got %v", roots[0])
	}
	change := relay.RootTrigger(0, nil, []bool{true}, gdmode.PowerFlow)
	if change != gdmode.ObjectChange {
		t.Fatalf("RootTrigger change = %v, want ObjectChange", change)
	}
	if !link.Tripped {
		t.Fatal("expected target link tripped")
	}
	_ = slack
}

func TestGeneratorSwingDerivativeAtEquilibrium(t *testing.T) {
	area := NewArea("area2")
	bus := area.AddBus(NewBus("bus1", 138))
	bus.Type = Slack
	bus.voltage, bus.angle = 1.0, 0
	gen := area.AddGenerator(NewGenerator("gen1", bus, 5, 1, 0.2, 1.05, 0))
	gen.delta = bus.angle
	gen.omega = 0
	gen.Pm = gen.electricalPower() // set Pm so the machine is exactly at equilibrium

	deriv := make([]float64, 2)
	if err := gen.Derivative(nil, nil, deriv, gdmode.DAE); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(deriv[0]) > 1e-12 || math.Abs(deriv[1]) > 1e-9 {
		t.Fatalf("deriv = %+v, want ~0 at equilibrium", deriv)
	}
}

func TestGovernorDroopsTowardLowerTargetAsSpeedRises(t *testing.T) {
	area := NewArea("area3")
	bus := area.AddBus(NewBus("bus1", 138))
	gen := area.AddGenerator(NewGenerator("gen1", bus, 5, 1, 0.2, 1.05, 0.5))
	gov := NewGovernor("gov1", gen, 2, 0.05, 0.5)
	gen.omega = 0.01 // machine running fast

	deriv := make([]float64, 1)
	gov.Derivative(nil, nil, deriv, gdmode.DAE)
	target := gov.PRef - gen.omega/gov.Droop
	want := (target - gov.pm) / gov.Tg
	if deriv[0] != want {
		t.Fatalf("deriv[0] = %v, want %v", deriv[0], want)
	}
	if target >= gov.PRef {
		t.Fatalf("droop target %v should fall below reference %v as speed rises", target, gov.PRef)
	}
}
