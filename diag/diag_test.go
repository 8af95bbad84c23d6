// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diag

import (
	"testing"

	"github.com/cpmech/griddyn/gdmode"
	"github.com/cpmech/griddyn/gdsim"
	"github.com/cpmech/griddyn/network"
)

func twoBusArea() *network.Area {
	area := network.NewArea("area1")
	slack := area.AddBus(network.NewBus("slack", 138))
	slack.Type = network.Slack
	slack.VSetpoint = 1.0
	pq := area.AddBus(network.NewBus("pq1", 138))
	area.AddLink(network.NewLink("line1", slack, pq, 0.02, 0.1))
	area.AddLoad(network.NewLoad("load1", pq, 0.8, 0.3))
	return area
}

func TestJacobianCheckCompletesWithoutErrorOnTwoBusArea(t *testing.T) {
	area := twoBusArea()
	h := gdsim.NewSolverHandle(area, gdmode.PowerFlow)
	h.GuessState(0)
	sd := &gdmode.StateData{Time: 0, State: h.State()}

	_, _, err := JacobianCheck(h, sd, 1e-4)
	if err != nil {
		t.Fatalf("JacobianCheck error = %v", err)
	}
}

func TestResidualCheckReportsNonzeroMismatch(t *testing.T) {
	area := twoBusArea()
	h := gdsim.NewSolverHandle(area, gdmode.PowerFlow)
	h.GuessState(0)
	sd := &gdmode.StateData{Time: 0, State: h.State()}

	bad, err := ResidualCheck(h, sd, 1e-9)
	if err != nil {
		t.Fatalf("ResidualCheck error = %v", err)
	}
	if len(bad) == 0 {
		t.Fatal("expected at least one residual violation before convergence")
	}
}

func TestCheckObjectEquivalenceAcceptsIdenticalShape(t *testing.T) {
	a := twoBusArea()
	b := twoBusArea()
	mismatches := CheckObjectEquivalence(a, b)
	if len(mismatches) != 0 {
		t.Fatalf("expected no mismatches between two identically-built areas, got %+v", mismatches)
	}
}

func TestCheckObjectEquivalenceCatchesExtraSubObject(t *testing.T) {
	a := twoBusArea()
	b := twoBusArea()
	b.AddBus(network.NewBus("extra", 138))
	mismatches := CheckObjectEquivalence(a, b)
	if len(mismatches) == 0 {
		t.Fatal("expected a mismatch when b has an extra bus")
	}
}
