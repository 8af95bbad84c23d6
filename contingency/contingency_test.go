// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contingency

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cpmech/griddyn/gdsim"
	"github.com/cpmech/griddyn/network"
)

func threeBusArea() *network.Area {
	area := network.NewArea("area1")
	slack := area.AddBus(network.NewBus("slack", 138))
	slack.Type = network.Slack
	slack.VSetpoint = 1.0
	pq1 := area.AddBus(network.NewBus("pq1", 138))
	pq2 := area.AddBus(network.NewBus("pq2", 138))
	area.AddLink(network.NewLink("line1", slack, pq1, 0.02, 0.1))
	area.AddLink(network.NewLink("line2", pq1, pq2, 0.02, 0.1))
	area.AddLoad(network.NewLoad("load1", pq1, 0.3, 0.1))
	area.AddLoad(network.NewLoad("load2", pq2, 0.2, 0.05))
	return area
}

func TestBuildN1CountsOneContingencyPerComponent(t *testing.T) {
	area := threeBusArea()
	ctgs := BuildN1(area, gdsim.DefaultTolerances())
	want := len(area.Buses) + len(area.Links) + len(area.Generators) + len(area.Loads)
	if len(ctgs) != want {
		t.Fatalf("BuildN1: got %d contingencies, want %d", len(ctgs), want)
	}
}

func TestBuildN2IsUnorderedPairCount(t *testing.T) {
	area := threeBusArea()
	n := len(singleOutages(area))
	ctgs := BuildN2(area, gdsim.DefaultTolerances())
	want := n * (n - 1) / 2
	if len(ctgs) != want {
		t.Fatalf("BuildN2: got %d, want %d", len(ctgs), want)
	}
}

func TestBuildN11ExcludesSelfPairing(t *testing.T) {
	area := threeBusArea()
	n := len(singleOutages(area))
	ctgs := BuildN11(area, gdsim.DefaultTolerances())
	want := n * (n - 1)
	if len(ctgs) != want {
		t.Fatalf("BuildN11: got %d, want %d", len(ctgs), want)
	}
}

func TestExecuteDoesNotMutateBaseArea(t *testing.T) {
	area := threeBusArea()
	ctg := NewContingency(0, "trip-line1", [][]Event{{{Kind: DisableLink, Target: "line1"}}}, area, gdsim.DefaultTolerances())
	ctg.execute()
	if area.Links[0].Tripped {
		t.Fatal("execute tripped the base area's link instead of a clone")
	}
}

func TestExecuteLineOutageTripsTheCloneAndConverges(t *testing.T) {
	area := threeBusArea()
	ctg := NewContingency(0, "trip-line2", [][]Event{{{Kind: DisableLink, Target: "line2"}}}, area, gdsim.DefaultTolerances())
	res := ctg.execute()
	if !ctg.Done {
		t.Fatal("expected contingency to be marked done")
	}
	if len(res.BusVoltages) == 0 {
		t.Fatal("expected bus voltages to be collected")
	}
}

func TestExecuteUnknownTargetRecordsApplyError(t *testing.T) {
	area := threeBusArea()
	ctg := NewContingency(0, "bad-target", [][]Event{{{Kind: DisableLink, Target: "does-not-exist"}}}, area, gdsim.DefaultTolerances())
	res := ctg.execute()
	if len(res.Violations) == 0 || res.Violations[0].Kind != "apply_error" {
		t.Fatalf("expected an apply_error violation, got %+v", res.Violations)
	}
}

func TestRunnerRunAllCompletesEveryContingencyConcurrently(t *testing.T) {
	area := threeBusArea()
	ctgs := BuildN1(area, gdsim.DefaultTolerances())
	r := NewRunner(2)
	defer r.Close()
	results, err := r.RunAll(context.Background(), ctgs)
	if err != nil {
		t.Fatalf("RunAll error = %v", err)
	}
	if len(results) != len(ctgs) {
		t.Fatalf("got %d results, want %d", len(results), len(ctgs))
	}
	for i, c := range ctgs {
		if !c.Done {
			t.Fatalf("contingency %d not marked done", i)
		}
	}
}

func TestWriteSummaryEmitsHeaderAndOneRowPerContingency(t *testing.T) {
	area := threeBusArea()
	ctgs := BuildN1(area, gdsim.DefaultTolerances())
	r := NewRunner(2)
	defer r.Close()
	results, err := r.RunAll(context.Background(), ctgs)
	if err != nil {
		t.Fatalf("RunAll error = %v", err)
	}
	var buf bytes.Buffer
	if err := WriteSummary(&buf, ctgs, results); err != nil {
		t.Fatalf("WriteSummary error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(ctgs)+1 {
		t.Fatalf("got %d lines, want %d (header + one per contingency)", len(lines), len(ctgs)+1)
	}
	if !strings.HasPrefix(lines[0], "id\tname\tviolations") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestPoolSubmitRunsTaskAndShutdownDrains(t *testing.T) {
	p := NewPool(2)
	defer p.Shutdown()
	done := make(chan struct{})
	if err := p.Submit(context.Background(), func() { close(done) }); err != nil {
		t.Fatalf("Submit error = %v", err)
	}
	<-done
}
