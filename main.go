// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/griddyn/contingency"
	"github.com/cpmech/griddyn/gdsim"
	"github.com/cpmech/griddyn/network"
)

func main() {

	verbose := true

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	// message
	io.PfWhite("\nGridDyn-Go -- power-system dynamic/static simulation engine\n\n")
	io.Pf("Copyright 2016 The Gofem Authors. All rights reserved.\n")
	io.Pf("Use of this source code is governed by a BSD-style\n")
	io.Pf("license that can be found in the LICENSE file.\n\n")

	mode := flag.String("mode", "powerflow", `run mode: "powerflow", "dynamic", "contingency-n1", "contingency-n11", "contingency-n2"`)
	tEnd := flag.Float64("tend", 10.0, "dynamic run end time (seconds), used when -mode=dynamic")
	workers := flag.Int("workers", 0, "contingency worker-pool size (0 = runtime.NumCPU)")
	outfile := flag.String("out", "", "contingency summary output path (\"\" = stdout)")
	flag.Parse()

	if len(flag.Args()) < 1 {
		chk.Panic("Please provide a network filename. Ex.: grid.json")
	}
	fnamepath := flag.Arg(0)
	if io.FnExt(fnamepath) == "" {
		fnamepath += ".json"
	}

	defer utl.DoProf(false)()

	area, err := network.LoadAreaFile(fnamepath)
	if err != nil {
		chk.Panic("%v", err)
	}

	tol := gdsim.DefaultTolerances()
	driver := gdsim.NewDriver(area, tol)

	switch *mode {

	case "powerflow":
		if err := driver.PowerFlow(); err != nil {
			chk.Panic("power flow failed: %v", err)
		}
		if verbose {
			for _, b := range area.Buses {
				io.Pf("%-12s V=%8.5f  A=%8.5f\n", b.Name(), b.Voltage(), b.Angle())
			}
		}

	case "dynamic":
		if err := driver.Run(*tEnd); err != nil {
			chk.Panic("dynamic run failed: %v", err)
		}
		if verbose {
			io.Pf("dynamic run complete, final state = %s\n", driver.State())
		}

	case "contingency-n1", "contingency-n11", "contingency-n2":
		runContingencyBatch(*mode, area, tol, *workers, *outfile)

	default:
		chk.Panic("unknown -mode %q", *mode)
	}
}

// runContingencyBatch builds the requested contingency list, runs it on a
// worker pool, and writes the summary to outfile ("" means stdout).
func runContingencyBatch(mode string, area *network.Area, tol gdsim.Tolerances, workers int, outfile string) {
	var ctgs []*contingency.Contingency
	switch mode {
	case "contingency-n1":
		ctgs = contingency.BuildN1(area, tol)
	case "contingency-n11":
		ctgs = contingency.BuildN11(area, tol)
	case "contingency-n2":
		ctgs = contingency.BuildN2(area, tol)
	}

	runner := contingency.NewRunner(workers)
	defer runner.Close()

	results, err := runner.RunAll(context.Background(), ctgs)
	if err != nil {
		chk.Panic("contingency run failed: %v", err)
	}

	w := os.Stdout
	if outfile != "" {
		f, err := os.Create(outfile)
		if err != nil {
			chk.Panic("cannot create %q: %v", outfile, err)
		}
		defer f.Close()
		w = f
	}
	if err := contingency.WriteSummary(w, ctgs, results); err != nil {
		chk.Panic("cannot write summary: %v", err)
	}
}
