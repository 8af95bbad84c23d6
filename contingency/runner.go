// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contingency

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Runner dispatches a batch of contingencies to a fixed-size worker pool
// (spec.md §4.7 "Execution is dispatched to a global work queue"). Each
// execution works on its own clone of the base topology and fills only its
// own slot of the results, so concurrent executions share no mutable state;
// WriteSummary writes the summary rows afterwards, without a mutex.
type Runner struct {
	pool *Pool
}

// NewRunner starts a pool of workers workers (0 defaults to runtime.NumCPU).
func NewRunner(workers int) *Runner {
	return &Runner{pool: NewPool(workers)}
}

// Close shuts down the runner's worker pool. The runner must not be reused
// afterward.
func (r *Runner) Close() { r.pool.Shutdown() }

// RunAll submits every contingency to the pool, waits for all of them to
// complete, and returns their results in the same order as ctgs (not
// completion order) — each contingency's clone and execution are fully
// independent of every other's, so ordering the output is purely cosmetic.
func (r *Runner) RunAll(ctx context.Context, ctgs []*Contingency) ([]Result, error) {
	results := make([]Result, len(ctgs))
	var wg sync.WaitGroup
	errs := make([]error, len(ctgs))
	for i, c := range ctgs {
		i, c := i, c
		wg.Add(1)
		err := r.pool.Submit(ctx, func() {
			defer wg.Done()
			res := c.execute()
			c.Future.deliver(res)
			results[i] = res
		})
		if err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return results, e
		}
	}
	return results, nil
}

// WriteSummary writes one header row plus one row per contingency (spec.md
// §4.7 "results are written per contingency to a text output"): name,
// violation count, and the first violation's kind/object if any.
func WriteSummary(w io.Writer, ctgs []*Contingency, results []Result) error {
	if _, err := fmt.Fprintln(w, "id\tname\tviolations\tfirst_violation"); err != nil {
		return err
	}
	for i, c := range ctgs {
		r := results[i]
		first := "-"
		if len(r.Violations) > 0 {
			v := r.Violations[0]
			first = fmt.Sprintf("%s:%s", v.Kind, v.Object)
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", c.Id, c.Name, len(r.Violations), first); err != nil {
			return err
		}
	}
	return nil
}

// WorstViolations returns the n contingencies with the most violations,
// worst first, a convenience on top of WriteSummary for interactive review.
func WorstViolations(ctgs []*Contingency, results []Result, n int) []*Contingency {
	type ranked struct {
		c *Contingency
		n int
	}
	rs := make([]ranked, len(ctgs))
	for i, c := range ctgs {
		rs[i] = ranked{c: c, n: len(results[i].Violations)}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].n > rs[j].n })
	if n > len(rs) {
		n = len(rs)
	}
	out := make([]*Contingency, n)
	for i := 0; i < n; i++ {
		out[i] = rs[i].c
	}
	return out
}
