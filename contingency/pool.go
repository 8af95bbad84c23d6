// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package contingency implements the N-1/N-1-1/N-2 contingency runner
// (spec.md §4.7): list builders that enumerate disablement combinations,
// a fixed-size worker pool dispatching each contingency's execution to a
// global work queue, and a text summary writer.
package contingency

import (
	"context"
	"runtime"
	"sync"

	"github.com/cpmech/gosl/chk"
)

// Pool is a fixed-size worker pool: a bounded number of goroutines take tasks
// from a shared unbuffered task channel until Shutdown closes the separate
// shutdown channel. Grounded on the StaticWorkerPool
// shape (a fixed goroutine count over a single task channel, no dynamic
// scaling) since nothing in this tree's dependency surface offers a
// worker-pool library and the concern is small enough that stdlib
// sync/context carries it without one (see DESIGN.md).
type Pool struct {
	tasks    chan func()
	wg       sync.WaitGroup
	shutdown chan struct{}
	once     sync.Once
}

// NewPool starts workers goroutines waiting on a task channel. workers<=0
// defaults to runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		tasks:    make(chan func()),
		shutdown: make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.shutdown:
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			task()
		}
	}
}

// Submit enqueues task, blocking until a worker picks it up, ctx is
// cancelled, or the pool has been shut down.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	select {
	case p.tasks <- task:
		return nil
	case <-p.shutdown:
		return chk.Err("contingency: pool is shut down")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown closes the shutdown channel and waits for every worker to finish
// the task it is running and exit; the task channel itself is never closed.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.shutdown)
		p.wg.Wait()
	})
}
