// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import "sync"

// Comm is a source fed from outside the simulation loop — a SCADA feed, a
// co-simulation partner, a test harness — via Push. It is the one source
// variant safe to write from a goroutine other than the driver's, exactly
// the allowance spec.md §5 grants gdevent.Queue for external event
// insertion: "the only lock touched from outside the driver goroutine."
type Comm struct {
	Base

	mu      sync.Mutex
	pending float64
}

func NewComm(name string, initial float64) *Comm {
	c := &Comm{pending: initial}
	c.name = name
	c.setCache(0, initial, 0)
	return c
}

// Push delivers a new value from outside the driver goroutine; it takes
// effect on the next UpdateOutput, not immediately, so the driver always
// sees a consistent value within one step.
func (c *Comm) Push(value float64) {
	c.mu.Lock()
	c.pending = value
	c.mu.Unlock()
}

func (c *Comm) ComputeOutput(t float64) float64 { return c.value }

func (c *Comm) UpdateOutput(t float64) float64 {
	c.mu.Lock()
	v := c.pending
	c.mu.Unlock()
	dv := (v - c.value) / maxDt(t-c.lastT)
	c.setCache(t, v, dv)
	return v
}
