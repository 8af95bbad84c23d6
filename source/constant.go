// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

// Constant is the trivial source: output never changes, the direct analog
// of gosl/fun.Cte.
type Constant struct {
	Base
	Value float64
}

func NewConstant(name string, value float64) *Constant {
	c := &Constant{Value: value}
	c.name = name
	c.setCache(0, value, 0)
	return c
}

func (c *Constant) ComputeOutput(t float64) float64 { return c.Value }
func (c *Constant) UpdateOutput(t float64) float64 {
	c.setCache(t, c.Value, 0)
	return c.Value
}
