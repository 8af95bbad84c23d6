// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// File reads a two-column (time, value) breakpoint table from disk via
// gosl/io.ReadTable (the same reader examples/*/doplot.go uses for
// comparison data) and linearly interpolates between rows, holding the
// first/last value outside the table's time range.
type File struct {
	Base

	times  []float64
	values []float64
}

// NewFile loads path, expecting columns named "t" and "value" (mirroring
// io.ReadTable's header-keyed map[string][]float64 result).
func NewFile(name, path string) (*File, error) {
	_, cols, err := io.ReadTable(path)
	if err != nil {
		return nil, chk.Err("source %q: cannot read breakpoint file %q:\n%v", name, path, err)
	}
	times, ok := cols["t"]
	if !ok {
		return nil, chk.Err("source %q: file %q has no \"t\" column", name, path)
	}
	values, ok := cols["value"]
	if !ok {
		return nil, chk.Err("source %q: file %q has no \"value\" column", name, path)
	}
	if len(times) != len(values) {
		return nil, chk.Err("source %q: %q has %d times but %d values", name, path, len(times), len(values))
	}
	f := &File{times: times, values: values}
	f.name = name
	if len(times) > 0 {
		f.setCache(times[0], values[0], 0)
	}
	return f, nil
}

func (f *File) ComputeOutput(t float64) float64 {
	if len(f.times) == 0 {
		return 0
	}
	if t <= f.times[0] {
		return f.values[0]
	}
	last := len(f.times) - 1
	if t >= f.times[last] {
		return f.values[last]
	}
	i := sort.SearchFloat64s(f.times, t)
	if f.times[i] == t {
		return f.values[i]
	}
	lo, hi := i-1, i
	frac := (t - f.times[lo]) / (f.times[hi] - f.times[lo])
	return f.values[lo] + frac*(f.values[hi]-f.values[lo])
}

func (f *File) UpdateOutput(t float64) float64 {
	v := f.ComputeOutput(t)
	const eps = 1e-9
	slope := (f.ComputeOutput(t+eps) - f.ComputeOutput(t-eps)) / (2 * eps)
	f.setCache(t, v, slope)
	return v
}
