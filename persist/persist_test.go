// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package persist

import (
	"bytes"
	"io"
	"testing"

	"github.com/cpmech/gosl/la"
)

func TestWriteReadRecordRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	want := Record{Time: 1.5, Code: DerivativeInformation, Index: 2, Key: 7, Data: []float64{1, 2, 3}}
	if err := WriteRecord(&buf, want); err != nil {
		t.Fatalf("WriteRecord error = %v", err)
	}
	got, err := ReadRecord(&buf)
	if err != nil {
		t.Fatalf("ReadRecord error = %v", err)
	}
	if got.Time != want.Time || got.Code != want.Code || got.Index != want.Index || got.Key != want.Key {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if len(got.Data) != len(want.Data) {
		t.Fatalf("got %d data entries, want %d", len(got.Data), len(want.Data))
	}
	for i := range want.Data {
		if got.Data[i] != want.Data[i] {
			t.Fatalf("data[%d] = %v, want %v", i, got.Data[i], want.Data[i])
		}
	}
}

func TestReadRecordReturnsEOFAtStreamEnd(t *testing.T) {
	var buf bytes.Buffer
	if _, err := ReadRecord(&buf); err != io.EOF {
		t.Fatalf("expected io.EOF on empty stream, got %v", err)
	}
}

func TestMultipleRecordsAppendAndReadBack(t *testing.T) {
	var buf bytes.Buffer
	r1 := Record{Time: 0, Code: StateInformation, Index: 0, Key: 1, Data: []float64{1, 2}}
	r2 := Record{Time: 1, Code: ResidualInformation, Index: 0, Key: 1, Data: []float64{3, 4, 5}}
	if err := WriteRecord(&buf, r1); err != nil {
		t.Fatalf("write r1: %v", err)
	}
	if err := WriteRecord(&buf, r2); err != nil {
		t.Fatalf("write r2: %v", err)
	}
	got1, err := ReadRecord(&buf)
	if err != nil {
		t.Fatalf("read r1: %v", err)
	}
	got2, err := ReadRecord(&buf)
	if err != nil {
		t.Fatalf("read r2: %v", err)
	}
	if len(got1.Data) != 2 || len(got2.Data) != 3 {
		t.Fatalf("got data lengths %d, %d, want 2, 3", len(got1.Data), len(got2.Data))
	}
}

func TestWriteReadJacobianRoundTrips(t *testing.T) {
	jac := new(la.Triplet)
	jac.Init(3, 3, 4)
	jac.Start()
	jac.Put(0, 0, 1.0)
	jac.Put(1, 1, 2.0)
	jac.Put(2, 2, 3.0)
	jac.Put(0, 2, -1.5)

	var buf bytes.Buffer
	if err := WriteJacobian(&buf, 2.0, StateInformation, 1, 9, jac); err != nil {
		t.Fatalf("WriteJacobian error = %v", err)
	}

	time, base, index, key, entries, err := ReadJacobian(&buf)
	if err != nil {
		t.Fatalf("ReadJacobian error = %v", err)
	}
	if time != 2.0 || base != StateInformation || index != 1 || key != 9 {
		t.Fatalf("got (time=%v base=%v index=%v key=%v)", time, base, index, key)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
}
