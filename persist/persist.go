// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package persist implements the binary state-snapshot format (spec.md §6):
// [time:f64][code:u32][index:u32][key:u32][N:u32][data:N*f64], plus the
// length-prefixed Jacobian-triplet variant keyed by code=0x00010000|base.
// encoding/binary carries the fixed layout directly; no library in the pack
// implements anything closer to this literal wire shape (see DESIGN.md).
package persist

import (
	"encoding/binary"
	"io"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Code names what a Record's data vector holds.
type Code uint32

const (
	StateInformation      Code = 0
	DerivativeInformation Code = 1
	ResidualInformation   Code = 2

	// jacobianBase is OR'd with a Code to mark a record as a Jacobian
	// triplet list instead of a flat data vector.
	jacobianBase Code = 0x00010000
)

// Record is one snapshot entry: a timestamped, coded data vector tagged by
// a solver-mode index and an arbitrary caller key (e.g. a contingency id or
// recorder slot).
type Record struct {
	Time  float64
	Code  Code
	Index uint32
	Key   uint32
	Data  []float64
}

// WriteRecord writes one [time][code][index][key][N][data...] record.
func WriteRecord(w io.Writer, r Record) error {
	if err := binary.Write(w, binary.LittleEndian, r.Time); err != nil {
		return chk.Err("persist: write time: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(r.Code)); err != nil {
		return chk.Err("persist: write code: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, r.Index); err != nil {
		return chk.Err("persist: write index: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, r.Key); err != nil {
		return chk.Err("persist: write key: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(r.Data))); err != nil {
		return chk.Err("persist: write N: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, r.Data); err != nil {
		return chk.Err("persist: write data: %v", err)
	}
	return nil
}

// ReadRecord reads one record written by WriteRecord. io.EOF is returned
// unwrapped when the stream ends cleanly between records.
func ReadRecord(r io.Reader) (Record, error) {
	var rec Record
	if err := binary.Read(r, binary.LittleEndian, &rec.Time); err != nil {
		return Record{}, err
	}
	var code, n uint32
	if err := binary.Read(r, binary.LittleEndian, &code); err != nil {
		return Record{}, chk.Err("persist: read code: %v", err)
	}
	rec.Code = Code(code)
	if err := binary.Read(r, binary.LittleEndian, &rec.Index); err != nil {
		return Record{}, chk.Err("persist: read index: %v", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &rec.Key); err != nil {
		return Record{}, chk.Err("persist: read key: %v", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return Record{}, chk.Err("persist: read N: %v", err)
	}
	rec.Data = make([]float64, n)
	if err := binary.Read(r, binary.LittleEndian, rec.Data); err != nil {
		return Record{}, chk.Err("persist: read data: %v", err)
	}
	return rec, nil
}

// JacobianEntry is one (row, col, value) triplet.
type JacobianEntry struct {
	Row, Col uint32
	Value    float64
}

// WriteJacobian writes a Jacobian snapshot: [time][code|jacobianBase][index]
// [key][N][entries...], entries encoded (row:u32, col:u32, value:f64) each.
func WriteJacobian(w io.Writer, time float64, base Code, index, key uint32, jac *la.Triplet) error {
	if err := binary.Write(w, binary.LittleEndian, time); err != nil {
		return chk.Err("persist: write time: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(jacobianBase|base)); err != nil {
		return chk.Err("persist: write code: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, index); err != nil {
		return chk.Err("persist: write index: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, key); err != nil {
		return chk.Err("persist: write key: %v", err)
	}
	entries := tripletEntries(jac)
	if err := binary.Write(w, binary.LittleEndian, uint32(len(entries))); err != nil {
		return chk.Err("persist: write N: %v", err)
	}
	for _, e := range entries {
		if err := binary.Write(w, binary.LittleEndian, e.Row); err != nil {
			return chk.Err("persist: write row: %v", err)
		}
		if err := binary.Write(w, binary.LittleEndian, e.Col); err != nil {
			return chk.Err("persist: write col: %v", err)
		}
		if err := binary.Write(w, binary.LittleEndian, e.Value); err != nil {
			return chk.Err("persist: write value: %v", err)
		}
	}
	return nil
}

// ReadJacobian reads a Jacobian snapshot written by WriteJacobian, returning
// the base Code with the jacobianBase marker stripped off.
func ReadJacobian(r io.Reader) (time float64, base Code, index, key uint32, entries []JacobianEntry, err error) {
	if err = binary.Read(r, binary.LittleEndian, &time); err != nil {
		return
	}
	var code, n uint32
	if err = binary.Read(r, binary.LittleEndian, &code); err != nil {
		err = chk.Err("persist: read code: %v", err)
		return
	}
	base = Code(code) &^ jacobianBase
	if err = binary.Read(r, binary.LittleEndian, &index); err != nil {
		err = chk.Err("persist: read index: %v", err)
		return
	}
	if err = binary.Read(r, binary.LittleEndian, &key); err != nil {
		err = chk.Err("persist: read key: %v", err)
		return
	}
	if err = binary.Read(r, binary.LittleEndian, &n); err != nil {
		err = chk.Err("persist: read N: %v", err)
		return
	}
	entries = make([]JacobianEntry, n)
	for i := range entries {
		if err = binary.Read(r, binary.LittleEndian, &entries[i].Row); err != nil {
			err = chk.Err("persist: read row: %v", err)
			return
		}
		if err = binary.Read(r, binary.LittleEndian, &entries[i].Col); err != nil {
			err = chk.Err("persist: read col: %v", err)
			return
		}
		if err = binary.Read(r, binary.LittleEndian, &entries[i].Value); err != nil {
			err = chk.Err("persist: read value: %v", err)
			return
		}
	}
	return
}

// tripletEntries reads jac's (row, col, value) entries back through its
// dense form, the same assumed-but-unverified la.Triplet.ToDense().GetDeep2()
// path diag.JacobianCheck already relies on (see DESIGN.md).
func tripletEntries(jac *la.Triplet) []JacobianEntry {
	dense := jac.ToDense().GetDeep2()
	var entries []JacobianEntry
	for row, cols := range dense {
		for col, v := range cols {
			if v == 0 {
				continue
			}
			entries = append(entries, JacobianEntry{Row: uint32(row), Col: uint32(col), Value: v})
		}
	}
	return entries
}
