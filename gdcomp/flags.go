// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdcomp

// Flags is the 64-bit operational flags bitset every component carries
// (spec.md §3 "an operational flags bitset (64 bits; ...)").
type Flags uint64

const (
	FlagHasConstraint  Flags = 1 << iota // component adds an algebraic constraint
	FlagHasRoot                          // component contributes root functions
	FlagCascading                        // changes here may cascade into siblings
	FlagAdjustable                       // component participates in power-flow adjustment
	FlagInitializing                     // component is within an init phase
	FlagChangeAlert                      // component has a pending change to report
	FlagObjectFree                       // component may be freed independently of its parent's step
	FlagDCOnly                          // component is only valid under a DC approximation
	FlagDCCapable                       // component supports (but does not require) a DC approximation
	FlagThreePhaseOnly                  // component requires a three-phase network representation
	FlagInvalidState                    // evaluation hit a numerical failure; see spec.md §4.2 "Failure semantics"
	FlagLowVoltage                      // a bus under this component dropped below the low-voltage threshold
	FlagDisabled                        // component is administratively disabled (does not contribute state)
	FlagPQLowVoltageLimit               // load has been switched to a PQ low-voltage limited model (error recovery stage 3)
)

// Has reports whether all bits in want are set.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Set returns f with the given bits set.
func (f Flags) Set(bits Flags) Flags { return f | bits }

// Clear returns f with the given bits cleared.
func (f Flags) Clear(bits Flags) Flags { return f &^ bits }
