// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package corset

// ComputationTag discriminates the variants of Computation.
type ComputationTag uint8

// The recognised Computation variants (spec.md §3).
const (
	ComputationComposite ComputationTag = iota
	ComputationInterleaved
	ComputationSorted
	ComputationCyclicFrom
	ComputationSortingConstraints
)

// Computation describes how a derived column (or small set of target
// columns) is materialized from other columns, once a concrete trace is
// available (spec.md §4.6).
type Computation struct {
	Tag ComputationTag

	// Composite
	Target Handle
	Exp    Node

	// Interleaved
	Froms []Handle

	// Sorted
	SortFroms []Handle
	SortTos   []Handle
	SortSigns []bool

	// CyclicFrom
	CyclicTarget Handle
	CyclicFroms  []Handle
	Modulo       uint64

	// SortingConstraints
	Ats         []Handle // one "@_l" indicator column per sorted key
	Eq          Handle
	Delta       Handle
	DeltaBytes  [16]Handle
	SortSignsSC []bool
	SCFroms     []Handle
	SCSorted    []Handle
}

// NewComposite constructs a Composite computation.
func NewComposite(target Handle, exp Node) Computation {
	return Computation{Tag: ComputationComposite, Target: target, Exp: exp}
}

// NewInterleaved constructs an Interleaved computation.
func NewInterleaved(target Handle, froms []Handle) Computation {
	return Computation{Tag: ComputationInterleaved, Target: target, Froms: froms}
}

// NewSorted constructs a Sorted computation.  Panics unless len(froms) ==
// len(tos) == len(signs).
func NewSorted(froms, tos []Handle, signs []bool) Computation {
	if len(froms) != len(tos) || len(tos) != len(signs) {
		panic("sorted computation arity mismatch")
	}

	return Computation{Tag: ComputationSorted, SortFroms: froms, SortTos: tos, SortSigns: signs}
}

// NewCyclicFrom constructs a CyclicFrom computation.
func NewCyclicFrom(target Handle, froms []Handle, modulo uint64) Computation {
	return Computation{Tag: ComputationCyclicFrom, CyclicTarget: target, CyclicFroms: froms, Modulo: modulo}
}

// NewSortingConstraints constructs a SortingConstraints computation.  The
// 16-byte delta decomposition (spec.md §3's invariant) is enforced by the
// fixed-size [16]Handle parameter type, so no runtime check is made.
func NewSortingConstraints(ats []Handle, eq, delta Handle, deltaBytes [16]Handle, signs []bool, froms, sorted []Handle) Computation {
	return Computation{
		Tag:         ComputationSortingConstraints,
		Ats:         ats,
		Eq:          eq,
		Delta:       delta,
		DeltaBytes:  deltaBytes,
		SortSignsSC: signs,
		SCFroms:     froms,
		SCSorted:    sorted,
	}
}

// Targets returns every handle this computation produces.
func (c Computation) Targets() []Handle {
	switch c.Tag {
	case ComputationComposite:
		return []Handle{c.Target}
	case ComputationInterleaved:
		return []Handle{c.Target}
	case ComputationSorted:
		return c.SortTos
	case ComputationCyclicFrom:
		return []Handle{c.CyclicTarget}
	case ComputationSortingConstraints:
		out := append([]Handle{}, c.Ats...)
		out = append(out, c.Eq, c.Delta)
		out = append(out, c.DeltaBytes[:]...)

		return out
	default:
		return nil
	}
}

// Dependencies returns every handle this computation reads from.
func (c Computation) Dependencies() []Handle {
	switch c.Tag {
	case ComputationComposite:
		return c.Exp.Handles()
	case ComputationInterleaved:
		return c.Froms
	case ComputationSorted:
		return c.SortFroms
	case ComputationCyclicFrom:
		return c.CyclicFroms
	case ComputationSortingConstraints:
		return c.SCFroms
	default:
		return nil
	}
}
