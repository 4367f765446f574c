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
package compute

import (
	bls12377 "github.com/corsetlang/corset/field/bls12-377"
	"github.com/corsetlang/corset/pkg/corset"
)

// computeSortingConstraints materializes the witness columns a Sorted
// computation's own vanishing constraints check against: one "@_l"
// indicator per sort key marking the first key at which consecutive sorted
// rows diverge, an overall equality flag, and a signed delta between the
// diverging values decomposed into 16 bytes (spec.md §4.6's
// SortingConstraints, named for the 16-byte limb decomposition it needs to
// range-check the delta within the field). Delta is negated for a
// descending (sign=false) key, per spec.md §8 Property 9's
// `Δ[i] = Σ_l @_l[i]·σ_l·(sorted[l][i]-sorted[l][i-1])` — without this a
// descending divergence would wrap to a huge field value instead of the
// small magnitude the byte decomposition range-checks.
//
// Row 0 has no predecessor, so it is treated as trivially equal to itself:
// Eq[0] = 1, Delta[0] = 0, no indicator set.
func computeSortingConstraints(schema *corset.CompiledSchema, tr *Trace, comp corset.Computation) error {
	n := len(comp.SCSorted)
	if n == 0 {
		return nil
	}

	length := -1

	sortedCols := make([][]corset.FieldElement, n)

	for i, h := range comp.SCSorted {
		col := tr.Column(h.Id())
		if len(col) == 0 {
			return newEmptyColumn(h.String())
		}

		if length == -1 {
			length = len(col)
		} else if len(col) != length {
			return newIncoherentLengths(schema.Columns.ColumnAt(h.Id()).Handle.Module, length, len(col))
		}

		sortedCols[i] = col
	}

	atValues := make([][]corset.FieldElement, len(comp.Ats))
	zero, one := bls12377.Zero(), bls12377.One()

	for i := range atValues {
		atValues[i] = make([]corset.FieldElement, length)
		for row := range atValues[i] {
			atValues[i][row] = zero
		}
	}

	eqValues := make([]corset.FieldElement, length)
	deltaValues := make([]corset.FieldElement, length)
	byteValues := make([][]corset.FieldElement, 16)

	for i := range byteValues {
		byteValues[i] = make([]corset.FieldElement, length)
	}

	eqValues[0] = one

	for i := range byteValues {
		byteValues[i][0] = zero
	}

	deltaValues[0] = zero

	for row := 1; row < length; row++ {
		diverged := -1

		for i := 0; i < n && i < len(comp.Ats); i++ {
			if sortedCols[i][row].Cmp(sortedCols[i][row-1]) != 0 {
				diverged = i
				break
			}
		}

		if diverged == -1 {
			eqValues[row] = one

			for i := range byteValues {
				byteValues[i][row] = zero
			}

			deltaValues[row] = zero

			continue
		}

		eqValues[row] = zero
		if diverged < len(atValues) {
			atValues[diverged][row] = one
		}

		delta := sortedCols[diverged][row].Sub(sortedCols[diverged][row-1])
		if diverged < len(comp.SortSignsSC) && !comp.SortSignsSC[diverged] {
			delta = delta.Neg()
		}

		deltaValues[row] = delta

		limbs := decomposeBytes(delta)
		for i, limb := range limbs {
			byteValues[i][row] = limb
		}
	}

	for i, h := range comp.Ats {
		tr.SetColumn(h.Id(), atValues[i])
	}

	tr.SetColumn(comp.Eq.Id(), eqValues)
	tr.SetColumn(comp.Delta.Id(), deltaValues)

	for i, h := range comp.DeltaBytes {
		tr.SetColumn(h.Id(), byteValues[i])
	}

	return nil
}

// decomposeBytes splits a field element's canonical big-endian byte
// encoding into its low 16 bytes, least-significant first, so each limb
// column can itself be range-checked to [0, 256).
func decomposeBytes(v corset.FieldElement) [16]corset.FieldElement {
	raw := v.Bytes() // big-endian, fixed width

	var out [16]corset.FieldElement

	n := len(raw)
	for i := 0; i < 16; i++ {
		idx := n - 1 - i
		if idx < 0 {
			out[i] = bls12377.Zero()
			continue
		}

		out[i] = bls12377.NewElement(uint64(raw[idx]))
	}

	return out
}
