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
	"fmt"

	bls12377 "github.com/corsetlang/corset/field/bls12-377"
	"github.com/corsetlang/corset/pkg/corset"
)

// computeCyclicFrom materializes a row-index counter that cycles through
// [0, Modulo) and back to 0: target[row] = row mod Modulo (spec.md §4.6).
// `froms` plays no role in the value — it only identifies the module (and,
// via its common column length, the required L ≥ Modulo) this cyclic column
// belongs to, matching the witness columns a prover uses to range-check a
// repeating counter against a lookup table of size Modulo.
func computeCyclicFrom(schema *corset.CompiledSchema, tr *Trace, comp corset.Computation) error {
	n := len(comp.CyclicFroms)
	if n == 0 {
		return nil
	}

	length := -1

	for _, h := range comp.CyclicFroms {
		col := tr.Column(h.Id())
		if len(col) == 0 {
			return newEmptyColumn(h.String())
		}

		if length == -1 {
			length = len(col)
		} else if len(col) != length {
			return newIncoherentLengths(schema.Columns.ColumnAt(h.Id()).Handle.Module, length, len(col))
		}
	}

	if comp.Modulo == 0 || uint64(length) < comp.Modulo {
		return fmt.Errorf("cyclic column %q requires at least %d rows, have %d",
			comp.CyclicTarget.String(), comp.Modulo, length)
	}

	values := make([]corset.FieldElement, length)

	err := ParallelRows(length, func(row int) error {
		values[row] = bls12377.NewElement(uint64(row) % comp.Modulo)

		return nil
	})
	if err != nil {
		return err
	}

	tr.SetColumn(comp.CyclicTarget.Id(), values)

	return nil
}
