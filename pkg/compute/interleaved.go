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

import "github.com/corsetlang/corset/pkg/corset"

// computeInterleaved round-robins the source columns into the target, one
// row from each source per output group: target[k*n+j] = froms[j][k]
// (spec.md §4.6).
func computeInterleaved(schema *corset.CompiledSchema, tr *Trace, comp corset.Computation) error {
	n := len(comp.Froms)
	if n == 0 {
		return nil
	}

	srcLen := -1

	for _, h := range comp.Froms {
		col := tr.Column(h.Id())
		if len(col) == 0 {
			return newEmptyColumn(h.String())
		}

		if srcLen == -1 {
			srcLen = len(col)
		} else if len(col) != srcLen {
			return newIncoherentLengths(schema.Columns.ColumnAt(h.Id()).Handle.Module, srcLen, len(col))
		}
	}

	values := make([]corset.FieldElement, n*srcLen)

	for k := 0; k < srcLen; k++ {
		for j, h := range comp.Froms {
			values[k*n+j] = tr.Column(h.Id())[k]
		}
	}

	tr.SetColumn(comp.Target.Id(), values)

	return nil
}
