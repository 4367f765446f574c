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
	"sort"

	"github.com/corsetlang/corset/pkg/corset"
)

// computeSorted produces a stable lexicographic permutation of the source
// columns' rows into the target columns, one key per (from, to, sign) triple
// (spec.md §4.6's induced permutation computation, used both by
// `defpermutation` and sorting-constraint machinery). sign true means
// ascending, false descending.
func computeSorted(schema *corset.CompiledSchema, tr *Trace, comp corset.Computation) error {
	n := len(comp.SortFroms)
	if n == 0 {
		return nil
	}

	keys := make([][]corset.FieldElement, n)

	length := -1

	for i, h := range comp.SortFroms {
		col := tr.Column(h.Id())
		if len(col) == 0 {
			return newEmptyColumn(h.String())
		}

		if length == -1 {
			length = len(col)
		} else if len(col) != length {
			return newIncoherentLengths(schema.Columns.ColumnAt(h.Id()).Handle.Module, length, len(col))
		}

		keys[i] = col
	}

	order := make([]int, length)
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := order[a], order[b]

		for i, col := range keys {
			cmp := col[ra].Cmp(col[rb])
			if cmp == 0 {
				continue
			}

			if comp.SortSigns[i] {
				return cmp < 0
			}

			return cmp > 0
		}

		return false
	})

	for i, to := range comp.SortTos {
		values := make([]corset.FieldElement, length)
		for k, row := range order {
			values[k] = keys[i][row]
		}

		tr.SetColumn(to.Id(), values)
	}

	return nil
}
