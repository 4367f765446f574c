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

// computeComposite evaluates a Composite computation's expression at every
// row of its target column's module, writing the result into that column
// (spec.md §4.6). Rows are independent of one another, so they are
// evaluated across a worker pool (parallel.go).
//
// The expression is evaluated over the extended domain i ∈ [−spilling, N),
// not just [0, N): a later `shift`-read of this column (from another
// composite sharing the module) needs a real, wrap=false-evaluated value for
// its own leading rows rather than an implicit zero (spec.md §4.6, §9's
// resolved `wrap` Open Question). The result is stored with those
// `spilling` leading rows included, so columnOffset (engine.go) can line up
// row 0 of every composite in a module at the same physical index.
func computeComposite(schema *corset.CompiledSchema, tr *Trace, comp corset.Computation) error {
	target := schema.Columns.ColumnAt(comp.Target.Id())

	length, ok := schema.Columns.RawLen(target.Handle.Module)
	if !ok {
		return newEmptyColumn(target.Handle.String())
	}

	spill := SpillingFor(schema, target.Handle.Module)

	values := make([]corset.FieldElement, spill+length)

	err := ParallelRows(spill+length, func(k int) error {
		row := k - spill

		v, err := evalNode(comp.Exp, tr, row)
		if err != nil {
			return err
		}

		values[k] = v

		return nil
	})
	if err != nil {
		return err
	}

	tr.SetColumn(comp.Target.Id(), values)

	return nil
}
