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

// SpillingFor returns (and memoizes on schema.Columns) a module's spilling:
// the largest absolute shift offset any Vanishes constraint applies to one of
// its columns (spec.md §3's ColumnSet, §4.6's "spilling computation"). Both
// the compute engine and pkg/witness share this single memoized value so a
// composite computation's padded row range and a witness file's leading
// padding agree.
func SpillingFor(schema *corset.CompiledSchema, module string) int {
	if n, ok := schema.Columns.CachedSpilling(module); ok {
		return n
	}

	max := 0

	for _, c := range schema.Constraints {
		if c.Tag != corset.ConstraintVanishes {
			continue
		}

		c.Expr.Walk(func(n corset.Node) {
			if n.Tag != corset.NodeColumn || !n.HasShift {
				return
			}

			col, ok := schema.Columns.Column(module, n.Handle.Name)
			if !ok || col.Handle.Id() != n.Handle.Id() {
				return
			}

			off := n.ShiftOffset
			if off < 0 {
				off = -off
			}

			if off > max {
				max = off
			}
		})
	}

	schema.Columns.SetCachedSpilling(module, max)

	return max
}
