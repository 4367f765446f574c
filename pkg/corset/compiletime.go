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

// RunCompileTime is the second compiler pass (spec.md §4.5): every defconst
// right-hand side is reduced, in a pure scope (no column may appear in a
// constant expression), to a concrete Const node whose field value replaces
// the placeholder InsertConstant left behind.
//
// A constant's defining expression may itself reference an earlier
// constant, so these are evaluated in declaration order — the same order
// RunDefinitions recorded them in — letting each lookup see only constants
// already patched.
func RunCompileTime(st *SymbolTable, settings CompileSettings) error {
	r := NewReducer(st, settings)

	for _, pc := range st.PendingConstants {
		pureScope := st.Derived(pc.Scope, st.Mangle("const"), true, false)

		val, err := r.Reduce(pc.Expr, pureScope)
		if err != nil {
			return err
		}

		if val.Tag != NodeConst {
			return NewTypeError(pc.Name, []Type{NewScalar(Any)}, val.Type)
		}

		st.EditSymbol(pc.Scope, pc.Name, func(e *SymbolEntry) {
			e.ConstValue = val.ConstValue
			e.ConstField = val.ConstField
		})
	}

	return nil
}
