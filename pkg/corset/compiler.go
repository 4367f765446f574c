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

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/corsetlang/corset/pkg/ast"
)

// CompileSettings mirrors the flags a corset invocation accepts (spec.md
// §6): Debug enables `debug` forms (normally compiled away to nothing), and
// AllowDups relaxes duplicate-definition checking to tolerate
// identically-shaped redefinitions, as happens when the same module is
// assembled from several source files.
type CompileSettings struct {
	Debug     bool
	AllowDups bool
}

// CompiledSchema is the output of a successful compilation: the column/
// constant universe plus the constraint set checked against it, with every
// Handle fully resolved to a numeric id (spec.md §4.7).
type CompiledSchema struct {
	Columns     *ColumnSet
	Constraints []Constraint
	Warnings    []UnusedSymbolWarning
}

// Compile runs the full pipeline described by spec.md §4: definitions,
// compile-time constant evaluation, generation, and finalization.
func Compile(forms []ast.AstNode, settings CompileSettings) (*CompiledSchema, error) {
	st := NewSymbolTable(settings.AllowDups)

	if err := RunDefinitions(forms, st); err != nil {
		return nil, errors.WithMessage(err, "while defining symbols")
	}

	if err := RunCompileTime(st, settings); err != nil {
		return nil, errors.WithMessage(err, "while evaluating constants")
	}

	constraints, err := RunGenerator(forms, st, settings)
	if err != nil {
		return nil, errors.WithMessage(err, "while generating constraints")
	}

	schema, err := Finalize(st, constraints)
	if err != nil {
		return nil, errors.WithMessage(err, "while finalizing schema")
	}

	return schema, nil
}

// sortConstraintsBySize orders constraints by decreasing Size() (spec.md
// §4.7's step 2). Go's sort is not stable by default, so
// sort.SliceStable preserves declaration order among same-sized constraints,
// keeping compilation deterministic across repeated runs.
func sortConstraintsBySize(cs []Constraint) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Size() > cs[j].Size() })
}
