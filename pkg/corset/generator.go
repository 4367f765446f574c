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
	"github.com/corsetlang/corset/pkg/ast"
)

// RunGenerator is the third compiler pass (spec.md §4.6): a second linear
// walk of the same top-level forms — now with every column, constant, and
// function already in scope — that reduces each constraint-bearing form
// into a Constraint, and drains the composite/interleaved columns the
// definitions pass stashed into their Computations.
func RunGenerator(forms []ast.AstNode, st *SymbolTable, settings CompileSettings) ([]Constraint, error) {
	r := NewReducer(st, settings)
	current := st.Root()

	var constraints []Constraint

	for _, form := range forms {
		switch form.Tag {
		case ast.TagDefModule:
			current = st.DeriveModule(form.ModuleName)
		case ast.TagDefConstraint:
			c, err := generateVanishes(r, current, form)
			if err != nil {
				return nil, locate(err, form.Pos)
			}

			constraints = append(constraints, c)
		case ast.TagDefPlookup:
			c, err := generatePlookup(r, current, form)
			if err != nil {
				return nil, locate(err, form.Pos)
			}

			constraints = append(constraints, c)
		case ast.TagDefInrange:
			c, err := generateInRange(r, current, form)
			if err != nil {
				return nil, locate(err, form.Pos)
			}

			constraints = append(constraints, c)
		case ast.TagDefPermutation:
			c, err := generatePermutation(st, current, form)
			if err != nil {
				return nil, locate(err, form.Pos)
			}

			constraints = append(constraints, c)
		}
	}

	if err := drainPendingComposites(r, st); err != nil {
		return nil, err
	}

	if err := drainPendingInterleaved(st); err != nil {
		return nil, err
	}

	return constraints, nil
}

func generateVanishes(r *Reducer, scopeId int, form ast.AstNode) (Constraint, error) {
	scope := r.st.Scope(scopeId)
	h := NewHandle(scope.Module, form.ConstraintName)

	var (
		body Node
		err  error
	)

	if form.Guard != nil {
		body, err = r.apply("if-not-zero", []ast.AstNode{*form.Guard, *form.Body}, scopeId, form.Pos)
	} else {
		body, err = r.Reduce(*form.Body, scopeId)
	}

	if err != nil {
		return Constraint{}, err
	}

	return NewVanishes(h, form.ConstraintDomain, body), nil
}

func generatePlookup(r *Reducer, scopeId int, form ast.AstNode) (Constraint, error) {
	scope := r.st.Scope(scopeId)
	h := NewHandle(scope.Module, form.PlookupName)

	including, err := reduceAll(r, scopeId, form.Including)
	if err != nil {
		return Constraint{}, err
	}

	included, err := reduceAll(r, scopeId, form.Included)
	if err != nil {
		return Constraint{}, err
	}

	if len(including) != len(included) {
		return Constraint{}, NewCardinalityMismatch(len(including), len(included))
	}

	return NewPlookup(h, including, included), nil
}

func reduceAll(r *Reducer, scopeId int, nodes []ast.AstNode) ([]Node, error) {
	out := make([]Node, len(nodes))

	for i, n := range nodes {
		reduced, err := r.Reduce(n, scopeId)
		if err != nil {
			return nil, err
		}

		out[i] = reduced
	}

	return out, nil
}

func generateInRange(r *Reducer, scopeId int, form ast.AstNode) (Constraint, error) {
	scope := r.st.Scope(scopeId)
	h := NewHandle(scope.Module, "in-range")

	expr, err := r.Reduce(*form.InrangeExpr, scopeId)
	if err != nil {
		return Constraint{}, err
	}

	return NewInRange(h, expr, FieldOf(form.InrangeMax)), nil
}

// generatePermutation resolves the "from" names against the symbol table
// (picking up whatever module/alias they actually denote) and emits the
// declarative Permutation constraint; the Sorted computation driving actual
// witness generation was already registered by definePermutation.
func generatePermutation(st *SymbolTable, scopeId int, form ast.AstNode) (Constraint, error) {
	scope := st.Scope(scopeId)
	h := NewHandle(scope.Module, "permutation")

	froms := make([]Handle, len(form.PermFrom))

	for i, name := range form.PermFrom {
		entry, handle, err := st.ResolveSymbol(scopeId, name)
		if err != nil {
			return Constraint{}, err
		}

		if entry.Node.Tag != NodeColumn {
			return Constraint{}, NewTypeError(name, []Type{NewColumn(Any)}, entry.Node.Type)
		}

		froms[i] = handle
	}

	tos := make([]Handle, len(form.PermTo))
	for i, name := range form.PermTo {
		tos[i] = NewHandle(scope.Module, name)
	}

	return NewPermutation(h, froms, tos, form.PermSigns), nil
}

func drainPendingComposites(r *Reducer, st *SymbolTable) error {
	for _, pc := range st.PendingComposites {
		exprScope := st.Derived(pc.Scope, st.Mangle("composite"), false, false)

		expr, err := r.Reduce(pc.Expr, exprScope)
		if err != nil {
			return err
		}

		st.RegisterComputation(NewComposite(pc.Handle, expr))
		st.EditSymbol(pc.Scope, pc.Handle.Name, func(e *SymbolEntry) {
			e.Node.ColumnKind = KindComposite
		})
	}

	return nil
}

func drainPendingInterleaved(st *SymbolTable) error {
	for _, pi := range st.PendingInterleaved {
		froms := make([]Handle, len(pi.Froms))

		for i, name := range pi.Froms {
			entry, handle, err := st.ResolveSymbol(pi.Scope, name)
			if err != nil {
				return err
			}

			if entry.Node.Tag != NodeColumn {
				return NewTypeError(name, []Type{NewColumn(Any)}, entry.Node.Type)
			}

			froms[i] = handle
		}

		st.RegisterComputation(NewInterleaved(pi.Handle, froms))
		st.EditSymbol(pi.Scope, pi.Handle.Name, func(e *SymbolEntry) {
			e.Node.ColumnKind = KindInterleaved
		})
	}

	return nil
}
