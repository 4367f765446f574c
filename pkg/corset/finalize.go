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

import "fmt"

// Finalize is the fourth and last compiler pass (spec.md §4.7): every
// symbol-table entry is visited into the flat ColumnSet/Constants, every
// computation is copied out of the root symbol table, constraints are
// sorted by decreasing Size(), and every Handle anywhere in the result has
// its numeric column id swept in via ColumnSet.IdOf.
func Finalize(st *SymbolTable, constraints []Constraint) (*CompiledSchema, error) {
	cs := NewColumnSet()

	populateColumns(st, cs)

	cs.Computations = append(cs.Computations, st.Computations...)

	targets := make(map[Handle]bool)
	for _, c := range cs.Computations {
		for _, h := range c.Targets() {
			targets[h.Key()] = true
		}
	}

	warnings := collectUnusedWarnings(st, targets)

	sortConstraintsBySize(constraints)

	resolved := make([]Constraint, len(constraints))
	for i, c := range constraints {
		resolved[i] = rewriteConstraintIds(c, cs)
	}

	resolvedComputations := make([]Computation, len(cs.Computations))
	for i, c := range cs.Computations {
		resolvedComputations[i] = rewriteComputationIds(c, cs)
	}

	cs.Computations = resolvedComputations

	return &CompiledSchema{Columns: cs, Constraints: resolved, Warnings: warnings}, nil
}

func populateColumns(st *SymbolTable, cs *ColumnSet) {
	st.VisitMut(func(scope *Scope, name string, entry *SymbolEntry) {
		// Declarations live only in the root and module scopes; entries of
		// derived scopes are function-parameter, let and for bindings.
		if scope.parent != -1 && !scope.Closed {
			return
		}

		if entry.IsConst {
			cs.Constants[NewHandle(scope.Module, name)] = entry.ConstField
			return
		}

		switch entry.Node.Tag {
		case NodeColumn:
			cs.Add(Column{
				Handle:       NewHandle(scope.Module, name),
				Magma:        entry.Node.Type.Magma,
				Kind:         entry.Node.ColumnKind,
				PaddingValue: entry.Node.PaddingValue,
				Base:         entry.Node.Base,
			})
		case NodeArrayColumn:
			for _, idx := range entry.Node.Domain {
				cs.Add(Column{
					Handle:     NewHandle(scope.Module, fmt.Sprintf("%s_%d", name, idx)),
					Magma:      entry.Node.Type.Magma,
					Kind:       KindAtomic,
					Base:       entry.Node.Base,
					ArrayIndex: idx,
					IsArray:    true,
				})
			}
		}
	})
}

func collectUnusedWarnings(st *SymbolTable, targets map[Handle]bool) []UnusedSymbolWarning {
	var warnings []UnusedSymbolWarning

	st.VisitMut(func(scope *Scope, name string, entry *SymbolEntry) {
		if entry.Used {
			return
		}

		h := NewHandle(scope.Module, name)
		if targets[h.Key()] {
			return
		}

		warnings = append(warnings, UnusedSymbolWarning{Handle: h})
	})

	return warnings
}

func resolveNodeIds(n Node, cs *ColumnSet) Node {
	switch n.Tag {
	case NodeColumn, NodeArrayColumn:
		n.Handle = cs.IdOf(n.Handle)
		return n
	default:
		if len(n.Args) > 0 {
			args := make([]Node, len(n.Args))
			for i, a := range n.Args {
				args[i] = resolveNodeIds(a, cs)
			}

			n.Args = args
		}

		return n
	}
}

func rewriteConstraintIds(c Constraint, cs *ColumnSet) Constraint {
	switch c.Tag {
	case ConstraintVanishes:
		c.Expr = resolveNodeIds(c.Expr, cs)
	case ConstraintPlookup:
		c.Including = resolveNodeSlice(c.Including, cs)
		c.Included = resolveNodeSlice(c.Included, cs)
	case ConstraintPermutation:
		c.From = resolveHandleSlice(c.From, cs)
		c.To = resolveHandleSlice(c.To, cs)
	case ConstraintInRange:
		c.Expr = resolveNodeIds(c.Expr, cs)
	}

	return c
}

func rewriteComputationIds(c Computation, cs *ColumnSet) Computation {
	switch c.Tag {
	case ComputationComposite:
		c.Target = cs.IdOf(c.Target)
		c.Exp = resolveNodeIds(c.Exp, cs)
	case ComputationInterleaved:
		c.Target = cs.IdOf(c.Target)
		c.Froms = resolveHandleSlice(c.Froms, cs)
	case ComputationSorted:
		c.SortFroms = resolveHandleSlice(c.SortFroms, cs)
		c.SortTos = resolveHandleSlice(c.SortTos, cs)
	case ComputationCyclicFrom:
		c.CyclicTarget = cs.IdOf(c.CyclicTarget)
		c.CyclicFroms = resolveHandleSlice(c.CyclicFroms, cs)
	case ComputationSortingConstraints:
		c.Ats = resolveHandleSlice(c.Ats, cs)
		c.Eq = cs.IdOf(c.Eq)
		c.Delta = cs.IdOf(c.Delta)

		var bytes [16]Handle
		for i, h := range c.DeltaBytes {
			bytes[i] = cs.IdOf(h)
		}

		c.DeltaBytes = bytes
		c.SCFroms = resolveHandleSlice(c.SCFroms, cs)
		c.SCSorted = resolveHandleSlice(c.SCSorted, cs)
	}

	return c
}

func resolveNodeSlice(ns []Node, cs *ColumnSet) []Node {
	out := make([]Node, len(ns))
	for i, n := range ns {
		out[i] = resolveNodeIds(n, cs)
	}

	return out
}

func resolveHandleSlice(hs []Handle, cs *ColumnSet) []Handle {
	out := make([]Handle, len(hs))
	for i, h := range hs {
		out[i] = cs.IdOf(h)
	}

	return out
}
