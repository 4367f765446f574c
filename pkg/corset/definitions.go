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

// RunDefinitions is the first compiler pass (spec.md §4.4): a single linear
// walk of the top-level forms that populates the root symbol table with
// every module, column, constant placeholder, alias, and function — without
// reducing a single expression. `defmodule` does not nest; it simply
// switches which module subsequent top-level forms are homed under, matching
// the surface language's own flat declaration style.
func RunDefinitions(forms []ast.AstNode, st *SymbolTable) error {
	current := st.Root()

	for _, form := range forms {
		var err error

		switch form.Tag {
		case ast.TagDefModule:
			current = st.DeriveModule(form.ModuleName)
		case ast.TagDefColumns:
			for _, col := range form.Columns {
				if err = defineColumn(st, current, col); err != nil {
					return locate(err, col.Pos)
				}
			}
		case ast.TagDefColumn:
			err = defineColumn(st, current, form)
		case ast.TagDefArrayColumn:
			err = defineArrayColumn(st, current, form)
		case ast.TagDefConsts:
			for _, c := range form.Consts {
				if err = st.InsertConstant(current, c.Name); err != nil {
					return locate(err, form.Pos)
				}

				st.PendingConstants = append(st.PendingConstants, PendingConstant{Name: c.Name, Scope: current, Expr: c.Expr})
			}
		case ast.TagDefAliases:
			for _, a := range form.Aliases {
				if err = st.InsertAlias(current, a.AliasFrom, a.AliasTo); err != nil {
					return locate(err, form.Pos)
				}
			}
		case ast.TagDefAlias:
			err = st.InsertAlias(current, form.AliasFrom, form.AliasTo)
		case ast.TagDefunAlias:
			err = st.InsertFunAlias(current, form.AliasFrom, form.AliasTo)
		case ast.TagDefun:
			err = st.InsertFunction(current, form.FunName, &FunctionEntry{
				Name: form.FunName, Params: form.FunArgs, Body: *form.FunBody, Pure: false,
			})
		case ast.TagDefpurefun:
			err = st.InsertFunction(current, form.FunName, &FunctionEntry{
				Name: form.FunName, Params: form.FunArgs, Body: *form.FunBody, Pure: true,
			})
		case ast.TagDefPermutation:
			err = definePermutation(st, current, form)
		default:
			// DefConstraint / DefPlookup / DefInrange are handled by the
			// generator pass, once every symbol is in scope.
		}

		if err != nil {
			return locate(err, form.Pos)
		}
	}

	return nil
}

func toMagma(m ast.Magma) Magma {
	switch m {
	case ast.MagmaBoolean:
		return Boolean
	case ast.MagmaNibble:
		return Nibble
	case ast.MagmaByte:
		return Byte
	case ast.MagmaInteger:
		return Integer
	default:
		return Any
	}
}

func toBase(b ast.Base) Base {
	switch b {
	case ast.BaseHex:
		return BaseHex
	case ast.BaseBin:
		return BaseBin
	case ast.BaseBytes:
		return BaseBytes
	case ast.BaseOpCode:
		return BaseOpCode
	default:
		return BaseDec
	}
}

func defineColumn(st *SymbolTable, scopeId int, col ast.AstNode) error {
	scope := st.Scope(scopeId)
	h := NewHandle(scope.Module, col.ColName)
	magma := toMagma(col.ColMagma)
	base := toBase(col.ColBase)

	var padding *FieldElement
	if col.ColPaddingValue != nil {
		p := FieldOf(col.ColPaddingValue)
		padding = &p
	}

	switch col.ColKind {
	case ast.ColumnAtomic:
		node := NewColumnNode(h, KindAtomic, magma, base)
		node.PaddingValue = padding

		return st.InsertSymbol(scopeId, col.ColName, &SymbolEntry{Node: node})
	case ast.ColumnComposite:
		node := NewColumnNode(h, KindPhantom, magma, base)
		node.PaddingValue = padding

		if err := st.InsertSymbol(scopeId, col.ColName, &SymbolEntry{Node: node}); err != nil {
			return err
		}

		st.PendingComposites = append(st.PendingComposites, PendingComposite{Handle: h, Scope: scopeId, Expr: *col.ColExpr})

		return nil
	case ast.ColumnInterleaved:
		node := NewColumnNode(h, KindPhantom, magma, base)
		node.PaddingValue = padding

		if err := st.InsertSymbol(scopeId, col.ColName, &SymbolEntry{Node: node}); err != nil {
			return err
		}

		st.PendingInterleaved = append(st.PendingInterleaved, PendingInterleaved{Handle: h, Scope: scopeId, Froms: col.ColFroms})

		return nil
	default:
		return NewTypeError(col.ColName, nil, Void)
	}
}

func defineArrayColumn(st *SymbolTable, scopeId int, col ast.AstNode) error {
	scope := st.Scope(scopeId)
	h := NewHandle(scope.Module, col.ColName)
	magma := toMagma(col.ColMagma)
	base := toBase(col.ColBase)

	node := NewArrayColumnNode(h, col.ArrDomain, magma, base)

	return st.InsertSymbol(scopeId, col.ColName, &SymbolEntry{Node: node})
}

// definePermutation defines the "to" columns of a defpermutation as fresh
// Phantom columns, then registers the induced Sorted computation binding
// them to the ("from") source columns (spec.md §4.5: permutation "to"
// columns are phantom, not Composite — only the Sorted computation targets
// them, via SortTos); the declarative Permutation constraint itself is
// emitted later by the generator pass, once the "from" handles have
// actually been resolved against the symbol table.
func definePermutation(st *SymbolTable, scopeId int, form ast.AstNode) error {
	scope := st.Scope(scopeId)

	tos := make([]Handle, len(form.PermTo))
	for i, name := range form.PermTo {
		h := NewHandle(scope.Module, name)
		node := NewColumnNode(h, KindPhantom, Integer, BaseDec)

		if err := st.InsertSymbol(scopeId, name, &SymbolEntry{Node: node}); err != nil {
			return err
		}

		tos[i] = h
	}

	froms := make([]Handle, len(form.PermFrom))
	for i, name := range form.PermFrom {
		froms[i] = NewHandle(scope.Module, name)
	}

	signs := form.PermSigns
	st.RegisterComputation(NewSorted(froms, tos, signs))

	return nil
}
