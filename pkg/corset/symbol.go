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
	"math/big"

	"github.com/corsetlang/corset/pkg/ast"
)

// SymbolEntry is what a name resolves to within a scope: either a column
// binding (Node holds a Column/ArrayColumn node, possibly still Phantom
// pending a later patch — spec.md §3's "kinds may be patched exactly once")
// or a constant binding (spec.md §4.5's defconst placeholder, filled by the
// compile-time pass).
type SymbolEntry struct {
	IsConst    bool
	Node       Node // valid when !IsConst
	ConstValue *big.Int
	ConstField FieldElement
	Used       bool
}

// FunctionEntry is a user-defined (or pure) function: unreduced body plus
// formal parameter names, bound fresh at every call site (spec.md §4.2).
type FunctionEntry struct {
	Name   string
	Params []string
	Body   ast.AstNode
	Pure   bool
}

// InsertSymbol defines name in this scope, failing if already bound unless
// AllowDups permits an identically-shaped redefinition (spec.md §4.1).
func (st *SymbolTable) InsertSymbol(scopeId int, name string, entry *SymbolEntry) error {
	scope := st.scopes[scopeId]
	if existing, ok := scope.symbols[name]; ok {
		if st.AllowDups && sameShape(existing, entry) {
			return nil
		}

		return NewDuplicateDefinition(name)
	}

	scope.symbols[name] = entry

	return nil
}

func sameShape(a, b *SymbolEntry) bool {
	if a.IsConst != b.IsConst {
		return false
	}

	if a.IsConst {
		return true // constants are re-evaluated by the compile-time pass regardless
	}

	if b.Node.PaddingValue != nil &&
		(a.Node.PaddingValue == nil || !a.Node.PaddingValue.Equal(*b.Node.PaddingValue)) {
		return false
	}

	return a.Node.Type == b.Node.Type && a.Node.ColumnKind == b.Node.ColumnKind
}

// InsertConstant defines name as a constant with a placeholder value of 0
// (spec.md §4.5); the compile-time pass later overwrites ConstValue/ConstField.
func (st *SymbolTable) InsertConstant(scopeId int, name string) error {
	return st.InsertSymbol(scopeId, name, &SymbolEntry{IsConst: true, ConstValue: big.NewInt(0), ConstField: FieldOf(big.NewInt(0))})
}

// InsertAlias records that, within this scope, name `from` should resolve as
// if it were `to` (spec.md §4.1). Cycles are only detected at resolution
// time, since at insertion time `to` may not exist yet.
func (st *SymbolTable) InsertAlias(scopeId int, from, to string) error {
	scope := st.scopes[scopeId]
	if _, ok := scope.symbols[from]; ok {
		return NewDuplicateDefinition(from)
	}

	scope.aliases[from] = to

	return nil
}

// InsertFunction defines a user (or pure) function in this scope.
func (st *SymbolTable) InsertFunction(scopeId int, name string, fn *FunctionEntry) error {
	scope := st.scopes[scopeId]
	if _, ok := scope.functions[name]; ok {
		return NewDuplicateDefinition(name)
	}

	scope.functions[name] = fn

	return nil
}

// InsertFunAlias records a function alias, analogous to InsertAlias.
func (st *SymbolTable) InsertFunAlias(scopeId int, from, to string) error {
	scope := st.scopes[scopeId]
	if _, ok := scope.functions[from]; ok {
		return NewDuplicateDefinition(from)
	}

	scope.funAlias[from] = to

	return nil
}

// ResolveSymbol implements spec.md §4.1's resolution algorithm: follow the
// alias chain (detecting cycles), then search this scope and its ancestors,
// refusing to let a Closed scope boundary expose a column to anything above
// it. On success, the symbol's Used flag is set and the fully-qualified
// Handle (scope's module + resolved name) is returned.
func (st *SymbolTable) ResolveSymbol(scopeId int, name string) (*SymbolEntry, Handle, error) {
	cur := scopeId
	crossedClosed := false

	for cur != -1 {
		scope := st.scopes[cur]

		resolved, err := followAliasChain(scope, name)
		if err != nil {
			return nil, Handle{}, err
		}

		if entry, ok := scope.symbols[resolved]; ok {
			blocked := crossedClosed && !entry.IsConst
			if !blocked {
				entry.Used = true
				return entry, NewHandle(scope.Module, resolved), nil
			}
		}

		if scope.Closed {
			crossedClosed = true
		}

		cur = scope.parent
	}

	return nil, Handle{}, NewUnknownSymbol(name)
}

func followAliasChain(scope *Scope, name string) (string, error) {
	visited := map[string]bool{name: true}
	cur := name

	for {
		target, ok := scope.aliases[cur]
		if !ok {
			return cur, nil
		}

		if visited[target] {
			return "", NewCircularAlias(name)
		}

		visited[target] = true
		cur = target
	}
}

// ResolveFunction implements spec.md §4.1's function resolution: analogous to
// ResolveSymbol but always crosses closed boundaries (functions and named
// constants are visible everywhere above their definition point).
func (st *SymbolTable) ResolveFunction(scopeId int, name string) (*FunctionEntry, error) {
	cur := scopeId

	for cur != -1 {
		scope := st.scopes[cur]

		resolved, err := followFunAliasChain(scope, name)
		if err != nil {
			return nil, err
		}

		if entry, ok := scope.functions[resolved]; ok {
			return entry, nil
		}

		cur = scope.parent
	}

	return nil, NewUnknownFunction(name)
}

func followFunAliasChain(scope *Scope, name string) (string, error) {
	visited := map[string]bool{name: true}
	cur := name

	for {
		target, ok := scope.funAlias[cur]
		if !ok {
			return cur, nil
		}

		if visited[target] {
			return "", NewCircularAlias(name)
		}

		visited[target] = true
		cur = target
	}
}

// EditSymbol applies mutator to the (already-inserted) entry bound to name in
// this exact scope, used by the generator pass to patch a Composite/
// Interleaved column's kind once its defining expression has been reduced
// (spec.md §3's "kinds may be patched exactly once").
func (st *SymbolTable) EditSymbol(scopeId int, name string, mutator func(*SymbolEntry)) bool {
	scope := st.scopes[scopeId]
	if entry, ok := scope.symbols[name]; ok {
		mutator(entry)
		return true
	}

	return false
}

// VisitMut calls f once for every (scope, name, entry) triple in the arena,
// in scope-declaration order, used by finalization (spec.md §4.7's step 1)
// to populate the ColumnSet/Constants and by the unused-symbol warning pass
// (spec.md §4.1's "used-tracking").
func (st *SymbolTable) VisitMut(f func(scope *Scope, name string, entry *SymbolEntry)) {
	for _, scope := range st.scopes {
		for name, entry := range scope.symbols {
			f(scope, name, entry)
		}
	}
}
