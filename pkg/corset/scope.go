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

import "github.com/corsetlang/corset/pkg/ast"

// PendingComposite records a not-yet-reduced composite column's defining
// expression, stashed by the definitions pass for the generator pass to
// reduce once every column and constant is in scope (spec.md §4.4/§4.6).
type PendingComposite struct {
	Handle Handle
	Scope  int
	Expr   ast.AstNode
}

// PendingInterleaved records a not-yet-resolved interleaved column's source
// names, stashed analogously to PendingComposite.
type PendingInterleaved struct {
	Handle Handle
	Scope  int
	Froms  []string
}

// PendingConstant records a not-yet-evaluated defconst right-hand side,
// stashed by the definitions pass for the compile-time pass to reduce.
type PendingConstant struct {
	Name  string
	Scope int
	Expr  ast.AstNode
}

// Scope is one node of the lexical scope tree (spec.md §3's SymbolTable).
// Scopes are held in a flat arena and referenced by integer id, per the
// teacher's own Design Notes (spec.md §9): "store scopes in an arena indexed
// by integer scope-id ... current_scope is just an id". This sidesteps the
// reference-cycle hazards a pointer-linked tree would need interior
// mutability to avoid.
type Scope struct {
	id     int
	parent int // -1 for the root
	// Mangled is set only on the root scope ("root"); derived scopes carry
	// their name, a Mangle-generated one for for/let/call/const scopes or the
	// module name for module scopes, in Pretty.
	Mangled string
	Pretty  string
	// Module is the module label symbols defined here are homed under.
	Module string
	// Pure marks a scope in which column references are forbidden (spec.md
	// §4.1's purity rule).
	Pure bool
	// Closed marks a module boundary: column lookups never cross upward past
	// a closed scope, though function/constant lookups do (spec.md §3).
	Closed bool

	symbols   map[string]*SymbolEntry
	functions map[string]*FunctionEntry
	aliases   map[string]string // value alias: local name -> target name
	funAlias  map[string]string // function alias: local name -> target name
}

// SymbolTable owns the arena of scopes and the (shared) computation table
// that hangs off its root (spec.md §3).
type SymbolTable struct {
	scopes  []*Scope
	mangleN int
	// Computations is the shared, root-level computation registry.
	Computations []Computation
	// AllowDups mirrors CompileSettings.AllowDups (spec.md §6).
	AllowDups bool

	// PendingComposites/PendingInterleaved hold columns whose defining
	// expression/sources were parsed but not yet reduced, filled by the
	// definitions pass and drained by the generator pass.
	PendingComposites  []PendingComposite
	PendingInterleaved []PendingInterleaved
	PendingConstants   []PendingConstant

	moduleScopes map[string]int
}

// NewSymbolTable constructs a table with a single root scope.
func NewSymbolTable(allowDups bool) *SymbolTable {
	st := &SymbolTable{AllowDups: allowDups}
	st.scopes = append(st.scopes, &Scope{
		id: 0, parent: -1, Mangled: "root", Pretty: "root",
		symbols: make(map[string]*SymbolEntry), functions: make(map[string]*FunctionEntry),
		aliases: make(map[string]string), funAlias: make(map[string]string),
	})

	return st
}

// Root returns the id of the root scope.
func (st *SymbolTable) Root() int { return 0 }

// Scope fetches a scope by id.
func (st *SymbolTable) Scope(id int) *Scope { return st.scopes[id] }

// Derived creates a new child scope of parent, per spec.md §4.1's
// `derived(parent, mangled, pretty, pure, closed)`.
func (st *SymbolTable) Derived(parent int, pretty string, pure, closed bool) int {
	id := len(st.scopes)
	p := st.scopes[parent]
	module := p.Module

	scope := &Scope{
		id: id, parent: parent, Pretty: pretty, Module: module, Pure: pure || p.Pure, Closed: closed,
		symbols: make(map[string]*SymbolEntry), functions: make(map[string]*FunctionEntry),
		aliases: make(map[string]string), funAlias: make(map[string]string),
	}
	st.scopes = append(st.scopes, scope)

	return id
}

// Mangle returns a fresh, globally-unique name built from prefix, using a
// counter local to this table (spec.md §9's Design Note moves the mangler
// off a process-wide global and into the compiler context, so independent
// compilations stay deterministic with respect to each other).
func (st *SymbolTable) Mangle(prefix string) string {
	n := st.mangleN
	st.mangleN++

	return prefixCounter(prefix, n)
}

func prefixCounter(prefix string, n int) string {
	const digits = "0123456789"

	if n == 0 {
		return prefix + "-0"
	}

	buf := make([]byte, 0, 8)
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}

	return prefix + "-" + string(buf)
}

// DeriveModule returns the closed, module-rooted scope directly under the
// root for name (spec.md §4.5's DefModule handling), creating it on first
// use. Later passes re-entering the same `defmodule` name — the generator
// pass walks the same flat form sequence the definitions pass did — must
// land back in the very same scope, so this is memoized per module name
// rather than minted fresh every call.
func (st *SymbolTable) DeriveModule(name string) int {
	if id, ok := st.moduleScopes[name]; ok {
		return id
	}

	id := len(st.scopes)
	scope := &Scope{
		id: id, parent: st.Root(), Pretty: name, Module: name, Closed: true,
		symbols: make(map[string]*SymbolEntry), functions: make(map[string]*FunctionEntry),
		aliases: make(map[string]string), funAlias: make(map[string]string),
	}
	st.scopes = append(st.scopes, scope)

	if st.moduleScopes == nil {
		st.moduleScopes = make(map[string]int)
	}

	st.moduleScopes[name] = id

	return id
}

// RegisterComputation appends a computation to the shared, root-level table.
func (st *SymbolTable) RegisterComputation(c Computation) {
	st.Computations = append(st.Computations, c)
}
