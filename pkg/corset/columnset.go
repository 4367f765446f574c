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

// Column is a single entry in a ColumnSet: a column's static metadata, as
// opposed to its (trace-dependent) values.
type Column struct {
	Handle       Handle
	Magma        Magma
	Kind         Kind
	PaddingValue *FieldElement
	Base         Base
	// IsArray is set, and ArrayIndex holds the slot index, for a column that
	// originated as one slot of an ArrayColumn (e.g. "arr_2" has ArrayIndex
	// 2); both are zero-valued otherwise.
	ArrayIndex int
	IsArray    bool
}

// ColumnSet is the mapping module → (ordered name → column index) plus a
// flat vector of columns, as described by spec.md §3.  Constants live
// alongside it since both are produced by the same finalization sweep.
type ColumnSet struct {
	// modules maps a module name to an ordered name→index map, preserving
	// declaration order via names slice.
	modules map[string]*moduleColumns
	moduleOrder []string
	// columns is the flat backing array; Column.Handle.Id() indexes into it.
	columns []Column
	// Constants maps a (module, name) key to its resolved field value.
	Constants map[Handle]FieldElement
	// Computations is the ordered list of registered computations.
	Computations []Computation
	// rawLen records each module's raw (pre-padding) trace length, set on
	// first touch by the compute engine.
	rawLen map[string]int
	// spillCache memoizes spilling(m) per module (spec.md §4.6).
	spillCache map[string]int
}

type moduleColumns struct {
	names []string
	index map[string]int // name -> index into ColumnSet.columns
}

// NewColumnSet constructs an empty ColumnSet.
func NewColumnSet() *ColumnSet {
	return &ColumnSet{
		modules:   make(map[string]*moduleColumns),
		columns:   nil,
		Constants: make(map[Handle]FieldElement),
		rawLen:    make(map[string]int),
		spillCache: make(map[string]int),
	}
}

func (cs *ColumnSet) moduleFor(module string) *moduleColumns {
	mc, ok := cs.modules[module]
	if !ok {
		mc = &moduleColumns{index: make(map[string]int)}
		cs.modules[module] = mc
		cs.moduleOrder = append(cs.moduleOrder, module)
	}

	return mc
}

// Add registers a new column, assigning it the next available id.  Returns
// the handle with its id attached.  Panics if (module, name) is already
// registered — callers are expected to check HasColumn first.
func (cs *ColumnSet) Add(col Column) Handle {
	mc := cs.moduleFor(col.Handle.Module)
	if _, ok := mc.index[col.Handle.Name]; ok {
		panic(fmt.Sprintf("column %s already registered", col.Handle))
	}

	id := uint(len(cs.columns))
	h := col.Handle.Key().WithId(id)
	col.Handle = h
	cs.columns = append(cs.columns, col)
	mc.index[col.Handle.Name] = int(id)
	mc.names = append(mc.names, col.Handle.Name)

	return h
}

// HasColumn checks whether (module, name) is already registered.
func (cs *ColumnSet) HasColumn(module, name string) bool {
	mc, ok := cs.modules[module]
	if !ok {
		return false
	}

	_, ok = mc.index[name]

	return ok
}

// IdOf resolves a handle's numeric id from (module, name), attaching it to a
// copy of the given handle.  Panics if the handle does not resolve to a
// registered column (spec.md §3's core invariant).
func (cs *ColumnSet) IdOf(h Handle) Handle {
	mc, ok := cs.modules[h.Module]
	if !ok {
		panic(fmt.Sprintf("unresolved handle %s", h))
	}

	idx, ok := mc.index[h.Name]
	if !ok {
		panic(fmt.Sprintf("unresolved handle %s", h))
	}

	return h.Key().WithId(uint(idx))
}

// ColumnAt returns the column at the given flat index.
func (cs *ColumnSet) ColumnAt(id uint) Column {
	return cs.columns[id]
}

// Column returns the column registered under (module, name), if any.
func (cs *ColumnSet) Column(module, name string) (Column, bool) {
	mc, ok := cs.modules[module]
	if !ok {
		return Column{}, false
	}

	idx, ok := mc.index[name]
	if !ok {
		return Column{}, false
	}

	return cs.columns[idx], true
}

// Columns returns every column, in id order.
func (cs *ColumnSet) Columns() []Column {
	return cs.columns
}

// ColumnsInModule returns the columns of one module, in declaration order.
func (cs *ColumnSet) ColumnsInModule(module string) []Column {
	mc, ok := cs.modules[module]
	if !ok {
		return nil
	}

	out := make([]Column, len(mc.names))
	for i, name := range mc.names {
		out[i] = cs.columns[mc.index[name]]
	}

	return out
}

// Modules returns every module name, in first-declaration order.
func (cs *ColumnSet) Modules() []string {
	return cs.moduleOrder
}

// RawLen returns the recorded raw length of a module, or (0, false) if not
// yet set.
func (cs *ColumnSet) RawLen(module string) (int, bool) {
	n, ok := cs.rawLen[module]
	return n, ok
}

// SetRawLen records (or validates) a module's raw trace length.  Returns an
// error if a different length was already recorded (spec.md §7's
// IncoherentLengths).
func (cs *ColumnSet) SetRawLen(module string, n int) error {
	if existing, ok := cs.rawLen[module]; ok && existing != n {
		return fmt.Errorf("incoherent lengths for module %q: %d vs %d", module, existing, n)
	}

	cs.rawLen[module] = n

	return nil
}

// CachedSpilling returns a module's memoized spilling value, if computed.
func (cs *ColumnSet) CachedSpilling(module string) (int, bool) {
	n, ok := cs.spillCache[module]
	return n, ok
}

// SetCachedSpilling memoizes a module's spilling value.
func (cs *ColumnSet) SetCachedSpilling(module string, n int) {
	cs.spillCache[module] = n
}
