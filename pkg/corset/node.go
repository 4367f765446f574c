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
	"fmt"
	"math/big"

	bls12377 "github.com/corsetlang/corset/field/bls12-377"
)

// FieldElement is the field used throughout the compiler: the scalar field
// of BLS12-377, matching the teacher's own choice (github.com/consensys/
// gnark-crypto/ecc/bls12-377/fr) everywhere a column value is materialized.
type FieldElement = bls12377.Element

// FieldOf reduces an arbitrary big.Int into FieldElement, per spec.md §4.2's
// "field_of(n)".
func FieldOf(n *big.Int) FieldElement {
	return bls12377.NewElementFromBigInt(n)
}

// Kind identifies how a column is produced.
type Kind uint8

// The recognised column kinds (spec.md §3).
const (
	// KindAtomic columns are supplied externally by a trace.
	KindAtomic Kind = iota
	// KindPhantom columns are derived by permutation/interleaving machinery.
	// Permutation targets stay Phantom (a Sorted computation fills them);
	// composite and interleaved declarations are Phantom only until the
	// generator pass patches their kind.
	KindPhantom
	// KindComposite columns are derived from an IR expression.
	KindComposite
	// KindInterleaved columns are derived by round-robin interleaving of
	// other handles.
	KindInterleaved
)

// NodeTag discriminates the variants of Node.
type NodeTag uint8

// The recognised Node variants (spec.md §3).
const (
	NodeConst NodeTag = iota
	NodeColumn
	NodeArrayColumn
	NodeList
	NodeFuncall
	NodeVoid
)

// Node is the typed algebraic IR expression tree produced by the reducer.
// Exactly one of the tag-specific fields is meaningful, selected by Tag.
type Node struct {
	Tag  NodeTag
	Type Type

	// NodeConst
	ConstValue *big.Int
	ConstField FieldElement

	// NodeColumn
	Handle        Handle
	ColumnKind    Kind
	PaddingValue  *FieldElement
	Base          Base
	ShiftOffset   int  // non-zero only when this node denotes a `shift`ed read
	HasShift      bool

	// NodeArrayColumn
	Domain []int

	// NodeList / Funcall args
	Args []Node

	// NodeFuncall
	Builtin string
}

// NewConst constructs a Const(n, field_of(n)) node.  Its type is
// Scalar(Boolean) iff n is 0 or 1, else Scalar(Integer) (spec.md §4.2).
func NewConst(n *big.Int) Node {
	t := NewScalar(Integer)
	if n.IsInt64() && (n.Int64() == 0 || n.Int64() == 1) {
		t = NewScalar(Boolean)
	}

	return Node{Tag: NodeConst, Type: t, ConstValue: n, ConstField: FieldOf(n)}
}

// NewColumnNode constructs a Column reference node.
func NewColumnNode(h Handle, kind Kind, magma Magma, base Base) Node {
	return Node{Tag: NodeColumn, Type: NewColumn(magma), Handle: h, ColumnKind: kind, Base: base}
}

// NewArrayColumnNode constructs an ArrayColumn reference node.
func NewArrayColumnNode(h Handle, domain []int, magma Magma, base Base) Node {
	return Node{Tag: NodeArrayColumn, Type: NewArrayColumn(magma), Handle: h, Domain: domain, Base: base}
}

// NewList constructs a List node, flattening nothing itself (flattening is
// the responsibility of the `begin` lowering, spec.md §4.3).
func NewList(elems []Node) Node {
	t := NewListType(Boolean)
	if len(elems) > 0 {
		magmas := make([]Type, len(elems))
		for i, e := range elems {
			magmas[i] = e.Type
		}

		t = Type{ShapeList, MaxAll(magmas).Magma}
	}

	return Node{Tag: NodeList, Type: t, Args: elems}
}

// NewFuncall constructs a Funcall node with an already-computed result type.
func NewFuncall(builtin string, args []Node, result Type) Node {
	return Node{Tag: NodeFuncall, Type: result, Builtin: builtin, Args: args}
}

// VoidNode is the canonical Void node.
var VoidNode = Node{Tag: NodeVoid, Type: Void}

// Shifted returns a copy of this Column node with a shift offset applied
// (spec.md §4.3's `shift` builtin).  Panics if this is not a Column node.
func (n Node) Shifted(offset int) Node {
	if n.Tag != NodeColumn {
		panic("shift applied to non-column node")
	}

	n.ShiftOffset = offset
	n.HasShift = true

	return n
}

// Walk applies f to every node in this tree, in pre-order.
func (n Node) Walk(f func(Node)) {
	f(n)

	for _, a := range n.Args {
		a.Walk(f)
	}
}

// Handles collects the set of distinct handles (by Key()) referenced
// anywhere within this expression tree.
func (n Node) Handles() []Handle {
	seen := make(map[Handle]bool)

	var out []Handle

	n.Walk(func(m Node) {
		if m.Tag == NodeColumn || m.Tag == NodeArrayColumn {
			k := m.Handle.Key()
			if !seen[k] {
				seen[k] = true

				out = append(out, m.Handle)
			}
		}
	})

	return out
}

func (n Node) String() string {
	switch n.Tag {
	case NodeConst:
		return n.ConstValue.String()
	case NodeColumn:
		if n.HasShift {
			return fmt.Sprintf("(shift %s %d)", n.Handle, n.ShiftOffset)
		}

		return n.Handle.String()
	case NodeArrayColumn:
		return fmt.Sprintf("%s%v", n.Handle, n.Domain)
	case NodeList:
		return fmt.Sprintf("(begin %v)", n.Args)
	case NodeFuncall:
		return fmt.Sprintf("(%s %v)", n.Builtin, n.Args)
	default:
		return "void"
	}
}
