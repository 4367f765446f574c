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

// ArityKind discriminates the shapes an Arity can take.
type ArityKind uint8

// The recognised arity shapes (spec.md §4.3).
const (
	ArityExactly ArityKind = iota
	ArityAtLeast
	ArityAtMost
	ArityBetween
	ArityMonadic
	ArityDyadic
	ArityEven
	ArityOdd
)

// Arity describes how many arguments a builtin or user function accepts.
type Arity struct {
	Kind   ArityKind
	Lo, Hi int
}

// Exactly constructs an Arity accepting exactly n arguments.
func Exactly(n int) Arity { return Arity{ArityExactly, n, n} }

// AtLeast constructs an Arity accepting n or more arguments.
func AtLeast(n int) Arity { return Arity{ArityAtLeast, n, 0} }

// AtMost constructs an Arity accepting at most n arguments.
func AtMost(n int) Arity { return Arity{ArityAtMost, 0, n} }

// Between constructs an Arity accepting between lo and hi arguments
// (inclusive).
func Between(lo, hi int) Arity { return Arity{ArityBetween, lo, hi} }

// Monadic is the Arity of a one-argument form.
var Monadic = Arity{ArityMonadic, 1, 1}

// Dyadic is the Arity of a two-argument form.
var Dyadic = Arity{ArityDyadic, 2, 2}

// Even is the Arity accepting any non-zero even number of arguments.
var Even = Arity{Kind: ArityEven}

// Odd is the Arity accepting any odd number of arguments.
var Odd = Arity{Kind: ArityOdd}

// Accepts checks whether n arguments satisfy this arity.
func (a Arity) Accepts(n int) bool {
	switch a.Kind {
	case ArityExactly:
		return n == a.Lo
	case ArityAtLeast:
		return n >= a.Lo
	case ArityAtMost:
		return n <= a.Hi
	case ArityBetween:
		return n >= a.Lo && n <= a.Hi
	case ArityMonadic:
		return n == 1
	case ArityDyadic:
		return n == 2
	case ArityEven:
		return n > 0 && n%2 == 0
	case ArityOdd:
		return n%2 == 1
	default:
		return false
	}
}

func (a Arity) String() string {
	switch a.Kind {
	case ArityExactly:
		return fmt.Sprintf("exactly %d argument(s)", a.Lo)
	case ArityAtLeast:
		return fmt.Sprintf("at least %d argument(s)", a.Lo)
	case ArityAtMost:
		return fmt.Sprintf("at most %d argument(s)", a.Hi)
	case ArityBetween:
		return fmt.Sprintf("between %d and %d argument(s)", a.Lo, a.Hi)
	case ArityMonadic:
		return "exactly 1 argument"
	case ArityDyadic:
		return "exactly 2 arguments"
	case ArityEven:
		return "an even, non-zero number of arguments"
	default:
		return "an odd number of arguments"
	}
}

// ArgPattern is one position's set of acceptable type shapes, expressed as a
// predicate rather than an enumeration (positions like "Scalar∪Column(Any)"
// don't fit a flat list cleanly).
type ArgPattern struct {
	Describe string
	Accepts  func(Type) bool
}

func scalarOrColumn() ArgPattern {
	return ArgPattern{
		Describe: "Scalar(Any)∪Column(Any)",
		Accepts:  func(t Type) bool { return t.IsScalar() || t.IsColumn() },
	}
}

func columnAny() ArgPattern {
	return ArgPattern{Describe: "Column(Any)", Accepts: func(t Type) bool { return t.IsColumn() }}
}

func scalarAny() ArgPattern {
	return ArgPattern{Describe: "Scalar(Any)", Accepts: func(t Type) bool { return t.IsScalar() }}
}

func booleanScalarOrColumn() ArgPattern {
	return ArgPattern{
		Describe: "Scalar(Boolean)∪Column(Boolean)",
		Accepts:  func(t Type) bool { return (t.IsScalar() || t.IsColumn()) && t.Magma == Boolean },
	}
}

func arrayColumnAny() ArgPattern {
	return ArgPattern{Describe: "ArrayColumn(Any)", Accepts: func(t Type) bool { return t.IsArrayColumn() }}
}

func anyType() ArgPattern {
	return ArgPattern{Describe: "Any", Accepts: func(Type) bool { return true }}
}

func condPattern() ArgPattern {
	return ArgPattern{
		Describe: "Scalar∪Column∪List",
		Accepts:  func(t Type) bool { return t.IsScalar() || t.IsColumn() || t.IsList() },
	}
}

// Builtin describes one entry of the builtin table (spec.md §4.3): its
// arity, its per-position argument patterns (repeated for the last position
// when the builtin is variadic), and how to compute its result type from the
// (already validated) argument types.
type Builtin struct {
	Name     string
	Arity    Arity
	Patterns []ArgPattern // cycled/repeated to match actual argument count
	TypeFn   func(args []Type) Type
}

// patternAt returns the argument pattern governing position i, repeating
// the last declared pattern for variadic builtins.
func (b Builtin) patternAt(i int) ArgPattern {
	if i < len(b.Patterns) {
		return b.Patterns[i]
	}

	return b.Patterns[len(b.Patterns)-1]
}

// ValidateArity checks the argument count against this builtin's Arity,
// returning an ArityError on mismatch.
func (b Builtin) ValidateArity(n int) error {
	if !b.Arity.Accepts(n) {
		return NewArityError(b.Name, b.Arity, n)
	}

	return nil
}

// ValidateTypes matches the argument vector against the positional
// alternative sets, returning a TypeError naming the builtin, the expected
// sets, and what was observed (spec.md §4.3).
func (b Builtin) ValidateTypes(args []Type) error {
	for i, t := range args {
		p := b.patternAt(i)
		if !p.Accepts(t) {
			return NewTypeError(b.Name, nil, t).withExpectedDescription(p.Describe, t)
		}
	}

	return nil
}

func (e *CompileError) withExpectedDescription(d string, got Type) *CompileError {
	e.Message = fmt.Sprintf("%s expected %s, got %s", e.Subject, d, got)
	return e
}

// Typing returns the result type of applying this builtin to args, purely
// from their types (spec.md §4.3's `typing`).
func (b Builtin) Typing(args []Type) Type {
	if b.TypeFn == nil {
		return MaxAll(args)
	}

	return b.TypeFn(args)
}

func widenResult(args []Type) Type {
	t := MaxAll(args)
	return t.WithMagma(Widen(t.Magma))
}

// Builtins is the full table described by spec.md §4.3.
var Builtins = map[string]Builtin{
	"add": {Name: "add", Arity: AtLeast(1), Patterns: []ArgPattern{scalarOrColumn()}, TypeFn: widenResult},
	"sub": {Name: "sub", Arity: AtLeast(1), Patterns: []ArgPattern{scalarOrColumn()}, TypeFn: widenResult},
	"mul": {
		Name: "mul", Arity: AtLeast(1), Patterns: []ArgPattern{scalarOrColumn()},
		TypeFn: func(a []Type) Type { return MaxAll(a) },
	},
	"neg": {Name: "neg", Arity: Monadic, Patterns: []ArgPattern{scalarOrColumn()}, TypeFn: widenResult},
	"inv": {Name: "inv", Arity: Monadic, Patterns: []ArgPattern{columnAny()}, TypeFn: func(a []Type) Type { return a[0] }},
	"exp": {
		Name: "exp", Arity: Dyadic,
		Patterns: []ArgPattern{scalarOrColumn(), scalarAny()},
		TypeFn:   func(a []Type) Type { return a[0] },
	},
	"not": {
		Name: "not", Arity: Monadic, Patterns: []ArgPattern{booleanScalarOrColumn()},
		TypeFn: func(a []Type) Type { return a[0].WithMagma(Boolean) },
	},
	"eq": {
		Name: "eq", Arity: Dyadic, Patterns: []ArgPattern{scalarOrColumn()},
		TypeFn: func(a []Type) Type { return MaxAll(a) },
	},
	"shift": {
		Name: "shift", Arity: Dyadic, Patterns: []ArgPattern{columnAny(), scalarAny()},
		TypeFn: func(a []Type) Type { return a[0] },
	},
	"nth": {
		Name: "nth", Arity: Dyadic, Patterns: []ArgPattern{arrayColumnAny(), scalarAny()},
		TypeFn: func(a []Type) Type { return NewColumn(a[0].Magma) },
	},
	"len": {
		Name: "len", Arity: Monadic, Patterns: []ArgPattern{arrayColumnAny()},
		TypeFn: func([]Type) Type { return NewScalar(Integer) },
	},
	"begin": {
		Name: "begin", Arity: AtLeast(1), Patterns: []ArgPattern{anyType()},
		TypeFn: func(a []Type) Type { return NewListType(MaxAll(a).Magma) },
	},
	"if-zero": {
		Name: "if-zero", Arity: Between(2, 3), Patterns: []ArgPattern{condPattern(), anyType(), anyType()},
		TypeFn: ifTyping,
	},
	"if-not-zero": {
		Name: "if-not-zero", Arity: Between(2, 3), Patterns: []ArgPattern{condPattern(), anyType(), anyType()},
		TypeFn: ifTyping,
	},
}

func ifTyping(a []Type) Type {
	if len(a) == 2 {
		return a[1]
	}

	return Max(a[1], a[2])
}
