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

	"github.com/pkg/errors"
)

// CompileErrorKind discriminates the categories of CompileError from
// spec.md §7.
type CompileErrorKind uint8

// The recognised CompileError categories.
const (
	KindTypeError CompileErrorKind = iota
	KindArityError
	KindUnknownSymbol
	KindUnknownFunction
	KindCircularAlias
	KindDuplicateDefinition
	KindNotAnArray
	KindPureContextViolation
	KindCardinalityMismatch
)

func (k CompileErrorKind) String() string {
	switch k {
	case KindTypeError:
		return "TypeError"
	case KindArityError:
		return "ArityError"
	case KindUnknownSymbol:
		return "UnknownSymbol"
	case KindUnknownFunction:
		return "UnknownFunction"
	case KindCircularAlias:
		return "CircularAlias"
	case KindDuplicateDefinition:
		return "DuplicateDefinition"
	case KindNotAnArray:
		return "NotAnArray"
	case KindPureContextViolation:
		return "PureContextViolation"
	case KindCardinalityMismatch:
		return "CardinalityMismatch"
	default:
		return "CompileError"
	}
}

// CompileError is raised by the definitions, compile-time, generator, and
// finalization passes (spec.md §7).  It carries an optional source location
// and is always fatal to the pass that raised it.
type CompileError struct {
	Kind    CompileErrorKind
	Subject string // the symbol/function/expr name this error concerns
	Message string
	Line    int // 0 if unknown
	Col     int // 0 if unknown
	cause   error
}

func (e *CompileError) Error() string {
	loc := ""
	if e.Line > 0 {
		loc = fmt.Sprintf("at line %d col %d: ", e.Line, e.Col)
	}

	return fmt.Sprintf("%s%s: %s", loc, e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *CompileError) Unwrap() error { return e.cause }

// WithContext wraps this error with an enclosing-form description, matching
// the context chains the original implementation attaches (e.g. "while
// defining permutation", "evaluating call to <fn>"), per SPEC_FULL.md §12.
func (e *CompileError) WithContext(context string) error {
	return errors.WithMessage(e, context)
}

// NewTypeError constructs a TypeError naming the builtin, the expected
// argument-type alternatives, and what was actually observed.
func NewTypeError(fn string, expected []Type, got Type) *CompileError {
	return &CompileError{
		Kind:    KindTypeError,
		Subject: fn,
		Message: fmt.Sprintf("%s expected one of %v, got %s", fn, expected, got),
	}
}

// NewArityError constructs an ArityError.
func NewArityError(fn string, expected Arity, got int) *CompileError {
	return &CompileError{
		Kind:    KindArityError,
		Subject: fn,
		Message: fmt.Sprintf("%s expects %s, got %d argument(s)", fn, expected, got),
	}
}

// NewUnknownSymbol constructs an UnknownSymbol error.
func NewUnknownSymbol(name string) *CompileError {
	return &CompileError{Kind: KindUnknownSymbol, Subject: name, Message: fmt.Sprintf("unknown symbol %q", name)}
}

// NewUnknownFunction constructs an UnknownFunction error.
func NewUnknownFunction(name string) *CompileError {
	return &CompileError{Kind: KindUnknownFunction, Subject: name, Message: fmt.Sprintf("unknown function %q", name)}
}

// NewCircularAlias constructs a CircularAlias error.
func NewCircularAlias(name string) *CompileError {
	return &CompileError{Kind: KindCircularAlias, Subject: name, Message: fmt.Sprintf("circular alias involving %q", name)}
}

// NewDuplicateDefinition constructs a DuplicateDefinition error.
func NewDuplicateDefinition(name string) *CompileError {
	return &CompileError{Kind: KindDuplicateDefinition, Subject: name, Message: fmt.Sprintf("%q already defined", name)}
}

// NewNotAnArray constructs a NotAnArray error.
func NewNotAnArray(name string) *CompileError {
	return &CompileError{Kind: KindNotAnArray, Subject: name, Message: fmt.Sprintf("%q is not an array column", name)}
}

// NewPureContextViolation constructs a PureContextViolation error.
func NewPureContextViolation(name string) *CompileError {
	return &CompileError{
		Kind:    KindPureContextViolation,
		Subject: name,
		Message: fmt.Sprintf("column %q referenced in pure context", name),
	}
}

// NewCardinalityMismatch constructs a CardinalityMismatch error.
func NewCardinalityMismatch(a, b int) *CompileError {
	return &CompileError{
		Kind:    KindCardinalityMismatch,
		Message: fmt.Sprintf("cardinality mismatch: %d vs %d", a, b),
	}
}

// Located returns a copy of this error with a source location attached.
func (e *CompileError) Located(line, col int) *CompileError {
	cp := *e
	cp.Line = line
	cp.Col = col

	return &cp
}

// UnusedSymbolWarning is a non-fatal warning (spec.md §7): a Final symbol
// whose `used` flag was never set.
type UnusedSymbolWarning struct {
	Handle Handle
}

func (w UnusedSymbolWarning) String() string {
	return fmt.Sprintf("unused symbol %s", w.Handle)
}
