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
package compute

import "fmt"

// RuntimeErrorKind discriminates the categories of runtime error the compute
// engine can raise while materializing a trace (spec.md §5).
type RuntimeErrorKind uint8

// The recognised runtime error categories.
const (
	// KindEmptyColumn is raised when an atomic column required by a
	// computation has no values supplied for it at all.
	KindEmptyColumn RuntimeErrorKind = iota
	// KindIncoherentLengths is raised when two columns of the same module
	// disagree on row count.
	KindIncoherentLengths
	// KindUnknownBuiltin is raised when the interpreter encounters a Funcall
	// node naming a builtin it has no evaluation rule for.
	KindUnknownBuiltin
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case KindEmptyColumn:
		return "EmptyColumn"
	case KindIncoherentLengths:
		return "IncoherentLengths"
	case KindUnknownBuiltin:
		return "UnknownBuiltin"
	default:
		return "RuntimeError"
	}
}

// RuntimeError is raised by the compute engine (spec.md §5); unlike a
// CompileError it concerns a concrete trace, not the constraint source.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Subject string
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newEmptyColumn(name string) *RuntimeError {
	return &RuntimeError{Kind: KindEmptyColumn, Subject: name, Message: fmt.Sprintf("column %q has no values", name)}
}

func newIncoherentLengths(module string, a, b int) *RuntimeError {
	return &RuntimeError{
		Kind: KindIncoherentLengths, Subject: module,
		Message: fmt.Sprintf("module %q: incoherent lengths %d vs %d", module, a, b),
	}
}

func newUnknownBuiltin(name string) *RuntimeError {
	return &RuntimeError{Kind: KindUnknownBuiltin, Subject: name, Message: fmt.Sprintf("no evaluation rule for %q", name)}
}
