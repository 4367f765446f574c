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

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	bls12377 "github.com/corsetlang/corset/field/bls12-377"
	"github.com/corsetlang/corset/pkg/corset"
)

// Trace holds one column's worth of materialized values per registered
// column id, in the order given by the compiled schema's ColumnSet (spec.md
// §3, §5).
type Trace struct {
	schema  *corset.CompiledSchema
	columns [][]corset.FieldElement
}

// NewTrace allocates an (empty) trace sized to schema.
func NewTrace(schema *corset.CompiledSchema) *Trace {
	return &Trace{schema: schema, columns: make([][]corset.FieldElement, len(schema.Columns.Columns()))}
}

// Column returns the materialized values for a column id.
func (t *Trace) Column(id uint) []corset.FieldElement {
	return t.columns[id]
}

// SetColumn installs the materialized values for a column id.
func (t *Trace) SetColumn(id uint, values []corset.FieldElement) {
	t.columns[id] = values
}

// Engine computes every derived column of a CompiledSchema over a set of
// externally-supplied atomic columns (spec.md §5).
type Engine struct {
	Schema *corset.CompiledSchema
}

// NewEngine constructs an Engine bound to a compiled schema.
func NewEngine(schema *corset.CompiledSchema) *Engine {
	return &Engine{Schema: schema}
}

// RawColumns is the atomic-column input to ComputeAll: module name -> column
// name -> externally supplied values (spec.md §6's trace ingestion format).
type RawColumns map[string]map[string][]corset.FieldElement

// ComputeAll ingests the atomic columns, then runs every registered
// computation in declaration order (the teacher's own pkg/util.ParExec
// enforces exactly this kind of sequential, dependency-respecting ordering
// across a worklist; see parallel.go), filling in every derived column. A
// computation that fails is logged and skipped rather than aborting the
// whole run, so every failure a trace has appears in the log; the returned
// error reports how many computations failed and wraps the first failure
// (spec.md §5's "continue on failure").
func (e *Engine) ComputeAll(raw RawColumns) (*Trace, error) {
	tr := NewTrace(e.Schema)

	if err := e.ingestAtomic(tr, raw); err != nil {
		return nil, err
	}

	var failures []error

	for _, comp := range e.Schema.Columns.Computations {
		if err := e.runComputation(tr, comp); err != nil {
			log.WithError(err).WithField("computation", comp.Tag).Warn("computation failed; continuing")
			failures = append(failures, err)
		}
	}

	if len(failures) > 0 {
		return tr, fmt.Errorf("%d computation(s) failed: %w", len(failures), failures[0])
	}

	return tr, nil
}

func (e *Engine) ingestAtomic(tr *Trace, raw RawColumns) error {
	for _, module := range e.Schema.Columns.Modules() {
		cols := e.Schema.Columns.ColumnsInModule(module)

		length := -1

		for _, col := range cols {
			if col.Kind != corset.KindAtomic {
				continue
			}

			values, ok := raw[module][col.Handle.Name]
			if !ok || len(values) == 0 {
				return newEmptyColumn(col.Handle.String())
			}

			if length == -1 {
				length = len(values)
			} else if len(values) != length {
				return newIncoherentLengths(module, length, len(values))
			}

			tr.SetColumn(col.Handle.Id(), values)
		}

		if length >= 0 {
			if err := e.Schema.Columns.SetRawLen(module, length); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *Engine) runComputation(tr *Trace, comp corset.Computation) error {
	switch comp.Tag {
	case corset.ComputationComposite:
		return computeComposite(e.Schema, tr, comp)
	case corset.ComputationInterleaved:
		return computeInterleaved(e.Schema, tr, comp)
	case corset.ComputationSorted:
		return computeSorted(e.Schema, tr, comp)
	case corset.ComputationCyclicFrom:
		return computeCyclicFrom(e.Schema, tr, comp)
	case corset.ComputationSortingConstraints:
		return computeSortingConstraints(e.Schema, tr, comp)
	default:
		return fmt.Errorf("unhandled computation tag %v", comp.Tag)
	}
}

// columnOffset returns how far a column's physical storage is shifted from
// row 0: a Composite column stores its own [−spilling, N) padding range
// (computeComposite), so its row 0 sits at physical index spilling; every
// other column kind stores row 0 at physical index 0.
func columnOffset(schema *corset.CompiledSchema, h corset.Handle) int {
	col := schema.Columns.ColumnAt(h.Id())
	if col.Kind != corset.KindComposite {
		return 0
	}

	return SpillingFor(schema, col.Handle.Module)
}

// evalNode interprets an already id-resolved expression tree at one logical
// row of a module's trace (spec.md §5), where row may be negative while
// evaluating a composite's own padding range. Column reads use wrap=false
// (spec.md §9, Property 10): a logical row outside the column's own bounds —
// whether from a `shift` or simply a row before the column starts — yields
// the field zero rather than wrapping around.
func evalNode(n corset.Node, tr *Trace, row int) (corset.FieldElement, error) {
	switch n.Tag {
	case corset.NodeConst:
		return n.ConstField, nil
	case corset.NodeColumn:
		col := tr.Column(n.Handle.Id())
		if len(col) == 0 {
			return corset.FieldElement{}, newEmptyColumn(n.Handle.String())
		}

		logicalRow := row
		if n.HasShift {
			logicalRow = row + n.ShiftOffset
		}

		idx := logicalRow + columnOffset(tr.schema, n.Handle)

		if idx < 0 || idx >= len(col) {
			return bls12377.Zero(), nil
		}

		return col[idx], nil
	case corset.NodeList:
		return evalList(n, tr, row)
	case corset.NodeFuncall:
		return evalFuncall(n, tr, row)
	default:
		return bls12377.Zero(), nil
	}
}

func evalList(n corset.Node, tr *Trace, row int) (corset.FieldElement, error) {
	result := bls12377.Zero()

	for _, a := range n.Args {
		v, err := evalNode(a, tr, row)
		if err != nil {
			return corset.FieldElement{}, err
		}

		result = v
	}

	return result, nil
}

func evalFuncall(n corset.Node, tr *Trace, row int) (corset.FieldElement, error) {
	args := make([]corset.FieldElement, len(n.Args))

	for i, a := range n.Args {
		v, err := evalNode(a, tr, row)
		if err != nil {
			return corset.FieldElement{}, err
		}

		args[i] = v
	}

	switch n.Builtin {
	case "add":
		acc := args[0]
		for _, v := range args[1:] {
			acc = acc.Add(v)
		}

		return acc, nil
	case "sub":
		acc := args[0]
		for _, v := range args[1:] {
			acc = acc.Sub(v)
		}

		return acc, nil
	case "mul":
		acc := args[0]
		for _, v := range args[1:] {
			acc = acc.Mul(v)
		}

		return acc, nil
	case "neg":
		return args[0].Neg(), nil
	case "inv":
		return args[0].Inverse(), nil
	case "if-zero":
		if args[0].IsZero() {
			return args[1], nil
		} else if len(args) == 3 {
			return args[2], nil
		}

		return bls12377.Zero(), nil
	case "if-not-zero":
		if !args[0].IsZero() {
			return args[1], nil
		} else if len(args) == 3 {
			return args[2], nil
		}

		return bls12377.Zero(), nil
	default:
		return corset.FieldElement{}, newUnknownBuiltin(n.Builtin)
	}
}

