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

// Package witness serializes a computed trace to the JSON wire format a
// prover consumes (spec.md §6): one entry per column, its values hex-encoded,
// prefixed with enough padding rows that every `shift` read in the
// constraint set stays in bounds without wraparound.
package witness

import (
	"encoding/json"

	bls12377 "github.com/corsetlang/corset/field/bls12-377"
	"github.com/corsetlang/corset/pkg/compute"
	"github.com/corsetlang/corset/pkg/corset"
)

// Column is one serialized column entry.
type Column struct {
	Module string   `json:"module"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// File is the top-level witness document.
type File struct {
	Columns []Column `json:"columns"`
}

// Build serializes every column of a computed trace, padding each module's
// columns on the left by that module's spilling (the largest absolute shift
// any constraint reads across that module's columns), per SPEC_FULL.md §11.2.
// A Composite column's own Trace values already cover that padding range —
// the compute engine evaluates it with wrap=false over [−spilling, N)
// (pkg/compute's computeComposite) — so those are emitted as-is; every other
// column kind is ingested/computed over only [0, N) and gets its spilling
// prefix filled in here.
func Build(schema *corset.CompiledSchema, tr *compute.Trace) (*File, error) {
	f := &File{}

	for _, module := range schema.Columns.Modules() {
		spill := compute.SpillingFor(schema, module)

		for _, col := range schema.Columns.ColumnsInModule(module) {
			raw := tr.Column(col.Handle.Id())

			var values []string

			if col.Kind == corset.KindComposite {
				values = make([]string, len(raw))
				for i, v := range raw {
					values[i] = v.HexString()
				}
			} else {
				pad := paddingValueFor(schema, col, raw)

				values = make([]string, spill+len(raw))
				for i := 0; i < spill; i++ {
					values[i] = pad.HexString()
				}

				for i, v := range raw {
					values[spill+i] = v.HexString()
				}
			}

			f.Columns = append(f.Columns, Column{Module: module, Name: col.Handle.Name, Values: values})
		}
	}

	return f, nil
}

// Marshal renders a File as indented JSON.
func Marshal(f *File) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// paddingValueFor picks the value used to fill a non-composite column's
// spilling rows (SPEC_FULL.md §11.2): an explicit padding value always wins;
// failing that, a sorting-constraints Eq column pads with 1 (two padding
// rows are trivially "equal"); any other column repeats its own first value.
func paddingValueFor(schema *corset.CompiledSchema, col corset.Column, raw []corset.FieldElement) corset.FieldElement {
	if col.PaddingValue != nil {
		return *col.PaddingValue
	}

	for _, comp := range schema.Columns.Computations {
		if comp.Tag == corset.ComputationSortingConstraints && comp.Eq.Id() == col.Handle.Id() {
			return bls12377.One()
		}
	}

	if len(raw) == 0 {
		return bls12377.Zero()
	}

	return raw[0]
}
