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

// Package trace ingests an externally-supplied atomic-column trace (the
// input half of the witness format spec.md §6 defines for output) into the
// form the compute engine consumes.
package trace

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/pkg/errors"

	bls12377 "github.com/corsetlang/corset/field/bls12-377"
	"github.com/corsetlang/corset/pkg/compute"
)

// File is the on-disk shape of an input trace: module name -> column name ->
// hex-encoded field values, one per row.
type File map[string]map[string][]string

// Parse decodes a JSON trace file into RawColumns, ready for
// compute.Engine.ComputeAll.
func Parse(data []byte) (compute.RawColumns, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.WithMessage(err, "while parsing trace file")
	}

	return decode(f)
}

// bls12377Element names the field element type concisely for this file's
// local helpers.
type bls12377Element = bls12377.Element

func decode(f File) (compute.RawColumns, error) {
	out := make(compute.RawColumns, len(f))

	for module, cols := range f {
		out[module] = make(map[string][]bls12377Element, len(cols))

		for name, hexValues := range cols {
			values := make([]bls12377Element, len(hexValues))

			for i, hv := range hexValues {
				v, err := parseHex(hv)
				if err != nil {
					return nil, errors.WithMessagef(err, "column %s.%s row %d", module, name, i)
				}

				values[i] = v
			}

			out[module][name] = values
		}
	}

	return out, nil
}

func parseHex(s string) (bls12377Element, error) {
	s = strings.TrimPrefix(s, "0x")

	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return bls12377Element{}, errors.Errorf("invalid hex value %q", s)
	}

	return bls12377.NewElementFromBigInt(n), nil
}
