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

// Handle identifies a column by its (module, name) pair.  The numeric id is
// unset for most of compilation and is filled in exactly once, during
// finalization, with a stable index into the flat column array held by a
// ColumnSet.  Identity is (module, name): comparisons and map lookups by
// identity go through Key(), which drops the id, since Go's == on two Handle
// values also compares the id.  The id is a late-bound lookup cache and must
// never be consulted before finalization has run.
type Handle struct {
	Module string
	Name   string
	// id is -1 until assigned by ColumnSet.IdOf during finalization.
	id int
}

// NewHandle constructs an unresolved handle (no id assigned yet).
func NewHandle(module, name string) Handle {
	return Handle{module, name, -1}
}

// HasId checks whether this handle has had a numeric column id assigned.
func (h Handle) HasId() bool {
	return h.id >= 0
}

// Id returns the assigned numeric column id.  Panics if unassigned.
func (h Handle) Id() uint {
	if h.id < 0 {
		panic(fmt.Sprintf("handle %s has no assigned id", h))
	}

	return uint(h.id)
}

// WithId returns a copy of this handle with the given numeric id attached.
func (h Handle) WithId(id uint) Handle {
	h.id = int(id)
	return h
}

// Key returns the (module, name) pair used for equality and map lookups;
// the id is deliberately excluded.
func (h Handle) Key() Handle {
	return Handle{h.Module, h.Name, -1}
}

func (h Handle) String() string {
	return fmt.Sprintf("%s.%s", h.Module, h.Name)
}
