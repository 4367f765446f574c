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

// Base is a formatting hint attached to a column by the source program.  The
// compiler preserves it unchanged through every pass but never interprets it
// (spec.md §6); it is carried solely so a witness writer or pretty-printer
// downstream can use it.
type Base uint8

// The recognised Base hints.
const (
	BaseDec Base = iota
	BaseHex
	BaseBin
	BaseBytes
	BaseOpCode
)

func (b Base) String() string {
	switch b {
	case BaseDec:
		return "dec"
	case BaseHex:
		return "hex"
	case BaseBin:
		return "bin"
	case BaseBytes:
		return "bytes"
	case BaseOpCode:
		return "opcode"
	default:
		return "dec"
	}
}
