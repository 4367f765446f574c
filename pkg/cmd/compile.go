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
package cmd

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/corsetlang/corset/pkg/ast"
	"github.com/corsetlang/corset/pkg/corset"
)

// compileCmd loads a pre-parsed AST (the token set pkg/ast defines — this
// repository does not include a concrete-syntax parser, spec.md §6) and runs
// it through all four compiler passes, reporting the resulting schema's
// shape or any compile error encountered.
var compileCmd = &cobra.Command{
	Use:   "compile <ast.json>",
	Short: "Compile a parsed AST into a constraint schema.",
	Long:  "Compile a parsed AST (JSON-encoded pkg/ast.Ast) into a constraint schema, reporting columns, constraints and any unused-symbol warnings.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data := readFile(args[0])

		var doc ast.Ast
		if err := json.Unmarshal(data, &doc); err != nil {
			log.WithError(err).Fatal("parsing AST document")
		}

		settings := corset.CompileSettings{
			Debug:     GetFlag(cmd, "debug"),
			AllowDups: GetFlag(cmd, "allow-dups"),
		}

		schema, err := corset.Compile(doc.Forms, settings)
		if err != nil {
			log.WithError(err).Fatal("compilation failed")
		}

		log.WithFields(log.Fields{
			"columns":     len(schema.Columns.Columns()),
			"constraints": len(schema.Constraints),
			"warnings":    len(schema.Warnings),
		}).Info("compiled schema")

		for _, w := range schema.Warnings {
			log.Warn(w.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().Bool("allow-dups", false, "tolerate duplicate definitions instead of rejecting them")
}
