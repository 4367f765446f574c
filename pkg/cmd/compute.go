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
	"github.com/corsetlang/corset/pkg/compute"
	"github.com/corsetlang/corset/pkg/corset"
	"github.com/corsetlang/corset/pkg/trace"
	"github.com/corsetlang/corset/pkg/witness"
)

// computeCmd compiles a schema, ingests a caller-supplied atomic-column
// trace, runs every induced computation over it, and writes the padded
// witness a prover consumes.
var computeCmd = &cobra.Command{
	Use:   "compute <ast.json> <trace.json>",
	Short: "Fill the computed columns of a trace and emit a witness file.",
	Long:  "Given a parsed AST and an atomic-column trace, compile the schema, run its computations, and write the padded witness JSON a prover consumes.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		astData := readFile(args[0])

		var doc ast.Ast
		if err := json.Unmarshal(astData, &doc); err != nil {
			log.WithError(err).Fatal("parsing AST document")
		}

		settings := corset.CompileSettings{Debug: GetFlag(cmd, "debug")}

		schema, err := corset.Compile(doc.Forms, settings)
		if err != nil {
			log.WithError(err).Fatal("compilation failed")
		}

		traceData := readFile(args[1])

		raw, err := trace.Parse(traceData)
		if err != nil {
			log.WithError(err).Fatal("parsing trace file")
		}

		engine := compute.NewEngine(schema)

		tr, err := engine.ComputeAll(raw)
		if err != nil {
			log.WithError(err).Fatal("computing trace")
		}

		file, err := witness.Build(schema, tr)
		if err != nil {
			log.WithError(err).Fatal("building witness")
		}

		out, err := witness.Marshal(file)
		if err != nil {
			log.WithError(err).Fatal("marshalling witness")
		}

		output := GetString(cmd, "output")
		if output == "" {
			log.WithField("columns", len(file.Columns)).Info("computed witness")
			return
		}

		writeFile(output, out)
		log.WithField("path", output).Info("wrote witness")
	},
}

func init() {
	rootCmd.AddCommand(computeCmd)
	computeCmd.Flags().StringP("output", "o", "", "write the witness JSON to this path instead of stdout summary")
}
