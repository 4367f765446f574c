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

// Package cmd implements the corset compiler's command-line interface.
package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected boolean flag, or exits if it isn't registered.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		log.WithError(err).Fatal("reading flag")
	}

	return r
}

// GetString gets an expected string flag, or exits if it isn't registered.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		log.WithError(err).Fatal("reading flag")
	}

	return r
}

// readFile reads a file or exits with a fatal log entry, matching the
// command set's general policy of reporting and bailing rather than
// propagating I/O errors back up through cobra.
func readFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Fatal("reading file")
	}

	return data
}

func writeFile(path string, data []byte) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.WithError(err).WithField("path", path).Fatal("writing file")
	}
}
