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
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled in when building via `make`, left blank for `go install`.
var Version string

var rootCmd = &cobra.Command{
	Use:   "corset",
	Short: "A compiler for the Corset constraint language.",
	Long:  "A compiler and toolbox for the Corset language: arithmetic constraint systems over a prime field.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("corset ")

			if Version != "" {
				fmt.Print(Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Print(info.Main.Version)
			} else {
				fmt.Print("(unknown version)")
			}

			fmt.Println()
		}
	},
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debugging constraints during compilation")
	rootCmd.Flags().Bool("version", false, "report the version of this executable")

	cobra.OnInitialize(func() {
		if GetFlag(rootCmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	})
}
