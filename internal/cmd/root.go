// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd is soroscope's Cobra CLI: a package-level rootCmd, one file
// per subcommand, each registering itself via init().
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "soroscope",
	Short: "Resource profiler for Soroban smart contract invocations",
	Long: `soroscope simulates a Soroban contract invocation against an RPC node and
reports the normalized resource usage: CPU instructions, memory, ledger I/O
and transaction size, plus heuristic insights and named fee-schedule costs.

Examples:
  soroscope analyze CCONTRACT... transfer ':alice' 100
  SERVER_PORT=8080 soroscope serve
  soroscope providers
  soroscope cache stats`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from cmd/soroscope/main.go.
func Execute() error {
	return rootCmd.Execute()
}
