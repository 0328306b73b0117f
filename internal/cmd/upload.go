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

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/soroscope/internal/costmodel"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <wasm-file>",
	Short: "Simulate uploading contract bytecode and report its resource usage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		wasm, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if limit, ok := costmodel.MaxContractSize(); ok && len(wasm) > limit {
			return fmt.Errorf("bytecode is %d bytes, exceeding the protocol max contract size of %d", len(wasm), limit)
		}

		result, err := a.orchestrator.Engine.SimulateUpload(cmd.Context(), wasm)
		if err != nil {
			color.Red("upload simulation failed: %v", err)
			return err
		}

		out, err := json.MarshalIndent(result.Resources, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
