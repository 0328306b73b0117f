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
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func providerStatusString(tripped bool) string {
	if tripped {
		return color.RedString("tripped")
	}
	return color.GreenString("healthy")
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured RPC providers and their breaker state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		for _, p := range a.providers.All() {
			fmt.Printf("%-20s %-10s failures=%d latest_ledger=%d url=%s\n",
				p.Name, providerStatusString(p.Tripped()), p.Failures(), p.LatestLedger(), p.URL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
