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
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/soroscope/internal/costmodel"
)

// scheduleLabel classifies a schedule relative to the current-protocol
// baseline: the baseline itself, a schedule for an upcoming protocol, or a
// custom/private schedule.
func scheduleLabel(s, current *costmodel.Schedule) (string, error) {
	if s.Name == current.Name {
		return "current", nil
	}
	newer, err := s.NewerThan(current)
	if err != nil {
		return "", err
	}
	if newer {
		return color.CyanString("upcoming"), nil
	}
	return "custom", nil
}

var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "List supported protocol versions and cost schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		latest := costmodel.LatestProtocol()
		for _, v := range costmodel.SupportedProtocols() {
			p, err := costmodel.GetProtocol(v)
			if err != nil {
				continue
			}
			tag := ""
			if v == latest {
				tag = color.GreenString(" (latest)")
			}
			fmt.Printf("protocol %d: %s%s\n", p.Version, p.Name, tag)

			keys := make([]string, 0, len(p.Features))
			for k := range p.Features {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %s=%v\n", k, p.Features[k])
			}
		}

		current, err := a.costModel.Resolve("current")
		if err != nil {
			return err
		}
		for _, name := range a.costModel.Names() {
			s, err := a.costModel.Resolve(name)
			if err != nil {
				continue
			}
			label, err := scheduleLabel(s, current)
			if err != nil {
				return err
			}
			fmt.Printf("%-16s protocol=%d %s\n", s.Name, s.ProtocolVersion, label)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(protocolsCmd)
}
