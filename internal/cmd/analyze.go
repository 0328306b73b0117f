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
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/soroscope/internal/analyze"
	"github.com/dotandev/soroscope/internal/costmodel"
)

var (
	analyzeWithInsights bool
	analyzeCostSchedule string
	analyzeCompare      string
)

func buildAnalyzeRequest(args []string, withInsights bool, costSchedule, compare string) analyze.Request {
	req := analyze.Request{
		ContractID:   args[0],
		FunctionName: args[1],
		Args:         args[2:],
		WithInsights: withInsights,
		CostSchedule: costSchedule,
	}
	if baseline, shadow, ok := splitCompareFlag(compare); ok {
		req.CostSchedule = baseline
		req.CompareSchedule = shadow
	}
	return req
}

// splitCompareFlag parses the "baseline:shadow" form of --compare, e.g.
// "protocol_21:protocol_22".
func splitCompareFlag(compare string) (baseline, shadow string, ok bool) {
	parts := strings.SplitN(compare, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <contract_id> <function_name> [args...]",
	Short: "Simulate one contract invocation and report its resource usage",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		req := buildAnalyzeRequest(args, analyzeWithInsights, analyzeCostSchedule, analyzeCompare)

		resp, status, err := a.orchestrator.Analyze(cmd.Context(), req)
		if err != nil {
			color.Red("analyze failed: %v", err)
			return err
		}

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		color.Cyan("cache: %s", status)
		if resp.Comparison != nil {
			color.Cyan(compareSummary(resp.Comparison))
		}
		return nil
	},
}

// compareSummary renders a Comparison as a one-line baseline-vs-shadow
// diff.
func compareSummary(cmp *costmodel.Comparison) string {
	return fmt.Sprintf("compare: %s=%d stroops vs %s=%d stroops (diff %+d, %.1f%%)",
		cmp.BaselineSnapshot.ScheduleName, cmp.BaselineSnapshot.CostStroops,
		cmp.ShadowSnapshot.ScheduleName, cmp.ShadowSnapshot.CostStroops,
		cmp.DiffStroops, cmp.DiffPct)
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeWithInsights, "insights", false, "Include heuristic insights in the report")
	analyzeCmd.Flags().StringVar(&analyzeCostSchedule, "cost-schedule", "", "Named cost schedule to report against (e.g. protocol_21, protocol_22, custom)")
	analyzeCmd.Flags().StringVar(&analyzeCompare, "compare", "", "Compare two named cost schedules, e.g. protocol_21:protocol_22")
	rootCmd.AddCommand(analyzeCmd)
}
