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

// Package insights evaluates heuristic rules against a Resources record:
// an ordered registry of small rule functions, each returning zero or more
// findings.
package insights

import (
	"fmt"

	"github.com/dotandev/soroscope/internal/simulate"
)

// Severity tags an Insight's urgency.
type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
)

// Insight is one heuristic finding.
type Insight struct {
	Severity     Severity `json:"severity"`
	RuleName     string   `json:"rule_name"`
	Message      string   `json:"message"`
	SuggestedFix string   `json:"suggested_fix"`
}

// Report is the insights report returned alongside resource metrics.
type Report struct {
	EfficiencyScore int       `json:"efficiency_score"`
	Findings        []Insight `json:"findings"`
}

// Rule is a named evaluator over a Resources record.
type Rule struct {
	Name     string
	Evaluate func(simulate.Resources) []Insight
}

// Registry holds rules in registration order; findings are emitted in
// that order.
type Registry struct {
	rules []Rule
}

// NewRegistry builds a Registry preloaded with the four built-in rules.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(Rule{Name: "storage_efficiency", Evaluate: storageEfficiency})
	r.Register(Rule{Name: "instruction_density", Evaluate: instructionDensity})
	r.Register(Rule{Name: "footprint_bloat", Evaluate: footprintBloat})
	r.Register(Rule{Name: "memory_pressure", Evaluate: memoryPressure})
	return r
}

// Register appends a rule to the registry.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Evaluate runs every registered rule over res and computes the bounded
// efficiency score.
func (r *Registry) Evaluate(res simulate.Resources) Report {
	var findings []Insight
	for _, rule := range r.rules {
		findings = append(findings, rule.Evaluate(res)...)
	}
	return Report{
		EfficiencyScore: efficiencyScore(findings, res),
		Findings:        findings,
	}
}

const (
	mib = 1024 * 1024
	kib = 1024
)

func storageEfficiency(res simulate.Resources) []Insight {
	if res.TransactionSizeBytes == 0 {
		return nil
	}
	ratio := float64(res.LedgerWriteBytes) / float64(res.TransactionSizeBytes)

	switch {
	case ratio > 2.0:
		return []Insight{{
			Severity: SeverityCritical,
			RuleName: "storage_efficiency",
			Message: fmt.Sprintf("Ledger write bytes (%d) are %.1fx the transaction size (%d) — extremely write-heavy",
				res.LedgerWriteBytes, ratio, res.TransactionSizeBytes),
			SuggestedFix: "Use temporary storage (TTL entries) for ephemeral data and batch writes where possible.",
		}}
	case ratio > 1.0:
		return []Insight{{
			Severity: SeverityWarning,
			RuleName: "storage_efficiency",
			Message: fmt.Sprintf("Ledger write bytes (%d) exceed transaction size (%d) — consider reviewing storage layout",
				res.LedgerWriteBytes, res.TransactionSizeBytes),
			SuggestedFix: "Consolidate writes into fewer ledger keys or use compact serialization.",
		}}
	default:
		return nil
	}
}

func instructionDensity(res simulate.Resources) []Insight {
	l := res.LedgerReadBytes + res.LedgerWriteBytes

	switch {
	case res.CPUInstructions > 50_000_000 && l < 1024:
		return []Insight{{
			Severity: SeverityCritical,
			RuleName: "instruction_density",
			Message: fmt.Sprintf("Very high CPU (%d instructions) with minimal ledger I/O (%d bytes) — heavy computation detected",
				res.CPUInstructions, l),
			SuggestedFix: "Cache intermediate results in persistent storage or move complex calculations off-chain with on-chain verification.",
		}}
	case res.CPUInstructions > 10_000_000 && l < 2048:
		return []Insight{{
			Severity: SeverityWarning,
			RuleName: "instruction_density",
			Message: fmt.Sprintf("High CPU (%d instructions) relative to ledger activity (%d bytes) — consider optimising hot loops",
				res.CPUInstructions, l),
			SuggestedFix: "Profile the contract to identify hot loops; consider lookup tables or pre-computed values.",
		}}
	default:
		return nil
	}
}

// footprintBloat estimates the key count from the total footprint size; an
// average ledger key runs 40-80 bytes.
func footprintBloat(res simulate.Resources) []Insight {
	estKeys := (res.LedgerReadBytes + res.LedgerWriteBytes) / 60

	switch {
	case estKeys > 20:
		return []Insight{{
			Severity:     SeverityCritical,
			RuleName:     "footprint_bloat",
			Message:      fmt.Sprintf("Estimated footprint contains ~%d ledger keys — very large transaction", estKeys),
			SuggestedFix: "Split the operation into smaller batches or reduce the number of distinct storage keys accessed per invocation.",
		}}
	case estKeys > 10:
		return []Insight{{
			Severity:     SeverityWarning,
			RuleName:     "footprint_bloat",
			Message:      fmt.Sprintf("Estimated footprint contains ~%d ledger keys — above recommended threshold", estKeys),
			SuggestedFix: "Consider consolidating related data into fewer keys (e.g., a single Map entry instead of many individual keys).",
		}}
	default:
		return nil
	}
}

func memoryPressure(res simulate.Resources) []Insight {
	ramMiB := float64(res.RAMBytes) / float64(mib)

	switch {
	case res.RAMBytes > 20*mib:
		return []Insight{{
			Severity:     SeverityCritical,
			RuleName:     "memory_pressure",
			Message:      fmt.Sprintf("RAM usage (%d bytes / %.1f MiB) is very high — approaching protocol memory limits", res.RAMBytes, ramMiB),
			SuggestedFix: "Reduce in-memory data structures; process data in streaming fashion rather than loading everything at once.",
		}}
	case res.RAMBytes > 5*mib:
		return []Insight{{
			Severity:     SeverityWarning,
			RuleName:     "memory_pressure",
			Message:      fmt.Sprintf("RAM usage (%d bytes / %.1f MiB) is elevated", res.RAMBytes, ramMiB),
			SuggestedFix: "Review large allocations; consider lazy initialization or smaller buffers.",
		}}
	default:
		return nil
	}
}

// efficiencyScore starts at 100, subtracts per-finding penalties and
// graduated absolute-resource penalties, and clamps to [0, 100].
func efficiencyScore(findings []Insight, res simulate.Resources) int {
	score := 100
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			score -= 20
		case SeverityWarning:
			score -= 10
		case SeverityInfo:
			score -= 3
		}
	}

	switch {
	case res.CPUInstructions > 50_000_000:
		score -= 10
	case res.CPUInstructions > 10_000_000:
		score -= 5
	}

	switch {
	case res.RAMBytes > 20*mib:
		score -= 10
	case res.RAMBytes > 5*mib:
		score -= 5
	}

	totalIO := res.LedgerReadBytes + res.LedgerWriteBytes
	switch {
	case totalIO > 100*kib:
		score -= 10
	case totalIO > 50*kib:
		score -= 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
