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

package costmodel

import (
	"github.com/dotandev/soroscope/internal/simulate"
)

// CalculateCost sums each resource divided by its schedule's per-fee
// divisor.
func (s *Schedule) CalculateCost(res simulate.Resources) uint64 {
	cpuCost := res.CPUInstructions / s.CPUPerFee
	memCost := res.RAMBytes / s.MemPerFee
	ledgerCost := (res.LedgerReadBytes + res.LedgerWriteBytes) / s.LedgerPerFee
	txCost := res.TransactionSizeBytes / s.TxPerFee
	return cpuCost + memCost + ledgerCost + txCost
}

// ExceededLimit names one resource that crossed its schedule limit.
type ExceededLimit struct {
	ResourceName string `json:"resource_name"`
	Used         uint64 `json:"used"`
	Limit        uint64 `json:"limit"`
}

// CheckLimits returns the resources whose usage exceeds this schedule's
// configured limit.
func (s *Schedule) CheckLimits(res simulate.Resources) []ExceededLimit {
	var exceeded []ExceededLimit

	check := func(name string, used, limit uint64) {
		if used > limit {
			exceeded = append(exceeded, ExceededLimit{ResourceName: name, Used: used, Limit: limit})
		}
	}

	check("cpu_instructions", res.CPUInstructions, s.MaxCPU)
	check("ram_bytes", res.RAMBytes, s.MaxMem)
	check("ledger_read_bytes", res.LedgerReadBytes, s.MaxRead)
	check("ledger_write_bytes", res.LedgerWriteBytes, s.MaxWrite)
	check("transaction_size_bytes", res.TransactionSizeBytes, s.MaxTx)

	return exceeded
}

// Snapshot is a schedule's cost and limit evaluation against one resource
// record, used as one half of a Comparison.
type Snapshot struct {
	ScheduleName string             `json:"schedule_name"`
	CostStroops  uint64             `json:"cost_stroops"`
	Exceeded     []ExceededLimit    `json:"exceeded_limits"`
	Resources    simulate.Resources `json:"resources"`
}

// Comparison is the result of Compare: baseline and shadow schedule
// snapshots over the same resource usage, plus their cost delta.
type Comparison struct {
	BaselineSnapshot Snapshot `json:"baseline_snapshot"`
	ShadowSnapshot   Snapshot `json:"shadow_snapshot"`
	DiffStroops      int64    `json:"diff_stroops"`
	DiffPct          float64  `json:"diff_pct"`
}

func snapshot(name string, s *Schedule, res simulate.Resources) Snapshot {
	return Snapshot{
		ScheduleName: name,
		CostStroops:  s.CalculateCost(res),
		Exceeded:     s.CheckLimits(res),
		Resources:    res,
	}
}

// Compare runs the same resource usage through two named schedules and
// reports the cost delta between them.
func (r *Registry) Compare(res simulate.Resources, baselineName, shadowName string) (*Comparison, error) {
	baseline, err := r.Resolve(baselineName)
	if err != nil {
		return nil, err
	}
	shadow, err := r.Resolve(shadowName)
	if err != nil {
		return nil, err
	}

	baseSnap := snapshot(baseline.Name, baseline, res)
	shadowSnap := snapshot(shadow.Name, shadow, res)

	diff := int64(shadowSnap.CostStroops) - int64(baseSnap.CostStroops)
	var pct float64
	if baseSnap.CostStroops != 0 {
		pct = float64(diff) / float64(baseSnap.CostStroops) * 100
	}

	return &Comparison{
		BaselineSnapshot: baseSnap,
		ShadowSnapshot:   shadowSnap,
		DiffStroops:      diff,
		DiffPct:          pct,
	}, nil
}
