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

// Package analyze is the analyze orchestrator: it wires the cache
// (internal/cache) in front of the simulation engine (internal/simulate),
// then annotates the normalized result with insights (internal/insights)
// and named-schedule cost figures (internal/costmodel) before handing a
// response to internal/server.
package analyze

import (
	"context"

	"github.com/dotandev/soroscope/internal/cache"
	"github.com/dotandev/soroscope/internal/costmodel"
	"github.com/dotandev/soroscope/internal/insights"
	"github.com/dotandev/soroscope/internal/simulate"
	"github.com/dotandev/soroscope/internal/telemetry"
)

// CacheStatus tags whether a response was served from cache.
type CacheStatus string

const (
	CacheHit  CacheStatus = "HIT"
	CacheMiss CacheStatus = "MISS"
)

// Request is the inbound analyze request.
type Request struct {
	ContractID      string            `json:"contract_id"`
	FunctionName    string            `json:"function_name"`
	Args            []string          `json:"args,omitempty"`
	LedgerOverrides map[string]string `json:"ledger_overrides,omitempty"`

	// WithInsights and CostSchedule opt into the extended response
	// fields.
	WithInsights bool   `json:"with_insights,omitempty"`
	CostSchedule string `json:"cost_schedule,omitempty"`

	// CompareSchedule, when set alongside CostSchedule, asks the
	// orchestrator to additionally diff CostSchedule (the baseline)
	// against this schedule (the shadow), per the compare() operator.
	CompareSchedule string `json:"compare_schedule,omitempty"`
}

// Response is the normalized analyze response.
type Response struct {
	simulate.Resources
	StateDependency []simulate.StateDependency `json:"state_dependency,omitempty"`
	Insights        *insights.Report           `json:"insights,omitempty"`
	Cost            *costmodel.Snapshot        `json:"cost,omitempty"`
	Comparison      *costmodel.Comparison      `json:"comparison,omitempty"`
}

// Orchestrator composes the cache, simulation engine, insights registry
// and cost model registry into the single request-to-response pipeline.
type Orchestrator struct {
	Engine    *simulate.Engine
	Cache     *cache.Manager
	Insights  *insights.Registry
	CostModel *costmodel.Registry
}

// New builds an Orchestrator from its collaborators.
func New(engine *simulate.Engine, cacheMgr *cache.Manager, insightsReg *insights.Registry, costReg *costmodel.Registry) *Orchestrator {
	return &Orchestrator{Engine: engine, Cache: cacheMgr, Insights: insightsReg, CostModel: costReg}
}

// Analyze runs one request through the orchestrator: build the
// fingerprint, try the cache, invoke the simulation engine on miss, then
// annotate with insights/cost when requested.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*Response, CacheStatus, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.Start(ctx, "analyze")
	defer span.End()

	key, err := cache.Fingerprint(req.ContractID, req.FunctionName, req.Args)
	if err != nil {
		return nil, CacheMiss, err
	}

	status := CacheHit
	result, ok := o.Cache.Get(key)
	if !ok {
		status = CacheMiss
		result, err = o.Engine.Simulate(ctx, simulate.Request{
			ContractID:   req.ContractID,
			FunctionName: req.FunctionName,
			Args:         req.Args,
			Overrides:    req.LedgerOverrides,
		})
		if err != nil {
			return nil, status, err
		}
		o.Cache.Set(key, result)
	}

	resp := &Response{
		Resources:       result.Resources,
		StateDependency: result.StateDependencies,
	}

	if req.WithInsights && o.Insights != nil {
		report := o.Insights.Evaluate(result.Resources)
		resp.Insights = &report
	}

	if req.CostSchedule != "" && o.CostModel != nil {
		schedule, err := o.CostModel.Resolve(req.CostSchedule)
		if err != nil {
			return nil, status, err
		}
		snap := costmodel.Snapshot{
			ScheduleName: schedule.Name,
			CostStroops:  schedule.CalculateCost(result.Resources),
			Exceeded:     schedule.CheckLimits(result.Resources),
			Resources:    result.Resources,
		}
		resp.Cost = &snap

		if req.CompareSchedule != "" {
			cmp, err := o.CostModel.Compare(result.Resources, req.CostSchedule, req.CompareSchedule)
			if err != nil {
				return nil, status, err
			}
			resp.Comparison = cmp
		}
	}

	return resp, status, nil
}
