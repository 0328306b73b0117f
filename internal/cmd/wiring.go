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
	"net/http"
	"time"

	"github.com/dotandev/soroscope/internal/analyze"
	"github.com/dotandev/soroscope/internal/cache"
	"github.com/dotandev/soroscope/internal/config"
	"github.com/dotandev/soroscope/internal/costmodel"
	"github.com/dotandev/soroscope/internal/insights"
	"github.com/dotandev/soroscope/internal/provider"
	"github.com/dotandev/soroscope/internal/simulate"
)

// app bundles the collaborators every CLI subcommand and the HTTP server
// are built from, so each command wires the same graph instead of
// duplicating construction.
type app struct {
	cfg          *config.Config
	providers    *provider.Registry
	cache        *cache.Manager
	insights     *insights.Registry
	costModel    *costmodel.Registry
	orchestrator *analyze.Orchestrator
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	providers := provider.NewRegistry(cfg.Providers, client)
	cacheMgr := cache.NewManager()
	insightsReg := insights.NewRegistry()
	costReg := costmodel.NewRegistry()
	engine := simulate.NewEngine(providers)
	orch := analyze.New(engine, cacheMgr, insightsReg, costReg)

	return &app{
		cfg:          cfg,
		providers:    providers,
		cache:        cacheMgr,
		insights:     insightsReg,
		costModel:    costReg,
		orchestrator: orch,
	}, nil
}
