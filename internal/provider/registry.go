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

// Package provider keeps an ordered pool of Soroban RPC endpoints healthy,
// tripping a per-endpoint circuit breaker after repeated failures. Breaker
// state lives in atomic counters rather than a coarse mutex since
// per-provider state never needs to be read and written together.
package provider

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dotandev/soroscope/internal/config"
	"github.com/dotandev/soroscope/internal/logger"
)

const (
	// BreakerThreshold is the consecutive-failure count that trips a provider.
	BreakerThreshold = 3
	// CoolDown is how long a tripped provider stays excluded from
	// HealthyProviders.
	CoolDown = 5 * time.Minute
	// HealthProbeTimeout bounds each background health-check RPC call.
	HealthProbeTimeout = 10 * time.Second
)

// Provider is one configured RPC endpoint and its breaker state. failures
// and trippedAtUnixNano stand in for a mutex-guarded struct: failures is
// incremented atomically, trippedAtUnixNano is stored/loaded atomically,
// and 0 means "not tripped".
type Provider struct {
	Name       string
	URL        string
	AuthHeader string
	AuthValue  string

	failures          atomic.Int64
	trippedAtUnixNano atomic.Int64
	latestLedger      atomic.Uint32
}

// Tripped reports whether the provider is currently excluded from
// healthy_providers (tripped and cool-down not yet elapsed).
func (p *Provider) Tripped() bool {
	at := p.trippedAtUnixNano.Load()
	if at == 0 {
		return false
	}
	return time.Since(time.Unix(0, at)) < CoolDown
}

// Failures returns the current consecutive-failure count.
func (p *Provider) Failures() int64 { return p.failures.Load() }

// LatestLedger returns the last ledger sequence observed by the health
// prober for this provider.
func (p *Provider) LatestLedger() uint32 { return p.latestLedger.Load() }

// Registry is the ordered pool of providers; order at construction defines
// priority.
type Registry struct {
	providers []*Provider
	client    *http.Client
}

// NewRegistry builds a Registry from configuration, in the given priority
// order.
func NewRegistry(specs []config.ProviderSpec, client *http.Client) *Registry {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	providers := make([]*Provider, 0, len(specs))
	for _, s := range specs {
		providers = append(providers, &Provider{
			Name:       s.Name,
			URL:        s.URL,
			AuthHeader: s.AuthHeader,
			AuthValue:  s.AuthValue,
		})
	}
	return &Registry{providers: providers, client: client}
}

// All returns every configured provider, tripped or not.
func (r *Registry) All() []*Provider { return r.providers }

// HealthyProviders returns providers in priority order, skipping tripped
// providers whose cool-down has not elapsed.
func (r *Registry) HealthyProviders() []*Provider {
	out := make([]*Provider, 0, len(r.providers))
	for _, p := range r.providers {
		if !p.Tripped() {
			out = append(out, p)
		}
	}
	return out
}

// ReportSuccess resets the matching provider's failure counter and clears
// trippedAt.
func (r *Registry) ReportSuccess(url string) {
	p := r.find(url)
	if p == nil {
		return
	}
	p.failures.Store(0)
	p.trippedAtUnixNano.Store(0)
}

// ReportFailure atomically increments the matching provider's failure
// counter and trips it once the count reaches BreakerThreshold.
func (r *Registry) ReportFailure(url string) {
	p := r.find(url)
	if p == nil {
		return
	}
	n := p.failures.Add(1)
	if n >= BreakerThreshold {
		p.trippedAtUnixNano.Store(time.Now().UnixNano())
	}
}

// IsRetryable reports whether an HTTP status code should trigger failover
// to the next provider. Timeouts and transport errors are
// always retryable and are not represented by a status code at all; callers
// check those separately.
func IsRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func (r *Registry) find(url string) *Provider {
	for _, p := range r.providers {
		if p.URL == url {
			return p
		}
	}
	return nil
}

// SpawnHealthChecker starts a background probe loop that, once per
// interval, calls getLatestLedger against every provider: on success it
// records the ledger sequence and resets the breaker, on failure it reports
// a failure. The loop exits when ctx is canceled.
func (r *Registry) SpawnHealthChecker(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.probeAll(ctx)
			}
		}
	}()
}

func (r *Registry) probeAll(ctx context.Context) {
	for _, p := range r.providers {
		probeCtx, cancel := context.WithTimeout(ctx, HealthProbeTimeout)
		ledger, err := getLatestLedger(probeCtx, r.client, p)
		cancel()
		if err != nil {
			logger.Logger.Warn("health probe failed", "provider", p.Name, "error", err)
			r.ReportFailure(p.URL)
			continue
		}
		p.latestLedger.Store(ledger)
		r.ReportSuccess(p.URL)
	}
}
