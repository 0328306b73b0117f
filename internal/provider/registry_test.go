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

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dotandev/soroscope/internal/config"
)

func newTestRegistry(t *testing.T, urls ...string) *Registry {
	t.Helper()
	specs := make([]config.ProviderSpec, 0, len(urls))
	for i, u := range urls {
		specs = append(specs, config.ProviderSpec{Name: "p" + string(rune('0'+i)), URL: u})
	}
	return NewRegistry(specs, &http.Client{Timeout: 2 * time.Second})
}

func TestBreakerTripsAtThreshold(t *testing.T) {
	r := newTestRegistry(t, "http://example.invalid")
	p := r.providers[0]

	for i := 0; i < BreakerThreshold-1; i++ {
		r.ReportFailure(p.URL)
		if p.Tripped() {
			t.Fatalf("provider tripped early at failure %d", i+1)
		}
	}
	r.ReportFailure(p.URL)
	if !p.Tripped() {
		t.Fatalf("expected provider to trip at threshold failures")
	}
	if len(r.HealthyProviders()) != 0 {
		t.Fatalf("expected tripped provider excluded from healthy providers")
	}
}

func TestReportSuccessClearsBreaker(t *testing.T) {
	r := newTestRegistry(t, "http://example.invalid")
	p := r.providers[0]

	for i := 0; i < BreakerThreshold; i++ {
		r.ReportFailure(p.URL)
	}
	if !p.Tripped() {
		t.Fatalf("expected provider tripped")
	}
	r.ReportSuccess(p.URL)
	if p.Tripped() {
		t.Fatalf("expected success to clear the breaker")
	}
	if p.Failures() != 0 {
		t.Fatalf("expected failure counter reset, got %d", p.Failures())
	}
}

func TestHealthyProvidersPreservesOrder(t *testing.T) {
	r := newTestRegistry(t, "http://a.invalid", "http://b.invalid", "http://c.invalid")
	healthy := r.HealthyProviders()
	if len(healthy) != 3 {
		t.Fatalf("expected 3 healthy providers, got %d", len(healthy))
	}
	if healthy[0].URL != "http://a.invalid" || healthy[2].URL != "http://c.invalid" {
		t.Fatalf("expected priority order preserved, got %+v", healthy)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := map[int]bool{200: false, 400: false, 429: true, 500: true, 503: true}
	for status, want := range cases {
		if got := IsRetryable(status); got != want {
			t.Errorf("IsRetryable(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestCallFailsOverOnRetryableError(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(jsonrpcResponse{Jsonrpc: "2.0", ID: 1, Result: json.RawMessage(`{"ok":true}`)})
	}))
	defer good.Close()

	r := newTestRegistry(t, bad.URL, good.URL)
	result, err := r.Call(context.Background(), "simulateTransaction", map[string]string{"transaction": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != `{"ok":true}` {
		t.Errorf("unexpected result: %s", result)
	}
	if r.providers[0].Failures() != 1 {
		t.Errorf("expected first provider failure recorded, got %d", r.providers[0].Failures())
	}
}

func TestCallStopsOnNonRetryableRPCError(t *testing.T) {
	var secondCalled bool
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(jsonrpcResponse{Jsonrpc: "2.0", ID: 1, Error: &jsonrpcError{Code: -32602, Message: "bad params"}})
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		secondCalled = true
		json.NewEncoder(w).Encode(jsonrpcResponse{Jsonrpc: "2.0", ID: 1, Result: json.RawMessage(`{}`)})
	}))
	defer second.Close()

	r := newTestRegistry(t, first.URL, second.URL)
	_, err := r.Call(context.Background(), "simulateTransaction", nil)
	if err == nil {
		t.Fatalf("expected non-retryable error")
	}
	if secondCalled {
		t.Fatalf("expected failover to stop after non-retryable RPC error")
	}
}

func TestCallFailsOverOnNodeInternalError(t *testing.T) {
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(jsonrpcResponse{Jsonrpc: "2.0", ID: 1, Error: &jsonrpcError{Code: -32603, Message: "internal"}})
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(jsonrpcResponse{Jsonrpc: "2.0", ID: 1, Result: json.RawMessage(`{"ok":true}`)})
	}))
	defer second.Close()

	r := newTestRegistry(t, first.URL, second.URL)
	result, err := r.Call(context.Background(), "simulateTransaction", nil)
	if err != nil {
		t.Fatalf("expected -32603 to fail over to the next provider, got %v", err)
	}
	if string(result) != `{"ok":true}` {
		t.Errorf("unexpected result: %s", result)
	}
}

func TestCallAllProvidersExhausted(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Call(context.Background(), "simulateTransaction", nil)
	if err == nil {
		t.Fatalf("expected all-providers-unavailable error")
	}
}
