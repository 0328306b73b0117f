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

package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dotandev/soroscope/internal/analyze"
	"github.com/dotandev/soroscope/internal/cache"
	"github.com/dotandev/soroscope/internal/config"
	"github.com/dotandev/soroscope/internal/costmodel"
	"github.com/dotandev/soroscope/internal/insights"
	"github.com/dotandev/soroscope/internal/provider"
	"github.com/dotandev/soroscope/internal/simulate"
)

const testContract = "CAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABSC4"

type fakeDispatcher struct {
	raw json.RawMessage
	err error
}

func (f *fakeDispatcher) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	return f.raw, f.err
}

func newTestServer(t *testing.T, authToken string) *Server {
	t.Helper()
	resp := struct {
		LatestLedger uint64 `json:"latestLedger"`
		Cost         struct {
			CPUInsns string `json:"cpuInsns"`
			MemBytes string `json:"memBytes"`
		} `json:"cost"`
	}{LatestLedger: 5}
	resp.Cost.CPUInsns = "1000"
	resp.Cost.MemBytes = "512"
	raw, _ := json.Marshal(resp)

	engine := simulate.NewEngine(&fakeDispatcher{raw: raw})
	orch := analyze.New(engine, cache.NewManager(), insights.NewRegistry(), costmodel.NewRegistry())
	providers := provider.NewRegistry([]config.ProviderSpec{{Name: "primary", URL: "https://example.invalid"}}, nil)
	return New(orch, providers, cache.NewManager(), costmodel.NewRegistry(), authToken)
}

func TestHealthzNoAuthRequired(t *testing.T) {
	s := newTestServer(t, "secret")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAnalyzeRequiresAuthWhenConfigured(t *testing.T) {
	s := newTestServer(t, "secret")
	body, _ := json.Marshal(map[string]string{"contract_id": testContract, "function_name": "f"})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAnalyzeHappyPathSetsCacheHeader(t *testing.T) {
	s := newTestServer(t, "")
	body, _ := json.Marshal(map[string]interface{}{
		"contract_id":   testContract,
		"function_name": "transfer",
		"args":          []string{"1"},
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(cacheStatusHeader); got != "MISS" {
		t.Errorf("expected cache-status MISS, got %q", got)
	}
}

func TestAnalyzeInvalidContractIDReturns400(t *testing.T) {
	s := newTestServer(t, "")
	body, _ := json.Marshal(map[string]string{"contract_id": "bad", "function_name": "f"})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProvidersEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	req := httptest.NewRequest(http.MethodGet, "/providers", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []providerStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "primary" {
		t.Errorf("expected one provider named primary, got %+v", got)
	}
}

func TestCacheStatsEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	req := httptest.NewRequest(http.MethodGet, "/cache/stats", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got cacheStatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got.Capacity != cache.Capacity {
		t.Errorf("expected capacity %d, got %d", cache.Capacity, got.Capacity)
	}
}

func TestUploadEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	body, _ := json.Marshal(map[string]string{
		"wasm_base64": base64.StdEncoding.EncodeToString([]byte{0x00, 0x61, 0x73, 0x6d}),
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze/upload", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got simulate.Resources
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got.CPUInstructions != 1000 {
		t.Errorf("expected cpu 1000, got %d", got.CPUInstructions)
	}
}

func TestUploadRejectsOversizedBytecode(t *testing.T) {
	s := newTestServer(t, "")
	oversized := make([]byte, 131072+1)
	body, _ := json.Marshal(map[string]string{
		"wasm_base64": base64.StdEncoding.EncodeToString(oversized),
	})
	req := httptest.NewRequest(http.MethodPost, "/analyze/upload", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized bytecode, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadRejectsBadBase64(t *testing.T) {
	s := newTestServer(t, "")
	body, _ := json.Marshal(map[string]string{"wasm_base64": "!!not-base64!!"})
	req := httptest.NewRequest(http.MethodPost, "/analyze/upload", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProtocolsEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	req := httptest.NewRequest(http.MethodGet, "/protocols", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got protocolsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(got.Protocols) != 3 {
		t.Errorf("expected 3 protocols, got %+v", got.Protocols)
	}
	if len(got.Schedules) != 3 || got.Schedules[0].Name != "custom_private" {
		t.Errorf("expected schedules ordered by protocol version, got %+v", got.Schedules)
	}
	var sawLatest bool
	for _, p := range got.Protocols {
		if p.Latest {
			sawLatest = true
			if p.Version != 22 {
				t.Errorf("expected protocol 22 tagged latest, got %d", p.Version)
			}
		}
	}
	if !sawLatest {
		t.Errorf("expected one protocol tagged latest")
	}
}

func TestAdminRPCProviderHealth(t *testing.T) {
	s := newTestServer(t, "")
	reqBody, _ := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "adminService.ProviderHealth",
		"params":  []interface{}{struct{}{}},
	})
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
