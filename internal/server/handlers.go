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
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dotandev/soroscope/internal/analyze"
	"github.com/dotandev/soroscope/internal/cache"
	"github.com/dotandev/soroscope/internal/costmodel"
	soroerrors "github.com/dotandev/soroscope/internal/errors"
)

const cacheStatusHeader = "x-soroscope-cache"

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "parse_error", "malformed request body")
		return
	}

	resp, status, err := s.Orchestrator.Analyze(r.Context(), req.toAnalyzeRequest())
	if err != nil {
		mapAndWriteError(w, err)
		return
	}

	w.Header().Set(cacheStatusHeader, string(status))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.providerStatuses())
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cacheStats())
}

// uploadRequestBody is the POST /analyze/upload body: raw contract
// bytecode, base64-encoded for JSON transport.
type uploadRequestBody struct {
	WasmBase64 string `json:"wasm_base64"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "parse_error", "malformed request body")
		return
	}

	wasm, err := base64.StdEncoding.DecodeString(req.WasmBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "wasm_base64 is not valid base64")
		return
	}
	if limit, ok := costmodel.MaxContractSize(); ok && len(wasm) > limit {
		writeError(w, http.StatusBadRequest, "validation_error",
			fmt.Sprintf("bytecode is %d bytes, exceeding the protocol max contract size of %d", len(wasm), limit))
		return
	}

	result, err := s.Orchestrator.Engine.SimulateUpload(r.Context(), wasm)
	if err != nil {
		mapAndWriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Resources)
}

// protocolInfo is one row of the GET /protocols payload.
type protocolInfo struct {
	Version  uint32                 `json:"version"`
	Name     string                 `json:"name"`
	Latest   bool                   `json:"latest"`
	Features map[string]interface{} `json:"features"`
}

// scheduleInfo describes one cost schedule and the feature set it
// effectively enforces.
type scheduleInfo struct {
	Name              string                 `json:"name"`
	ProtocolVersion   uint32                 `json:"protocol_version"`
	EffectiveFeatures map[string]interface{} `json:"effective_features"`
}

type protocolsResponse struct {
	Protocols []protocolInfo `json:"protocols"`
	Schedules []scheduleInfo `json:"schedules"`
}

// handleProtocols lists the supported protocol versions with their feature
// gates, plus every cost schedule ordered by the protocol version it
// implements.
func (s *Server) handleProtocols(w http.ResponseWriter, r *http.Request) {
	resp := protocolsResponse{}

	latest := costmodel.LatestProtocol()
	for _, v := range costmodel.SupportedProtocols() {
		p, err := costmodel.GetProtocol(v)
		if err != nil {
			continue
		}
		resp.Protocols = append(resp.Protocols, protocolInfo{
			Version:  p.Version,
			Name:     p.Name,
			Latest:   v == latest,
			Features: p.Features,
		})
	}

	for _, name := range s.CostModel.Names() {
		sched, err := s.CostModel.Resolve(name)
		if err != nil {
			continue
		}
		resp.Schedules = append(resp.Schedules, scheduleInfo{
			Name:              sched.Name,
			ProtocolVersion:   sched.ProtocolVersion,
			EffectiveFeatures: sched.EffectiveFeatures(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// providerStatus is the per-provider record returned by GET /providers.
type providerStatus struct {
	Name                string `json:"name"`
	Healthy             bool   `json:"healthy"`
	ConsecutiveFailures int64  `json:"consecutive_failures"`
	LatestLedger        uint32 `json:"latest_ledger"`
}

func (s *Server) providerStatuses() []providerStatus {
	out := make([]providerStatus, 0, len(s.Providers.All()))
	for _, p := range s.Providers.All() {
		out = append(out, providerStatus{
			Name:                p.Name,
			Healthy:             !p.Tripped(),
			ConsecutiveFailures: p.Failures(),
			LatestLedger:        p.LatestLedger(),
		})
	}
	return out
}

// cacheStatsResponse is the GET /cache/stats payload.
type cacheStatsResponse struct {
	Hits           uint64  `json:"hits"`
	Misses         uint64  `json:"misses"`
	Size           int     `json:"size"`
	Capacity       int     `json:"capacity"`
	HitRatePercent float64 `json:"hit_rate_percent"`
}

func (s *Server) cacheStats() cacheStatsResponse {
	snap := s.Cache.Snapshot()
	return cacheStatsResponse{
		Hits:           snap.Hits,
		Misses:         snap.Misses,
		Size:           snap.Entries,
		Capacity:       cache.Capacity,
		HitRatePercent: snap.HitRate,
	}
}

// analyzeRequestBody is the POST /analyze body, extended with the opt-in
// insights/cost/compare fields.
type analyzeRequestBody struct {
	ContractID      string            `json:"contract_id"`
	FunctionName    string            `json:"function_name"`
	Args            []string          `json:"args,omitempty"`
	LedgerOverrides map[string]string `json:"ledger_overrides,omitempty"`
	WithInsights    bool              `json:"with_insights,omitempty"`
	CostSchedule    string            `json:"cost_schedule,omitempty"`
	CompareSchedule string            `json:"compare_schedule,omitempty"`
}

func (b analyzeRequestBody) toAnalyzeRequest() analyze.Request {
	return analyze.Request{
		ContractID:      b.ContractID,
		FunctionName:    b.FunctionName,
		Args:            b.Args,
		LedgerOverrides: b.LedgerOverrides,
		WithInsights:    b.WithInsights,
		CostSchedule:    b.CostSchedule,
		CompareSchedule: b.CompareSchedule,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]string{"error": kind, "message": message})
}

// mapAndWriteError is the single boundary mapping: every sentinel error
// kind from internal/value, internal/envelope, internal/provider and
// internal/simulate is mapped exactly once, here, to an HTTP status and a
// structured {error, message} body.
func mapAndWriteError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	writeError(w, status, kind, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, soroerrors.ErrInvalidType),
		errors.Is(err, soroerrors.ErrInvalidSymbol),
		errors.Is(err, soroerrors.ErrInvalidHex),
		errors.Is(err, soroerrors.ErrValidation),
		errors.Is(err, soroerrors.ErrParse):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, soroerrors.ErrXDR),
		errors.Is(err, soroerrors.ErrBase64),
		errors.Is(err, soroerrors.ErrSerialization),
		errors.Is(err, soroerrors.ErrIO):
		return http.StatusInternalServerError, "envelope_error"
	case errors.Is(err, soroerrors.ErrNodeTimeout):
		return http.StatusGatewayTimeout, "node_timeout"
	case errors.Is(err, soroerrors.ErrNetwork),
		errors.Is(err, soroerrors.ErrRPCRequestFailed),
		errors.Is(err, soroerrors.ErrNodeError),
		errors.Is(err, soroerrors.ErrNodeInternal),
		errors.Is(err, soroerrors.ErrAllProvidersExhausted):
		return http.StatusBadGateway, "node_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
