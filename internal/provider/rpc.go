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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dotandev/soroscope/internal/errors"
	"github.com/dotandev/soroscope/internal/logger"
	"github.com/dotandev/soroscope/internal/telemetry"
)

// jsonrpcRequest is the jsonrpc/id/method/params shape shared by every
// Soroban RPC call.
type jsonrpcRequest struct {
	Jsonrpc string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type jsonrpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RequestTimeout is the per-RPC-call deadline.
var RequestTimeout = 30 * time.Second

// Call dispatches method/params to the healthy provider pool in priority
// order: on a retryable failure it tries the next provider; on a
// non-retryable one it stops immediately; if every healthy provider is
// exhausted it returns the last retryable error, or
// ErrAllProvidersExhausted when the pool was empty to begin with.
func (r *Registry) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	healthy := r.HealthyProviders()
	if len(healthy) == 0 {
		return nil, errors.ErrAllProvidersExhausted
	}

	var lastErr error
	for _, p := range healthy {
		result, err := r.callOne(ctx, p, method, params)
		if err == nil {
			r.ReportSuccess(p.URL)
			return result, nil
		}

		r.ReportFailure(p.URL)
		if !errors.Retryable(err) {
			return nil, err
		}
		lastErr = err
		logger.Logger.Warn("provider call failed, trying next", "provider", p.Name, "method", method, "error", err)
	}

	return nil, lastErr
}

func (r *Registry) callOne(ctx context.Context, p *Provider, method string, params interface{}) (json.RawMessage, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.Start(ctx, "provider_call")
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	body, err := json.Marshal(jsonrpcRequest{Jsonrpc: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, errors.WrapSerialization(err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapNetwork(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.AuthHeader != "" {
		req.Header.Set(p.AuthHeader, p.AuthValue)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if callCtx.Err() != nil {
			return nil, errors.WrapNodeTimeout(err)
		}
		return nil, errors.WrapNetwork(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if IsRetryable(resp.StatusCode) {
			return nil, errors.WrapRPCRequestFailed(resp.StatusCode, string(respBody))
		}
		return nil, errors.WrapNodeError(resp.StatusCode, string(respBody))
	}

	var parsed jsonrpcResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errors.WrapParse(err)
	}
	if parsed.Error != nil {
		return nil, mapRPCError(*parsed.Error)
	}
	return parsed.Result, nil
}

// mapRPCError translates a JSON-RPC error object into its typed error.
func mapRPCError(e jsonrpcError) error {
	switch e.Code {
	case -32600:
		return errors.WrapNodeError(e.Code, "node rejected request format: "+e.Message)
	case -32601:
		return errors.WrapValidation("method not found: " + e.Message)
	case -32602:
		return errors.WrapValidation("node rejected parameters: " + e.Message)
	case -32603:
		return errors.WrapNodeInternal(e.Code, e.Message)
	default:
		return errors.WrapNodeError(e.Code, e.Message)
	}
}

type getLatestLedgerResult struct {
	Sequence uint32 `json:"sequence"`
}

// getLatestLedger probes a single provider with a lightweight
// getLatestLedger call, used by the background health checker.
func getLatestLedger(ctx context.Context, client *http.Client, p *Provider) (uint32, error) {
	body, err := json.Marshal(jsonrpcRequest{Jsonrpc: "2.0", ID: 1, Method: "getLatestLedger", Params: struct{}{}})
	if err != nil {
		return 0, errors.WrapSerialization(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return 0, errors.WrapNetwork(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.AuthHeader != "" {
		req.Header.Set(p.AuthHeader, p.AuthValue)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.WrapNetwork(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.WrapIO(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, errors.WrapRPCRequestFailed(resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Result getLatestLedgerResult `json:"result"`
		Error  *jsonrpcError         `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return 0, errors.WrapParse(err)
	}
	if parsed.Error != nil {
		return 0, mapRPCError(*parsed.Error)
	}
	return parsed.Result.Sequence, nil
}
