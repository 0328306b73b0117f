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

package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stellar/go/strkey"

	"github.com/dotandev/soroscope/internal/envelope"
	"github.com/dotandev/soroscope/internal/errors"
	"github.com/dotandev/soroscope/internal/logger"
	"github.com/dotandev/soroscope/internal/telemetry"
	"github.com/dotandev/soroscope/internal/value"
)

// Dispatcher is the subset of provider.Registry the engine depends on,
// narrowed to ease testing with a fake.
type Dispatcher interface {
	Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error)
}

// Engine builds and dispatches simulations.
type Engine struct {
	Registry Dispatcher
}

func NewEngine(registry Dispatcher) *Engine {
	return &Engine{Registry: registry}
}

type simulateParams struct {
	Transaction string `json:"transaction"`
}

type simulateCost struct {
	CPUInsns string `json:"cpuInsns"`
	MemBytes string `json:"memBytes"`
}

type simulateTransactionResponse struct {
	LatestLedger    uint64       `json:"latestLedger"`
	Cost            simulateCost `json:"cost"`
	TransactionData string       `json:"transactionData"`
}

// Simulate runs one contract-invocation simulation.
func (e *Engine) Simulate(ctx context.Context, req Request) (*Result, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.Start(ctx, "simulate")
	defer span.End()

	if req.ContractID == "" {
		return nil, errors.WrapValidation("Contract ID cannot be empty")
	}
	if _, err := strkey.Decode(strkey.VersionByteContract, req.ContractID); err != nil {
		return nil, errors.WrapValidation("contract_id is not a valid contract address")
	}

	if len(req.Overrides) > 0 {
		return e.simulateWithOverrides(ctx, req)
	}

	args, err := parseArgs(req.Args)
	if err != nil {
		return nil, err
	}

	envelopeB64, err := envelope.Encode(req.ContractID, req.FunctionName, args)
	if err != nil {
		return nil, err
	}

	raw, err := e.Registry.Call(ctx, "simulateTransaction", simulateParams{Transaction: envelopeB64})
	if err != nil {
		return nil, err
	}

	var resp simulateTransactionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.WrapParse(err)
	}

	result, _, err := buildResult(resp)
	return result, err
}

// SimulateUpload profiles an upload-bytecode transaction carrying wasm,
// reusing the same dispatch and response normalization as Simulate.
func (e *Engine) SimulateUpload(ctx context.Context, wasm []byte) (*Result, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.Start(ctx, "simulate_upload")
	defer span.End()

	if len(wasm) == 0 {
		return nil, errors.WrapValidation("contract bytecode cannot be empty")
	}

	envelopeB64, err := envelope.EncodeUpload(wasm)
	if err != nil {
		return nil, err
	}

	raw, err := e.Registry.Call(ctx, "simulateTransaction", simulateParams{Transaction: envelopeB64})
	if err != nil {
		return nil, err
	}

	var resp simulateTransactionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.WrapParse(err)
	}

	result, _, err := buildResult(resp)
	return result, err
}

func parseArgs(raw []string) ([]*value.Value, error) {
	out := make([]*value.Value, 0, len(raw))
	for i, a := range raw {
		v, err := argToValue(fmt.Sprintf("$.args[%d]", i), a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func buildResult(resp simulateTransactionResponse) (*Result, *envelope.Footprint, error) {
	cpu, err := strconv.ParseUint(resp.Cost.CPUInsns, 10, 64)
	if err != nil {
		logger.Logger.Warn("failed to parse cost.cpuInsns, defaulting to 0", "value", resp.Cost.CPUInsns)
		cpu = 0
	}
	mem, err := strconv.ParseUint(resp.Cost.MemBytes, 10, 64)
	if err != nil {
		logger.Logger.Warn("failed to parse cost.memBytes, defaulting to 0", "value", resp.Cost.MemBytes)
		mem = 0
	}

	var readBytes, writeBytes, txSize uint64
	var footprint *envelope.Footprint
	if resp.TransactionData != "" {
		footprint, err = envelope.DecodeTransactionData(resp.TransactionData)
		if err != nil {
			return nil, nil, err
		}
		read, write := footprint.ReadWriteBytes()
		readBytes = uint64(read)
		writeBytes = uint64(write)

		// Length of transaction_data as transmitted, not of its decoded
		// binary form.
		txSize = uint64(len(resp.TransactionData))
	}

	resources := Resources{
		CPUInstructions:      cpu,
		RAMBytes:             mem,
		LedgerReadBytes:      readBytes,
		LedgerWriteBytes:     writeBytes,
		TransactionSizeBytes: txSize,
	}

	return &Result{
		Resources:    resources,
		LatestLedger: resp.LatestLedger,
		CostStroops:  BaselineCostStroops(resources),
	}, footprint, nil
}

// BaselineCostStroops is the baseline cost formula; named cost-schedule
// fees are computed separately by internal/costmodel.
func BaselineCostStroops(r Resources) uint64 {
	return r.CPUInstructions/10000 +
		r.RAMBytes/1024 +
		(r.LedgerReadBytes+r.LedgerWriteBytes)/1024 +
		r.TransactionSizeBytes/1024
}
