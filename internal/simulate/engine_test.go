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
	"strings"
	"testing"
)

const testContract = "CAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABSC4"

type fakeDispatcher struct {
	result json.RawMessage
	err    error
	calls  int
}

func (f *fakeDispatcher) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	f.calls++
	return f.result, f.err
}

func TestSimulateRejectsEmptyContractID(t *testing.T) {
	e := NewEngine(&fakeDispatcher{})
	_, err := e.Simulate(context.Background(), Request{})
	if err == nil {
		t.Fatalf("expected validation error for empty contract id")
	}
	if !strings.Contains(err.Error(), "Contract ID cannot be empty") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestSimulateRejectsBadContractID(t *testing.T) {
	e := NewEngine(&fakeDispatcher{})
	_, err := e.Simulate(context.Background(), Request{ContractID: "not-an-address"})
	if err == nil {
		t.Fatalf("expected validation error for malformed contract id")
	}
}

func TestSimulateHappyPath(t *testing.T) {
	resp := simulateTransactionResponse{
		LatestLedger: 42,
		Cost:         simulateCost{CPUInsns: "20000", MemBytes: "2048"},
	}
	raw, _ := json.Marshal(resp)
	e := NewEngine(&fakeDispatcher{result: raw})

	result, err := e.Simulate(context.Background(), Request{
		ContractID:   testContract,
		FunctionName: "transfer",
		Args:         []string{":alice", "100"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LatestLedger != 42 {
		t.Errorf("expected latest ledger 42, got %d", result.LatestLedger)
	}
	if result.Resources.CPUInstructions != 20000 {
		t.Errorf("expected cpu 20000, got %d", result.Resources.CPUInstructions)
	}
	wantCost := BaselineCostStroops(result.Resources)
	if result.CostStroops != wantCost {
		t.Errorf("expected cost_stroops %d, got %d", wantCost, result.CostStroops)
	}
}

func TestSimulateMalformedCostDefaultsToZero(t *testing.T) {
	resp := simulateTransactionResponse{
		LatestLedger: 1,
		Cost:         simulateCost{CPUInsns: "not-a-number", MemBytes: "also-bad"},
	}
	raw, _ := json.Marshal(resp)
	e := NewEngine(&fakeDispatcher{result: raw})

	result, err := e.Simulate(context.Background(), Request{ContractID: testContract, FunctionName: "f"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Resources.CPUInstructions != 0 || result.Resources.RAMBytes != 0 {
		t.Errorf("expected cpu/ram default to 0 on parse failure, got %+v", result.Resources)
	}
}

func TestSimulateUploadRejectsEmptyBytecode(t *testing.T) {
	e := NewEngine(&fakeDispatcher{})
	_, err := e.SimulateUpload(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected validation error for empty bytecode")
	}
}

func TestSimulateUploadHappyPath(t *testing.T) {
	resp := simulateTransactionResponse{
		LatestLedger: 9,
		Cost:         simulateCost{CPUInsns: "1500", MemBytes: "256"},
	}
	raw, _ := json.Marshal(resp)
	fd := &fakeDispatcher{result: raw}
	e := NewEngine(fd)

	result, err := e.SimulateUpload(context.Background(), []byte{0x00, 0x61, 0x73, 0x6d})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fd.calls != 1 {
		t.Errorf("expected one dispatch, got %d", fd.calls)
	}
	if result.LatestLedger != 9 || result.Resources.CPUInstructions != 1500 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestArgToValueFallsBackToSymbol(t *testing.T) {
	v, err := argToValue("$", "deposit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind.String() != "symbol" || v.Str != "deposit" {
		t.Errorf("expected bare word to fall back to Symbol, got %+v", v)
	}
}

func TestArgToValueDispatchesAddress(t *testing.T) {
	account := "G" + strings.Repeat("A", 55)
	if _, err := argToValue("$", account); err == nil {
		t.Fatalf("expected checksum failure for bogus account address")
	}
}
