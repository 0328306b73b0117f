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

package envelope

import (
	"strings"
	"testing"

	"github.com/dotandev/soroscope/internal/value"
)

const testContract = "CAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABSC4"

func TestEncodeInvokeContract(t *testing.T) {
	args := []*value.Value{value.Symbol("transfer"), value.I64(100)}

	b64, err := Encode(testContract, "transfer", args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b64 == "" {
		t.Fatalf("expected non-empty envelope")
	}
}

func TestEncodeUpload(t *testing.T) {
	b64, err := EncodeUpload([]byte{0x00, 0x61, 0x73, 0x6d})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b64 == "" {
		t.Fatalf("expected non-empty upload envelope")
	}
}

func TestEncodeRejectsBadContractAddress(t *testing.T) {
	_, err := Encode("not-an-address", "transfer", nil)
	if err == nil {
		t.Fatalf("expected error for malformed contract address")
	}
	if !strings.Contains(err.Error(), "xdr") && !strings.Contains(err.Error(), "invalid") {
		t.Errorf("expected an xdr/invalid error, got %v", err)
	}
}

func TestEstimateBytesEmptyFootprint(t *testing.T) {
	if got := EstimateBytes(nil); got != 0 {
		t.Errorf("expected 0 for empty footprint, got %d", got)
	}
}

func TestDecodeTransactionDataRejectsGarbage(t *testing.T) {
	if _, err := DecodeTransactionData("!!!not-base64!!!"); err == nil {
		t.Fatalf("expected base64 decode error")
	}
	if _, err := DecodeTransactionData("aGVsbG8="); err == nil {
		t.Fatalf("expected xdr unmarshal error for non-xdr payload")
	}
}
