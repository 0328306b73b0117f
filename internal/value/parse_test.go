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

package value

import (
	"strings"
	"testing"
)

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind Kind
	}{
		{"null", "null", KindVoid},
		{"void keyword", "void", KindVoid},
		{"unit literal", "()", KindVoid},
		{"true", "true", KindBool},
		{"false", "false", KindBool},
		{"positive integer", "42", KindI64},
		{"negative integer", "-7", KindI64},
		{"overflowing unsigned", "18446744073709551615", KindU64},
		{"hex bytes", "0xdeadbeef", KindBytes},
		{"symbol", ":transfer", KindSymbol},
		{"quoted string", "\"hello\"", KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse("$", tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, v.Kind)
			}
		})
	}
}

func TestParseHexErrors(t *testing.T) {
	_, err := Parse("$", "0xabc")
	if err == nil || !strings.Contains(err.Error(), "odd-length") {
		t.Fatalf("expected odd-length hex error, got %v", err)
	}

	_, err = Parse("$", "0xzz")
	if err == nil {
		t.Fatalf("expected error for non-hex digits")
	}
}

func TestParseSymbolErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty symbol", ":"},
		{"too long", ":" + strings.Repeat("a", 33)},
		{"illegal character", ":foo-bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse("$", tt.in); err == nil {
				t.Fatalf("expected error for %q", tt.in)
			}
		})
	}
}

func TestParseAddress(t *testing.T) {
	// Not a valid strkey checksum, but exercises the 56-char dispatch path
	// and confirms invalid checksums are rejected rather than accepted.
	bogus := "G" + strings.Repeat("A", 55)
	if _, err := Parse("$", bogus); err == nil {
		t.Fatalf("expected checksum validation failure for bogus address")
	}
}

func TestParseVec(t *testing.T) {
	v, err := Parse("$", "[1, :a, 0xff, true]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != KindVec || len(v.Vec) != 4 {
		t.Fatalf("expected 4-element vec, got %+v", v)
	}
	if v.Vec[0].Kind != KindI64 || v.Vec[1].Kind != KindSymbol ||
		v.Vec[2].Kind != KindBytes || v.Vec[3].Kind != KindBool {
		t.Fatalf("unexpected child kinds: %+v", v.Vec)
	}
}

func TestParseMapSortsKeys(t *testing.T) {
	v, err := Parse("$", `{"zeta": 1, "alpha": 2, "mid": 3}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != KindMap || len(v.Map) != 3 {
		t.Fatalf("expected 3-entry map, got %+v", v)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, e := range v.Map {
		if e.Key.Str != want[i] {
			t.Errorf("entry %d: expected key %q, got %q", i, want[i], e.Key.Str)
		}
	}
}

func TestParseMapKeyTooLong(t *testing.T) {
	key := strings.Repeat("k", 33)
	_, err := Parse("$", `{"`+key+`": 1}`)
	if err == nil {
		t.Fatalf("expected error for over-length map key")
	}
}

func TestParseDeepNestLocation(t *testing.T) {
	_, err := Parse("$", `{"a":{"b":[1, 1.5]}}`)
	if err == nil {
		t.Fatalf("expected error for fractional literal")
	}
	if !strings.Contains(err.Error(), "$.a.b[1]") {
		t.Errorf("expected location $.a.b[1], got %v", err)
	}
	if !strings.Contains(err.Error(), "expected integer") {
		t.Errorf("expected 'expected integer', got %v", err)
	}
}

func TestParseNestedLocation(t *testing.T) {
	_, err := Parse("$", "[1, not-valid-!!]")
	if err == nil {
		t.Fatalf("expected error for invalid nested element")
	}
	if !strings.Contains(err.Error(), "$[1]") {
		t.Errorf("expected error location to reference $[1], got %v", err)
	}
}

func TestEstimateSize(t *testing.T) {
	v := Vec([]*Value{I64(1), String("ab"), BytesVal([]byte{1, 2, 3})})
	// 4 (vec header) + 8 (i64) + 2 (string "ab") + 3 (bytes)
	if got, want := EstimateSize(v), 17; got != want {
		t.Errorf("expected estimate %d, got %d", want, got)
	}
}
