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

import "encoding/binary"

// CanonicalKeyBytes returns the canonical byte form of v used to order Map
// entries. Map keys are always Symbol values in this grammar;
// the general cases below keep the function total for value trees built
// directly by the envelope decoder rather than the text parser.
func CanonicalKeyBytes(v *Value) []byte {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindSymbol, KindString:
		return []byte(v.Str)
	case KindBytes:
		return v.Bytes
	case KindAddress:
		return []byte(v.AddressID)
	case KindI64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(v.I64))
		return b[:]
	case KindU64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], v.U64)
		return b[:]
	case KindU32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v.U32)
		return b[:]
	case KindI32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(v.I32))
		return b[:]
	case KindBool:
		if v.Bool {
			return []byte{1}
		}
		return []byte{0}
	default:
		return nil
	}
}

// EstimateSize computes the recursive value-tree size estimate used by the
// envelope codec to price contract-data footprint keys whose ledger-entry
// size depends on the key's value tree.
func EstimateSize(v *Value) int {
	if v == nil {
		return 0
	}
	switch v.Kind {
	case KindVoid:
		return 0
	case KindBool:
		return 1
	case KindU32, KindI32:
		return 4
	case KindU64, KindI64, KindTimepoint, KindDuration:
		return 8
	case KindU128, KindI128:
		return 16
	case KindU256, KindI256:
		return 32
	case KindBytes:
		return len(v.Bytes)
	case KindString, KindSymbol:
		return len(v.Str)
	case KindAddress:
		return 32
	case KindError:
		return 8
	case KindContractInstance:
		return 64
	case KindLedgerKey:
		return 32
	case KindVec:
		sum := 4
		for _, c := range v.Vec {
			sum += EstimateSize(c)
		}
		return sum
	case KindMap:
		sum := 4
		for _, e := range v.Map {
			sum += EstimateSize(e.Key) + EstimateSize(e.Val)
		}
		return sum
	default:
		return 0
	}
}
