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

// Package value implements the typed blockchain-value tree and the
// argument parser that turns a JSON-like textual argument into it. The
// tree shape mirrors the discriminated-union style of stellar/go's
// xdr.ScVal (a Type tag plus per-variant payload fields) rather than a Go
// interface hierarchy, since every caller (the envelope codec, the footprint
// byte estimator) needs to switch on the concrete kind.
package value

import "math/big"

// Kind discriminates the variant carried by a Value.
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindU32
	KindI32
	KindU64
	KindI64
	KindU128
	KindI128
	KindU256
	KindI256
	KindTimepoint
	KindDuration
	KindBytes
	KindString
	KindSymbol
	KindVec
	KindMap
	KindAddress
	KindError
	KindContractInstance
	KindLedgerKey
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindU32:
		return "u32"
	case KindI32:
		return "i32"
	case KindU64:
		return "u64"
	case KindI64:
		return "i64"
	case KindU128:
		return "u128"
	case KindI128:
		return "i128"
	case KindU256:
		return "u256"
	case KindI256:
		return "i256"
	case KindTimepoint:
		return "timepoint"
	case KindDuration:
		return "duration"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindVec:
		return "vec"
	case KindMap:
		return "map"
	case KindAddress:
		return "address"
	case KindError:
		return "error"
	case KindContractInstance:
		return "contract_instance"
	case KindLedgerKey:
		return "ledger_key"
	default:
		return "unknown"
	}
}

// AddressKind discriminates account and contract addresses.
type AddressKind int

const (
	AddressAccount AddressKind = iota
	AddressContract
)

// MapEntry is one (key, value) pair of a Map. Maps produced by Parse have
// Symbol keys taken from JSON object keys; maps rebuilt from footprint keys
// by the envelope package may carry keys of any kind.
type MapEntry struct {
	Key *Value
	Val *Value
}

// Value is one node of the value tree.
type Value struct {
	Kind Kind

	Bool bool

	U32 uint32
	I32 int32
	U64 uint64
	I64 int64

	// Int is the payload for U128/I128/U256/I256 and for Timepoint/Duration
	// (stored as non-negative Int so callers share one wide-integer field).
	Int *big.Int

	Bytes []byte
	Str   string

	Vec []*Value
	Map []MapEntry

	AddressKind AddressKind
	// AddressID is the strkey-encoded G.../C... address.
	AddressID string
}

func Void() *Value { return &Value{Kind: KindVoid} }

func Bool(b bool) *Value { return &Value{Kind: KindBool, Bool: b} }

func I64(v int64) *Value { return &Value{Kind: KindI64, I64: v} }

func U64(v uint64) *Value { return &Value{Kind: KindU64, U64: v} }

func U32(v uint32) *Value { return &Value{Kind: KindU32, U32: v} }

func I32(v int32) *Value { return &Value{Kind: KindI32, I32: v} }

func BytesVal(b []byte) *Value { return &Value{Kind: KindBytes, Bytes: b} }

func String(s string) *Value { return &Value{Kind: KindString, Str: s} }

func Symbol(s string) *Value { return &Value{Kind: KindSymbol, Str: s} }

func Vec(items []*Value) *Value { return &Value{Kind: KindVec, Vec: items} }

func Map(entries []MapEntry) *Value { return &Value{Kind: KindMap, Map: entries} }

func Address(kind AddressKind, id string) *Value {
	return &Value{Kind: KindAddress, AddressKind: kind, AddressID: id}
}

// ErrorVal, ContractInstanceVal and LedgerKeyVal are fixed-budget leaf
// kinds that only ever appear as contract-data key payloads in footprint
// size estimates; they carry no fields of their own.
func ErrorVal() *Value { return &Value{Kind: KindError} }

func ContractInstanceVal() *Value { return &Value{Kind: KindContractInstance} }

func LedgerKeyVal() *Value { return &Value{Kind: KindLedgerKey} }

// MaxSymbolLen is the maximum Symbol length.
const MaxSymbolLen = 32

// IsSymbolChar reports whether r is a legal Symbol character: letter,
// digit, or underscore.
func IsSymbolChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	default:
		return false
	}
}
