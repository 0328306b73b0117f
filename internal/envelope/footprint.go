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
	"bytes"
	"encoding/base64"

	"github.com/stellar/go/xdr"

	"github.com/dotandev/soroscope/internal/errors"
	"github.com/dotandev/soroscope/internal/value"
)

// Footprint is the decoded read/write ledger-key footprint carried by a
// simulateTransaction response's transaction_data field.
type Footprint struct {
	ReadOnly  []xdr.LedgerKey
	ReadWrite []xdr.LedgerKey
}

// DecodeTransactionData decodes the base64 SorobanTransactionData payload
// and extracts its footprint.
func DecodeTransactionData(b64 string) (*Footprint, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, errors.WrapBase64(err)
	}

	var data xdr.SorobanTransactionData
	if _, err := xdr.Unmarshal(bytes.NewReader(raw), &data); err != nil {
		return nil, errors.WrapXDR(err.Error())
	}

	return &Footprint{
		ReadOnly:  data.Resources.Footprint.ReadOnly,
		ReadWrite: data.Resources.Footprint.ReadWrite,
	}, nil
}

// ledgerKeyBytes is the per-variant byte budget, plus a recursive
// value-tree estimate for contract-data keys.
func ledgerKeyBytes(k xdr.LedgerKey) int {
	switch k.Type {
	case xdr.LedgerEntryTypeAccount:
		return 56
	case xdr.LedgerEntryTypeTrustline:
		return 72
	case xdr.LedgerEntryTypeContractData:
		est := 0
		if k.ContractData != nil {
			est = value.EstimateSize(scValToValue(k.ContractData.Key))
		}
		return 36 + est
	case xdr.LedgerEntryTypeContractCode:
		return 32
	case xdr.LedgerEntryTypeOffer:
		return 48
	case xdr.LedgerEntryTypeData:
		return 64
	case xdr.LedgerEntryTypeClaimableBalance:
		return 36
	case xdr.LedgerEntryTypeLiquidityPool:
		return 32
	case xdr.LedgerEntryTypeConfigSetting:
		return 8
	case xdr.LedgerEntryTypeTtl:
		return 32
	default:
		return 0
	}
}

// EstimateBytes sums the per-key byte budget of a key list.
func EstimateBytes(keys []xdr.LedgerKey) int {
	total := 0
	for _, k := range keys {
		total += ledgerKeyBytes(k)
	}
	return total
}

// ReadWriteBytes returns (ledger_read_bytes, ledger_write_bytes) for a
// decoded footprint.
func (f *Footprint) ReadWriteBytes() (read, write int) {
	return EstimateBytes(f.ReadOnly), EstimateBytes(f.ReadWrite)
}

// scValToValue converts an xdr.ScVal contract-data key back into a value
// tree so EstimateSize can walk it; it only needs to preserve shape and
// leaf byte-lengths, not full fidelity.
func scValToValue(v xdr.ScVal) *value.Value {
	switch v.Type {
	case xdr.ScValTypeScvBool:
		if v.B != nil {
			return value.Bool(*v.B)
		}
		return value.Bool(false)
	case xdr.ScValTypeScvVoid:
		return value.Void()
	case xdr.ScValTypeScvU32:
		if v.U32 != nil {
			return value.U32(uint32(*v.U32))
		}
		return value.U32(0)
	case xdr.ScValTypeScvI32:
		if v.I32 != nil {
			return value.I32(int32(*v.I32))
		}
		return value.I32(0)
	case xdr.ScValTypeScvU64:
		if v.U64 != nil {
			return value.U64(uint64(*v.U64))
		}
		return value.U64(0)
	case xdr.ScValTypeScvI64:
		if v.I64 != nil {
			return value.I64(int64(*v.I64))
		}
		return value.I64(0)
	case xdr.ScValTypeScvTimepoint:
		return &value.Value{Kind: value.KindTimepoint}
	case xdr.ScValTypeScvDuration:
		return &value.Value{Kind: value.KindDuration}
	case xdr.ScValTypeScvU128:
		return &value.Value{Kind: value.KindU128}
	case xdr.ScValTypeScvI128:
		return &value.Value{Kind: value.KindI128}
	case xdr.ScValTypeScvU256:
		return &value.Value{Kind: value.KindU256}
	case xdr.ScValTypeScvI256:
		return &value.Value{Kind: value.KindI256}
	case xdr.ScValTypeScvBytes:
		if v.Bytes != nil {
			return value.BytesVal([]byte(*v.Bytes))
		}
		return value.BytesVal(nil)
	case xdr.ScValTypeScvString:
		if v.Str != nil {
			return value.String(string(*v.Str))
		}
		return value.String("")
	case xdr.ScValTypeScvSymbol:
		if v.Sym != nil {
			return value.Symbol(string(*v.Sym))
		}
		return value.Symbol("")
	case xdr.ScValTypeScvVec:
		if v.Vec == nil || *v.Vec == nil {
			return value.Vec(nil)
		}
		items := make([]*value.Value, 0, len(**v.Vec))
		for _, c := range **v.Vec {
			items = append(items, scValToValue(c))
		}
		return value.Vec(items)
	case xdr.ScValTypeScvMap:
		if v.Map == nil || *v.Map == nil {
			return value.Map(nil)
		}
		entries := make([]value.MapEntry, 0, len(**v.Map))
		for _, e := range **v.Map {
			entries = append(entries, value.MapEntry{Key: scValToValue(e.Key), Val: scValToValue(e.Val)})
		}
		return value.Map(entries)
	case xdr.ScValTypeScvAddress:
		return value.Address(value.AddressContract, "")
	case xdr.ScValTypeScvError:
		return value.ErrorVal()
	case xdr.ScValTypeScvContractInstance:
		return value.ContractInstanceVal()
	case xdr.ScValTypeScvLedgerKeyContractInstance, xdr.ScValTypeScvLedgerKeyNonce:
		return value.LedgerKeyVal()
	default:
		return value.Void()
	}
}
