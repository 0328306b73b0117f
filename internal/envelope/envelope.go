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

// Package envelope builds unsigned simulation envelopes and decodes the
// footprint descriptors the node's simulateTransaction response carries,
// using stellar/go's xdr MarshalBinary/UnmarshalBinary round trip for the
// canonical wire form.
package envelope

import (
	"encoding/base64"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"github.com/dotandev/soroscope/internal/errors"
	"github.com/dotandev/soroscope/internal/value"
)

// simulationFee is part of the fixed fields every simulation envelope
// carries: a throwaway fee, seq 0, a zero-filled source account, no
// preconditions, no memo, one operation, empty auth, no signatures.
const simulationFee = xdr.Uint32(100)

// zeroSourceAccount returns the 32-zero-byte ed25519 account used as the
// simulation transaction's source.
func zeroSourceAccount() xdr.MuxedAccount {
	var key xdr.Uint256
	return xdr.MuxedAccount{
		Type:    xdr.CryptoKeyTypeKeyTypeEd25519,
		Ed25519: &key,
	}
}

// BuildInvokeContract builds the invoke-contract host function for
// contractID.functionName(args).
func BuildInvokeContract(contractID, functionName string, args []*value.Value) (xdr.HostFunction, error) {
	addr, err := contractAddress(contractID)
	if err != nil {
		return xdr.HostFunction{}, err
	}

	scArgs := make([]xdr.ScVal, 0, len(args))
	for _, a := range args {
		sv, err := toScVal(a)
		if err != nil {
			return xdr.HostFunction{}, err
		}
		scArgs = append(scArgs, sv)
	}

	invoke := &xdr.InvokeContractArgs{
		ContractAddress: addr,
		FunctionName:    xdr.ScSymbol(functionName),
		Args:            scArgs,
	}

	return xdr.HostFunction{
		Type:           xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
		InvokeContract: invoke,
	}, nil
}

// BuildUploadBytecode builds the upload-bytecode host function wrapping
// raw WASM.
func BuildUploadBytecode(wasm []byte) xdr.HostFunction {
	return xdr.HostFunction{
		Type: xdr.HostFunctionTypeHostFunctionTypeUploadContractWasm,
		Wasm: &wasm,
	}
}

// WrapEnvelope wraps a host function into a base64-encoded unsigned
// simulation envelope.
func WrapEnvelope(fn xdr.HostFunction) (string, error) {
	op := xdr.Operation{
		Body: xdr.OperationBody{
			Type: xdr.OperationTypeInvokeHostFunction,
			InvokeHostFunctionOp: &xdr.InvokeHostFunctionOp{
				HostFunction: fn,
				Auth:         []xdr.SorobanAuthorizationEntry{},
			},
		},
	}

	tx := xdr.Transaction{
		SourceAccount: zeroSourceAccount(),
		Fee:           simulationFee,
		SeqNum:        xdr.SequenceNumber(0),
		Cond:          xdr.Preconditions{Type: xdr.PreconditionTypePrecondNone},
		Memo:          xdr.Memo{Type: xdr.MemoTypeMemoNone},
		Operations:    []xdr.Operation{op},
	}

	env := xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeEnvelopeTypeTx,
		V1: &xdr.TransactionV1Envelope{
			Tx:         tx,
			Signatures: []xdr.DecoratedSignature{},
		},
	}

	b, err := env.MarshalBinary()
	if err != nil {
		return "", errors.WrapXDR(err.Error())
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Encode is the composed entry point: build the invoke-contract host
// function and wrap it into a base64 envelope in one call.
func Encode(contractID, functionName string, args []*value.Value) (string, error) {
	fn, err := BuildInvokeContract(contractID, functionName, args)
	if err != nil {
		return "", err
	}
	return WrapEnvelope(fn)
}

// EncodeUpload is the upload counterpart of Encode: wrap raw contract
// bytecode into a base64 upload-bytecode envelope.
func EncodeUpload(wasm []byte) (string, error) {
	return WrapEnvelope(BuildUploadBytecode(wasm))
}

func contractAddress(contractID string) (xdr.ScAddress, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, contractID)
	if err != nil {
		return xdr.ScAddress{}, errors.WrapXDR("invalid contract address: " + err.Error())
	}
	var hash xdr.Hash
	copy(hash[:], raw)
	cid := xdr.ContractId(hash)
	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &cid,
	}, nil
}

// toScVal converts a parsed value tree node into its xdr.ScVal wire form.
func toScVal(v *value.Value) (xdr.ScVal, error) {
	switch v.Kind {
	case value.KindVoid:
		return xdr.ScVal{Type: xdr.ScValTypeScvVoid}, nil
	case value.KindBool:
		b := v.Bool
		return xdr.ScVal{Type: xdr.ScValTypeScvBool, B: &b}, nil
	case value.KindU32:
		u := xdr.Uint32(v.U32)
		return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &u}, nil
	case value.KindI32:
		i := xdr.Int32(v.I32)
		return xdr.ScVal{Type: xdr.ScValTypeScvI32, I32: &i}, nil
	case value.KindU64:
		u := xdr.Uint64(v.U64)
		return xdr.ScVal{Type: xdr.ScValTypeScvU64, U64: &u}, nil
	case value.KindI64:
		i := xdr.Int64(v.I64)
		return xdr.ScVal{Type: xdr.ScValTypeScvI64, I64: &i}, nil
	case value.KindBytes:
		b := xdr.ScBytes(v.Bytes)
		return xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &b}, nil
	case value.KindString:
		s := xdr.ScString(v.Str)
		return xdr.ScVal{Type: xdr.ScValTypeScvString, Str: &s}, nil
	case value.KindSymbol:
		s := xdr.ScSymbol(v.Str)
		return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &s}, nil
	case value.KindVec:
		items := make(xdr.ScVec, 0, len(v.Vec))
		for _, c := range v.Vec {
			sv, err := toScVal(c)
			if err != nil {
				return xdr.ScVal{}, err
			}
			items = append(items, sv)
		}
		itemsPtr := &items
		return xdr.ScVal{Type: xdr.ScValTypeScvVec, Vec: &itemsPtr}, nil
	case value.KindMap:
		entries := make(xdr.ScMap, 0, len(v.Map))
		for _, e := range v.Map {
			k, err := toScVal(e.Key)
			if err != nil {
				return xdr.ScVal{}, err
			}
			val, err := toScVal(e.Val)
			if err != nil {
				return xdr.ScVal{}, err
			}
			entries = append(entries, xdr.ScMapEntry{Key: k, Val: val})
		}
		entriesPtr := &entries
		return xdr.ScVal{Type: xdr.ScValTypeScvMap, Map: &entriesPtr}, nil
	case value.KindAddress:
		addr, err := scAddress(v)
		if err != nil {
			return xdr.ScVal{}, err
		}
		return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
	default:
		return xdr.ScVal{}, errors.WrapXDR("unsupported value kind for ScVal conversion")
	}
}

func scAddress(v *value.Value) (xdr.ScAddress, error) {
	switch v.AddressKind {
	case value.AddressAccount:
		raw, err := strkey.Decode(strkey.VersionByteAccountID, v.AddressID)
		if err != nil {
			return xdr.ScAddress{}, errors.WrapXDR("invalid account address: " + err.Error())
		}
		var key xdr.Uint256
		copy(key[:], raw)
		accID := xdr.AccountId{Type: xdr.PublicKeyTypePublicKeyTypeEd25519, Ed25519: &key}
		return xdr.ScAddress{Type: xdr.ScAddressTypeScAddressTypeAccount, AccountId: &accID}, nil
	case value.AddressContract:
		return contractAddress(v.AddressID)
	default:
		return xdr.ScAddress{}, errors.WrapXDR("unknown address kind")
	}
}
