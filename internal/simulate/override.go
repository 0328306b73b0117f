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
	"encoding/base64"
	"encoding/json"
	"sort"

	"github.com/stellar/go/xdr"

	"github.com/dotandev/soroscope/internal/envelope"
	"github.com/dotandev/soroscope/internal/errors"
)

// simulateWithOverrides is the local-override path: each override pair is
// validated by binary-decoding it as a ledger key/entry, the RPC round-trip
// still runs to obtain live resource metrics, and the result is annotated
// with a state-dependency list distinguishing injected keys from the
// remaining live footprint. Contract bytecode is never re-executed locally;
// the override report is informational only.
func (e *Engine) simulateWithOverrides(ctx context.Context, req Request) (*Result, error) {
	injected := make(map[string]bool, len(req.Overrides))
	for keyB64, entryB64 := range req.Overrides {
		if err := validateOverridePair(keyB64, entryB64); err != nil {
			return nil, err
		}
		injected[keyB64] = true
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

	result, footprint, err := buildResult(resp)
	if err != nil {
		return nil, err
	}

	deps := make([]StateDependency, 0, len(injected)+4)
	for keyB64 := range injected {
		deps = append(deps, StateDependency{Key: keyB64, Source: StateInjected})
	}
	if footprint != nil {
		for _, k := range append(footprint.ReadOnly, footprint.ReadWrite...) {
			keyB64, err := encodeLedgerKey(k)
			if err != nil {
				continue
			}
			if injected[keyB64] {
				continue
			}
			deps = append(deps, StateDependency{Key: keyB64, Source: StateLive})
		}
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Key < deps[j].Key })

	result.StateDependencies = deps
	return result, nil
}

func validateOverridePair(keyB64, entryB64 string) error {
	keyRaw, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return errors.WrapBase64(err)
	}
	var key xdr.LedgerKey
	if err := key.UnmarshalBinary(keyRaw); err != nil {
		return errors.WrapXDR("override key: " + err.Error())
	}

	entryRaw, err := base64.StdEncoding.DecodeString(entryB64)
	if err != nil {
		return errors.WrapBase64(err)
	}
	var entry xdr.LedgerEntry
	if err := entry.UnmarshalBinary(entryRaw); err != nil {
		return errors.WrapXDR("override entry: " + err.Error())
	}
	return nil
}

func encodeLedgerKey(k xdr.LedgerKey) (string, error) {
	b, err := k.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
