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

package costmodel

import (
	"fmt"
	"maps"
	"sort"

	"github.com/hashicorp/go-version"
)

// Protocol describes one Soroban protocol version's feature gates. Each
// Schedule carries the ProtocolVersion it was derived from, so a
// schedule's effective feature set can be looked up here.
type Protocol struct {
	Version  uint32
	Name     string
	Features map[string]interface{}
}

var protocols = map[uint32]*Protocol{
	20: {
		Version: 20,
		Name:    "Soroban Protocol 20",
		Features: map[string]interface{}{
			"max_contract_size":      65536,
			"max_contract_data_size": 1024000,
			"max_instruction_limit":  100000000,
			"supported_opcodes":      []string{"invoke_contract", "create_contract"},
		},
	},
	21: {
		Version: 21,
		Name:    "Soroban Protocol 21",
		Features: map[string]interface{}{
			"max_contract_size":      65536,
			"max_contract_data_size": 2048000,
			"max_instruction_limit":  150000000,
			"supported_opcodes":      []string{"invoke_contract", "create_contract", "extend_contract"},
			"enhanced_metering":      true,
		},
	},
	22: {
		Version: 22,
		Name:    "Soroban Protocol 22",
		Features: map[string]interface{}{
			"max_contract_size":      131072,
			"max_contract_data_size": 4096000,
			"max_instruction_limit":  200000000,
			"supported_opcodes":      []string{"invoke_contract", "create_contract", "extend_contract", "upgrade_contract"},
			"enhanced_metering":      true,
			"optimized_storage":      true,
		},
	},
}

var defaultProtocolVersion uint32 = 22

// LatestProtocol returns the highest supported protocol version.
func LatestProtocol() uint32 {
	return defaultProtocolVersion
}

// GetProtocol looks up a protocol's feature table by version.
func GetProtocol(v uint32) (*Protocol, error) {
	if p, ok := protocols[v]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unsupported protocol version: %d", v)
}

// Feature returns one named feature value for a protocol version.
func Feature(v uint32, key string) (interface{}, error) {
	p, err := GetProtocol(v)
	if err != nil {
		return nil, err
	}
	val, ok := p.Features[key]
	if !ok {
		return nil, fmt.Errorf("feature %q not found in protocol %d", key, v)
	}
	return val, nil
}

// MaxContractSize returns the latest protocol's max_contract_size gate,
// used to reject over-sized bytecode before an upload simulation is
// dispatched.
func MaxContractSize() (int, bool) {
	v, err := Feature(LatestProtocol(), "max_contract_size")
	if err != nil {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

// SupportedProtocols returns every known protocol version, ascending.
func SupportedProtocols() []uint32 {
	versions := make([]uint32, 0, len(protocols))
	for v := range protocols {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

// MergeFeatures overlays custom on top of a protocol's base feature table;
// Schedule.EffectiveFeatures uses it to overlay a schedule's own limits.
// For an unknown protocol version it returns custom unchanged.
func MergeFeatures(v uint32, custom map[string]interface{}) map[string]interface{} {
	p, err := GetProtocol(v)
	if err != nil {
		return custom
	}
	result := maps.Clone(p.Features)
	for k, val := range custom {
		result[k] = val
	}
	return result
}

// EffectiveFeatures overlays this schedule's own limits on its base
// protocol's feature table, so callers see the limits the schedule actually
// enforces alongside the protocol's feature gates. Schedules with no known
// base protocol (custom_private) report only their own limits.
func (s *Schedule) EffectiveFeatures() map[string]interface{} {
	return MergeFeatures(s.ProtocolVersion, map[string]interface{}{
		"max_instruction_limit": s.MaxCPU,
		"max_memory_bytes":      s.MaxMem,
		"max_read_bytes":        s.MaxRead,
		"max_write_bytes":       s.MaxWrite,
		"max_tx_size_bytes":     s.MaxTx,
	})
}

// NewerThan reports whether s's protocol version is strictly newer than
// other's.
func (s *Schedule) NewerThan(other *Schedule) (bool, error) {
	a, err := version.NewVersion(fmt.Sprintf("%d.0.0", s.ProtocolVersion))
	if err != nil {
		return false, err
	}
	b, err := version.NewVersion(fmt.Sprintf("%d.0.0", other.ProtocolVersion))
	if err != nil {
		return false, err
	}
	return a.GreaterThan(b), nil
}
