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

// Package costmodel holds the named fee schedules with per-resource
// limits, alias resolution, and a comparison operator. Ordering between
// schedules uses hashicorp/go-version on the protocol version each
// schedule implements.
package costmodel

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/dotandev/soroscope/internal/errors"
)

const (
	kib = 1024
	mib = 1024 * 1024
)

// Schedule is one named protocol cost schedule.
type Schedule struct {
	Name            string
	ProtocolVersion uint32

	CPUPerFee    uint64
	MemPerFee    uint64
	LedgerPerFee uint64
	TxPerFee     uint64

	MaxCPU   uint64
	MaxMem   uint64
	MaxRead  uint64
	MaxWrite uint64
	MaxTx    uint64
}

var builtins = map[string]*Schedule{
	"protocol_21": {
		Name: "protocol_21", ProtocolVersion: 21,
		CPUPerFee: 10_000, MemPerFee: 1_024, LedgerPerFee: 1_024, TxPerFee: 1_024,
		MaxCPU: 100_000_000, MaxMem: 40 * mib, MaxRead: 200 * kib, MaxWrite: 64 * kib, MaxTx: 70 * kib,
	},
	"protocol_22": {
		Name: "protocol_22", ProtocolVersion: 22,
		CPUPerFee: 12_500, MemPerFee: 1_024, LedgerPerFee: 768, TxPerFee: 1_024,
		MaxCPU: 200_000_000, MaxMem: 64 * mib, MaxRead: 200 * kib, MaxWrite: 128 * kib, MaxTx: 70 * kib,
	},
	"custom_private": {
		Name: "custom_private", ProtocolVersion: 0,
		CPUPerFee: 10_000, MemPerFee: 1_024, LedgerPerFee: 1_024, TxPerFee: 1_024,
		MaxCPU: 500_000_000, MaxMem: 128 * mib, MaxRead: 1 * mib, MaxWrite: 512 * kib, MaxTx: 256 * kib,
	},
}

// aliases maps every recognized preset spelling (case-insensitive) to its
// canonical name.
var aliases = map[string]string{
	"protocol_21": "protocol_21",
	"p21":         "protocol_21",
	"current":     "protocol_21",
	"protocol_22": "protocol_22",
	"p22":         "protocol_22",
	"next":        "protocol_22",
	"upcoming":    "protocol_22",
	"custom":      "custom_private",
	"private":     "custom_private",

	"custom_private": "custom_private",
}

// Registry is the set of available cost schedules: a per-instance copy of
// the built-in table. It offers lookup only; it has no method for adding
// schedules.
type Registry struct {
	schedules map[string]*Schedule
}

// NewRegistry builds a Registry preloaded with the three built-in schedules.
func NewRegistry() *Registry {
	schedules := make(map[string]*Schedule, len(builtins))
	for k, v := range builtins {
		cp := *v
		schedules[k] = &cp
	}
	return &Registry{schedules: schedules}
}

// Resolve looks up a schedule by name or alias, case-insensitively.
func (r *Registry) Resolve(name string) (*Schedule, error) {
	canonical, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.WrapValidation(fmt.Sprintf("unknown cost schedule %q", name))
	}
	s, ok := r.schedules[canonical]
	if !ok {
		return nil, errors.WrapValidation(fmt.Sprintf("unknown cost schedule %q", name))
	}
	return s, nil
}

// Names returns every canonical schedule name, ordered by protocol version
// (ascending, ties broken alphabetically) using hashicorp/go-version for
// the version comparison.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schedules))
	for name := range r.schedules {
		names = append(names, name)
	}

	versioned := func(name string) *version.Version {
		v, err := version.NewVersion(fmt.Sprintf("%d.0.0", r.schedules[name].ProtocolVersion))
		if err != nil {
			return version.Must(version.NewVersion("0.0.0"))
		}
		return v
	}

	for i := 1; i < len(names); i++ {
		for j := i; j > 0; j-- {
			a, b := versioned(names[j-1]), versioned(names[j])
			if a.GreaterThan(b) || (a.Equal(b) && names[j-1] > names[j]) {
				names[j-1], names[j] = names[j], names[j-1]
			}
		}
	}
	return names
}
