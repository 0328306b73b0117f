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
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/stellar/go/strkey"

	"github.com/dotandev/soroscope/internal/errors"
)

// Parse turns one textual argument into a Value. location is a
// JSON-pointer-like path used in error messages (e.g. "$.cfg.tags[1]");
// callers parsing a top-level argument pass "$".
func Parse(location, text string) (*Value, error) {
	s := strings.TrimSpace(text)

	switch {
	case s == "null", s == "void", s == "()":
		return Void(), nil
	case s == "true":
		return Bool(true), nil
	case s == "false":
		return Bool(false), nil
	case strings.HasPrefix(s, "0x"):
		return parseHex(location, s)
	case strings.HasPrefix(s, ":"):
		return parseSymbol(location, s)
	case len(s) == 56 && (s[0] == 'G' || s[0] == 'C'):
		return parseAddress(location, s)
	case strings.HasPrefix(s, "\""):
		return parseString(location, s)
	case strings.HasPrefix(s, "["):
		return parseVec(location, s)
	case strings.HasPrefix(s, "{"):
		return parseMap(location, s)
	default:
		return parseInteger(location, s)
	}
}

func parseHex(location, s string) (*Value, error) {
	digits := s[2:]
	if len(digits)%2 != 0 {
		return nil, errors.WrapInvalidHex(location, "odd-length hex literal")
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, errors.WrapInvalidHex(location, err.Error())
	}
	return BytesVal(b), nil
}

func parseSymbol(location, s string) (*Value, error) {
	rest := s[1:]
	if rest == "" {
		return nil, errors.WrapInvalidSymbol(location, "empty symbol")
	}
	if len(rest) > MaxSymbolLen {
		return nil, errors.WrapInvalidSymbol(location, fmt.Sprintf("symbol exceeds %d characters", MaxSymbolLen))
	}
	for _, r := range rest {
		if !IsSymbolChar(r) {
			return nil, errors.WrapInvalidSymbol(location, fmt.Sprintf("illegal character %q", r))
		}
	}
	return Symbol(rest), nil
}

func parseAddress(location, s string) (*Value, error) {
	switch s[0] {
	case 'G':
		if _, err := strkey.Decode(strkey.VersionByteAccountID, s); err != nil {
			return nil, errors.WrapInvalidType(location, "address", s)
		}
		return Address(AddressAccount, s), nil
	case 'C':
		if _, err := strkey.Decode(strkey.VersionByteContract, s); err != nil {
			return nil, errors.WrapInvalidType(location, "address", s)
		}
		return Address(AddressContract, s), nil
	default:
		return nil, errors.WrapInvalidType(location, "address", s)
	}
}

func parseString(location, s string) (*Value, error) {
	var out string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, errors.WrapInvalidType(location, "string", s)
	}
	return String(out), nil
}

func parseInteger(location, s string) (*Value, error) {
	if signed, err := strconv.ParseInt(s, 10, 64); err == nil {
		return I64(signed), nil
	}
	if unsigned, err := strconv.ParseUint(s, 10, 64); err == nil {
		return U64(unsigned), nil
	}
	// A numeric-looking token that isn't a whole number (e.g. "1.5") is
	// reported as a failed integer, not a failed anything-else.
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return nil, errors.WrapInvalidType(location, "integer", s)
	}
	return nil, errors.WrapInvalidType(location, "null|bool|integer|bytes|symbol|address|string|vec|map", s)
}

func parseVec(location, s string) (*Value, error) {
	inner, err := unwrap(s, '[', ']')
	if err != nil {
		return nil, errors.WrapInvalidType(location, "vec", s)
	}
	items, err := splitTopLevel(inner)
	if err != nil {
		return nil, errors.WrapInvalidType(location, "vec", s)
	}
	out := make([]*Value, 0, len(items))
	for i, item := range items {
		child, err := Parse(fmt.Sprintf("%s[%d]", location, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return Vec(out), nil
}

func parseMap(location, s string) (*Value, error) {
	inner, err := unwrap(s, '{', '}')
	if err != nil {
		return nil, errors.WrapInvalidType(location, "map", s)
	}
	pairs, err := splitTopLevel(inner)
	if err != nil {
		return nil, errors.WrapInvalidType(location, "map", s)
	}

	entries := make([]MapEntry, 0, len(pairs))
	for _, pair := range pairs {
		key, rawVal, err := splitKeyValue(pair)
		if err != nil {
			return nil, errors.WrapInvalidType(location, "map entry", pair)
		}

		var keyStr string
		if err := json.Unmarshal([]byte(key), &keyStr); err != nil {
			return nil, errors.WrapInvalidType(location+".<key>", "string", key)
		}
		if len(keyStr) > MaxSymbolLen {
			return nil, errors.WrapInvalidSymbol(location, fmt.Sprintf("map key exceeds %d characters", MaxSymbolLen))
		}
		for _, r := range keyStr {
			if !IsSymbolChar(r) {
				return nil, errors.WrapInvalidSymbol(location, fmt.Sprintf("map key has illegal character %q", r))
			}
		}

		val, err := Parse(location+"."+keyStr, rawVal)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: Symbol(keyStr), Val: val})
	}

	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(CanonicalKeyBytes(entries[i].Key), CanonicalKeyBytes(entries[j].Key)) < 0
	})

	return Map(entries), nil
}

// unwrap strips the outer open/close delimiter, requiring the string to
// start and end with them exactly once at the top level.
func unwrap(s string, open, close byte) (string, error) {
	if len(s) < 2 || s[0] != open || s[len(s)-1] != close {
		return "", fmt.Errorf("missing %c...%c delimiters", open, close)
	}
	return strings.TrimSpace(s[1 : len(s)-1]), nil
}

// splitTopLevel splits a comma-separated list, ignoring commas nested inside
// strings, brackets, or braces.
func splitTopLevel(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var parts []string
	depth := 0
	inString := false
	escaped := false
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string literal, ignore structural characters
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced delimiters")
			}
		case c == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if depth != 0 || inString {
		return nil, fmt.Errorf("unbalanced delimiters")
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts, nil
}

// splitKeyValue splits a "key":value object pair on the first top-level
// colon.
func splitKeyValue(pair string) (key, val string, err error) {
	inString := false
	escaped := false
	for i := 0; i < len(pair); i++ {
		c := pair[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case c == ':' && !inString:
			return strings.TrimSpace(pair[:i]), strings.TrimSpace(pair[i+1:]), nil
		}
	}
	return "", "", fmt.Errorf("missing ':' in object entry %q", pair)
}
