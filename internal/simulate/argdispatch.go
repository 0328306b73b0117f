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
	"strconv"
	"strings"

	"github.com/dotandev/soroscope/internal/value"
)

// argToValue dispatches one raw CLI/HTTP argument: it is not itself a JSON
// document, so it goes through a few shorthands before falling back to the
// internal/value grammar, and finally to a bare Symbol when nothing else
// matches.
func argToValue(location, arg string) (*value.Value, error) {
	trimmed := strings.TrimSpace(arg)

	switch {
	case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
		return value.Parse(location, trimmed)
	case trimmed == "true", trimmed == "false", trimmed == "void", trimmed == "()", trimmed == "null":
		return value.Parse(location, trimmed)
	case strings.HasPrefix(trimmed, "G"), strings.HasPrefix(trimmed, "C"),
		strings.HasPrefix(trimmed, ":"), strings.HasPrefix(trimmed, "0x"):
		return value.Parse(location, trimmed)
	case looksLikeInteger(trimmed), strings.HasPrefix(trimmed, "\""):
		return value.Parse(location, trimmed)
	default:
		return value.Symbol(trimmed), nil
	}
}

func looksLikeInteger(s string) bool {
	if s == "" {
		return false
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseUint(s, 10, 64); err == nil {
		return true
	}
	return false
}
