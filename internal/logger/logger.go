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

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var Logger *slog.Logger

var Level = new(slog.LevelVar)

func init() {
	Init(slog.LevelInfo, os.Stderr)
}

func Init(level slog.Level, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level:     Level,
		AddSource: true,
	})

	Logger = slog.New(handler)
	Level.Set(level)
}

func SetLevel(level slog.Level) {
	Level.Set(level)
}

// ParseFilter accepts a RUST_LOG-style filter expression ("info",
// "debug", "soroscope=warn") and returns the coarse slog.Level it implies.
// soroscope only honors the level name, not per-target scoping; a
// per-target expression degrades to its last named level.
func ParseFilter(expr string) slog.Level {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return slog.LevelInfo
	}

	fields := strings.Split(expr, ",")
	last := fields[len(fields)-1]
	if idx := strings.LastIndex(last, "="); idx >= 0 {
		last = last[idx+1:]
	}

	switch strings.ToLower(strings.TrimSpace(last)) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
