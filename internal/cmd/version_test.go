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

package cmd

import (
	"encoding/json"
	"testing"
)

func TestVersionInfoMarshalsExpectedFields(t *testing.T) {
	info := versionInfo{Version: "1.2.3", GoVersion: "go1.22"}
	out, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"version":"1.2.3","go_version":"go1.22"}`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestRootCmdRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "analyze", "upload", "providers", "protocols", "cache", "version"} {
		if !names[want] {
			t.Errorf("expected rootCmd to register %q subcommand", want)
		}
	}
}
