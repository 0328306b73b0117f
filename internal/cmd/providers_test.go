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
	"strings"
	"testing"
)

func TestProviderStatusString(t *testing.T) {
	if !strings.Contains(providerStatusString(false), "healthy") {
		t.Errorf("expected healthy status for untripped provider")
	}
	if !strings.Contains(providerStatusString(true), "tripped") {
		t.Errorf("expected tripped status for tripped provider")
	}
}
