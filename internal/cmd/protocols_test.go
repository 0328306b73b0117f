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

	"github.com/dotandev/soroscope/internal/costmodel"
)

func TestScheduleLabel(t *testing.T) {
	r := costmodel.NewRegistry()
	current, err := r.Resolve("current")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, err := scheduleLabel(current, current)
	if err != nil || label != "current" {
		t.Errorf("expected baseline labeled current, got %q (%v)", label, err)
	}

	next, err := r.Resolve("next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label, err = scheduleLabel(next, current)
	if err != nil || !strings.Contains(label, "upcoming") {
		t.Errorf("expected newer schedule labeled upcoming, got %q (%v)", label, err)
	}

	custom, err := r.Resolve("custom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	label, err = scheduleLabel(custom, current)
	if err != nil || label != "custom" {
		t.Errorf("expected custom schedule labeled custom, got %q (%v)", label, err)
	}
}
