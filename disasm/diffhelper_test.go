// Copyright 2015 Google Inc. All rights reserved
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

package disasm

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// assertGolden compares got against a golden want string, rendering a
// human-readable diff (as run_test.go does for Make-vs-kati output)
// instead of a wall of quoted text on mismatch.
func assertGolden(t *testing.T, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	t.Errorf("golden mismatch, want (green) vs got (red):\n%s", dmp.DiffPrettyText(diffs))
}
