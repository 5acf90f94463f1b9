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

package gcnasm

import "sort"

// LineTrans is one entry of a per-logical-line map from output column
// to original (line, col). OutputCol is a signed offset from the
// line's start in the producing filter's buffer; negative values
// encode pre-line offsets introduced by statement splitting.
type LineTrans struct {
	OutputCol    int
	OriginalLine uint64
}

// Translate resolves an output column offset (0-based, the same frame
// OutputCol is recorded in) to the original (line, col) it came from,
// by finding the entry with the greatest OutputCol that is still <=
// position; the returned col is 1-based. trans must be sorted
// ascending by OutputCol (sentinel at index 0 has OutputCol <= 0),
// which every filter guarantees for its per-line translation table.
func Translate(trans []LineTrans, position int) (originalLine uint64, originalCol int) {
	// sort.Search finds the first index whose OutputCol > position;
	// the entry we want is the one just before it.
	idx := sort.Search(len(trans), func(i int) bool {
		return trans[i].OutputCol > position
	})
	idx--
	if idx < 0 {
		idx = 0
	}
	entry := trans[idx]
	return entry.OriginalLine, position - entry.OutputCol + 1
}
