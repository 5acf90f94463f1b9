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

import "io"

// minLineBufSize is the minimum capacity a stream filter's line buffer
// grows to; logical lines rarely exceed it in practice, so most input
// files never trigger a second growth.
const minLineBufSize = 300

// lineBuffer is the growable byte container a stream filter reads into
// and performs in-place lexical normalisation on. It supports slicing
// without reallocating on every call by keeping valid data in buf[:size]
// and growing geometrically when more room is needed.
type lineBuffer struct {
	buf  []byte
	size int
}

func newLineBuffer() *lineBuffer {
	return &lineBuffer{buf: make([]byte, minLineBufSize)}
}

func (b *lineBuffer) Len() int { return b.size }

func (b *lineBuffer) Bytes() []byte { return b.buf[:b.size] }

// compact shifts buf[from:size] down to offset 0, so an in-progress
// logical line stays contiguous once its leading bytes have been
// consumed by an earlier readLine call.
func (b *lineBuffer) compact(from int) int {
	if from == 0 {
		return 0
	}
	shifted := copy(b.buf, b.buf[from:b.size])
	b.size = shifted
	return shifted
}

// growTo ensures capacity for at least n bytes, growing geometrically
// (>= 1.5x current size) rather than to the exact requested size.
func (b *lineBuffer) growTo(n int) {
	if n <= len(b.buf) {
		return
	}
	newCap := len(b.buf) + len(b.buf)/2
	if newCap < n {
		newCap = n
	}
	if newCap < minLineBufSize {
		newCap = minLineBufSize
	}
	grown := make([]byte, newCap)
	copy(grown, b.buf[:b.size])
	b.buf = grown
}

// fill reads from r into the buffer starting at b.size, growing first
// if there's no room, and returns the number of bytes read.
func (b *lineBuffer) fill(r io.Reader) (int, error) {
	if b.size == len(b.buf) {
		b.growTo(len(b.buf) + len(b.buf)/2 + 1)
	}
	n, err := r.Read(b.buf[b.size:])
	b.size += n
	return n, err
}
