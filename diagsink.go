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

import (
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"
)

// StderrSink is the default DiagSink: it prints the C7 include/macro
// trail followed by a gcc-style "<path>:<line>:<col>: warning|error:
// <message>" line, the same shape as the teacher's Warn/Error helpers.
// Writes are serialised so trace + message pairs from concurrent
// callers never interleave.
type StderrSink struct {
	mu  sync.Mutex
	out io.Writer

	Warnings int
	Errors   int
}

func NewStderrSink(out io.Writer) *StderrSink {
	return &StderrSink{out: out}
}

func (s *StderrSink) Warning(pos SourcePos, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Warnings++
	Fprint(s.out, pos)
	fmt.Fprintf(s.out, ": warning: %s\n", message)
	if glog.V(1) {
		glog.Infof("warning at %s: %s", pos, message)
	}
}

func (s *StderrSink) Error(pos SourcePos, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors++
	Fprint(s.out, pos)
	fmt.Fprintf(s.out, ": error: %s\n", message)
	if glog.V(1) {
		glog.Infof("error at %s: %s", pos, message)
	}
}
