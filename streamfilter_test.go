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
	"strings"
	"testing"
)

func repeatSpaces(n int) string { return strings.Repeat(" ", n) }

type capturingSink struct {
	warnings []SourcePos
	errors   []SourcePos
	messages []string
}

func (s *capturingSink) Warning(pos SourcePos, message string) {
	s.warnings = append(s.warnings, pos)
	s.messages = append(s.messages, message)
}

func (s *capturingSink) Error(pos SourcePos, message string) {
	s.errors = append(s.errors, pos)
	s.messages = append(s.messages, message)
}

func TestStreamInputFilterLineContinuation(t *testing.T) {
	// Scenario S1: "abc \\\n def" joins across the continuation seam.
	sink := &capturingSink{}
	filt := NewStreamInputFilter(strings.NewReader("abc \\\n def"), "a.s", sink)

	line, colTrans, ok, err := filt.ReadLine()
	if err != nil || !ok {
		t.Fatalf("ReadLine() = (%q, ok=%v, err=%v)", line, ok, err)
	}
	if want := "abc  def"; string(line) != want {
		t.Errorf("line = %q, want %q", line, want)
	}
	want := []LineTrans{{OutputCol: 0, OriginalLine: 1}, {OutputCol: 4, OriginalLine: 2}}
	if len(colTrans) != len(want) || colTrans[0] != want[0] || colTrans[1] != want[1] {
		t.Fatalf("colTrans = %+v, want %+v", colTrans, want)
	}
	// The 6th human-facing column ("d") is 0-based position 5.
	if gotLine, gotCol := Translate(colTrans, 5); gotLine != 2 || gotCol != 2 {
		t.Errorf("Translate(colTrans, 5) = (%d, %d), want (2, 2)", gotLine, gotCol)
	}
	if _, _, ok, _ := filt.ReadLine(); ok {
		t.Errorf("second ReadLine: ok = true, want false (input exhausted)")
	}
}

func TestStreamInputFilterStatementSplit(t *testing.T) {
	// Scenario S2: a ';' splits one physical line into two logical ones.
	sink := &capturingSink{}
	filt := NewStreamInputFilter(strings.NewReader("mov r0, r1 ; add r2, r3\n"), "a.s", sink)

	line1, trans1, ok, err := filt.ReadLine()
	if err != nil || !ok {
		t.Fatalf("first ReadLine() = (%q, ok=%v, err=%v)", line1, ok, err)
	}
	if want := "mov r0, r1 "; string(line1) != want {
		t.Errorf("first line = %q, want %q", line1, want)
	}
	if len(trans1) == 0 || trans1[0] != (LineTrans{OutputCol: 0, OriginalLine: 1}) {
		t.Errorf("first line colTrans[0] = %+v, want {OutputCol:0 OriginalLine:1}", trans1)
	}

	line2, trans2, ok, err := filt.ReadLine()
	if err != nil || !ok {
		t.Fatalf("second ReadLine() = (%q, ok=%v, err=%v)", line2, ok, err)
	}
	if want := "add r2, r3"; string(line2) != want {
		t.Errorf("second line = %q, want %q", line2, want)
	}
	const stmtPos = 12
	if len(trans2) == 0 || trans2[0] != (LineTrans{OutputCol: -stmtPos, OriginalLine: 1}) {
		t.Errorf("second line colTrans[0] = %+v, want {OutputCol:-%d OriginalLine:1}", trans2, stmtPos)
	}
	if _, _, ok, _ := filt.ReadLine(); ok {
		t.Errorf("third ReadLine: ok = true, want false")
	}
}

func TestStreamInputFilterUnterminatedBlockComment(t *testing.T) {
	// Scenario S3: a block comment left open at EOF is reported through
	// the diag sink, with the line returned as blanks from the "/*" on.
	sink := &capturingSink{}
	filt := NewStreamInputFilter(strings.NewReader("a /* b"), "a.s", sink)

	line, _, ok, err := filt.ReadLine()
	if err != nil || !ok {
		t.Fatalf("ReadLine() = (%q, ok=%v, err=%v)", line, ok, err)
	}
	if want := "a     "; string(line) != want {
		t.Errorf("line = %q, want %q", line, want)
	}
	if len(sink.errors) != 1 {
		t.Fatalf("len(sink.errors) = %d, want 1", len(sink.errors))
	}
	if sink.messages[0] != "Unterminated multi-line comment" {
		t.Errorf("message = %q, want %q", sink.messages[0], "Unterminated multi-line comment")
	}
	if got := sink.errors[0]; got.Line != 1 || got.Col != 7 {
		t.Errorf("error pos = %+v, want Line=1 Col=7", got)
	}
}

func TestStreamInputFilterLineCommentToEOF(t *testing.T) {
	sink := &capturingSink{}
	filt := NewStreamInputFilter(strings.NewReader("nop # trailing remark"), "a.s", sink)

	line, _, ok, err := filt.ReadLine()
	if err != nil || !ok {
		t.Fatalf("ReadLine() = (%q, ok=%v, err=%v)", line, ok, err)
	}
	// "nop" survives; the collapsed run before '#' and everything the
	// line comment swallows through EOF become blanks, in place.
	if want := "nop" + repeatSpaces(18); string(line) != want {
		t.Errorf("line = %q, want %q", line, want)
	}
	if len(sink.errors) != 0 {
		t.Errorf("sink.errors = %v, want none", sink.errors)
	}
}

func TestStreamInputFilterUnterminatedString(t *testing.T) {
	sink := &capturingSink{}
	filt := NewStreamInputFilter(strings.NewReader("s \"abc\nmov"), "a.s", sink)

	line, _, ok, err := filt.ReadLine()
	if err != nil || !ok {
		t.Fatalf("ReadLine() = (%q, ok=%v, err=%v)", line, ok, err)
	}
	if want := "s \"abc"; string(line) != want {
		t.Errorf("line = %q, want %q", line, want)
	}
	if len(sink.warnings) != 1 || sink.messages[0] != "Unterminated string: newline inserted" {
		t.Errorf("warnings = %v, messages = %v", sink.warnings, sink.messages)
	}
}
