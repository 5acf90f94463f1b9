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

// FilterKind distinguishes the three input filter implementations the
// assembler stacks: a raw stream, a macro substitution replay, and a
// repeat/IRP/IRPC replay.
type FilterKind int

const (
	FilterStream FilterKind = iota
	FilterMacroSubst
	FilterRepeat
)

// InputFilter is the contract every source of logical lines implements.
// The assembler keeps a stack of these; the top one yields lines until
// it is exhausted (ReadLine returns ok=false), at which point the
// assembler pops it and resumes the one below.
type InputFilter interface {
	// ReadLine returns the next logical line and its column
	// translation table, or ok=false at EOF. err is non-nil only for
	// a fatal condition (e.g. I/O failure); lexical problems are
	// reported through the DiagSink instead and do not set err.
	ReadLine() (line []byte, colTrans []LineTrans, ok bool, err error)
	Source() SourceNode
	MacroSubst() *MacroSubst
	CurrentLine() uint64
	Kind() FilterKind
}

// DiagSink is the diagnostic collector filters report through. The
// filter treats it as opaque: it never inspects what the sink does
// with a message.
type DiagSink interface {
	Warning(pos SourcePos, message string)
	Error(pos SourcePos, message string)
}
