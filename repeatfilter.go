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

// RepeatFilter replays a recorded MacroBody total times verbatim (a
// .rept block), wrapping the provenance of each pass in a fresh
// RepeatSource so diagnostics can report "In repetition k/n:" (C6).
type RepeatFilter struct {
	body  *MacroBody
	total uint64

	iteration   uint64
	contentLine uint64
	bytePos     int
}

// NewRepeatFilter replays body total times. total == 0 yields no lines
// at all, matching ".rept 0" producing an empty block.
func NewRepeatFilter(body *MacroBody, total uint64) *RepeatFilter {
	return &RepeatFilter{body: body, total: total}
}

func (f *RepeatFilter) Source() SourceNode {
	if f.iteration >= f.total {
		return nil
	}
	inner, _, _ := f.body.ProvenanceAt(f.contentLine)
	return &RepeatSource{Inner: inner, Iteration: f.iteration, Total: f.total}
}

func (f *RepeatFilter) MacroSubst() *MacroSubst {
	_, subst, _ := f.body.ProvenanceAt(f.contentLine)
	return subst
}

func (f *RepeatFilter) CurrentLine() uint64 {
	_, _, line := f.body.ProvenanceAt(f.contentLine)
	return line
}

func (f *RepeatFilter) Kind() FilterKind { return FilterRepeat }

func (f *RepeatFilter) ReadLine() ([]byte, []LineTrans, bool, error) {
	if f.iteration >= f.total {
		return nil, nil, false, nil
	}
	for f.contentLine >= f.body.LineCount {
		f.iteration++
		if f.iteration >= f.total {
			return nil, nil, false, nil
		}
		f.contentLine = 0
		f.bytePos = 0
	}

	lineEnd := bodyLineEnd(f.body.Content, f.bytePos)
	out, colTrans := expandBodyLine(f.body, f.bytePos, lineEnd, 0, false, func(string) (string, bool) { return "", false })

	f.bytePos = lineEnd
	if f.bytePos < len(f.body.Content) {
		f.bytePos++
	}
	f.contentLine++
	// Start the next pass now, so Source() already reports the
	// iteration the following line belongs to.
	if f.contentLine >= f.body.LineCount && f.iteration+1 < f.total {
		f.iteration++
		f.contentLine = 0
		f.bytePos = 0
	}

	return out, colTrans, true, nil
}

// IRPKind distinguishes a plain IRP (one pass per list element) from
// an IRPC (one pass per character of a single value).
type IRPKind int

const (
	IRPList IRPKind = iota
	IRPChar
)

// IRPFilter replays a recorded MacroBody once per element of values
// (IRP) or once per character of values[0] (IRPC), substituting \sym
// with the current element or character each pass (C6).
//
// For IRPC, the original clamps the number of passes to at least one
// even when the value string is empty, so ".irpc c,\n .byte \\c\n
// .endr" still emits a single (empty-substitution) pass rather than
// none.
type IRPFilter struct {
	body   *MacroBody
	kind   IRPKind
	symbol string
	values []string // IRPList: one value per pass. IRPChar: the chars of values[0].

	pass        int
	contentLine uint64
	bytePos     int
}

// NewIRPFilter builds an IRP filter over values (one pass per entry).
func NewIRPFilter(body *MacroBody, symbol string, values []string) *IRPFilter {
	return &IRPFilter{body: body, kind: IRPList, symbol: symbol, values: values}
}

// NewIRPCFilter builds an IRPC filter over the characters of value. A
// zero-length value still yields one pass, matching the original's
// max(len, 1) clamp.
func NewIRPCFilter(body *MacroBody, symbol, value string) *IRPFilter {
	passes := len(value)
	if passes == 0 {
		passes = 1
	}
	chars := make([]string, passes)
	for i := range chars {
		if i < len(value) {
			chars[i] = string(value[i])
		}
	}
	return &IRPFilter{body: body, kind: IRPChar, symbol: symbol, values: chars}
}

func (f *IRPFilter) totalPasses() uint64 { return uint64(len(f.values)) }

func (f *IRPFilter) Source() SourceNode {
	if f.pass >= len(f.values) {
		return nil
	}
	inner, _, _ := f.body.ProvenanceAt(f.contentLine)
	return &RepeatSource{Inner: inner, Iteration: uint64(f.pass), Total: f.totalPasses()}
}

func (f *IRPFilter) MacroSubst() *MacroSubst {
	_, subst, _ := f.body.ProvenanceAt(f.contentLine)
	return subst
}

func (f *IRPFilter) CurrentLine() uint64 {
	_, _, line := f.body.ProvenanceAt(f.contentLine)
	return line
}

func (f *IRPFilter) Kind() FilterKind { return FilterRepeat }

func (f *IRPFilter) ReadLine() ([]byte, []LineTrans, bool, error) {
	if f.pass >= len(f.values) {
		return nil, nil, false, nil
	}
	for f.contentLine >= f.body.LineCount {
		f.pass++
		if f.pass >= len(f.values) {
			return nil, nil, false, nil
		}
		f.contentLine = 0
		f.bytePos = 0
	}

	value := f.values[f.pass]
	lookup := func(name string) (string, bool) {
		if name == f.symbol {
			return value, true
		}
		return "", false
	}

	lineEnd := bodyLineEnd(f.body.Content, f.bytePos)
	out, colTrans := expandBodyLine(f.body, f.bytePos, lineEnd, 0, false, lookup)

	f.bytePos = lineEnd
	if f.bytePos < len(f.body.Content) {
		f.bytePos++
	}
	f.contentLine++

	return out, colTrans, true, nil
}
