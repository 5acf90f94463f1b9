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
	"sort"
	"strconv"
)

// MacroArg binds one formal parameter name to its actual value for a
// single macro invocation.
type MacroArg struct {
	Name  string
	Value string
}

// MacroArgMap is a MacroArg slice kept sorted by Name so Lookup can use
// binary search, the same technique coltrans.go uses for LineTrans.
type MacroArgMap []MacroArg

// NewMacroArgMap copies args and sorts the copy by Name.
func NewMacroArgMap(args []MacroArg) MacroArgMap {
	m := make(MacroArgMap, len(args))
	copy(m, args)
	sort.Slice(m, func(i, j int) bool { return m[i].Name < m[j].Name })
	return m
}

func (m MacroArgMap) Lookup(name string) (string, bool) {
	i := sort.Search(len(m), func(i int) bool { return m[i].Name >= name })
	if i < len(m) && m[i].Name == name {
		return m[i].Value, true
	}
	return "", false
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// MacroExpandFilter replays a recorded MacroBody for one invocation,
// substituting \name with the bound argument, \@ with the invocation
// counter, and dropping \( \) concatenation markers (C5).
type MacroExpandFilter struct {
	body         *MacroBody
	args         MacroArgMap
	invocationID uint64
	callSubst    *MacroSubst

	contentLine uint64
	bytePos     int
}

// NewMacroExpandFilter begins replaying body for one invocation, bound
// to args, identified by invocationID (used for \@), with callSubst
// describing where the invocation occurred.
func NewMacroExpandFilter(body *MacroBody, args MacroArgMap, invocationID uint64, callSubst *MacroSubst) *MacroExpandFilter {
	return &MacroExpandFilter{body: body, args: args, invocationID: invocationID, callSubst: callSubst}
}

func (f *MacroExpandFilter) Source() SourceNode {
	source, _, _ := f.body.ProvenanceAt(f.contentLine)
	return source
}

func (f *MacroExpandFilter) MacroSubst() *MacroSubst { return f.callSubst }

func (f *MacroExpandFilter) CurrentLine() uint64 {
	_, _, origLine := f.body.ProvenanceAt(f.contentLine)
	return origLine
}

func (f *MacroExpandFilter) Kind() FilterKind { return FilterMacroSubst }

// translateSeam produces a colTrans entry that, when queried by
// Translate at outPos, reproduces the original column body.ColTrans
// assigns to bodyOffset. A synthetic OutputCol is solved for rather
// than stored directly, since substitution breaks the otherwise-linear
// run that Translate's arithmetic assumes.
func translateSeam(bodyColTrans []LineTrans, outPos, bodyOffset int) LineTrans {
	originalLine, originalCol := Translate(bodyColTrans, bodyOffset)
	return LineTrans{OutputCol: outPos - originalCol + 1, OriginalLine: originalLine}
}

// expandBodyLine replays body.Content[start:end), substituting \name
// via lookup, \@ via counter (when withCounter is set), and dropping
// \( \) concatenation markers. It backs both MacroExpandFilter and the
// IRP/IRPC replay in repeatfilter.go.
func expandBodyLine(body *MacroBody, start, end int, counter uint64, withCounter bool, lookup func(string) (string, bool)) ([]byte, []LineTrans) {
	content := body.Content
	out := make([]byte, 0, end-start)
	colTrans := []LineTrans{translateSeam(body.ColTrans, 0, start)}

	pos := start
	for pos < end {
		c := content[pos]
		if c != '\\' || pos+1 >= end {
			out = append(out, c)
			pos++
			continue
		}
		switch next := content[pos+1]; {
		case next == '(' || next == ')':
			pos += 2
			colTrans = append(colTrans, translateSeam(body.ColTrans, len(out), pos))
		case next == '@' && withCounter:
			out = append(out, strconv.FormatUint(counter, 10)...)
			pos += 2
			colTrans = append(colTrans, translateSeam(body.ColTrans, len(out), pos))
		case isIdentByte(next):
			identStart := pos + 1
			p := identStart
			for p < end && isIdentByte(content[p]) {
				p++
			}
			name := string(content[identStart:p])
			if val, ok := lookup(name); ok {
				out = append(out, val...)
			} else {
				out = append(out, content[pos:p]...)
			}
			pos = p
			colTrans = append(colTrans, translateSeam(body.ColTrans, len(out), pos))
		default:
			out = append(out, c)
			pos++
		}
	}
	return out, colTrans
}

func bodyLineEnd(content []byte, from int) int {
	end := from
	for end < len(content) && content[end] != '\n' {
		end++
	}
	return end
}

func (f *MacroExpandFilter) ReadLine() ([]byte, []LineTrans, bool, error) {
	if f.contentLine >= f.body.LineCount {
		return nil, nil, false, nil
	}
	lineEnd := bodyLineEnd(f.body.Content, f.bytePos)
	out, colTrans := expandBodyLine(f.body, f.bytePos, lineEnd, f.invocationID, true, f.args.Lookup)

	f.bytePos = lineEnd
	if f.bytePos < len(f.body.Content) {
		f.bytePos++ // skip the '\n'
	}
	f.contentLine++

	return out, colTrans, true, nil
}
