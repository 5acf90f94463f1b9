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

// ParamSpec describes one formal parameter of a macro: its name and,
// for a "name=default" declaration, the default value substituted when
// the invocation omits it.
type ParamSpec struct {
	Name       string
	HasDefault bool
	Default    string
	Vararg     bool
}

// SourceTrans records which (source, macroSubst) pair produced the
// content starting at ContentLine, and the original line number at
// that source the run began on. Entries are coalesced: a run of
// consecutive lines recorded from the same pair, advancing one
// original line per content line, shares one entry.
type SourceTrans struct {
	ContentLine uint64
	OriginLine  uint64
	Source      SourceNode
	MacroSubst  *MacroSubst
}

// MacroBody is the recorded, replayable content of a .macro/.rept/.irp
// block: concatenated line text, the column translation table for each
// recorded line, and the source/macro-subst provenance of each line,
// ready for MacroExpandFilter or RepeatFilter to replay.
type MacroBody struct {
	Content     []byte
	ColTrans    []LineTrans
	SourceTrans []SourceTrans
	LineCount   uint64
	Params      []ParamSpec
	DefinedAt   SourcePos
}

// NewMacroBody returns an empty body ready to accumulate lines via
// AddLine, defined at pos with the given formal parameters (nil for a
// .rept/.irp block, which takes none).
func NewMacroBody(pos SourcePos, params []ParamSpec) *MacroBody {
	return &MacroBody{Params: params, DefinedAt: pos}
}

// AddLine appends one recorded source line's content, column
// translation entries, and source provenance, mirroring AsmMacro's and
// AsmRepeat's shared recording logic: content always ends in exactly
// one '\n' regardless of how the line arrived, colTrans entries are
// offset by the content length so far, and a new SourceTrans entry is
// only opened when the (source, macroSubst) pair differs from the
// previous line's or originLine does not follow on from the current
// run (see continuesRun).
func (b *MacroBody) AddLine(line []byte, colTrans []LineTrans, source SourceNode, macroSubst *MacroSubst, originLine uint64) {
	base := len(b.Content)
	b.Content = append(b.Content, line...)
	if len(line) == 0 || line[len(line)-1] != '\n' {
		b.Content = append(b.Content, '\n')
	}

	for _, t := range colTrans {
		b.ColTrans = append(b.ColTrans, LineTrans{OutputCol: base + t.OutputCol, OriginalLine: t.OriginalLine})
	}

	if n := len(b.SourceTrans); n == 0 || !continuesRun(b.SourceTrans[n-1], source, macroSubst, originLine, b.LineCount) {
		b.SourceTrans = append(b.SourceTrans, SourceTrans{
			ContentLine: b.LineCount,
			OriginLine:  originLine,
			Source:      source,
			MacroSubst:  macroSubst,
		})
	}
	b.LineCount++
}

// continuesRun reports whether the next recorded line extends the
// previous SourceTrans run: same (source, macroSubst) pair, and its
// original line number is exactly one past where the run predicts.
func continuesRun(prev SourceTrans, source SourceNode, macroSubst *MacroSubst, originLine, contentLine uint64) bool {
	if prev.Source != source || prev.MacroSubst != macroSubst {
		return false
	}
	want := prev.OriginLine + (contentLine - prev.ContentLine)
	return want == originLine
}

// ProvenanceAt returns the (source, macroSubst, original line number)
// recorded for content line n, found by scanning the coalesced
// SourceTrans table forward for the last entry with ContentLine <= n.
func (b *MacroBody) ProvenanceAt(n uint64) (SourceNode, *MacroSubst, uint64) {
	if len(b.SourceTrans) == 0 {
		return nil, nil, 0
	}
	best := b.SourceTrans[0]
	for _, t := range b.SourceTrans {
		if t.ContentLine > n {
			break
		}
		best = t
	}
	return best.Source, best.MacroSubst, best.OriginLine + (n - best.ContentLine)
}

// ParamIndex returns the index of the parameter named name, or -1.
func (b *MacroBody) ParamIndex(name string) int {
	for i, p := range b.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}
