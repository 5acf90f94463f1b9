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
)

// maxTraceDepth bounds the recursive provenance trail so a pathological
// (but acyclic, per the SourceNode invariant) graph can never cause
// runaway recursion.
const maxTraceDepth = 10

// Fprint walks a SourcePos's expression / macro / include chains and
// writes a multi-line, gcc-style provenance trail, ending with the bare
// "<path>:<line>[:<col>]" leaf.
func Fprint(w io.Writer, pos SourcePos) {
	fprintTrace(w, pos, 0)
}

func writeIndent(w io.Writer, indent int) {
	for ; indent != 0; indent-- {
		io.WriteString(w, "    ")
	}
}

func fileLeafName(f *FileSource) string {
	if f.IsStdin() {
		return "<stdin>"
	}
	return f.Path
}

func writeFileLeaf(w io.Writer, f *FileSource, line uint64, col int) {
	io.WriteString(w, fileLeafName(f))
	fmt.Fprintf(w, ":%d", line)
	if col != 0 {
		fmt.Fprintf(w, ":%d", col)
	}
}

// writeMacroSubstLeaf writes the "<path>:<line>:<col>" leaf for a
// macro-substitution call-site frame; unlike writeFileLeaf's other
// callers, the column is always printed even when zero.
func writeMacroSubstLeaf(w io.Writer, f *FileSource, line uint64, col int) {
	io.WriteString(w, fileLeafName(f))
	fmt.Fprintf(w, ":%d:%d", line, col)
}

// printRepeats unwraps and prints one "In repetition k/n:" line per
// nested RepeatSource layer, returning the first non-repeat ancestor.
func printRepeats(w io.Writer, source SourceNode, indent int) SourceNode {
	first := true
	for source.Kind() == SourceRepeat {
		r := source.(*RepeatSource)
		writeIndent(w, indent)
		if first {
			io.WriteString(w, "In repetition ")
		} else {
			io.WriteString(w, "              ")
		}
		fmt.Fprintf(w, "%d/%d:\n", r.Iteration+1, r.Total)
		source = r.Inner
		first = false
	}
	return source
}

// macroContentPos rebuilds the SourcePos a MacroSource's own substitution
// frame describes, so its call-site chain can be printed recursively.
func macroContentPos(ms *MacroSource, line uint64, col int) SourcePos {
	subst := ms.SubstitutedAt
	return SourcePos{Macro: subst, Source: subst.Source, Line: line, Col: col}
}

func fprintTrace(w io.Writer, pos SourcePos, indent int) {
	if indent == maxTraceDepth {
		writeIndent(w, indent)
		io.WriteString(w, "Can't print all tree trace due to too big depth level\n")
		return
	}

	// 1. Expression evaluation chain.
	thisPos := &pos
	exprFirstDepth := true
	for thisPos.ExprFrom != nil {
		toPrint := *thisPos.ExprFrom
		toPrint.ExprFrom = nil
		writeIndent(w, indent)
		if toPrint.Source.Kind() == SourceFile {
			file := toPrint.Source.(*FileSource)
			if file.Parent == nil {
				if exprFirstDepth {
					io.WriteString(w, "Expression evaluation from ")
				} else {
					io.WriteString(w, "                      from ")
				}
				writeFileLeaf(w, file, toPrint.Line, toPrint.Col)
				io.WriteString(w, "\n")
				exprFirstDepth = false
				thisPos = thisPos.ExprFrom
				continue
			}
		}
		exprFirstDepth = true
		io.WriteString(w, "Expression evaluation from\n")
		fprintTrace(w, toPrint, indent+1)
		io.WriteString(w, "\n")
		thisPos = thisPos.ExprFrom
	}

	// 2. Macro substitution chain.
	curMacro := pos.Macro
	firstDepth := true
	for curMacro != nil {
		parentMacro := curMacro.Parent
		if curMacro.Source.Kind() != SourceMacro {
			nested := curMacro.Source.Kind() == SourceRepeat
			var parent SourceNode
			if f, ok := curMacro.Source.(*FileSource); ok {
				parent = f.Parent
			}
			if nested || parent != nil {
				if firstDepth {
					writeIndent(w, indent)
					io.WriteString(w, "In macro substituted from\n")
				}
				nextLevel := SourcePos{Source: curMacro.Source, Line: curMacro.Line, Col: curMacro.Col}
				fprintTrace(w, nextLevel, indent+1)
				if parentMacro != nil {
					io.WriteString(w, ";\n")
				} else {
					io.WriteString(w, ":\n")
				}
				firstDepth = true
			} else {
				writeIndent(w, indent)
				if firstDepth {
					io.WriteString(w, "In macro substituted from ")
				} else {
					io.WriteString(w, "                     from ")
				}
				writeMacroSubstLeaf(w, curMacro.Source.(*FileSource), curMacro.Line, curMacro.Col)
				if parentMacro != nil {
					io.WriteString(w, ";\n")
				} else {
					io.WriteString(w, ":\n")
				}
				firstDepth = false
			}
		} else {
			writeIndent(w, indent)
			io.WriteString(w, "In macro substituted from macro content:\n")
			ms := curMacro.Source.(*MacroSource)
			fprintTrace(w, macroContentPos(ms, curMacro.Line, curMacro.Col), indent+1)
			if parentMacro != nil {
				io.WriteString(w, ";\n")
			} else {
				io.WriteString(w, ":\n")
			}
			firstDepth = true
		}
		curMacro = parentMacro
	}

	// 3. Include chain + 4. leaf.
	curSource := pos.Source
	for curSource.Kind() == SourceRepeat {
		curSource = curSource.(*RepeatSource).Inner
	}

	if curSource.Kind() != SourceMacro {
		curFile := curSource.(*FileSource)
		if curFile.Parent != nil {
			firstDepth := true
			for curFile.Parent != nil {
				parentSource := curFile.Parent
				unwrapped := printRepeats(w, parentSource, indent)
				if !firstDepth {
					firstDepth = parentSource != unwrapped
				}
				parentSource = unwrapped
				writeIndent(w, indent)
				if parentSource.Kind() != SourceMacro {
					parentFile := parentSource.(*FileSource)
					if firstDepth {
						io.WriteString(w, "In file included from ")
					} else {
						io.WriteString(w, "                 from ")
					}
					io.WriteString(w, fileLeafName(parentFile))
					fmt.Fprintf(w, ":%d:%d", curFile.IncludedAtLine, curFile.IncludedAtCol)
					curFile = parentFile
					if curFile.Parent != nil {
						io.WriteString(w, ",\n")
					} else {
						io.WriteString(w, ":\n")
					}
					firstDepth = false
				} else {
					io.WriteString(w, "In file included from macro content:\n")
					ms := parentSource.(*MacroSource)
					pos := macroContentPos(ms, curFile.IncludedAtLine, curFile.IncludedAtCol)
					fprintTrace(w, pos, indent+1)
					io.WriteString(w, ":\n")
					break
				}
			}
		}
		// leaf
		printRepeats(w, pos.Source, indent)
		writeIndent(w, indent)
		writeFileLeaf(w, curSource.(*FileSource), pos.Line, pos.Col)
	} else {
		printRepeats(w, pos.Source, indent)
		writeIndent(w, indent)
		io.WriteString(w, "In macro content:\n")
		ms := curSource.(*MacroSource)
		fprintTrace(w, macroContentPos(ms, pos.Line, pos.Col), indent+1)
	}
}
