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

import "fmt"

// SourceKind tags the closed set of SourceNode variants.
type SourceKind int

const (
	SourceFile SourceKind = iota
	SourceMacro
	SourceRepeat
)

// SourceNode is an immutable, reference-shared node describing where a
// logical line originated: a file (or stdin), a macro substitution, or
// one pass of a repeat block. It is a closed set of three variants;
// Kind reports which one a given value is and sourceNode seals the set
// so no external package can add a fourth.
type SourceNode interface {
	Kind() SourceKind
	sourceNode()
}

// FileSource is a text file (or, with an empty Path, stdin). Parent is
// the source that included it: nil at the top level, otherwise the
// SourceNode active at the point of inclusion (itself possibly a
// MacroSource, when a file is included from macro content).
type FileSource struct {
	Parent         SourceNode
	IncludedAtLine uint64
	IncludedAtCol  int
	Path           string
}

func (f *FileSource) Kind() SourceKind { return SourceFile }
func (f *FileSource) sourceNode()      {}

// IsStdin reports whether this file node represents standard input.
func (f *FileSource) IsStdin() bool { return f.Path == "" }

// MacroSource marks that the lines below it come from the body of a
// macro invocation; SubstitutedAt records the call stack of
// invocations leading here.
type MacroSource struct {
	SubstitutedAt *MacroSubst
}

func (m *MacroSource) Kind() SourceKind { return SourceMacro }
func (m *MacroSource) sourceNode()      {}

// RepeatSource is a single pass of a .rept/.irp/.irpc block.
type RepeatSource struct {
	Inner     SourceNode
	Iteration uint64
	Total     uint64
}

func (r *RepeatSource) Kind() SourceKind { return SourceRepeat }
func (r *RepeatSource) sourceNode()      {}

// MacroSubst is the stack of macro invocations leading to a position:
// Parent is the invocation that itself occurred inside another macro
// (nil at the outermost call), Source/Line/Col locate the call site.
type MacroSubst struct {
	Parent *MacroSubst
	Source SourceNode
	Line   uint64
	Col    int
}

// SourcePos identifies an origin in the input as a chain of
// include/macro/repeat/expression frames. ExprFrom, when set, chains to
// the position of an expression whose evaluation raised the current
// diagnostic.
type SourcePos struct {
	Macro    *MacroSubst
	Source   SourceNode
	Line     uint64
	Col      int
	ExprFrom *SourcePos
}

// String renders a bare "<path>:<line>[:<col>]" leaf, without the
// include/macro trail; use Fprint (diagprinter.go) for the full trace.
func (p SourcePos) String() string {
	path := leafFilePath(p.Source)
	if p.Col != 0 {
		return fmt.Sprintf("%s:%d:%d", path, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", path, p.Line)
}

func leafFilePath(source SourceNode) string {
	cur := source
	for cur.Kind() == SourceRepeat {
		cur = cur.(*RepeatSource).Inner
	}
	if f, ok := cur.(*FileSource); ok {
		if f.IsStdin() {
			return "<stdin>"
		}
		return f.Path
	}
	return "<macro content>"
}

// PosError is a fatal condition tied to a source position, propagated
// up the filter stack as an ordinary error value (§7: IO conditions
// abort the current filter).
type PosError struct {
	Pos SourcePos
	Err error
}

func (e *PosError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

func (e *PosError) Unwrap() error { return e.Err }

// IncludeNotFoundError reports a failed attempt to open an include file.
type IncludeNotFoundError struct {
	Path string
}

func (e *IncludeNotFoundError) Error() string {
	return fmt.Sprintf("include file not found: %s", e.Path)
}
