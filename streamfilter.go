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
	"io"

	"github.com/golang/glog"
)

type lineMode int

const (
	modeNormal lineMode = iota
	modeLineComment
	modeBlockComment
	modeString
	modeLString
)

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

// StreamInputFilter reads a text stream, strips comments, handles
// strings, line-continuation and statement separators, and emits
// logical lines with a per-line column translation table (C3).
type StreamInputFilter struct {
	source     SourceNode
	macroSubst *MacroSubst
	lineNo     uint64
	sink       DiagSink

	r      io.Reader
	closer io.Closer
	buf    *lineBuffer
	pos    int

	mode    lineMode
	stmtPos int

	colTrans []LineTrans
}

// NewStreamInputFilter wraps r as the top-level source (no include
// chain) reading from filename (empty for stdin).
func NewStreamInputFilter(r io.Reader, filename string, sink DiagSink) *StreamInputFilter {
	return &StreamInputFilter{
		source: &FileSource{Path: filename},
		lineNo: 1,
		sink:   sink,
		r:      r,
		buf:    newLineBuffer(),
	}
}

// NewIncludeFilter wraps r as a file included at pos, taking care to
// nest the new FileSource's Parent under a MacroSource frame when the
// include directive itself occurred inside macro content.
func NewIncludeFilter(r io.Reader, filename string, pos SourcePos, sink DiagSink) *StreamInputFilter {
	var parent SourceNode = pos.Source
	if pos.Macro != nil {
		parent = &MacroSource{SubstitutedAt: pos.Macro}
	}
	return &StreamInputFilter{
		source: &FileSource{
			Parent:         parent,
			IncludedAtLine: pos.Line,
			IncludedAtCol:  pos.Col,
			Path:           filename,
		},
		lineNo: 1,
		sink:   sink,
		r:      r,
		buf:    newLineBuffer(),
	}
}

// SetCloser registers a resource (e.g. *os.File) to release on Close.
func (f *StreamInputFilter) SetCloser(c io.Closer) { f.closer = c }

func (f *StreamInputFilter) Close() error {
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

func (f *StreamInputFilter) Source() SourceNode     { return f.source }
func (f *StreamInputFilter) MacroSubst() *MacroSubst { return f.macroSubst }
func (f *StreamInputFilter) CurrentLine() uint64    { return f.lineNo }
func (f *StreamInputFilter) Kind() FilterKind       { return FilterStream }

// OpenInclude opens path and returns a StreamInputFilter for it,
// nested under pos as described by NewIncludeFilter. It is the
// concrete implementation backing include directives; it returns
// *IncludeNotFoundError on a failed open.
func OpenInclude(openFile func(string) (io.ReadCloser, error), path string, pos SourcePos, sink DiagSink) (*StreamInputFilter, error) {
	rc, err := openFile(path)
	if err != nil {
		return nil, &IncludeNotFoundError{Path: path}
	}
	filt := NewIncludeFilter(rc, path, pos, sink)
	filt.SetCloser(rc)
	return filt, nil
}

// ReadLine implements InputFilter. See spec §4.1 for the state machine.
func (f *StreamInputFilter) ReadLine() ([]byte, []LineTrans, bool, error) {
	f.colTrans = f.colTrans[:0]
	endOfLine := false
	lineStart := f.pos
	joinStart := f.pos
	destPos := f.pos
	backslash := false
	prevAsterisk := false
	asterisk := false
	f.colTrans = append(f.colTrans, LineTrans{OutputCol: -f.stmtPos, OriginalLine: f.lineNo})

	buf := func() []byte { return f.buf.buf }

	pushSeam := func() {
		destPos--
		if destPos-lineStart == f.colTrans[len(f.colTrans)-1].OutputCol {
			f.colTrans = f.colTrans[:len(f.colTrans)-1]
		}
		f.colTrans = append(f.colTrans, LineTrans{OutputCol: destPos - lineStart, OriginalLine: f.lineNo})
	}

	for !endOfLine {
		switch f.mode {
		case modeNormal:
			b := buf()
			if f.pos < f.buf.size && !isSpace(b[f.pos]) && b[f.pos] != ';' {
				for {
					backslash = b[f.pos] == '\\'
					if b[f.pos] == '*' && destPos > 0 && b[destPos-1] == '/' {
						prevAsterisk = false
						asterisk = false
						b[destPos-1] = ' '
						b[destPos] = ' '
						destPos++
						f.mode = modeBlockComment
						f.pos++
						break
					}
					if b[f.pos] == '#' {
						b[destPos] = ' '
						destPos++
						f.mode = modeLineComment
						f.pos++
						break
					}
					old := b[f.pos]
					b[destPos] = b[f.pos]
					destPos++
					f.pos++
					if old == '"' {
						f.mode = modeString
						break
					} else if old == '\'' {
						f.mode = modeLString
						break
					}
					if !(f.pos < f.buf.size && !isSpace(b[f.pos]) && b[f.pos] != ';') {
						break
					}
				}
			}
			if f.pos < f.buf.size {
				b = buf()
				switch {
				case b[f.pos] == '\n':
					f.lineNo++
					endOfLine = !backslash
					if backslash {
						pushSeam()
					}
					f.stmtPos = 0
					f.pos++
					joinStart = f.pos
					backslash = false
				case b[f.pos] == ';' && f.mode == modeNormal:
					endOfLine = true
					f.pos++
					f.stmtPos += f.pos - joinStart
					joinStart = f.pos
					backslash = false
				case f.mode == modeNormal:
					backslash = false
					for {
						b[destPos] = ' '
						destPos++
						f.pos++
						if !(f.pos < f.buf.size && b[f.pos] != '\n' && isSpace(b[f.pos])) {
							break
						}
						b = buf()
					}
				}
			}

		case modeLineComment:
			b := buf()
			for f.pos < f.buf.size && b[f.pos] != '\n' {
				backslash = b[f.pos] == '\\'
				f.pos++
				b[destPos] = ' '
				destPos++
			}
			if f.pos < f.buf.size {
				f.lineNo++
				endOfLine = !backslash
				if backslash {
					pushSeam()
				} else {
					f.mode = modeNormal
				}
				f.pos++
				joinStart = f.pos
				backslash = false
				f.stmtPos = 0
			}

		case modeBlockComment:
			b := buf()
			for f.pos < f.buf.size && b[f.pos] != '\n' && (!asterisk || b[f.pos] != '/') {
				backslash = b[f.pos] == '\\'
				prevAsterisk = asterisk
				asterisk = b[f.pos] == '*'
				f.pos++
				b[destPos] = ' '
				destPos++
			}
			if f.pos < f.buf.size {
				if asterisk && b[f.pos] == '/' {
					f.pos++
					b[destPos] = ' '
					destPos++
					f.mode = modeNormal
				} else {
					f.lineNo++
					endOfLine = !backslash
					if backslash {
						asterisk = prevAsterisk
						prevAsterisk = false
						pushSeam()
					}
					f.pos++
					joinStart = f.pos
					backslash = false
					f.stmtPos = 0
				}
			}

		case modeString, modeLString:
			quote := byte('"')
			if f.mode == modeLString {
				quote = '\''
			}
			backslashRun := 0
			if backslash {
				backslashRun = 1
			}
			b := buf()
			for f.pos < f.buf.size && b[f.pos] != '\n' && (backslashRun&1 != 0 || b[f.pos] != quote) {
				if b[f.pos] == '\\' {
					backslashRun++
				} else {
					backslashRun = 0
				}
				b[destPos] = b[f.pos]
				destPos++
				f.pos++
			}
			if f.pos < f.buf.size {
				b = buf()
				if backslashRun&1 == 0 && b[f.pos] == quote {
					f.pos++
					f.mode = modeNormal
					b[destPos] = quote
					destPos++
				} else {
					f.lineNo++
					endOfLine = backslashRun&1 == 0
					if backslashRun&1 != 0 {
						destPos--
						f.colTrans = append(f.colTrans, LineTrans{OutputCol: destPos - lineStart, OriginalLine: f.lineNo})
					} else if f.sink != nil {
						f.sink.Warning(SourcePos{Source: f.source, Macro: f.macroSubst, Line: f.lineNo, Col: f.pos - joinStart + f.stmtPos + 1},
							"Unterminated string: newline inserted")
					}
					f.pos++
					joinStart = f.pos
					f.stmtPos = 0
				}
				backslash = false
			}
		}

		if endOfLine {
			break
		}

		if f.pos >= f.buf.size {
			if lineStart != 0 {
				shift := lineStart
				f.buf.compact(shift)
				destPos -= shift
				joinStart -= shift
				f.pos -= shift
				lineStart = 0
			}
			n, rerr := f.buf.fill(f.r)
			if n == 0 {
				if f.mode == modeBlockComment && lineStart != f.pos {
					if f.sink != nil {
						f.sink.Error(SourcePos{Source: f.source, Macro: f.macroSubst, Line: f.lineNo, Col: f.pos - joinStart + f.stmtPos + 1},
							"Unterminated multi-line comment")
					}
				}
				if destPos-lineStart == 0 {
					return nil, nil, false, nil
				}
				break
			}
			if rerr != nil && rerr != io.EOF {
				return nil, nil, false, &PosError{Pos: SourcePos{Source: f.source, Line: f.lineNo}, Err: rerr}
			}
			if glog.V(2) {
				glog.Infof("stream filter read %d bytes, buffer now %d/%d", n, f.buf.size, len(f.buf.buf))
			}
		}
	}

	line := f.buf.buf[lineStart:destPos]
	return line, f.colTrans, true, nil
}
