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

// Package disasm renders the label, relocation and data pseudo-op text
// a disassembler emits alongside decoded instructions: numbered and
// named branch-target labels, backward "name=.-N" references, ".org"
// gap fills, and operand-position relocation/data dumps.
package disasm

import (
	"fmt"
	"io"
	"sort"
)

// RelocType is the kind of relocation attached to one instruction
// operand.
type RelocType int

const (
	RelocAbs32 RelocType = iota
	RelocLow32
	RelocHigh32
)

// Relocation describes one symbol reference at a code position: the
// index into the symbols slice given to NewLabelWriter and a signed
// addend.
type Relocation struct {
	Type   RelocType
	Symbol int
	Addend int64
}

// PositionedReloc pairs a Relocation with the code position it applies
// to; LabelWriter expects these sorted ascending by Position.
type PositionedReloc struct {
	Position uint64
	Reloc    Relocation
}

// NamedLabel pairs a user-defined label name with its code position;
// LabelWriter expects these sorted ascending by Position.
type NamedLabel struct {
	Position uint64
	Name     string
}

// LabelWriter walks sorted numbered-label, named-label and relocation
// tables in lockstep with a disassembly pass, emitting label and
// relocation-operand text as the pass's position advances (C8).
type LabelWriter struct {
	w            io.Writer
	SectionCount int

	labels      []uint64
	named       []NamedLabel
	relocs      []PositionedReloc
	symbols     []string

	labelIdx int
	namedIdx int
	relocIdx int
}

// NewLabelWriter builds a LabelWriter over already-sorted tables.
// labels and named must each be sorted ascending by position; relocs
// sorted ascending by Position; symbols indexed by Relocation.Symbol.
func NewLabelWriter(w io.Writer, sectionCount int, labels []uint64, named []NamedLabel, relocs []PositionedReloc, symbols []string) *LabelWriter {
	return &LabelWriter{w: w, SectionCount: sectionCount, labels: labels, named: named, relocs: relocs, symbols: symbols}
}

func numberedLabelText(position uint64, section int) string {
	return fmt.Sprintf(".L%d_%d", position, section)
}

// FlushLabelsTo prints every numbered or named label at or before pos
// that hasn't been printed yet, in ascending position order (numbered
// first on a tie). A label whose position is behind pos (the decoder
// already advanced past it, e.g. a branch target mid-instruction) is
// printed as a backward reference "name=.-N" instead of "name:".
func (lw *LabelWriter) FlushLabelsTo(pos uint64) error {
	for {
		haveNumbered := lw.labelIdx < len(lw.labels) && lw.labels[lw.labelIdx] <= pos
		haveNamed := lw.namedIdx < len(lw.named) && lw.named[lw.namedIdx].Position <= pos
		if !haveNumbered && !haveNamed {
			return nil
		}

		numberedPos, namedPos := ^uint64(0), ^uint64(0)
		if haveNumbered {
			numberedPos = lw.labels[lw.labelIdx]
		}
		if haveNamed {
			namedPos = lw.named[lw.namedIdx].Position
		}

		if haveNumbered && numberedPos <= namedPos {
			if err := lw.writeLabelDef(numberedLabelText(numberedPos, lw.SectionCount), numberedPos, pos); err != nil {
				return err
			}
			lw.labelIdx++
			continue
		}
		if err := lw.writeLabelDef(lw.named[lw.namedIdx].Name, namedPos, pos); err != nil {
			return err
		}
		lw.namedIdx++
	}
}

func (lw *LabelWriter) writeLabelDef(name string, labelPos, pos uint64) error {
	if labelPos != pos {
		_, err := fmt.Fprintf(lw.w, "%s=.-%d\n", name, pos-labelPos)
		return err
	}
	_, err := fmt.Fprintf(lw.w, "%s:\n", name)
	return err
}

// FlushLabelsToEnd prints every remaining label after the last decoded
// instruction, starting the running position at start. A gap between
// consecutive trailing labels is filled with ".org 0x<pos>" so the
// labels land at their recorded offsets once reassembled.
func (lw *LabelWriter) FlushLabelsToEnd(start uint64) error {
	pos := start
	for lw.labelIdx < len(lw.labels) || lw.namedIdx < len(lw.named) {
		numberedPos, namedPos := ^uint64(0), ^uint64(0)
		haveNumbered := lw.labelIdx < len(lw.labels)
		haveNamed := lw.namedIdx < len(lw.named)
		if haveNumbered {
			numberedPos = lw.labels[lw.labelIdx]
		}
		if haveNamed {
			namedPos = lw.named[lw.namedIdx].Position
		}

		if haveNumbered && numberedPos <= namedPos {
			if pos != numberedPos {
				if _, err := fmt.Fprintf(lw.w, ".org 0x%x\n", numberedPos); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(lw.w, "%s:\n", numberedLabelText(numberedPos, lw.SectionCount)); err != nil {
				return err
			}
			pos = numberedPos
			lw.labelIdx++
			continue
		}
		if pos != namedPos {
			if _, err := fmt.Fprintf(lw.w, ".org 0x%x\n", namedPos); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(lw.w, "%s:\n", lw.named[lw.namedIdx].Name); err != nil {
			return err
		}
		pos = namedPos
		lw.namedIdx++
	}
	return nil
}

// WriteLocation writes the bare label text referring to pos (no
// trailing colon), for use as a branch-target operand: the named
// label if one is defined exactly at pos, otherwise the numbered form.
func (lw *LabelWriter) WriteLocation(pos uint64) error {
	if i := sort.Search(len(lw.named), func(i int) bool { return lw.named[i].Position >= pos }); i < len(lw.named) && lw.named[i].Position == pos {
		_, err := io.WriteString(lw.w, lw.named[i].Name)
		return err
	}
	_, err := io.WriteString(lw.w, numberedLabelText(pos, lw.SectionCount))
	return err
}

// WriteRelocation writes the operand text for the relocation recorded
// at pos, if any, advancing past any relocations recorded before pos.
// It reports whether a relocation was found and written.
func (lw *LabelWriter) WriteRelocation(pos uint64) (bool, error) {
	for lw.relocIdx < len(lw.relocs) && lw.relocs[lw.relocIdx].Position < pos {
		lw.relocIdx++
	}
	if lw.relocIdx >= len(lw.relocs) || lw.relocs[lw.relocIdx].Position != pos {
		return false, nil
	}
	reloc := lw.relocs[lw.relocIdx].Reloc
	lw.relocIdx++

	parenAddend := reloc.Addend != 0 && (reloc.Type == RelocLow32 || reloc.Type == RelocHigh32)
	if parenAddend {
		if _, err := io.WriteString(lw.w, "("); err != nil {
			return true, err
		}
	}
	if _, err := io.WriteString(lw.w, lw.symbols[reloc.Symbol]); err != nil {
		return true, err
	}
	if reloc.Addend != 0 {
		sign := ""
		if reloc.Addend > 0 {
			sign = "+"
		}
		if _, err := fmt.Fprintf(lw.w, "%s%d", sign, reloc.Addend); err != nil {
			return true, err
		}
		if parenAddend {
			if _, err := io.WriteString(lw.w, ")"); err != nil {
				return true, err
			}
		}
	}
	switch reloc.Type {
	case RelocLow32:
		_, err := io.WriteString(lw.w, "&0xffffffff")
		return true, err
	case RelocHigh32:
		_, err := io.WriteString(lw.w, ">>32")
		return true, err
	}
	return true, nil
}
