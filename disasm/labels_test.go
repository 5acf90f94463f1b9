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

package disasm

import (
	"bytes"
	"testing"
)

func TestFlushLabelsToExactMatch(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 0, []uint64{4, 8}, nil, nil, nil)

	if err := lw.FlushLabelsTo(4); err != nil {
		t.Fatalf("FlushLabelsTo(4): %v", err)
	}
	if want := ".L4_0:\n"; buf.String() != want {
		t.Errorf("after FlushLabelsTo(4) = %q, want %q", buf.String(), want)
	}
	buf.Reset()
	if err := lw.FlushLabelsTo(8); err != nil {
		t.Fatalf("FlushLabelsTo(8): %v", err)
	}
	if want := ".L8_0:\n"; buf.String() != want {
		t.Errorf("after FlushLabelsTo(8) = %q, want %q", buf.String(), want)
	}
}

func TestFlushLabelsToBackwardRef(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 0, []uint64{2}, nil, nil, nil)

	if err := lw.FlushLabelsTo(5); err != nil {
		t.Fatalf("FlushLabelsTo(5): %v", err)
	}
	if want := ".L2_0=.-3\n"; buf.String() != want {
		t.Errorf("buf = %q, want %q", buf.String(), want)
	}
}

func TestFlushLabelsToMergesNumberedFirstOnTie(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 0, []uint64{4}, []NamedLabel{{Position: 4, Name: "loop"}}, nil, nil)

	if err := lw.FlushLabelsTo(4); err != nil {
		t.Fatalf("FlushLabelsTo(4): %v", err)
	}
	assertGolden(t, buf.String(), ".L4_0:\nloop:\n")
}

func TestFlushLabelsToEndPadsOrgGap(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 0, []uint64{8}, nil, nil, nil)

	if err := lw.FlushLabelsToEnd(0); err != nil {
		t.Fatalf("FlushLabelsToEnd(0): %v", err)
	}
	assertGolden(t, buf.String(), ".org 0x8\n.L8_0:\n")
}

func TestFlushLabelsToEndNoPadWhenAtCursor(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 0, []uint64{4}, nil, nil, nil)

	if err := lw.FlushLabelsToEnd(4); err != nil {
		t.Fatalf("FlushLabelsToEnd(4): %v", err)
	}
	if want := ".L4_0:\n"; buf.String() != want {
		t.Errorf("buf = %q, want %q", buf.String(), want)
	}
}

func TestWriteLocationPrefersExactNamedLabel(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 1, nil, []NamedLabel{{Position: 4, Name: "loop"}}, nil, nil)

	if err := lw.WriteLocation(4); err != nil {
		t.Fatalf("WriteLocation(4): %v", err)
	}
	if want := "loop"; buf.String() != want {
		t.Errorf("buf = %q, want %q", buf.String(), want)
	}
}

func TestWriteLocationFallsBackToNumbered(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 1, nil, []NamedLabel{{Position: 4, Name: "loop"}}, nil, nil)

	if err := lw.WriteLocation(12); err != nil {
		t.Fatalf("WriteLocation(12): %v", err)
	}
	if want := ".L12_1"; buf.String() != want {
		t.Errorf("buf = %q, want %q", buf.String(), want)
	}
}

func TestWriteRelocationAbs32NoAddend(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 0, nil, nil,
		[]PositionedReloc{{Position: 0, Reloc: Relocation{Type: RelocAbs32, Symbol: 0}}}, []string{"foo"})

	found, err := lw.WriteRelocation(0)
	if err != nil || !found {
		t.Fatalf("WriteRelocation(0) = (found=%v, err=%v)", found, err)
	}
	if want := "foo"; buf.String() != want {
		t.Errorf("buf = %q, want %q", buf.String(), want)
	}
}

func TestWriteRelocationLow32PositiveAddend(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 0, nil, nil,
		[]PositionedReloc{{Position: 4, Reloc: Relocation{Type: RelocLow32, Symbol: 0, Addend: 8}}}, []string{"bar"})

	if _, err := lw.WriteRelocation(4); err != nil {
		t.Fatalf("WriteRelocation(4): %v", err)
	}
	if want := "(bar+8)&0xffffffff"; buf.String() != want {
		t.Errorf("buf = %q, want %q", buf.String(), want)
	}
}

func TestWriteRelocationHigh32NegativeAddend(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 0, nil, nil,
		[]PositionedReloc{{Position: 0, Reloc: Relocation{Type: RelocHigh32, Symbol: 0, Addend: -4}}}, []string{"baz"})

	if _, err := lw.WriteRelocation(0); err != nil {
		t.Fatalf("WriteRelocation(0): %v", err)
	}
	if want := "(baz-4)>>32"; buf.String() != want {
		t.Errorf("buf = %q, want %q", buf.String(), want)
	}
}

func TestWriteRelocationSkipsStaleEntries(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLabelWriter(&buf, 0, nil, nil,
		[]PositionedReloc{{Position: 2, Reloc: Relocation{Type: RelocAbs32, Symbol: 0}}}, []string{"foo"})

	found, err := lw.WriteRelocation(5)
	if err != nil {
		t.Fatalf("WriteRelocation(5): %v", err)
	}
	if found {
		t.Errorf("found = true, want false (relocation at 2 is stale by position 5)")
	}
	if buf.Len() != 0 {
		t.Errorf("buf = %q, want empty", buf.String())
	}
}
