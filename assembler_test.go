package main

import (
	"encoding/binary"
	"strings"
	"testing"
)

// assembleSource mirrors AssembleFile's resolve/emit tail without touching
// the filesystem, so pipeline-level tests can run against in-memory source.
func assembleSource(t *testing.T, src string) []byte {
	t.Helper()
	a := newTestAssembler()
	if err := a.assemble(strings.NewReader(src)); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	code := a.SerializeCode()
	entry := uint64(0)
	if blk, ok := a.labels.Get("_start"); ok {
		entry = blk.Address
	}
	return WriteELF(entry, code)
}

func TestAssembleEmptyInputProducesBareHeader(t *testing.T) {
	out := assembleSource(t, "")
	if len(out) != 0x78 {
		t.Fatalf("len = %d, want 0x78", len(out))
	}
	entry := binary.LittleEndian.Uint64(out[0x18:0x20])
	if entry != 0 {
		t.Fatalf("entry = %d, want 0", entry)
	}
	filesz := binary.LittleEndian.Uint64(out[0x60:0x68])
	if filesz != 0 {
		t.Fatalf("filesz = %d, want 0", filesz)
	}
}

func TestAssembleLabelOnlyEntryIsZero(t *testing.T) {
	out := assembleSource(t, "_start:\n")
	if len(out) != 0x78 {
		t.Fatalf("len = %d, want 0x78 (no code emitted)", len(out))
	}
	entry := binary.LittleEndian.Uint64(out[0x18:0x20])
	if entry != 0 {
		t.Fatalf("entry = %d, want 0", entry)
	}
}

func TestAssembleConstantFoldedIntoData(t *testing.T) {
	out := assembleSource(t, "K equ 0x1234\n_start:\ndw K\n")
	entry := binary.LittleEndian.Uint64(out[0x18:0x20])
	if entry != 0 {
		t.Fatalf("entry = %d, want 0", entry)
	}
	code := out[0x78:]
	want := []byte{0x34, 0x12}
	if string(code) != string(want) {
		t.Fatalf("code = % X, want % X", code, want)
	}
}

func TestAssembleLabelAndInstructionOnSameLine(t *testing.T) {
	src := "_start: jmp fwd\ndd 0\nfwd: dd 0\n"
	out := assembleSource(t, src)
	entry := binary.LittleEndian.Uint64(out[0x18:0x20])
	if entry != 0 {
		t.Fatalf("entry = %d, want 0", entry)
	}
	code := out[0x78:]
	want := []byte{0xEB, 0x04, 0, 0, 0, 0, 0, 0, 0, 0}
	if string(code) != string(want) {
		t.Fatalf("code = % X, want % X", code, want)
	}
}

func TestAssembleEntryResolvesToLabelAddress(t *testing.T) {
	src := "dd 0\ndd 0\n_start:\nmov eax, 1\n"
	out := assembleSource(t, src)
	entry := binary.LittleEndian.Uint64(out[0x18:0x20])
	if entry != 8 {
		t.Fatalf("entry = %d, want 8", entry)
	}
	code := out[0x78:]
	want := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0xB8, 0x01, 0x00, 0x00, 0x00}
	if string(code) != string(want) {
		t.Fatalf("code = % X, want % X", code, want)
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	src := "_start:\nmov eax, 1\njmp _start\n"
	first := assembleSource(t, src)
	second := assembleSource(t, src)
	if string(first) != string(second) {
		t.Fatalf("assembling identical source twice produced different output")
	}
}

func TestAssembleBlockAddressesAreContiguous(t *testing.T) {
	a := newTestAssembler()
	if err := a.assemble(strings.NewReader("_start:\nmov eax, 1\njmp _start\n")); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	for b := a.graph.Head; b != nil && b.Next != nil; b = b.Next {
		if b.Next.Address != b.Address+uint64(b.Size()) {
			t.Fatalf("block at %d with size %d, next block at %d, want %d",
				b.Address, b.Size(), b.Next.Address, b.Address+uint64(b.Size()))
		}
	}
}

func TestAssembleUnknownMnemonicAbortsWholeFile(t *testing.T) {
	a := newTestAssembler()
	err := a.assemble(strings.NewReader("mov eax, 1\nfrobnicate\n"))
	ae, ok := err.(*AssemblerError)
	if !ok || ae.Kind != SyntaxError {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if ae.Line != 2 {
		t.Fatalf("error line = %d, want 2", ae.Line)
	}
}
