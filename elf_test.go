package main

import (
	"encoding/binary"
	"testing"
)

func TestWriteELFEmptyCode(t *testing.T) {
	out := WriteELF(0, nil)
	if len(out) != 0x78 {
		t.Fatalf("len = %d, want 0x78", len(out))
	}
	if string(out[:4]) != "\x7fELF" {
		t.Fatalf("bad magic: % X", out[:4])
	}
	entry := binary.LittleEndian.Uint64(out[0x18:0x20])
	if entry != 0 {
		t.Fatalf("entry = %d, want 0", entry)
	}
	phoff := binary.LittleEndian.Uint64(out[0x20:0x28])
	if phoff != 0x40 {
		t.Fatalf("phoff = %d, want 0x40", phoff)
	}
	phnum := binary.LittleEndian.Uint16(out[0x38:0x3A])
	if phnum != 1 {
		t.Fatalf("phnum = %d, want 1", phnum)
	}
}

func TestWriteELFTotalSizeIncludesCode(t *testing.T) {
	code := []byte{0xEB, 0xFE}
	out := WriteELF(0x100, code)
	if len(out) != 0x78+len(code) {
		t.Fatalf("len = %d, want %d", len(out), 0x78+len(code))
	}
	filesz := binary.LittleEndian.Uint64(out[0x60:0x68])
	if filesz != uint64(len(code)) {
		t.Fatalf("filesz = %d, want %d", filesz, len(code))
	}
	if out[len(out)-2] != 0xEB || out[len(out)-1] != 0xFE {
		t.Fatalf("code not appended verbatim at the tail")
	}
}
