package main

import (
	"encoding/binary"
	"fmt"
	"os"
)

// elfOut accumulates the fixed ELF64 prelude plus the serialized code
// stream, byte-at-a-time, the same way the teacher's Out.Write*
// helpers build up an output buffer.
type elfOut struct {
	buf []byte
}

func (o *elfOut) Write(b byte) {
	o.buf = append(o.buf, b)
}

func (o *elfOut) WriteN(b byte, n int) {
	for i := 0; i < n; i++ {
		o.buf = append(o.buf, b)
	}
}

func (o *elfOut) Write2(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	o.buf = append(o.buf, b[:]...)
}

func (o *elfOut) Write4(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	o.buf = append(o.buf, b[:]...)
}

func (o *elfOut) Write8(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	o.buf = append(o.buf, b[:]...)
}

// WriteELF writes the fixed 0x78-byte ELF64 prelude (0x40-byte header,
// 0x38-byte program header, single R+X LOAD segment) followed by code.
// entry is the resolved _start address, or 0 if the symbol is undefined.
func WriteELF(entry uint64, code []byte) []byte {
	if Verbose {
		fmt.Fprintf(os.Stderr, "elf: entry=0x%x codesize=%d\n", entry, len(code))
	}
	o := &elfOut{}

	// ELF64 header, 0x40 bytes.
	o.Write(0x7f)
	o.Write('E')
	o.Write('L')
	o.Write('F')
	o.Write(2) // 64-bit
	o.Write(1) // little-endian
	o.Write(1) // original ELF version
	o.Write(0) // System V ABI
	o.Write(0) // ABI version
	o.WriteN(0, 7)
	o.Write2(2)    // ET_EXEC
	o.Write2(0x3e) // EM_X86_64
	o.Write4(1)    // version
	o.Write8(entry)
	o.Write8(0x40) // phoff
	o.Write8(0)    // shoff
	o.Write4(0)    // flags
	o.Write2(0x40) // ehsize
	o.Write2(0x38) // phentsize
	o.Write2(1)    // phnum
	o.Write2(0)    // shentsize
	o.Write2(0)    // shnum
	o.Write2(0)    // shstrndx

	// Program header, 0x38 bytes.
	o.Write4(1) // PT_LOAD
	o.Write4(5) // PF_R | PF_X
	o.Write8(0x78)
	o.Write8(0) // vaddr
	o.Write8(0) // paddr
	o.Write8(uint64(len(code)))
	o.Write8(uint64(len(code)))
	o.Write8(8) // align

	o.buf = append(o.buf, code...)
	return o.buf
}
