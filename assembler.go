package main

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
)

// Assembler holds the parse-global state the source kept as process-wide
// globals: current file name, line number, and long_mode flag, plus the
// label and constant maps and the block graph being built. Carried
// explicitly per the source's "aggregate into a parser context" note.
type Assembler struct {
	file     string
	line     int
	longMode bool

	labels *StringMap[*Block]
	consts *StringMap[int64]
	graph  *BlockGraph
}

// NewAssembler creates a parser context for file, starting in 64-bit
// mode per the data model ("long_mode starts true").
func NewAssembler(file string) *Assembler {
	return &Assembler{
		file:     file,
		longMode: true,
		labels:   NewStringMap[*Block](),
		consts:   NewStringMap[int64](),
		graph:    NewBlockGraph(),
	}
}

// AssembleFile runs the full parse -> resolve -> relax -> emit pipeline
// against path and returns the finished ELF64 image.
func AssembleFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &AssemblerError{Kind: IOError, File: path, Line: 0, Msg: "cannot open input file"}
	}
	defer f.Close()

	a := NewAssembler(path)
	if err := a.assemble(f); err != nil {
		return nil, err
	}

	code := a.SerializeCode()
	entry := uint64(0)
	if blk, ok := a.labels.Get("_start"); ok {
		entry = blk.Address
	}
	return WriteELF(entry, code), nil
}

func (a *Assembler) assemble(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		a.line++
		if err := a.parseLine(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return a.errf(IOError, "read failed: %v", err)
	}
	return a.Relax()
}

// SerializeCode walks the stabilized block list and produces the final
// machine-code byte stream, per the ELF writer's block-stream rule.
func (a *Assembler) SerializeCode() []byte {
	var out []byte
	for blk := a.graph.Head; blk != nil; blk = blk.Next {
		switch blk.Kind {
		case BlockCode:
			out = append(out, blk.Bytes...)
		case BlockJump:
			out = append(out, a.serializeJump(blk)...)
		}
	}
	return out
}

func (a *Assembler) serializeJump(blk *Block) []byte {
	switch blk.JumpOp {
	case JumpShortJmp:
		return []byte{0xEB, byte(int8(blk.Disp))}
	case JumpShortJnz:
		return []byte{0x75, byte(int8(blk.Disp))}
	case JumpNearJmp:
		return append([]byte{0xE9}, encodeDisp(blk.Disp, blk.LongMode)...)
	case JumpNearJnz:
		return append([]byte{0x0F, 0x85}, encodeDisp(blk.Disp, blk.LongMode)...)
	}
	return nil
}

func encodeDisp(disp int64, longMode bool) []byte {
	if longMode {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(int32(disp)))
		return b
	}
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(int16(disp)))
	return b
}
