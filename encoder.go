package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// traceEncode writes a one-line encoder trace when Verbose is set,
// mirroring the teacher's VerboseMode-gated Fprintf calls.
func traceEncode(format string, args ...interface{}) {
	if Verbose {
		fmt.Fprintf(os.Stderr, "encode: "+format+"\n", args...)
	}
}

// parseIntC parses a signed integer using C radix rules: leading 0x/0X
// for hex, leading 0 for octal, otherwise decimal.
func parseIntC(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(s, 0, 64)
}

// splitOperands splits a comma-separated operand list, trimming
// whitespace and dropping empty fields.
func splitOperands(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseMemOperand recognizes a bracketed memory reference, optionally
// preceded by a DWORD width keyword: "[ebx]" or "DWORD [ebx]".
func parseMemOperand(s string) (reg string, hasWidth bool, width int, ok bool) {
	s = strings.TrimSpace(s)
	if upper := strings.ToUpper(s); strings.HasPrefix(upper, "DWORD") {
		hasWidth = true
		width = 32
		s = strings.TrimSpace(s[len("DWORD"):])
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return "", false, 0, false
	}
	return strings.TrimSpace(s[1 : len(s)-1]), hasWidth, width, true
}

// resolveImmediate looks a token up in the constant map first, falling
// back to a numeric literal, per the lookup order in the data model.
func (a *Assembler) resolveImmediate(tok string) (int64, error) {
	if v, ok := a.consts.Get(tok); ok {
		return v, nil
	}
	v, err := parseIntC(tok)
	if err != nil {
		return 0, a.errf(SyntaxError, "expected a constant or numeric literal, got %q", tok)
	}
	return v, nil
}

func (a *Assembler) appendImmediate(blk *Block, val int64, size int) {
	buf := make([]byte, size)
	switch size {
	case 1:
		buf[0] = byte(val)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(val))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(val))
	}
	blk.AppendBytes(buf...)
}

// encodeData implements dw/dd: write the operand, little-endian, at the
// given width. A known constant name is substituted; otherwise the
// operand is parsed as a signed literal.
func (a *Assembler) encodeData(operand string, width int) error {
	traceEncode("dw/dd width=%d operand=%q", width, operand)
	expr := strings.TrimSpace(operand)
	if expr == "" {
		return a.errf(SyntaxError, "missing operand")
	}
	var value int64
	if v, ok := a.consts.Get(expr); ok {
		value = v
	} else {
		v, err := parseIntC(expr)
		if err != nil {
			return a.errf(SyntaxError, "malformed number %q", expr)
		}
		value = v
	}
	blk := a.graph.MakeRoom(width)
	a.appendImmediate(blk, value, width)
	return nil
}

// encodeJump implements jmp/jnz: the target is recorded by name only;
// resolution happens during relaxation.
func (a *Assembler) encodeJump(kind JumpKind, operand string) error {
	traceEncode("jump kind=%d operand=%q", kind, operand)
	_, name := ReadIdentifier(operand)
	if name == "" {
		return a.errf(SyntaxError, "jmp/jnz requires a label operand")
	}
	a.graph.AppendJump(kind, name, a.line, a.longMode)
	return nil
}

// encodeDec implements dec reg: single-byte 0x48+reg, legacy form.
func (a *Assembler) encodeDec(operand string) error {
	traceEncode("dec operand=%q", operand)
	name := strings.TrimSpace(operand)
	reg, ok := LookupRegister(name)
	if !ok {
		return a.errf(SyntaxError, "unknown dec operand %q", name)
	}
	if reg.Encoding > 7 {
		return a.errf(UnsupportedError, "extended registers are not implemented for dec")
	}
	blk := a.graph.MakeRoom(1)
	blk.AppendBytes(0x48 + reg.Encoding)
	return nil
}

// encodeRep implements rep stosb/stosw/stosd.
func (a *Assembler) encodeRep(operand string) error {
	traceEncode("rep operand=%q", operand)
	_, ident := ReadIdentifier(operand)
	blk := a.graph.MakeRoom(2)
	switch ident {
	case "stosb":
		blk.AppendBytes(0xF3, 0xAA)
	case "stosw", "stosd":
		blk.AppendBytes(0xF3, 0xAB)
	default:
		return a.errf(UnsupportedError, "unrecognized rep target %q", ident)
	}
	return nil
}

var arithBase = map[string]byte{"add": 0x00, "or": 0x08, "and": 0x20, "xor": 0x30}
var arithSubop = map[string]byte{"add": 0, "or": 1, "and": 4, "xor": 6}

// encodeArith implements and/add/or/xor, two-operand form only.
func (a *Assembler) encodeArith(mnemonic, operand string) error {
	traceEncode("%s operand=%q", mnemonic, operand)
	ops := splitOperands(operand)
	if len(ops) != 2 {
		return a.errf(SyntaxError, "%s requires two operands separated by a comma", mnemonic)
	}
	dst, src := ops[0], ops[1]

	dstReg, ok := LookupRegister(dst)
	if !ok {
		return a.errf(SyntaxError, "unknown %s destination %q", mnemonic, dst)
	}
	if dstReg.Encoding > 7 {
		return a.errf(UnsupportedError, "extended registers are not implemented for %s", mnemonic)
	}
	base := arithBase[mnemonic]

	if srcReg, ok := LookupRegister(src); ok {
		if srcReg.Encoding > 7 {
			return a.errf(UnsupportedError, "extended registers are not implemented for %s", mnemonic)
		}
		var opcode byte
		switch dstReg.Width {
		case 8:
			opcode = base + 0
		case 16, 32:
			opcode = base + 1
		default:
			return a.errf(UnsupportedError, "unsupported operand width for %s", mnemonic)
		}
		blk := a.graph.MakeRoom(2)
		modrm := byte(0xC0 | ((srcReg.Encoding & 7) << 3) | (dstReg.Encoding & 7))
		blk.AppendBytes(opcode, modrm)
		return nil
	}

	imm, err := a.resolveImmediate(src)
	if err != nil {
		return err
	}

	switch dst {
	case "al":
		blk := a.graph.MakeRoom(2)
		blk.AppendBytes(base|0x04, byte(imm))
		return nil
	case "ax":
		blk := a.graph.MakeRoom(3)
		blk.AppendBytes(base | 0x05)
		a.appendImmediate(blk, imm, 2)
		return nil
	case "eax":
		blk := a.graph.MakeRoom(5)
		blk.AppendBytes(base | 0x05)
		a.appendImmediate(blk, imm, 4)
		return nil
	}

	subop := arithSubop[mnemonic]
	switch dstReg.Width {
	case 8:
		blk := a.graph.MakeRoom(3)
		modrm := byte(0xC0 | (subop << 3) | (dstReg.Encoding & 7))
		blk.AppendBytes(0x80, modrm, byte(imm))
		return nil
	case 16:
		blk := a.graph.MakeRoom(4)
		modrm := byte(0xC0 | (subop << 3) | (dstReg.Encoding & 7))
		blk.AppendBytes(0x81, modrm)
		a.appendImmediate(blk, imm, 2)
		return nil
	case 32:
		blk := a.graph.MakeRoom(6)
		modrm := byte(0xC0 | (subop << 3) | (dstReg.Encoding & 7))
		blk.AppendBytes(0x81, modrm)
		a.appendImmediate(blk, imm, 4)
		return nil
	default:
		return a.errf(UnsupportedError, "unsupported operand width for %s", mnemonic)
	}
}

// encodeMov implements the mov family per the encoding case table.
func (a *Assembler) encodeMov(operand string) error {
	traceEncode("mov operand=%q", operand)
	ops := splitOperands(operand)
	if len(ops) != 2 {
		return a.errf(SyntaxError, "mov requires two operands separated by a comma")
	}
	dst, src := ops[0], ops[1]

	if memReg, hasWidth, width, ok := parseMemOperand(dst); ok {
		return a.encodeMovToMem(memReg, hasWidth, width, src)
	}

	dstReg, ok := LookupRegister(dst)
	if !ok {
		return a.errf(SyntaxError, "unknown mov destination %q", dst)
	}
	if dstReg.Encoding > 7 {
		return a.errf(UnsupportedError, "extended registers as a mov destination are not implemented")
	}

	if srcReg, ok := LookupRegister(src); ok {
		return a.encodeMovRegToReg(dstReg, srcReg)
	}

	imm, err := a.resolveImmediate(src)
	if err != nil {
		return err
	}
	return a.encodeMovImmToReg(dstReg, imm)
}

func (a *Assembler) encodeMovRegToReg(dst, src RegInfo) error {
	if src.Class == RegControl {
		blk := a.graph.MakeRoom(3)
		modrm := byte(0xC0 | ((src.Encoding & 7) << 3) | (dst.Encoding & 7))
		blk.AppendBytes(0x0F, 0x20, modrm)
		return nil
	}
	if dst.Class == RegControl {
		blk := a.graph.MakeRoom(3)
		modrm := byte(0xC0 | ((dst.Encoding & 7) << 3) | (src.Encoding & 7))
		blk.AppendBytes(0x0F, 0x22, modrm)
		return nil
	}
	if src.Encoding > 7 {
		return a.errf(UnsupportedError, "extended registers as a mov source are not implemented")
	}

	var opcode byte
	switch dst.Width {
	case 8:
		opcode = 0x88
	case 16, 32:
		opcode = 0x89
	default:
		return a.errf(UnsupportedError, "unsupported register width for mov")
	}
	blk := a.graph.MakeRoom(2)
	modrm := byte(0xC0 | ((src.Encoding & 7) << 3) | (dst.Encoding & 7))
	blk.AppendBytes(opcode, modrm)
	return nil
}

func (a *Assembler) encodeMovImmToReg(dst RegInfo, imm int64) error {
	switch dst.Width {
	case 8:
		blk := a.graph.MakeRoom(2)
		blk.AppendBytes(0xB0+dst.Encoding, byte(imm))
		return nil
	case 16:
		blk := a.graph.MakeRoom(3)
		blk.AppendBytes(0xB8 + dst.Encoding)
		a.appendImmediate(blk, imm, 2)
		return nil
	case 32:
		blk := a.graph.MakeRoom(5)
		blk.AppendBytes(0xB8 + dst.Encoding)
		a.appendImmediate(blk, imm, 4)
		return nil
	default:
		return a.errf(UnsupportedError, "unsupported register width for mov immediate")
	}
}

func (a *Assembler) encodeMovToMem(addrRegName string, hasWidth bool, declaredWidth int, src string) error {
	addrReg, ok := LookupRegister(addrRegName)
	if !ok {
		return a.errf(SyntaxError, "unknown memory operand register %q", addrRegName)
	}

	if srcReg, ok := LookupRegister(src); ok {
		var opcode byte
		switch srcReg.Width {
		case 8:
			opcode = 0x88
		case 16, 32:
			opcode = 0x89
		default:
			return a.errf(UnsupportedError, "unsupported operand width for mov [reg], r")
		}
		blk := a.graph.MakeRoom(2)
		modrm := byte(0x00 | ((srcReg.Encoding & 7) << 3) | (addrReg.Encoding & 7))
		blk.AppendBytes(opcode, modrm)
		return nil
	}

	width := 32
	if hasWidth {
		width = declaredWidth
	}
	if val, ok := a.consts.Get(src); ok {
		size := width / 8
		opcode := byte(0xC7)
		if width == 8 {
			opcode = 0xC6
		}
		blk := a.graph.MakeRoom(2 + size)
		modrm := byte(0x00 | (addrReg.Encoding & 7))
		blk.AppendBytes(opcode, modrm)
		a.appendImmediate(blk, val, size)
		return nil
	}

	return a.errf(UnsupportedError, "literal-to-memory stores are not implemented")
}
