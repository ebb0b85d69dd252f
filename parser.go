package main

import "strings"

// parseLine dispatches one logical line: a [bits N] directive, a label
// definition, a constant definition, or an instruction. A label
// definition re-dispatches whatever follows the colon, so "name: instr"
// assembles the instruction too instead of discarding it. Grounded on
// original_source/tools/assembler.c's per-line main() loop.
func (a *Assembler) parseLine(raw string) error {
	trimmed := strings.TrimLeft(raw, " \t\r")
	if strings.HasPrefix(trimmed, "[") {
		return a.parseBitsDirective(trimmed)
	}

	skipped, ident := ReadIdentifier(raw)
	if ident == "" {
		return nil
	}
	rest := raw[skipped+len(ident):]

	if restTrimmed := strings.TrimLeft(rest, " \t"); strings.HasPrefix(restTrimmed, "equ") &&
		(len(restTrimmed) == len("equ") || isLineSpace(restTrimmed[len("equ")])) {
		return a.parseEqu(ident, restTrimmed[len("equ"):])
	}

	if strings.HasPrefix(rest, ":") {
		if err := a.parseLabel(ident); err != nil {
			return err
		}
		return a.parseLine(rest[1:])
	}

	switch ident {
	case "dw":
		return a.encodeData(rest, 2)
	case "dd":
		return a.encodeData(rest, 4)
	case "jmp":
		return a.encodeJump(JumpShortJmp, rest)
	case "jnz":
		return a.encodeJump(JumpShortJnz, rest)
	case "mov":
		return a.encodeMov(rest)
	case "and", "add", "or", "xor":
		return a.encodeArith(ident, rest)
	case "dec":
		return a.encodeDec(rest)
	case "rep":
		return a.encodeRep(rest)
	default:
		return a.errf(SyntaxError, "unknown instruction %q", ident)
	}
}

// parseLabel binds NAME to a fresh empty code block at the current
// address, per the label-definition rule in the data model.
func (a *Assembler) parseLabel(name string) error {
	if _, exists := a.labels.Get(name); exists {
		return a.errf(SemanticError, "label %q already defined", name)
	}
	blk := a.graph.FinalizeCode()
	a.labels.Insert(name, blk)
	return nil
}

// parseEqu binds NAME to a signed integer in the constant map.
func (a *Assembler) parseEqu(name, valueStr string) error {
	val, err := parseIntC(strings.TrimSpace(valueStr))
	if err != nil {
		return a.errf(SyntaxError, "malformed value for equ %q", name)
	}
	a.consts.Insert(name, val)
	return nil
}

// parseBitsDirective handles [bits 32] / [bits 64].
func (a *Assembler) parseBitsDirective(trimmed string) error {
	if !strings.HasSuffix(trimmed, "]") {
		return a.errf(SyntaxError, "malformed [bits N] directive")
	}
	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	fields := strings.Fields(inner)
	if len(fields) != 2 || fields[0] != "bits" {
		return a.errf(SyntaxError, "malformed [bits N] directive")
	}
	switch fields[1] {
	case "32":
		a.longMode = false
	case "64":
		a.longMode = true
	default:
		return a.errf(SemanticError, "unsupported bits value %q", fields[1])
	}
	return nil
}
