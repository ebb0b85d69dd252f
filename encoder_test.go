package main

import (
	"bytes"
	"testing"
)

func newTestAssembler() *Assembler {
	return NewAssembler("test.asm")
}

// lastCodeBytes returns the bytes most recently appended to the tail
// code block of a.
func lastCodeBytes(a *Assembler) []byte {
	return a.graph.Tail.Bytes
}

func TestEncodeMovImmediateForms(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []byte
	}{
		{"mov al imm", "mov al, 1", []byte{0xB0, 0x01}},
		{"mov ax imm", "mov ax, 2", []byte{0xB8, 0x02, 0x00}},
		{"mov eax imm", "mov eax, 1", []byte{0xB8, 0x01, 0x00, 0x00, 0x00}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := newTestAssembler()
			if err := a.parseLine(c.line); err != nil {
				t.Fatalf("parseLine(%q): %v", c.line, err)
			}
			if got := lastCodeBytes(a); !bytes.Equal(got, c.want) {
				t.Fatalf("got % X, want % X", got, c.want)
			}
		})
	}
}

func TestEncodeMovRegToReg(t *testing.T) {
	a := newTestAssembler()
	if err := a.parseLine("mov ebx, eax"); err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	want := []byte{0x89, 0xC3} // ModRM = 11 000 011 (reg=eax, rm=ebx)
	if got := lastCodeBytes(a); !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestEncodeMovToMemory(t *testing.T) {
	a := newTestAssembler()
	if err := a.parseLine("mov [ebx], eax"); err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	want := []byte{0x89, 0x03}
	if got := lastCodeBytes(a); !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestEncodeMovExtendedDestinationRefused(t *testing.T) {
	a := newTestAssembler()
	err := a.parseLine("mov r8, 1")
	ae, ok := err.(*AssemblerError)
	if !ok || ae.Kind != UnsupportedError {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

func TestEncodeArithImmediateAndRegister(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []byte
	}{
		{"add al imm", "add al, 1", []byte{0x04, 0x01}},
		{"and eax imm", "and eax, 5", []byte{0x25, 0x05, 0x00, 0x00, 0x00}},
		{"xor ebx imm", "xor ebx, 1", []byte{0x81, 0xF3, 0x01, 0x00, 0x00, 0x00}},
		{"or reg reg", "or ecx, edx", []byte{0x09, 0xD1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := newTestAssembler()
			if err := a.parseLine(c.line); err != nil {
				t.Fatalf("parseLine(%q): %v", c.line, err)
			}
			if got := lastCodeBytes(a); !bytes.Equal(got, c.want) {
				t.Fatalf("got % X, want % X", got, c.want)
			}
		})
	}
}

func TestEncodeDec(t *testing.T) {
	a := newTestAssembler()
	if err := a.parseLine("dec ecx"); err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	want := []byte{0x49}
	if got := lastCodeBytes(a); !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestEncodeRepStos(t *testing.T) {
	cases := []struct {
		line string
		want []byte
	}{
		{"rep stosb", []byte{0xF3, 0xAA}},
		{"rep stosd", []byte{0xF3, 0xAB}},
	}
	for _, c := range cases {
		a := newTestAssembler()
		if err := a.parseLine(c.line); err != nil {
			t.Fatalf("parseLine(%q): %v", c.line, err)
		}
		if got := lastCodeBytes(a); !bytes.Equal(got, c.want) {
			t.Fatalf("got % X, want % X", got, c.want)
		}
	}
}

func TestEncodeRepUnrecognizedTarget(t *testing.T) {
	a := newTestAssembler()
	err := a.parseLine("rep movsb")
	ae, ok := err.(*AssemblerError)
	if !ok || ae.Kind != UnsupportedError {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

func TestEncodeDataDirectives(t *testing.T) {
	a := newTestAssembler()
	if err := a.parseLine("K equ 0x1234"); err != nil {
		t.Fatalf("parseLine(equ): %v", err)
	}
	if err := a.parseLine("dw K"); err != nil {
		t.Fatalf("parseLine(dw): %v", err)
	}
	want := []byte{0x34, 0x12}
	if got := lastCodeBytes(a); !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestEncodeDataLiteral(t *testing.T) {
	a := newTestAssembler()
	if err := a.parseLine("dd 0"); err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	want := []byte{0, 0, 0, 0}
	if got := lastCodeBytes(a); !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestParseLabelDuplicateIsSemanticError(t *testing.T) {
	a := newTestAssembler()
	if err := a.parseLine("loop:"); err != nil {
		t.Fatalf("first label def: %v", err)
	}
	err := a.parseLine("loop:")
	ae, ok := err.(*AssemblerError)
	if !ok || ae.Kind != SemanticError {
		t.Fatalf("expected SemanticError on duplicate label, got %v", err)
	}
}

func TestParseBitsDirective(t *testing.T) {
	a := newTestAssembler()
	if !a.longMode {
		t.Fatalf("long mode should start true")
	}
	if err := a.parseLine("[bits 32]"); err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if a.longMode {
		t.Fatalf("long mode should be false after [bits 32]")
	}
	if err := a.parseLine("[bits 64]"); err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	if !a.longMode {
		t.Fatalf("long mode should be true after [bits 64]")
	}
}

func TestParseBitsDirectiveUnsupportedValue(t *testing.T) {
	a := newTestAssembler()
	err := a.parseLine("[bits 16]")
	ae, ok := err.(*AssemblerError)
	if !ok || ae.Kind != SemanticError {
		t.Fatalf("expected SemanticError, got %v", err)
	}
}

func TestUnknownMnemonic(t *testing.T) {
	a := newTestAssembler()
	err := a.parseLine("frobnicate eax")
	ae, ok := err.(*AssemblerError)
	if !ok || ae.Kind != SyntaxError {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
}
