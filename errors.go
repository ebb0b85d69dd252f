package main

import "fmt"

// ErrorKind is the assembler's exit-code taxonomy, carried over from the
// original tool's negative return codes (see original_source/tools/assembler.c).
type ErrorKind int

const (
	Success          ErrorKind = 0
	UsageError       ErrorKind = -1
	IOError          ErrorKind = -2
	SyntaxError      ErrorKind = -3
	SemanticError    ErrorKind = -4
	UnsupportedError ErrorKind = -5
)

// AssemblerError is the single error type produced anywhere past argument
// parsing. main() is the only place that turns one into an exit code.
type AssemblerError struct {
	Kind ErrorKind
	File string
	Line int
	Msg  string
}

func (e *AssemblerError) Error() string {
	return fmt.Sprintf("Assembler Error (%s:%d): %s", e.File, e.Line, e.Msg)
}

func (a *Assembler) errf(kind ErrorKind, format string, args ...interface{}) error {
	return &AssemblerError{Kind: kind, File: a.file, Line: a.line, Msg: fmt.Sprintf(format, args...)}
}

func (a *Assembler) errfAt(kind ErrorKind, line int, format string, args ...interface{}) error {
	return &AssemblerError{Kind: kind, File: a.file, Line: line, Msg: fmt.Sprintf(format, args...)}
}
