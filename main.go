package main

import (
	"fmt"
	"os"
)

// Verbose gates trace output in the encoder, relaxer and ELF writer; set
// from the -v flag.
var Verbose bool

const versionString = "assembler 1.0.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	input, output, verbose := parseArgs(args)
	Verbose = verbose

	if input == "" {
		fmt.Fprintln(os.Stderr, "Assembler Error: no input file given")
		return int(UsageError)
	}

	out, err := AssembleFile(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ae, ok := err.(*AssemblerError); ok {
			return int(ae.Kind)
		}
		return int(IOError)
	}

	if err := os.WriteFile(output, out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Assembler Error (%s:0): cannot open output file for writing\n", output)
		return int(IOError)
	}
	return int(Success)
}
