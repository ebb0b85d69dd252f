package main

// RegClass is the register family, inferred from the name the same way
// width is: st* -> FP, mmx* -> MMX, xmm* -> XMM, ymm* -> YMM, cr* ->
// Control, dr* -> Debug, segment names -> Segment, everything else -> GP.
type RegClass int

const (
	RegGP RegClass = iota
	RegSegment
	RegControl
	RegDebug
	RegFP
	RegMMX
	RegXMM
	RegYMM
)

// RegInfo is what the register table hands back for a recognized name:
// its 0-15 ModR/M encoding, its width in bits, and its class.
type RegInfo struct {
	Encoding uint8
	Width    int
	Class    RegClass
}

// registerTable covers the eight legacy GP sets (a/c/d/b/sp/bp/si/di),
// r8-r15, segment/control/debug registers, the FP stack, and MMX/XMM/YMM.
// Widths follow the name heuristic from the register table design (last
// l/h -> 8, last w or 2-letter legacy name -> 16, leading e or c*/d* ->
// 32, leading r or m -> 64, leading s -> 80, x* -> 128, y* -> 256); r8-r9
// collide with that heuristic's "2-letter name" rule, so widths are
// recorded directly per entry instead of computed at lookup time.
var registerTable = map[string]RegInfo{
	// 8-bit legacy low byte
	"al": {0, 8, RegGP}, "cl": {1, 8, RegGP}, "dl": {2, 8, RegGP}, "bl": {3, 8, RegGP},
	// 8-bit legacy high byte
	"ah": {4, 8, RegGP}, "ch": {5, 8, RegGP}, "dh": {6, 8, RegGP}, "bh": {7, 8, RegGP},
	// 8-bit REX-only low byte (sp/bp/si/di have no high-byte form)
	"spl": {4, 8, RegGP}, "bpl": {5, 8, RegGP}, "sil": {6, 8, RegGP}, "dil": {7, 8, RegGP},

	// 16-bit legacy
	"ax": {0, 16, RegGP}, "cx": {1, 16, RegGP}, "dx": {2, 16, RegGP}, "bx": {3, 16, RegGP},
	"sp": {4, 16, RegGP}, "bp": {5, 16, RegGP}, "si": {6, 16, RegGP}, "di": {7, 16, RegGP},

	// 32-bit legacy
	"eax": {0, 32, RegGP}, "ecx": {1, 32, RegGP}, "edx": {2, 32, RegGP}, "ebx": {3, 32, RegGP},
	"esp": {4, 32, RegGP}, "ebp": {5, 32, RegGP}, "esi": {6, 32, RegGP}, "edi": {7, 32, RegGP},

	// 64-bit legacy
	"rax": {0, 64, RegGP}, "rcx": {1, 64, RegGP}, "rdx": {2, 64, RegGP}, "rbx": {3, 64, RegGP},
	"rsp": {4, 64, RegGP}, "rbp": {5, 64, RegGP}, "rsi": {6, 64, RegGP}, "rdi": {7, 64, RegGP},

	// r8-r15, all widths. r12 is 12, not a copy of r10's encoding.
	"r8b": {8, 8, RegGP}, "r8w": {8, 16, RegGP}, "r8d": {8, 32, RegGP}, "r8": {8, 64, RegGP},
	"r9b": {9, 8, RegGP}, "r9w": {9, 16, RegGP}, "r9d": {9, 32, RegGP}, "r9": {9, 64, RegGP},
	"r10b": {10, 8, RegGP}, "r10w": {10, 16, RegGP}, "r10d": {10, 32, RegGP}, "r10": {10, 64, RegGP},
	"r11b": {11, 8, RegGP}, "r11w": {11, 16, RegGP}, "r11d": {11, 32, RegGP}, "r11": {11, 64, RegGP},
	"r12b": {12, 8, RegGP}, "r12w": {12, 16, RegGP}, "r12d": {12, 32, RegGP}, "r12": {12, 64, RegGP},
	"r13b": {13, 8, RegGP}, "r13w": {13, 16, RegGP}, "r13d": {13, 32, RegGP}, "r13": {13, 64, RegGP},
	"r14b": {14, 8, RegGP}, "r14w": {14, 16, RegGP}, "r14d": {14, 32, RegGP}, "r14": {14, 64, RegGP},
	"r15b": {15, 8, RegGP}, "r15w": {15, 16, RegGP}, "r15d": {15, 32, RegGP}, "r15": {15, 64, RegGP},

	// Segment registers
	"es": {0, 16, RegSegment}, "cs": {1, 16, RegSegment}, "ss": {2, 16, RegSegment},
	"ds": {3, 16, RegSegment}, "fs": {4, 16, RegSegment}, "gs": {5, 16, RegSegment},
}

func init() {
	for i := uint8(0); i <= 15; i++ {
		registerTable[crName(i)] = RegInfo{i, 32, RegControl}
		registerTable[drName(i)] = RegInfo{i, 32, RegDebug}
		registerTable[mmxName(i)] = RegInfo{i, 64, RegMMX}
		registerTable[xmmName(i)] = RegInfo{i, 128, RegXMM}
		registerTable[ymmName(i)] = RegInfo{i, 256, RegYMM}
		if i <= 7 {
			registerTable[stName(i)] = RegInfo{i, 80, RegFP}
		}
	}
}

func crName(i uint8) string  { return "cr" + itoa(i) }
func drName(i uint8) string  { return "dr" + itoa(i) }
func mmxName(i uint8) string { return "mmx" + itoa(i) }
func xmmName(i uint8) string { return "xmm" + itoa(i) }
func ymmName(i uint8) string { return "ymm" + itoa(i) }
func stName(i uint8) string  { return "st" + itoa(i) }

func itoa(i uint8) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return string(rune('0'+i/10)) + string(rune('0'+i%10))
}

// LookupRegister classifies a bare identifier as a register, returning
// its encoding/width/class. Anything not found here is left for the
// caller to treat as a memory reference, constant name, or literal.
func LookupRegister(name string) (RegInfo, bool) {
	r, ok := registerTable[name]
	return r, ok
}
