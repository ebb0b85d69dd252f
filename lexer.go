package main

// ReadIdentifier consumes leading whitespace, then accumulates a maximal
// run of bytes matching [A-Za-z0-9_]. It returns the count of bytes
// skipped and the identifier slice itself (possibly empty, if the first
// non-whitespace byte isn't an identifier byte). Grounded on
// original_source/tools/assembler.c's getIdentifier.
func ReadIdentifier(buf string) (skipped int, ident string) {
	i := 0
	for i < len(buf) && isLineSpace(buf[i]) {
		i++
	}
	skipped = i
	start := i
	for i < len(buf) && isIdentByte(buf[i]) {
		i++
	}
	return skipped, buf[start:i]
}

func isLineSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

func isIdentByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
