package repl

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// normalizeInput strips a UTF-8 byte order mark and applies Unicode NFC
// normalization to one line of REPL input, so a path or item literal typed
// with combining characters compares equal to its precomposed form
// (grounded on the teacher's internal/lexer.Normalize, applied here at the
// REPL's own input boundary rather than a lexer's, since this pipeline has
// no lexer of its own).
func normalizeInput(line string) string {
	src := []byte(line)
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return string(src)
}
