package algorithm

import (
	"bytes"
	"strings"
)

// LineFramer reassembles newline-delimited commands from a byte stream that
// arrives in arbitrary chunks. The unterminated tail of each chunk is
// carried over, so the decoded commands depend only on the byte stream,
// never on where the transport happened to split it.
type LineFramer struct {
	carry []byte
}

// Feed consumes one chunk and returns every newly completed command line, in
// arrival order. Empty lines are skipped; a trailing carriage return is
// stripped.
func (f *LineFramer) Feed(chunk []byte) []string {
	f.carry = append(f.carry, chunk...)

	var lines []string
	for {
		idx := bytes.IndexByte(f.carry, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSuffix(string(f.carry[:idx]), "\r")
		f.carry = f.carry[idx+1:]
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Pending returns the number of carried-over bytes awaiting a newline.
func (f *LineFramer) Pending() int {
	return len(f.carry)
}
