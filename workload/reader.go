// Package workload reads the stream of logical addresses a run translates.
package workload

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/vmsim/mem/vm"
)

// A Reader returns logical addresses one line at a time. Blank lines are
// skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Line returns the number of the line last read, starting from 1.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next address. It returns io.EOF at the end of the input
// and an error wrapping vm.ErrInvalidAddress for a malformed line; reading can
// continue after an invalid line.
func (r *Reader) Next() (uint64, error) {
	for r.scanner.Scan() {
		r.line++

		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}

		addr, err := vm.ParseAddress(text)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", r.line, err)
		}

		return addr, nil
	}

	if err := r.scanner.Err(); err != nil {
		return 0, err
	}

	return 0, io.EOF
}
