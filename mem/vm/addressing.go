// Package vm provides the building blocks of the simulated virtual memory
// system: address decomposition, the page table and the error taxonomy shared
// by the translation components.
package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// Default geometry of the simulated system. The logical space is four times
// larger than physical memory, so every run beyond the first 256 distinct
// pages has to evict.
const (
	OffsetBits     = 10
	PageSize       = 1 << OffsetBits
	NumPages       = 1024
	NumFrames      = 256
	NumTLBEntries  = 16
	LogicalBits    = 20
	OffsetMask     = PageSize - 1
	PageNumberMask = NumPages - 1
)

// LogicalSpaceSize is the number of addressable logical bytes.
const LogicalSpaceSize = NumPages * PageSize

// Decompose splits a logical address into its page number and offset.
// Addresses outside the logical space are rejected rather than masked.
func Decompose(addr uint64) (page, offset uint64, err error) {
	if addr >= LogicalSpaceSize {
		return 0, 0, fmt.Errorf(
			"%w: %d is outside the %d-bit logical space",
			ErrInvalidAddress, addr, LogicalBits)
	}

	page = (addr >> OffsetBits) & PageNumberMask
	offset = addr & OffsetMask

	return page, offset, nil
}

// Compose builds an address from a page (or frame) number and an offset.
func Compose(page, offset uint64) uint64 {
	return (page << OffsetBits) | (offset & OffsetMask)
}

// ParseAddress converts the textual form of a logical address. Negative
// values and values beyond the logical space yield ErrInvalidAddress.
func ParseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAddress, s)
	}

	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidAddress, v)
	}

	if uint64(v) >= LogicalSpaceSize {
		return 0, fmt.Errorf(
			"%w: %d is outside the %d-bit logical space",
			ErrInvalidAddress, v, LogicalBits)
	}

	return uint64(v), nil
}
