package addresstranslator

import (
	"errors"
	"fmt"
)

// ErrInconsistent is returned by CheckConsistency when the TLB, the page
// table and the frame pool disagree.
var ErrInconsistent = errors.New("translation state is inconsistent")

// CheckConsistency verifies that every frame has at most one owner, that
// every owned frame exists, and that every TLB line agrees with the page
// table.
func (c *Comp) CheckConsistency() error {
	owners := make(map[uint64]uint64)

	for _, e := range c.pageTable.Entries() {
		if e.Frame >= uint64(c.memory.NumFrames()) {
			return fmt.Errorf("%w: page %d maps to frame %d, pool has %d",
				ErrInconsistent, e.Page, e.Frame, c.memory.NumFrames())
		}

		if other, dup := owners[e.Frame]; dup {
			return fmt.Errorf("%w: frame %d is owned by pages %d and %d",
				ErrInconsistent, e.Frame, other, e.Page)
		}

		owners[e.Frame] = e.Page
	}

	for _, e := range c.tlb.Entries() {
		frame, found := c.pageTable.Lookup(e.Page)
		if !found {
			return fmt.Errorf("%w: TLB maps page %d, which is not resident",
				ErrInconsistent, e.Page)
		}

		if frame != e.Frame {
			return fmt.Errorf(
				"%w: TLB maps page %d to frame %d, page table says %d",
				ErrInconsistent, e.Page, e.Frame, frame)
		}
	}

	return nil
}

func (c *Comp) mustBeConsistent() {
	if err := c.CheckConsistency(); err != nil {
		panic(err)
	}
}
