// Package addresstranslator provides the translation engine that turns
// logical addresses into physical addresses, servicing TLB misses from the
// page table and page faults from the backing store.
package addresstranslator

import (
	"fmt"

	"github.com/sarchlab/vmsim/mem/mem"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/backingstore"
	"github.com/sarchlab/vmsim/mem/vm/replacement"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
	"github.com/sarchlab/vmsim/sim"
)

// Outcome tells how an address was resolved.
type Outcome int

// The ways an address can be resolved.
const (
	TLBHit Outcome = iota
	TLBMissPageHit
	PageFault
)

func (o Outcome) String() string {
	switch o {
	case TLBHit:
		return "TLBHit"
	case TLBMissPageHit:
		return "TLBMissPageHit"
	case PageFault:
		return "PageFault"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// A Translation is the result of resolving one logical address.
type Translation struct {
	LogicalAddress  uint64
	PhysicalAddress uint64
	Page            uint64
	Offset          uint64
	Frame           uint64
	Value           byte
	Outcome         Outcome
}

// A Reclaim describes a frame taken from one page and given to another.
type Reclaim struct {
	Frame   uint64
	OldPage uint64
	NewPage uint64
}

// HookPosTranslation marks that an address has been translated. The hook item
// is a Translation.
var HookPosTranslation = &sim.HookPos{Name: "Translation"}

// HookPosFrameReclaim marks that a resident page lost its frame. The hook item
// is a Reclaim.
var HookPosFrameReclaim = &sim.HookPos{Name: "FrameReclaim"}

// Stats counts the outcomes of the translations performed so far.
type Stats struct {
	Total         uint64 `json:"total"`
	TLBHits       uint64 `json:"tlb_hits"`
	PageTableHits uint64 `json:"page_table_hits"`
	Faults        uint64 `json:"faults"`
	Evictions     uint64 `json:"evictions"`
}

// FaultRate returns the fraction of translations that faulted.
func (s Stats) FaultRate() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.Faults) / float64(s.Total)
}

// TLBHitRate returns the fraction of translations that hit in the TLB.
func (s Stats) TLBHitRate() float64 {
	if s.Total == 0 {
		return 0
	}

	return float64(s.TLBHits) / float64(s.Total)
}

// Comp is the translation engine of one simulated MMU. It exclusively owns its
// TLB, page table, physical memory and replacement state. It is not safe for
// concurrent use.
type Comp struct {
	*sim.HookableBase

	name      string
	tlb       *tlb.TLB
	pageTable vm.PageTable
	memory    *mem.PhysicalMemory
	store     backingstore.BackingStore
	policy    replacement.Policy

	retargetTLB      bool
	checkConsistency bool

	stats Stats
}

// Name returns the name of the translator.
func (c *Comp) Name() string {
	return c.name
}

// Stats returns the counters accumulated so far.
func (c *Comp) Stats() Stats {
	return c.stats
}

// PolicyName returns the name of the page replacement policy.
func (c *Comp) PolicyName() string {
	return c.policy.Name()
}

// NumFrames returns the size of the physical frame pool.
func (c *Comp) NumFrames() int {
	return c.memory.NumFrames()
}

// TLBEntries returns the cached mappings, oldest first.
func (c *Comp) TLBEntries() []tlb.Entry {
	return c.tlb.Entries()
}

// PageTableEntries returns the resident pages.
func (c *Comp) PageTableEntries() []vm.PageEntry {
	return c.pageTable.Entries()
}

// Translate resolves a logical address. Misses and faults are normal
// outcomes; the only errors are an invalid address and a backing store that
// fails to deliver a page. A failed translation leaves the state unchanged.
func (c *Comp) Translate(addr uint64) (Translation, error) {
	page, offset, err := vm.Decompose(addr)
	if err != nil {
		return Translation{}, err
	}

	t := Translation{
		LogicalAddress: addr,
		Page:           page,
		Offset:         offset,
	}

	frame, outcome, err := c.resolve(page)
	if err != nil {
		return Translation{}, err
	}

	c.policy.OnAccess(int(frame))

	t.Frame = frame
	t.Outcome = outcome
	t.PhysicalAddress = vm.Compose(frame, offset)
	t.Value = c.memory.Frame(frame)[offset]

	c.count(outcome)

	if c.checkConsistency {
		c.mustBeConsistent()
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosTranslation,
		Item:   t,
	})

	return t, nil
}

func (c *Comp) resolve(page uint64) (uint64, Outcome, error) {
	frame, found := c.tlb.Lookup(page)
	if found {
		return frame, TLBHit, nil
	}

	frame, found = c.pageTable.Lookup(page)
	if found {
		c.tlb.Insert(page, frame)
		return frame, TLBMissPageHit, nil
	}

	frame, err := c.handlePageFault(page)
	if err != nil {
		return 0, PageFault, err
	}

	return frame, PageFault, nil
}

// handlePageFault moves the page into the frame chosen by the policy. The
// page is read before anything changes, so a failing store leaves no trace.
// The previous owner of the frame loses both its page table entry and its TLB
// line before the new owner is installed.
func (c *Comp) handlePageFault(page uint64) (uint64, error) {
	data, err := c.store.ReadPage(page)
	if err != nil {
		return 0, err
	}

	frame := uint64(c.policy.ChooseVictim())

	tlbUpdated := c.evict(frame, page)

	c.memory.Load(frame, data)
	c.pageTable.Map(page, frame)

	if !tlbUpdated {
		c.tlb.Insert(page, frame)
	}

	c.policy.OnInstall(int(frame))

	return frame, nil
}

// evict takes the frame away from its current owner. It returns true if the
// owner's TLB line has already been rewritten for the new page.
func (c *Comp) evict(frame, newPage uint64) bool {
	oldPage, owned := c.pageTable.UnmapFrame(frame)
	if !owned {
		c.tlb.InvalidateFrame(frame)
		return false
	}

	c.stats.Evictions++

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosFrameReclaim,
		Item: Reclaim{
			Frame:   frame,
			OldPage: oldPage,
			NewPage: newPage,
		},
	})

	if c.retargetTLB && c.tlb.Retarget(oldPage, newPage, frame) {
		return true
	}

	c.tlb.InvalidateFrame(frame)

	return false
}

func (c *Comp) count(outcome Outcome) {
	c.stats.Total++

	switch outcome {
	case TLBHit:
		c.stats.TLBHits++
	case TLBMissPageHit:
		c.stats.PageTableHits++
	case PageFault:
		c.stats.Faults++
	}
}
