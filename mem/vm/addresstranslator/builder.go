package addresstranslator

import (
	"github.com/sarchlab/vmsim/mem/mem"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/backingstore"
	"github.com/sarchlab/vmsim/mem/vm/replacement"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
	"github.com/sarchlab/vmsim/sim"
)

// A Builder can build address translators.
type Builder struct {
	store            backingstore.BackingStore
	policyKind       replacement.Kind
	policy           replacement.Policy
	numFrames        int
	numTLBEntries    int
	retargetTLB      bool
	checkConsistency bool
}

// MakeBuilder creates a builder with the default geometry: 256 frames, a
// 16-entry TLB and FIFO page replacement.
func MakeBuilder() Builder {
	return Builder{
		policyKind:    replacement.FIFO,
		numFrames:     vm.NumFrames,
		numTLBEntries: vm.NumTLBEntries,
	}
}

// WithBackingStore sets where page faults read pages from.
func (b Builder) WithBackingStore(s backingstore.BackingStore) Builder {
	b.store = s
	return b
}

// WithPolicyKind selects one of the built-in replacement policies.
func (b Builder) WithPolicyKind(kind replacement.Kind) Builder {
	b.policyKind = kind
	return b
}

// WithPolicy sets a custom replacement policy. It must cover exactly the
// number of frames of the translator.
func (b Builder) WithPolicy(p replacement.Policy) Builder {
	b.policy = p
	return b
}

// WithNumFrames sets the number of physical frames.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithNumTLBEntries sets the number of TLB lines.
func (b Builder) WithNumTLBEntries(n int) Builder {
	b.numTLBEntries = n
	return b
}

// WithTLBRetarget makes page faults rewrite the TLB line of the evicted page
// in place instead of invalidating it and inserting a new line.
func (b Builder) WithTLBRetarget(enabled bool) Builder {
	b.retargetTLB = enabled
	return b
}

// WithConsistencyCheck makes the translator verify its state after every
// translation and panic on the first violation. It is slow; use it for
// debugging.
func (b Builder) WithConsistencyCheck(enabled bool) Builder {
	b.checkConsistency = enabled
	return b
}

// Build creates a new translator.
func (b Builder) Build(name string) *Comp {
	b.storeMustCoverLogicalSpace()

	c := &Comp{
		HookableBase:     sim.NewHookableBase(),
		name:             name,
		pageTable:        vm.NewPageTable(vm.NumPages),
		memory:           mem.NewPhysicalMemory(b.numFrames, vm.PageSize),
		store:            b.store,
		retargetTLB:      b.retargetTLB,
		checkConsistency: b.checkConsistency,
	}

	c.tlb = tlb.MakeBuilder().
		WithNumEntries(b.numTLBEntries).
		Build(name + ".TLB")

	c.policy = b.policy
	if c.policy == nil {
		c.policy = replacement.New(b.policyKind, b.numFrames)
	}

	return c
}

func (b Builder) storeMustCoverLogicalSpace() {
	if b.store == nil {
		panic("a backing store is required")
	}

	if b.store.PageSize() != vm.PageSize {
		panic("backing store page size does not match the page size")
	}

	if b.store.NumPages() < vm.NumPages {
		panic("backing store does not cover the logical space")
	}
}
