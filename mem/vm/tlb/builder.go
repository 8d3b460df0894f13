package tlb

// A Builder can build TLBs
type Builder struct {
	numEntries int
}

// MakeBuilder returns a Builder
func MakeBuilder() Builder {
	return Builder{
		numEntries: 16,
	}
}

// WithNumEntries sets the number of lines in the TLB.
func (b Builder) WithNumEntries(n int) Builder {
	b.numEntries = n
	return b
}

// Build creates a new TLB
func (b Builder) Build(name string) *TLB {
	if b.numEntries <= 0 {
		panic("a TLB must have at least one entry")
	}

	return &TLB{
		name:  name,
		lines: make([]line, b.numEntries),
	}
}
