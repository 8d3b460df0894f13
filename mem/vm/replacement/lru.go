package replacement

import "container/list"

// LRUPolicy reclaims the frame whose last access is the furthest in the past.
// Frames that have never been accessed count as older than every accessed
// frame, lowest index first.
type LRUPolicy struct {
	// The front of the list is the least recently used frame.
	order    *list.List
	elements []*list.Element
}

// NewLRU creates an LRU policy over numFrames frames.
func NewLRU(numFrames int) *LRUPolicy {
	numFramesMustBePositive(numFrames)

	p := &LRUPolicy{
		order:    list.New(),
		elements: make([]*list.Element, numFrames),
	}

	for f := 0; f < numFrames; f++ {
		p.elements[f] = p.order.PushBack(f)
	}

	return p
}

// Name returns "LRU".
func (p *LRUPolicy) Name() string {
	return "LRU"
}

// ChooseVictim returns the least recently used frame.
func (p *LRUPolicy) ChooseVictim() int {
	return p.order.Front().Value.(int)
}

// OnAccess makes the frame the most recently used one.
func (p *LRUPolicy) OnAccess(frame int) {
	frameMustBeInRange(frame, len(p.elements))

	p.order.MoveToBack(p.elements[frame])
}

// OnInstall does nothing; the access that follows the install refreshes the
// frame.
func (p *LRUPolicy) OnInstall(frame int) {
	frameMustBeInRange(frame, len(p.elements))
}

// Order returns the frames from least to most recently used.
func (p *LRUPolicy) Order() []int {
	order := make([]int, 0, p.order.Len())
	for e := p.order.Front(); e != nil; e = e.Next() {
		order = append(order, e.Value.(int))
	}

	return order
}
