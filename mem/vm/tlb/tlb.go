// Package tlb provides a fully associative translation cache that holds
// recent page-to-frame mappings in front of the page table.
package tlb

import "sort"

// An Entry is one line of the TLB.
type Entry struct {
	Page  uint64
	Frame uint64
}

type line struct {
	Entry
	valid bool
	seq   uint64
}

// A TLB caches page-to-frame mappings. When all lines are in use, the line
// installed longest ago is overwritten. The TLB keeps its own insertion order;
// it knows nothing about page replacement.
type TLB struct {
	name    string
	lines   []line
	nextSeq uint64
}

// Name returns the name of the TLB.
func (t *TLB) Name() string {
	return t.name
}

// Capacity returns the number of lines.
func (t *TLB) Capacity() int {
	return len(t.lines)
}

// Len returns the number of valid lines.
func (t *TLB) Len() int {
	n := 0
	for _, l := range t.lines {
		if l.valid {
			n++
		}
	}

	return n
}

// Lookup returns the frame cached for the page. A hit does not change the
// replacement order of the lines.
func (t *TLB) Lookup(page uint64) (frame uint64, found bool) {
	for _, l := range t.lines {
		if l.valid && l.Page == page {
			return l.Frame, true
		}
	}

	return 0, false
}

// Insert caches a mapping. A free line is used if there is one, otherwise the
// oldest line is overwritten. The evicted entry, if any, is returned.
func (t *TLB) Insert(page, frame uint64) (evicted Entry, wasEvicted bool) {
	t.entryMustNotExist(page)

	victim := t.findFreeLine()
	if victim < 0 {
		victim = t.findOldestLine()
		evicted = t.lines[victim].Entry
		wasEvicted = true
	}

	t.install(victim, page, frame)

	return evicted, wasEvicted
}

// InvalidateFrame drops the line that maps to the frame.
func (t *TLB) InvalidateFrame(frame uint64) bool {
	for i := range t.lines {
		l := &t.lines[i]
		if l.valid && l.Frame == frame {
			l.valid = false
			return true
		}
	}

	return false
}

// Retarget rewrites the line of oldPage in place so that it maps newPage to
// frame. The line becomes the newest one, as if it had been invalidated and
// inserted again. It returns false if oldPage is not cached.
func (t *TLB) Retarget(oldPage, newPage, frame uint64) bool {
	for i := range t.lines {
		l := &t.lines[i]
		if l.valid && l.Page == oldPage {
			t.install(i, newPage, frame)
			return true
		}
	}

	return false
}

// Entries returns the valid lines, oldest first.
func (t *TLB) Entries() []Entry {
	valid := make([]line, 0, len(t.lines))
	for _, l := range t.lines {
		if l.valid {
			valid = append(valid, l)
		}
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].seq < valid[j].seq
	})

	entries := make([]Entry, len(valid))
	for i, l := range valid {
		entries[i] = l.Entry
	}

	return entries
}

// Reset invalidates all the lines.
func (t *TLB) Reset() {
	for i := range t.lines {
		t.lines[i] = line{}
	}
}

func (t *TLB) install(i int, page, frame uint64) {
	t.lines[i] = line{
		Entry: Entry{Page: page, Frame: frame},
		valid: true,
		seq:   t.nextSeq,
	}
	t.nextSeq++
}

func (t *TLB) findFreeLine() int {
	for i, l := range t.lines {
		if !l.valid {
			return i
		}
	}

	return -1
}

func (t *TLB) findOldestLine() int {
	oldest := 0
	for i, l := range t.lines {
		if l.seq < t.lines[oldest].seq {
			oldest = i
		}
	}

	return oldest
}

func (t *TLB) entryMustNotExist(page uint64) {
	if _, found := t.Lookup(page); found {
		panic("page is already cached in the TLB")
	}
}
