package vm

import "fmt"

// A PageEntry is one row of the page table, describing where a logical page
// currently lives.
type PageEntry struct {
	Page  uint64
	Frame uint64
	Valid bool
}

// A PageTable maps logical pages to physical frames. A frame is mapped by at
// most one logical page at a time.
type PageTable interface {
	// Lookup returns the frame that holds the page, if the page is resident.
	Lookup(page uint64) (frame uint64, found bool)

	// Map makes the page resident in the frame, replacing any previous
	// mapping of the page.
	Map(page, frame uint64)

	// UnmapFrame clears the entry that points at the frame and returns the
	// page that used to own it.
	UnmapFrame(frame uint64) (page uint64, found bool)

	// Owner returns the page that currently maps the frame.
	Owner(frame uint64) (page uint64, found bool)

	// NumMapped returns the number of resident pages.
	NumMapped() int

	// Entries returns the valid entries ordered by page number.
	Entries() []PageEntry
}

// NewPageTable creates a flat page table with one entry per logical page.
func NewPageTable(numPages int) PageTable {
	return &pageTableImpl{
		entries: make([]PageEntry, numPages),
	}
}

type pageTableImpl struct {
	entries []PageEntry
}

func (pt *pageTableImpl) Lookup(page uint64) (uint64, bool) {
	pt.pageMustBeInRange(page)

	e := pt.entries[page]
	if !e.Valid {
		return 0, false
	}

	return e.Frame, true
}

func (pt *pageTableImpl) Map(page, frame uint64) {
	pt.pageMustBeInRange(page)
	pt.frameMustBeFree(page, frame)

	pt.entries[page] = PageEntry{
		Page:  page,
		Frame: frame,
		Valid: true,
	}
}

func (pt *pageTableImpl) UnmapFrame(frame uint64) (uint64, bool) {
	for i := range pt.entries {
		e := &pt.entries[i]
		if e.Valid && e.Frame == frame {
			e.Valid = false
			return uint64(i), true
		}
	}

	return 0, false
}

func (pt *pageTableImpl) Owner(frame uint64) (uint64, bool) {
	for i, e := range pt.entries {
		if e.Valid && e.Frame == frame {
			return uint64(i), true
		}
	}

	return 0, false
}

func (pt *pageTableImpl) NumMapped() int {
	n := 0
	for _, e := range pt.entries {
		if e.Valid {
			n++
		}
	}

	return n
}

func (pt *pageTableImpl) Entries() []PageEntry {
	entries := make([]PageEntry, 0)
	for _, e := range pt.entries {
		if e.Valid {
			entries = append(entries, e)
		}
	}

	return entries
}

func (pt *pageTableImpl) pageMustBeInRange(page uint64) {
	if page >= uint64(len(pt.entries)) {
		panic(fmt.Sprintf("page %d out of range [0, %d)", page, len(pt.entries)))
	}
}

func (pt *pageTableImpl) frameMustBeFree(page, frame uint64) {
	owner, found := pt.Owner(frame)
	if found && owner != page {
		panic(fmt.Sprintf(
			"frame %d is still owned by page %d, cannot map page %d",
			frame, owner, page))
	}
}
