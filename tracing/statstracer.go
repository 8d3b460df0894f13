package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/vmsim/mem/vm/addresstranslator"
)

// PageCount pairs a page with a counter.
type PageCount struct {
	Page  uint64 `json:"page"`
	Count uint64 `json:"count"`
}

// StatsTracer counts outcomes. Unlike the translator itself, it can be read
// from other goroutines while the translation runs.
type StatsTracer struct {
	lock          sync.Mutex
	stats         addresstranslator.Stats
	faultsPerPage map[uint64]uint64
}

// NewStatsTracer creates a new StatsTracer
func NewStatsTracer() *StatsTracer {
	return &StatsTracer{
		faultsPerPage: make(map[uint64]uint64),
	}
}

// Translated counts the outcome of a translation.
func (t *StatsTracer) Translated(tr addresstranslator.Translation) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.stats.Total++

	switch tr.Outcome {
	case addresstranslator.TLBHit:
		t.stats.TLBHits++
	case addresstranslator.TLBMissPageHit:
		t.stats.PageTableHits++
	case addresstranslator.PageFault:
		t.stats.Faults++
		t.faultsPerPage[tr.Page]++
	}
}

// Reclaimed counts an eviction.
func (t *StatsTracer) Reclaimed(_ addresstranslator.Reclaim) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.stats.Evictions++
}

// Stats returns a copy of the counters.
func (t *StatsTracer) Stats() addresstranslator.Stats {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.stats
}

// TopFaultingPages returns up to n pages that faulted the most, most faults
// first, ties broken by page number.
func (t *StatsTracer) TopFaultingPages(n int) []PageCount {
	t.lock.Lock()
	counts := make([]PageCount, 0, len(t.faultsPerPage))
	for page, count := range t.faultsPerPage {
		counts = append(counts, PageCount{Page: page, Count: count})
	}
	t.lock.Unlock()

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}

		return counts[i].Page < counts[j].Page
	})

	if n < len(counts) {
		counts = counts[:n]
	}

	return counts
}
