package tracing

import (
	"log"

	"github.com/sarchlab/vmsim/mem/vm/addresstranslator"
	"github.com/sarchlab/vmsim/sim"
)

// LogTracer writes one line per translation and per reclaimed frame.
type LogTracer struct {
	sim.LogHookBase
}

// NewLogTracer creates a LogTracer that writes to logger.
func NewLogTracer(logger *log.Logger) *LogTracer {
	return &LogTracer{LogHookBase: sim.NewLogHookBase(logger)}
}

// Translated logs the translation.
func (t *LogTracer) Translated(tr addresstranslator.Translation) {
	t.Printf("translate %d -> %d page %d frame %d offset %d value %d %s",
		tr.LogicalAddress, tr.PhysicalAddress,
		tr.Page, tr.Frame, tr.Offset, int8(tr.Value), tr.Outcome)
}

// Reclaimed logs the eviction.
func (t *LogTracer) Reclaimed(r addresstranslator.Reclaim) {
	t.Printf("reclaim frame %d from page %d for page %d",
		r.Frame, r.OldPage, r.NewPage)
}
