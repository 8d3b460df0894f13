package tracing

import (
	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/vm/addresstranslator"
	"github.com/sarchlab/vmsim/sim"
)

const (
	translationTableName = "translation"
	reclaimTableName     = "reclaim"
)

type translationEntry struct {
	ID              string
	RunID           string
	Seq             uint64
	LogicalAddress  uint64
	PhysicalAddress uint64
	Page            uint64
	Offset          uint64
	Frame           uint64
	Value           int8
	Outcome         string
}

type reclaimEntry struct {
	ID      string
	RunID   string
	Seq     uint64
	Frame   uint64
	OldPage uint64
	NewPage uint64
}

// DBTracer stores every translation and every reclaim in a database. Seq is
// the position of the translation in the address stream; a reclaim carries
// the Seq of the translation that caused it.
type DBTracer struct {
	backend datarecording.DataRecorder
	runID   string
	seq     uint64
}

// NewDBTracer creates the tables in the backend and returns a tracer that
// fills them.
func NewDBTracer(
	backend datarecording.DataRecorder,
	runID string,
) *DBTracer {
	backend.CreateTable(translationTableName, translationEntry{})
	backend.CreateTable(reclaimTableName, reclaimEntry{})

	return &DBTracer{
		backend: backend,
		runID:   runID,
	}
}

// Translated records the translation.
func (t *DBTracer) Translated(tr addresstranslator.Translation) {
	t.backend.InsertData(translationTableName, translationEntry{
		ID:              sim.GetIDGenerator().Generate(),
		RunID:           t.runID,
		Seq:             t.seq,
		LogicalAddress:  tr.LogicalAddress,
		PhysicalAddress: tr.PhysicalAddress,
		Page:            tr.Page,
		Offset:          tr.Offset,
		Frame:           tr.Frame,
		Value:           int8(tr.Value),
		Outcome:         tr.Outcome.String(),
	})

	t.seq++
}

// Reclaimed records the reclaim.
func (t *DBTracer) Reclaimed(r addresstranslator.Reclaim) {
	t.backend.InsertData(reclaimTableName, reclaimEntry{
		ID:      sim.GetIDGenerator().Generate(),
		RunID:   t.runID,
		Seq:     t.seq,
		Frame:   r.Frame,
		OldPage: r.OldPage,
		NewPage: r.NewPage,
	})
}
