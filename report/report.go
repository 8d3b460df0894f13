// Package report prints the result of a run in the format of the classic
// virtual memory manager exercise.
package report

import (
	"fmt"
	"io"

	"github.com/sarchlab/vmsim/mem/vm/addresstranslator"
)

// A Reporter writes per-address lines and the final summary.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Translated writes one line for a translated address. The byte is printed
// as a signed value.
func (r *Reporter) Translated(t addresstranslator.Translation) error {
	_, err := fmt.Fprintf(r.w,
		"Virtual address: %d Physical address: %d Value: %d\n",
		t.LogicalAddress, t.PhysicalAddress, int8(t.Value))

	return err
}

// Summary writes the end-of-run statistics. Rates are printed with three
// decimals.
func (r *Reporter) Summary(s addresstranslator.Stats) error {
	_, err := fmt.Fprintf(r.w,
		"Number of Translated Addresses = %d\n"+
			"Page Faults = %d\n"+
			"Page Fault Rate = %.3f\n"+
			"TLB Hits = %d\n"+
			"TLB Hit Rate = %.3f\n",
		s.Total, s.Faults, s.FaultRate(), s.TLBHits, s.TLBHitRate())

	return err
}
