package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/browser"

	"github.com/sarchlab/vmsim/config"
	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/addresstranslator"
	"github.com/sarchlab/vmsim/mem/vm/backingstore"
	"github.com/sarchlab/vmsim/monitoring"
	"github.com/sarchlab/vmsim/report"
	"github.com/sarchlab/vmsim/sim"
	"github.com/sarchlab/vmsim/tracing"
	"github.com/sarchlab/vmsim/workload"
)

// A runner performs one translation run described by a configuration.
type runner struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer

	translator *addresstranslator.Comp
	stats      *tracing.StatsTracer
	monitor    *monitoring.Monitor
	progress   *monitoring.ProgressBar
	closers    []func() error
}

func newRunner(cfg config.Config, stdout, stderr io.Writer) *runner {
	return &runner{
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
	}
}

// run translates the whole address file and returns the final statistics.
// It stops early, without a summary, when ctx is cancelled.
func (r *runner) run(ctx context.Context) (addresstranslator.Stats, error) {
	defer r.close()

	store, err := backingstore.Open(
		r.cfg.BackingStorePath, vm.NumPages, vm.PageSize)
	if err != nil {
		return addresstranslator.Stats{}, err
	}
	r.closers = append(r.closers, store.Close)

	addresses, err := os.Open(r.cfg.AddressPath)
	if err != nil {
		return addresstranslator.Stats{}, err
	}
	r.closers = append(r.closers, addresses.Close)

	r.buildTranslator(store)

	err = r.attachTracers()
	if err != nil {
		return addresstranslator.Stats{}, err
	}

	err = r.startMonitor()
	if err != nil {
		return addresstranslator.Stats{}, err
	}

	err = r.translateAll(ctx, workload.NewReader(addresses))
	if err != nil {
		return r.translator.Stats(), err
	}

	stats := r.translator.Stats()

	err = report.NewReporter(r.stdout).Summary(stats)

	return stats, err
}

func (r *runner) buildTranslator(store backingstore.BackingStore) {
	r.translator = addresstranslator.MakeBuilder().
		WithBackingStore(store).
		WithPolicyKind(r.cfg.Policy).
		WithNumFrames(r.cfg.NumFrames).
		WithNumTLBEntries(r.cfg.NumTLBEntries).
		WithTLBRetarget(r.cfg.TLBRetarget).
		WithConsistencyCheck(r.cfg.ConsistencyCheck).
		Build("Translator")
}

func (r *runner) attachTracers() error {
	r.stats = tracing.NewStatsTracer()
	tracing.CollectTrace(r.translator, r.stats)

	if r.cfg.Verbose {
		logger := log.New(r.stderr, "", 0)
		tracing.CollectTrace(r.translator, tracing.NewLogTracer(logger))
	}

	if r.cfg.Record {
		recorder, err := datarecording.New(r.cfg.RecordPath)
		if err != nil {
			return err
		}
		r.closers = append(r.closers, recorder.Close)

		tracer := tracing.NewDBTracer(recorder, sim.NewRunID())
		tracing.CollectTrace(r.translator, tracer)
	}

	return nil
}

func (r *runner) startMonitor() error {
	if !r.cfg.Monitor && !r.cfg.OpenBrowser {
		return nil
	}

	r.monitor = monitoring.NewMonitor().WithPortNumber(r.cfg.MonitorPort)
	r.monitor.RegisterTranslator(r.translator)
	r.monitor.RegisterStats(r.stats)

	url, err := r.monitor.StartServer()
	if err != nil {
		return err
	}
	r.closers = append(r.closers, r.monitor.StopServer)

	r.progress = r.monitor.CreateProgressBar(r.cfg.AddressPath, 0)

	if r.cfg.OpenBrowser {
		err = browser.OpenURL(url + "/api/stats")
		if err != nil {
			fmt.Fprintf(r.stderr, "cannot open browser: %v\n", err)
		}
	}

	return nil
}

func (r *runner) translateAll(
	ctx context.Context,
	addresses *workload.Reader,
) error {
	reporter := report.NewReporter(r.stdout)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		addr, err := addresses.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if errors.Is(err, vm.ErrInvalidAddress) && r.cfg.SkipInvalid {
			fmt.Fprintf(r.stderr, "skipping %v\n", err)
			r.countFailed()

			continue
		}

		if err != nil {
			return err
		}

		var t addresstranslator.Translation
		r.guard(func() {
			t, err = r.translator.Translate(addr)
		})

		if err != nil {
			return fmt.Errorf("line %d: %w", addresses.Line(), err)
		}

		err = reporter.Translated(t)
		if err != nil {
			return err
		}

		r.countFinished()
	}
}

func (r *runner) guard(fn func()) {
	if r.monitor == nil {
		fn()
		return
	}

	r.monitor.Guard(fn)
}

func (r *runner) countFinished() {
	if r.progress != nil {
		r.progress.IncrementFinished(1)
	}
}

func (r *runner) countFailed() {
	if r.progress != nil {
		r.progress.IncrementFailed(1)
	}
}

func (r *runner) close() {
	if r.monitor != nil && r.progress != nil {
		r.monitor.CompleteProgressBar(r.progress)
	}

	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			fmt.Fprintf(r.stderr, "closing: %v\n", err)
		}
	}

	r.closers = nil
}
