// Package tracing collects what translators do through hooks, without the
// translators knowing who is watching.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/vmsim/mem/vm/addresstranslator"
	"github.com/sarchlab/vmsim/sim"
)

// A Tracer observes translations and frame reclaims.
type Tracer interface {
	Translated(t addresstranslator.Translation)
	Reclaimed(r addresstranslator.Reclaim)
}

// CollectTrace lets the tracer collect traces from a domain.
func CollectTrace(domain sim.NamedHookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{t: tracer})
}

// A traceHook forwards hook invocations to a tracer.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case addresstranslator.HookPosTranslation:
		h.t.Translated(ctx.Item.(addresstranslator.Translation))
	case addresstranslator.HookPosFrameReclaim:
		h.t.Reclaimed(ctx.Item.(addresstranslator.Reclaim))
	}
}
