// Package dispatcher runs the engine's worker pool: the component that
// pulls messages off the request channel, routes each to its security's
// matching core, and coordinates cooperative shutdown on PANIC.
package dispatcher

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc"

	"github.com/fintex/matching-engine/internal/arena"
	"github.com/fintex/matching-engine/internal/matching"
	"github.com/fintex/matching-engine/pkg/types"
)

// Dispatcher owns the worker pool and the two message channels it bridges.
type Dispatcher struct {
	ec      *arena.EngineContext
	core    *matching.Core
	in      chan types.Message
	out     chan types.Message
	workers int
	logger  *slog.Logger
}

// New builds a Dispatcher. workers is clamped to at least 1.
func New(ec *arena.EngineContext, core *matching.Core, in, out chan types.Message, workers int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		ec:      ec,
		core:    core,
		in:      in,
		out:     out,
		workers: workers,
		logger:  logger.With("component", "dispatcher"),
	}
}

// Run launches the worker pool and blocks until every worker has observed
// a PANIC message and exited, then emits a final PANIC on the response
// channel before returning. Run also returns if ctx is cancelled, though
// the normal shutdown path is an in-band PANIC message, not cancellation.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("dispatcher starting", "workers", d.workers)

	var wg conc.WaitGroup
	for i := 0; i < d.workers; i++ {
		id := i
		wg.Go(func() { d.worker(ctx, id) })
	}
	wg.Wait()

	select {
	case d.out <- types.Message{Type: types.MsgPanic}:
	case <-ctx.Done():
		return ctx.Err()
	}

	d.logger.Info("dispatcher stopped")
	return nil
}

// worker is the receive loop described in the engine's concurrency design:
// receive, route to the target security under its lock, and on PANIC,
// re-broadcast to wake sibling workers before exiting.
func (d *Dispatcher) worker(ctx context.Context, id int) {
	log := d.logger.With("worker_id", id)

	for {
		var msg types.Message
		select {
		case msg = <-d.in:
		case <-ctx.Done():
			return
		}

		if d.validSecurity(msg.Security) {
			sec := d.ec.Contexts[msg.Security]
			if err := d.core.Process(ctx, sec, msg, d.out); err != nil {
				log.Error("process error, worker exiting", "error", err, "security_id", msg.Security)
				return
			}
		}

		if msg.Type == types.MsgPanic {
			log.Info("panic observed, re-broadcasting to siblings")
			d.in <- types.Message{Type: types.MsgPanic}
			return
		}
	}
}

func (d *Dispatcher) validSecurity(id types.SecurityID) bool {
	return id >= 0 && int64(id) < int64(d.ec.NSecurities)
}
