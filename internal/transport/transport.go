// Package transport provides the engine's channel plumbing: sizing the
// request/response channels and splitting the response stream so the
// monitoring dashboard can observe it without ever slowing down real
// clients.
package transport

import (
	"runtime"

	"github.com/fintex/matching-engine/pkg/types"
)

// DefaultCapacity picks a channel buffer size from the running environment,
// in the spirit of probing the environment before committing to a fixed
// capacity rather than hardcoding one.
func DefaultCapacity() int {
	return runtime.GOMAXPROCS(0) * 256
}

// NewRequestResponse allocates the engine's two named channels at the
// given capacity.
func NewRequestResponse(capacity int) (in chan types.Message, out chan types.Message) {
	return make(chan types.Message, capacity), make(chan types.Message, capacity)
}

// Tee splits in into two streams: primary preserves every message in order
// and applies backpressure like in does, for the real client-facing
// consumer. tap is best-effort — if its buffer is full, the incoming
// message is simply not delivered to it, so a slow dashboard consumer can
// never hold up the engine. Both channels close when in closes.
func Tee(in <-chan types.Message, bufferSize int) (primary <-chan types.Message, tap <-chan types.Message) {
	p := make(chan types.Message, bufferSize)
	t := make(chan types.Message, bufferSize)

	go func() {
		defer close(p)
		defer close(t)
		for msg := range in {
			p <- msg
			select {
			case t <- msg:
			default:
			}
		}
	}()

	return p, t
}
