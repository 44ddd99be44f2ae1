// Package arena sizes and carves the per-security storage the matching
// engine runs on. A single call to Init computes, from a memory budget and
// a security count, how large each book segment can be and constructs
// every SecurityContext up front — no further primary-segment allocation
// happens once the engine is running. Overflow segments past that point
// come from a caller-supplied allocator.
package arena

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/fintex/matching-engine/internal/book"
	"github.com/fintex/matching-engine/internal/security"
	"github.com/fintex/matching-engine/pkg/types"
)

// ErrDomain is returned by Init when the memory budget cannot fit even the
// minimum layout for the requested number of securities, or when
// nSecurities is zero. Callers can test for it with errors.Is.
var ErrDomain = errors.New("arena: memory budget too small for security count")

// sizeofHeader approximates the fixed engine-wide bookkeeping every
// layout pays once, mirroring the original C EngineHeader.
const sizeofHeader = 64

// securityContextShape exists only so unsafe.Sizeof can estimate the
// per-security overhead without sizing the real security.Context type
// (which carries a mutex we don't want to entangle in a pure sizing
// computation).
type securityContextShape struct {
	buy, sell   uintptr
	marketPrice int64
}

// segmentHeaderShape mirrors book.Segment's fixed fields, excluding the
// Orders slice itself, whose backing array is sized separately.
type segmentHeaderShape struct {
	used, head int
	next       uintptr
}

var (
	sizeofSecurityContext = unsafe.Sizeof(securityContextShape{})
	sizeofSegmentHeader   = unsafe.Sizeof(segmentHeaderShape{})
	sizeofOrder           = unsafe.Sizeof(types.Order{})
)

// Minimum returns the smallest memory budget capable of holding nSecurities
// security contexts with a one-order book segment each, per
// ME_MINIMUM_MEMORY in the original layout.
func Minimum(nSecurities int) int64 {
	return int64(sizeofHeader) + int64(nSecurities)*(int64(sizeofSecurityContext)+int64(sizeofOrder))
}

// Capacity computes the per-segment order capacity C a budget affords for
// nSecurities securities, each owning two book segments (buy and sell).
// Integer division; excess bytes are unused, matching the source layout.
func Capacity(memoryBudget int64, nSecurities int) int64 {
	headers := int64(sizeofHeader) + int64(nSecurities)*int64(sizeofSecurityContext)
	perBook := (memoryBudget - headers) / int64(2*nSecurities)
	return (perBook - int64(sizeofSegmentHeader)) / int64(sizeofOrder)
}

// EngineContext is the root object returned by Init: every security's
// Context, ready for the dispatcher to route messages into.
type EngineContext struct {
	NSecurities int
	Capacity    int64
	Contexts    []*security.Context

	mu        sync.Mutex
	allocFn   book.AllocFunc
	allocated int64
}

// InitialMarketPrice seeds a security's starting market price. Passing one
// to Init lets every security, id 0 included, start at an explicit price;
// the default keeps the original source's seeding of each id to the id
// itself, so id 0 starts at zero.
type InitialMarketPrice func(id types.SecurityID) int64

// DefaultInitialMarketPrice is InitialMarketPrice's default: every security,
// including id 0, seeds to its own id.
func DefaultInitialMarketPrice(id types.SecurityID) int64 {
	return int64(id)
}

// Init carves nSecurities security contexts out of memoryBudget. allocFn
// supplies overflow segments for every book on demand; it is shared across
// all securities and must be safe for concurrent use, since overflow can be
// triggered by workers serving different securities simultaneously.
func Init(memoryBudget int64, nSecurities int, allocFn book.AllocFunc, seed InitialMarketPrice) (*EngineContext, error) {
	if nSecurities == 0 || memoryBudget < Minimum(nSecurities) {
		return nil, fmt.Errorf("arena init n_securities=%d budget=%d: %w", nSecurities, memoryBudget, ErrDomain)
	}
	if seed == nil {
		seed = DefaultInitialMarketPrice
	}

	capacity := Capacity(memoryBudget, nSecurities)
	if capacity <= 0 {
		return nil, fmt.Errorf("arena init n_securities=%d budget=%d: segment capacity %d: %w", nSecurities, memoryBudget, capacity, ErrDomain)
	}

	ec := &EngineContext{
		NSecurities: nSecurities,
		Capacity:    capacity,
		Contexts:    make([]*security.Context, nSecurities),
	}
	ec.allocFn = ec.trackedAlloc(allocFn)

	for i := 0; i < nSecurities; i++ {
		id := types.SecurityID(i)
		buyPrimary := book.NewSegment(int(capacity))
		sellPrimary := book.NewSegment(int(capacity))
		ec.Contexts[i] = security.New(id, buyPrimary, sellPrimary, ec.allocFn, seed(id))
	}

	return ec, nil
}

// trackedAlloc wraps the caller's allocator so the arena can report total
// overflow bytes handed out, without changing the allocator's contract.
func (ec *EngineContext) trackedAlloc(allocFn book.AllocFunc) book.AllocFunc {
	return func() *book.Segment {
		seg := allocFn()
		ec.mu.Lock()
		ec.allocated += int64(len(seg.Orders)) * int64(sizeofOrder)
		ec.mu.Unlock()
		return seg
	}
}

// OverflowBytesAllocated reports how many bytes of overflow segments have
// been handed out since Init, for diagnostics and tests.
func (ec *EngineContext) OverflowBytesAllocated() int64 {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.allocated
}
