package book

import "github.com/fintex/matching-engine/pkg/types"

// Segment is a fixed-capacity array of orders plus a link to the next
// segment in a chain. The primary segment of a Book obeys the heap
// property over Used; overflow segments are plain unordered slices
// addressed by Head/Used.
//
// Segments are carved from the arena at startup (primary) or obtained from
// an AllocFunc on demand (overflow); Segment itself has no allocation
// logic of its own.
type Segment struct {
	Orders []types.Order
	Used   int  // one past the last live slot; the live count when Head is 0
	Head   int  // first live slot; only meaningful for overflow segments
	Next   *Segment
}

// NewSegment allocates a segment with room for capacity orders. Called by
// the arena for primary segments and by AllocFunc for overflow segments.
func NewSegment(capacity int) *Segment {
	return &Segment{Orders: make([]types.Order, capacity)}
}

// Full reports whether the segment has no more free slots.
func (s *Segment) Full() bool {
	return s.Used >= len(s.Orders)
}

// Empty reports whether an overflow segment has been fully drained from
// the head.
func (s *Segment) Empty() bool {
	return s.Head >= s.Used
}

// AllocFunc obtains a fresh overflow segment of the book's configured
// capacity. Supplied externally so callers (and tests) can inject a
// tracking or budget-limited allocator instead of a bare make().
type AllocFunc func() *Segment
