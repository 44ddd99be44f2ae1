// Package book implements the segmented binary heap that backs one side
// (buy or sell) of one security's order book.
//
// The primary segment is a dense array heap obeying price-time priority
// under a side-specific Comparator. When the primary fills, the book
// spills into a forward-linked chain of overflow segments that act as an
// unordered reservoir for the tail of the heap; popping or removing from
// the primary refills it with the best order in that reservoir so the
// primary stays full whenever overflow has content.
package book

import "github.com/fintex/matching-engine/pkg/types"

// Comparator reports whether a is strictly better than b under one side's
// price-time priority rule.
type Comparator func(a, b types.Order) bool

// BuyBetter implements the buy-side ordering: higher price wins; on a price
// tie, the earlier timestamp wins.
func BuyBetter(a, b types.Order) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.Timestamp < b.Timestamp
}

// SellBetter implements the sell-side ordering: lower price wins; on a
// price tie, the earlier timestamp wins.
func SellBetter(a, b types.Order) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.Timestamp < b.Timestamp
}

// Book is a segmented binary heap for one side of one security.
type Book struct {
	capacity int
	better   Comparator
	alloc    AllocFunc

	primary *Segment

	overflowHead *Segment // oldest overflow segment, nil if none
	overflowTail *Segment // newest overflow segment, for O(1) append
}

// New builds a Book over a caller-supplied primary segment (normally carved
// from the arena at engine startup). alloc is called to obtain additional
// segments once primary fills.
func New(primary *Segment, better Comparator, alloc AllocFunc) *Book {
	return &Book{
		capacity: len(primary.Orders),
		better:   better,
		alloc:    alloc,
		primary:  primary,
	}
}

// Len reports the total number of live orders across the primary segment
// and the overflow chain.
func (b *Book) Len() int {
	n := b.primary.Used
	for s := b.overflowHead; s != nil; s = s.Next {
		n += s.Used - s.Head
	}
	return n
}

// Empty reports whether the book holds no orders.
func (b *Book) Empty() bool {
	return b.primary.Used == 0
}

// Insert places o preserving the heap property. If the primary segment is
// full, the book compares o against the primary's last slot: whichever of
// the two is worse goes to the overflow chain, keeping the better orders
// resident in the primary.
func (b *Book) Insert(o types.Order) {
	if !b.primary.Full() {
		idx := b.primary.Used
		b.primary.Orders[idx] = o
		b.primary.Used++
		b.siftUp(idx)
		return
	}

	lastIdx := b.capacity - 1
	last := b.primary.Orders[lastIdx]
	if b.better(last, o) {
		b.pushOverflow(o)
		return
	}
	b.pushOverflow(last)
	b.primary.Orders[lastIdx] = o
	b.siftUp(lastIdx)
}

// Peek returns a pointer to the root of the primary heap, the best order
// resident in the book. The returned pointer aliases the book's backing
// storage; callers may mutate Quantity through it but must not retain it
// past the next book mutation. Undefined if the book is empty.
func (b *Book) Peek() *types.Order {
	return &b.primary.Orders[0]
}

// PopBest removes the root of the primary heap, moving the last primary
// element into its place and sifting down. If the overflow chain is
// non-empty, its best element is then inserted into the now-vacant primary
// slot so the primary stays full whenever overflow has content.
func (b *Book) PopBest() {
	last := b.primary.Used - 1
	b.primary.Orders[0] = b.primary.Orders[last]
	b.primary.Used--
	if b.primary.Used > 0 {
		b.siftDown(0)
	}
	b.refillFromOverflow()
}

// RemoveByID scans all segments for an order with the given id and removes
// it. Returns whether an order was found. No message is emitted here;
// emitting a cancel acknowledgement is the caller's responsibility.
func (b *Book) RemoveByID(id types.OrderID) bool {
	for i := 0; i < b.primary.Used; i++ {
		if b.primary.Orders[i].ID == id {
			b.removePrimaryAt(i)
			return true
		}
	}
	for s := b.overflowHead; s != nil; s = s.Next {
		for i := s.Head; i < s.Used; i++ {
			if s.Orders[i].ID == id {
				removeOverflowAt(s, i)
				return true
			}
		}
	}
	return false
}

// removePrimaryAt deletes the order at primary index i by swapping in the
// last element and repairing the heap in whichever direction the swapped
// value requires, then refills the primary from overflow as PopBest does.
func (b *Book) removePrimaryAt(i int) {
	last := b.primary.Used - 1
	b.primary.Orders[i] = b.primary.Orders[last]
	b.primary.Used--
	if i < b.primary.Used {
		b.repair(i)
	}
	b.refillFromOverflow()
}

// removeOverflowAt deletes the order at index i of overflow segment s.
// Overflow segments carry no heap property, so removal is a plain shift of
// the elements after i back by one.
func removeOverflowAt(s *Segment, i int) {
	copy(s.Orders[i:s.Used-1], s.Orders[i+1:s.Used])
	s.Used--
}

// refillFromOverflow moves the best element of the overflow reservoir into
// the primary via Insert, if the chain is non-empty. Exhausted head
// segments are unlinked.
func (b *Book) refillFromOverflow() {
	var bestSeg *Segment
	bestIdx := 0
	for s := b.overflowHead; s != nil; s = s.Next {
		for i := s.Head; i < s.Used; i++ {
			if bestSeg == nil || b.better(s.Orders[i], bestSeg.Orders[bestIdx]) {
				bestSeg, bestIdx = s, i
			}
		}
	}
	var o types.Order
	if bestSeg != nil {
		o = bestSeg.Orders[bestIdx]
		removeOverflowAt(bestSeg, bestIdx)
	}
	for b.overflowHead != nil && b.overflowHead.Empty() {
		b.overflowHead = b.overflowHead.Next
		if b.overflowHead == nil {
			b.overflowTail = nil
		}
	}
	if bestSeg != nil {
		b.Insert(o)
	}
}

// pushOverflow appends o to the tail of the overflow chain, allocating a
// new segment when the current tail is full.
func (b *Book) pushOverflow(o types.Order) {
	if b.overflowTail == nil || b.overflowTail.Full() {
		seg := b.alloc()
		if b.overflowTail != nil {
			b.overflowTail.Next = seg
		} else {
			b.overflowHead = seg
		}
		b.overflowTail = seg
	}
	t := b.overflowTail
	t.Orders[t.Used] = o
	t.Used++
}

// repair restores the heap property at index i after an arbitrary value
// was placed there, without knowing whether it needs to move up or down.
func (b *Book) repair(i int) {
	moved := b.siftUp(i)
	b.siftDown(moved)
}

func parent(i int) int {
	if i == 0 {
		return 0
	}
	return (i - 1) / 2
}

// siftUp moves the order at index i up while it is better than its parent,
// returning the index it settles at.
func (b *Book) siftUp(i int) int {
	orders := b.primary.Orders
	for i > 0 {
		p := parent(i)
		if !b.better(orders[i], orders[p]) {
			break
		}
		orders[i], orders[p] = orders[p], orders[i]
		i = p
	}
	return i
}

// siftDown moves the order at index i down while a child is better than it.
func (b *Book) siftDown(i int) {
	orders := b.primary.Orders
	n := b.primary.Used
	for {
		left := 2*i + 1
		right := 2*i + 2
		best := i
		if left < n && b.better(orders[left], orders[best]) {
			best = left
		}
		if right < n && b.better(orders[right], orders[best]) {
			best = right
		}
		if best == i {
			return
		}
		orders[i], orders[best] = orders[best], orders[i]
		i = best
	}
}
