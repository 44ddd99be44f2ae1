// Package security holds the per-security aggregate the matching core
// operates on: a buy book, a sell book, and the last traded price, all
// serialized by one lock.
package security

import (
	"sync"

	"github.com/fintex/matching-engine/internal/book"
	"github.com/fintex/matching-engine/pkg/types"
)

// Context owns a security's two Books and its market price. The lock
// serializes all mutation of those three fields; it does not cover the
// outbound response channel, which is independently safe for concurrent
// senders.
type Context struct {
	ID          types.SecurityID
	Buy         *book.Book
	Sell        *book.Book
	MarketPrice int64

	mu sync.Mutex
}

// New builds a Context from primary segments already carved out of the
// arena. alloc supplies overflow segments for both books on demand.
func New(id types.SecurityID, buyPrimary, sellPrimary *book.Segment, alloc book.AllocFunc, initialPrice int64) *Context {
	return &Context{
		ID:          id,
		Buy:         book.New(buyPrimary, book.BuyBetter, alloc),
		Sell:        book.New(sellPrimary, book.SellBetter, alloc),
		MarketPrice: initialPrice,
	}
}

// Lock acquires the security's lock. Callers must hold it for the duration
// of any Book mutation or MarketPrice update.
func (c *Context) Lock() { c.mu.Lock() }

// Unlock releases the security's lock.
func (c *Context) Unlock() { c.mu.Unlock() }
