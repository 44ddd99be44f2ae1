package monitor

import (
	"time"

	"github.com/fintex/matching-engine/internal/arena"
	"github.com/fintex/matching-engine/internal/codec"
)

// LevelSnapshot renders one side's best resting order for display.
type LevelSnapshot struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// SecuritySnapshot is one security's point-in-time book state.
type SecuritySnapshot struct {
	ID          int64          `json:"id"`
	MarketPrice string         `json:"market_price"`
	BestBid     *LevelSnapshot `json:"best_bid,omitempty"`
	BestAsk     *LevelSnapshot `json:"best_ask,omitempty"`
	BuyDepth    int            `json:"buy_depth"`
	SellDepth   int            `json:"sell_depth"`
}

// EngineSnapshot is the full dashboard state served over HTTP and pushed to
// every newly connected WebSocket client.
type EngineSnapshot struct {
	Timestamp              time.Time          `json:"timestamp"`
	Workers                int                `json:"workers"`
	OverflowBytesAllocated int64              `json:"overflow_bytes_allocated"`
	Securities             []SecuritySnapshot `json:"securities"`
}

// BuildSnapshot reads every security under its own lock, one at a time, and
// never holds more than one lock at once. A slow dashboard reader can never
// stall the matching core, since no lock is held across the loop iteration
// boundary.
func BuildSnapshot(ec *arena.EngineContext, workers int) EngineSnapshot {
	snap := EngineSnapshot{
		Timestamp:              time.Now(),
		Workers:                workers,
		OverflowBytesAllocated: ec.OverflowBytesAllocated(),
		Securities:             make([]SecuritySnapshot, 0, len(ec.Contexts)),
	}

	for _, sec := range ec.Contexts {
		sec.Lock()
		s := SecuritySnapshot{
			ID:          int64(sec.ID),
			MarketPrice: codec.RenderPrice(sec.MarketPrice),
			BuyDepth:    sec.Buy.Len(),
			SellDepth:   sec.Sell.Len(),
		}
		if !sec.Buy.Empty() {
			best := sec.Buy.Peek()
			s.BestBid = &LevelSnapshot{Price: codec.RenderPrice(best.Price), Quantity: codec.RenderQuantity(best.Quantity)}
		}
		if !sec.Sell.Empty() {
			best := sec.Sell.Peek()
			s.BestAsk = &LevelSnapshot{Price: codec.RenderPrice(best.Price), Quantity: codec.RenderQuantity(best.Quantity)}
		}
		sec.Unlock()
		snap.Securities = append(snap.Securities, s)
	}

	return snap
}
