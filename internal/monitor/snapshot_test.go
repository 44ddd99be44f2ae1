package monitor

import (
	"testing"

	"github.com/fintex/matching-engine/internal/arena"
	"github.com/fintex/matching-engine/internal/book"
	"github.com/fintex/matching-engine/pkg/types"
)

func TestBuildSnapshotReflectsBestLevels(t *testing.T) {
	t.Parallel()

	alloc := func() *book.Segment { return book.NewSegment(8) }
	ec, err := arena.Init(64<<20, 2, alloc, nil)
	if err != nil {
		t.Fatalf("arena.Init() error = %v", err)
	}

	sec := ec.Contexts[0]
	sec.Lock()
	sec.Buy.Insert(types.Order{ID: 1, Side: types.Buy, Price: 100, Quantity: 5, Timestamp: 1})
	sec.Sell.Insert(types.Order{ID: 2, Side: types.Sell, Price: 105, Quantity: 3, Timestamp: 2})
	sec.Unlock()

	snap := BuildSnapshot(ec, 4)
	if len(snap.Securities) != 2 {
		t.Fatalf("len(Securities) = %d, want 2", len(snap.Securities))
	}

	s0 := snap.Securities[0]
	if s0.BestBid == nil || s0.BestBid.Price != "1.00" {
		t.Errorf("BestBid = %+v, want price 1.00", s0.BestBid)
	}
	if s0.BestAsk == nil || s0.BestAsk.Price != "1.05" {
		t.Errorf("BestAsk = %+v, want price 1.05", s0.BestAsk)
	}
	if s0.BuyDepth != 1 || s0.SellDepth != 1 {
		t.Errorf("BuyDepth/SellDepth = %d/%d, want 1/1", s0.BuyDepth, s0.SellDepth)
	}

	s1 := snap.Securities[1]
	if s1.BestBid != nil || s1.BestAsk != nil {
		t.Errorf("security 1 should have empty books, got %+v", s1)
	}
}

func TestNewWireMessageTrade(t *testing.T) {
	t.Parallel()

	msg := types.Message{
		Type:     types.MsgTrade,
		Security: 3,
		TradeInfo: types.Trade{
			Aggressor: types.Order{ID: 7, Side: types.Buy, Price: 250, Quantity: 2},
			MatchedID: 9,
		},
	}
	wm := newWireMessage(msg)
	if wm.Type != "TRADE" {
		t.Errorf("Type = %q, want TRADE", wm.Type)
	}
	if wm.OrderID != 7 || wm.MatchedID != 9 {
		t.Errorf("OrderID/MatchedID = %d/%d, want 7/9", wm.OrderID, wm.MatchedID)
	}
	if wm.Price != "2.50" {
		t.Errorf("Price = %q, want 2.50", wm.Price)
	}
}
