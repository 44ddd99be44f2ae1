package monitor

import (
	"time"

	"github.com/fintex/matching-engine/internal/codec"
	"github.com/fintex/matching-engine/pkg/types"
)

// Event is the envelope broadcast to every connected dashboard client. Type
// is "snapshot" for a full EngineSnapshot, or "message" for a single
// engine response wire message.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// WireMessage is the JSON rendering of a types.Message for dashboard
// consumption; raw tick prices are rendered through codec so operators
// don't have to know the implied decimal scale.
type WireMessage struct {
	Type      string `json:"type"`
	Security  int64  `json:"security"`
	OrderID   uint64 `json:"order_id,omitempty"`
	Side      string `json:"side,omitempty"`
	Price     string `json:"price,omitempty"`
	Quantity  string `json:"quantity,omitempty"`
	MatchedID uint64 `json:"matched_id,omitempty"`
}

func newWireMessage(msg types.Message) WireMessage {
	wm := WireMessage{
		Type:     msg.Type.String(),
		Security: int64(msg.Security),
	}
	switch msg.Type {
	case types.MsgNewOrder, types.MsgOrderExecuted:
		wm.OrderID = uint64(msg.Order.ID)
		wm.Side = msg.Order.Side.String()
		wm.Price = codec.RenderPrice(msg.Order.Price)
		wm.Quantity = codec.RenderQuantity(msg.Order.Quantity)
	case types.MsgCancelOrder:
		wm.OrderID = uint64(msg.ToCancel)
	case types.MsgSetMarketPrice:
		wm.Price = codec.RenderPrice(msg.SetPrice)
	case types.MsgTrade:
		wm.OrderID = uint64(msg.TradeInfo.Aggressor.ID)
		wm.MatchedID = uint64(msg.TradeInfo.MatchedID)
		wm.Side = msg.TradeInfo.Aggressor.Side.String()
		wm.Price = codec.RenderPrice(msg.TradeInfo.Aggressor.Price)
		wm.Quantity = codec.RenderQuantity(msg.TradeInfo.Aggressor.Quantity)
	}
	return wm
}
