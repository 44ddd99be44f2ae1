// Package matching implements the engine's matching core: the logic that
// turns one inbound Message into zero or more outbound Messages against a
// single security's books.
//
// Process is deliberately side-agnostic. Rather than duplicating the sweep
// logic for buy and sell aggressors, every sweep walks "the aggressor's own
// book" and "the book opposite it", derived from the aggressor's Side, so
// one code path serves all four combinations of {market, limit} x
// {buy, sell}.
package matching

import (
	"context"
	"log/slog"

	"github.com/fintex/matching-engine/internal/book"
	"github.com/fintex/matching-engine/internal/security"
	"github.com/fintex/matching-engine/pkg/types"
)

// Core runs the matching algorithm against a pool of security contexts.
type Core struct {
	logger *slog.Logger
}

// New builds a Core. logger is narrowed to component "matching".
func New(logger *slog.Logger) *Core {
	return &Core{logger: logger.With("component", "matching")}
}

// Process dispatches msg against sec under sec's lock, per msg.Type. out
// receives every message the sweep produces, in the order the protocol
// requires. Process blocks sending to out under backpressure; it only
// returns early if ctx is cancelled mid-sweep.
func (c *Core) Process(ctx context.Context, sec *security.Context, msg types.Message, out chan<- types.Message) error {
	sec.Lock()
	defer sec.Unlock()

	switch msg.Type {
	case types.MsgSetMarketPrice:
		return c.processSetMarketPrice(ctx, sec, msg, out)
	case types.MsgNewOrder:
		return c.processNewOrder(ctx, sec, msg, out)
	case types.MsgCancelOrder:
		return c.processCancel(ctx, sec, msg, out)
	case types.MsgPanic:
		return nil
	default:
		c.logger.Warn("ignoring unknown message type", "msg_type", uint8(msg.Type), "security_id", sec.ID)
		return nil
	}
}

func (c *Core) processSetMarketPrice(ctx context.Context, sec *security.Context, msg types.Message, out chan<- types.Message) error {
	sec.MarketPrice = msg.SetPrice
	return send(ctx, out, msg)
}

func (c *Core) processCancel(ctx context.Context, sec *security.Context, msg types.Message, out chan<- types.Message) error {
	found := sec.Buy.RemoveByID(msg.ToCancel) || sec.Sell.RemoveByID(msg.ToCancel)
	c.logger.Debug("cancel processed", "security_id", sec.ID, "order_id", msg.ToCancel, "found", found)
	return send(ctx, out, msg)
}

func (c *Core) processNewOrder(ctx context.Context, sec *security.Context, msg types.Message, out chan<- types.Message) error {
	if err := send(ctx, out, msg); err != nil {
		return err
	}

	aggressor := msg.Order
	side := aggressor.Side
	opposite := oppositeBook(sec, side)

	rem := aggressor.Quantity
	for rem > 0 && !opposite.Empty() {
		resting := opposite.Peek()
		if aggressor.Type == types.Limit && !crosses(side, aggressor.Price, resting.Price) {
			break
		}

		newRem := rem - resting.Quantity
		newRestingQty := resting.Quantity - rem

		aggressor.Quantity = newRem
		if err := send(ctx, out, types.Message{
			Type:     types.MsgTrade,
			Security: sec.ID,
			TradeInfo: types.Trade{
				Aggressor: aggressor,
				MatchedID: resting.ID,
			},
		}); err != nil {
			return err
		}

		if sec.MarketPrice != resting.Price {
			sec.MarketPrice = resting.Price
			if err := send(ctx, out, types.Message{Type: types.MsgSetMarketPrice, Security: sec.ID, SetPrice: resting.Price}); err != nil {
				return err
			}
		}

		resting.Quantity = newRestingQty
		rem = newRem

		if newRestingQty <= 0 {
			executedResting := *resting
			opposite.PopBest()
			if err := send(ctx, out, types.Message{Type: types.MsgOrderExecuted, Security: sec.ID, Order: executedResting}); err != nil {
				return err
			}
			if newRem <= 0 {
				return send(ctx, out, types.Message{Type: types.MsgOrderExecuted, Security: sec.ID, Order: aggressor})
			}
			continue
		}

		// Resting order survives: the aggressor must have been fully filled,
		// since a partial fill against a still-live resting order only
		// happens when rem <= resting.Quantity.
		return send(ctx, out, types.Message{Type: types.MsgOrderExecuted, Security: sec.ID, Order: aggressor})
	}

	if rem <= 0 {
		return nil
	}

	aggressor.Quantity = rem
	if aggressor.Type == types.Market {
		aggressor.Type = types.Limit
		aggressor.Price = sec.MarketPrice
		if err := send(ctx, out, types.Message{Type: types.MsgNewOrder, Security: sec.ID, Order: aggressor}); err != nil {
			return err
		}
	}
	ownBook(sec, side).Insert(aggressor)
	return nil
}

func ownBook(sec *security.Context, side types.Side) *book.Book {
	if side == types.Buy {
		return sec.Buy
	}
	return sec.Sell
}

func oppositeBook(sec *security.Context, side types.Side) *book.Book {
	return ownBook(sec, side.Opposite())
}

// crosses reports whether an aggressor limit order at aggressorPrice is
// willing to trade against a resting order at restingPrice, per the book
// the aggressor is sweeping.
func crosses(side types.Side, aggressorPrice, restingPrice int64) bool {
	if side == types.Buy {
		return aggressorPrice >= restingPrice
	}
	return aggressorPrice <= restingPrice
}

func send(ctx context.Context, out chan<- types.Message, msg types.Message) error {
	select {
	case out <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
