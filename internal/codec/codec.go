// Package codec encodes and decodes the fixed-size binary wire records
// exchanged over the engine's request and response channels.
//
// Every record has the same size regardless of message kind: a 4-byte type
// tag, an 8-byte security id, and a payload region sized to the largest
// variant (Trade, since it embeds a full Order). Smaller variants leave the
// unused tail of the payload zero-filled.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/fintex/matching-engine/pkg/types"
)

const (
	orderSize   = 4 + 8 + 4 + 8 + 8 + 8 // side, quantity, type, price, order_id, timestamp
	tradeSize   = orderSize + 8         // aggressor Order, matched_id
	payloadSize = tradeSize             // largest variant

	// RecordSize is the fixed size, in bytes, of every wire record.
	RecordSize = 4 + 8 + payloadSize
)

// Encode renders msg into a fixed RecordSize byte slice.
func Encode(msg types.Message) []byte {
	buf := make([]byte, RecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(msg.Type))
	binary.LittleEndian.PutUint64(buf[4:12], uint64(msg.Security))

	payload := buf[12:]
	switch msg.Type {
	case types.MsgNewOrder, types.MsgOrderExecuted:
		putOrder(payload, msg.Order)
	case types.MsgCancelOrder:
		binary.LittleEndian.PutUint64(payload[0:8], uint64(msg.ToCancel))
	case types.MsgSetMarketPrice:
		binary.LittleEndian.PutUint64(payload[0:8], uint64(msg.SetPrice))
	case types.MsgTrade:
		putOrder(payload[0:orderSize], msg.TradeInfo.Aggressor)
		binary.LittleEndian.PutUint64(payload[orderSize:orderSize+8], uint64(msg.TradeInfo.MatchedID))
	case types.MsgPanic:
		// no payload
	}
	return buf
}

// Decode parses a RecordSize byte slice into a Message. Returns an error if
// buf is short or the tag is an unrecognized message type.
func Decode(buf []byte) (types.Message, error) {
	if len(buf) < RecordSize {
		return types.Message{}, fmt.Errorf("codec: record too short: got %d bytes, want %d", len(buf), RecordSize)
	}

	msg := types.Message{
		Type:     types.MsgType(binary.LittleEndian.Uint32(buf[0:4])),
		Security: types.SecurityID(binary.LittleEndian.Uint64(buf[4:12])),
	}

	payload := buf[12:]
	switch msg.Type {
	case types.MsgNewOrder, types.MsgOrderExecuted:
		msg.Order = getOrder(payload)
	case types.MsgCancelOrder:
		msg.ToCancel = types.OrderID(binary.LittleEndian.Uint64(payload[0:8]))
	case types.MsgSetMarketPrice:
		msg.SetPrice = int64(binary.LittleEndian.Uint64(payload[0:8]))
	case types.MsgTrade:
		msg.TradeInfo.Aggressor = getOrder(payload[0:orderSize])
		msg.TradeInfo.MatchedID = types.OrderID(binary.LittleEndian.Uint64(payload[orderSize : orderSize+8]))
	case types.MsgPanic:
		// no payload
	default:
		return types.Message{}, fmt.Errorf("codec: unknown message type %d", uint8(msg.Type))
	}
	return msg, nil
}

func putOrder(buf []byte, o types.Order) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(o.Side))
	binary.LittleEndian.PutUint64(buf[4:12], uint64(o.Quantity))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(o.Type))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(o.Price))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(o.ID))
	binary.LittleEndian.PutUint64(buf[32:40], uint64(o.Timestamp))
}

func getOrder(buf []byte) types.Order {
	return types.Order{
		Side:      types.Side(binary.LittleEndian.Uint32(buf[0:4])),
		Quantity:  int64(binary.LittleEndian.Uint64(buf[4:12])),
		Type:      types.OrderType(binary.LittleEndian.Uint32(buf[12:16])),
		Price:     int64(binary.LittleEndian.Uint64(buf[16:24])),
		ID:        types.OrderID(binary.LittleEndian.Uint64(buf[24:32])),
		Timestamp: int64(binary.LittleEndian.Uint64(buf[32:40])),
	}
}
