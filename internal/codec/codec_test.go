package codec

import (
	"testing"

	"github.com/fintex/matching-engine/pkg/types"
)

func TestEncodeDecodeRoundTripNewOrder(t *testing.T) {
	t.Parallel()

	want := types.Message{
		Type:     types.MsgNewOrder,
		Security: 7,
		Order: types.Order{
			ID:        42,
			Side:      types.Sell,
			Type:      types.Limit,
			Price:     12345,
			Quantity:  10,
			Timestamp: 99,
		},
	}

	buf := Encode(want)
	if len(buf) != RecordSize {
		t.Fatalf("Encode() len = %d, want %d", len(buf), RecordSize)
	}

	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != want {
		t.Errorf("Decode(Encode(x)) = %+v, want %+v", got, want)
	}
}

func TestEncodeDecodeRoundTripTrade(t *testing.T) {
	t.Parallel()

	want := types.Message{
		Type:     types.MsgTrade,
		Security: 1,
		TradeInfo: types.Trade{
			Aggressor: types.Order{ID: 2, Side: types.Buy, Price: 100, Quantity: 5},
			MatchedID: 1,
		},
	}

	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != want {
		t.Errorf("Decode(Encode(x)) = %+v, want %+v", got, want)
	}
}

func TestEncodeDecodeRoundTripCancel(t *testing.T) {
	t.Parallel()

	want := types.Message{Type: types.MsgCancelOrder, Security: 3, ToCancel: 55}
	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != want {
		t.Errorf("Decode(Encode(x)) = %+v, want %+v", got, want)
	}
}

func TestEncodeDecodeRoundTripSetPrice(t *testing.T) {
	t.Parallel()

	want := types.Message{Type: types.MsgSetMarketPrice, Security: 1, SetPrice: 500}
	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != want {
		t.Errorf("Decode(Encode(x)) = %+v, want %+v", got, want)
	}
}

func TestEncodeDecodeRoundTripPanic(t *testing.T) {
	t.Parallel()

	want := types.Message{Type: types.MsgPanic, Security: 0}
	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != want {
		t.Errorf("Decode(Encode(x)) = %+v, want %+v", got, want)
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	t.Parallel()

	if _, err := Decode(make([]byte, RecordSize-1)); err == nil {
		t.Error("Decode(short buffer) error = nil, want error")
	}
}

func TestDecodeUnknownType(t *testing.T) {
	t.Parallel()

	buf := Encode(types.Message{Type: types.MsgPanic})
	buf[0] = 200
	if _, err := Decode(buf); err == nil {
		t.Error("Decode(unknown type) error = nil, want error")
	}
}

func TestRenderPrice(t *testing.T) {
	t.Parallel()

	if got := RenderPrice(10050); got != "100.50" {
		t.Errorf("RenderPrice(10050) = %q, want 100.50", got)
	}
	if got := RenderPrice(5); got != "0.05" {
		t.Errorf("RenderPrice(5) = %q, want 0.05", got)
	}
}
