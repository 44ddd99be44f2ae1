package codec

import "github.com/shopspring/decimal"

// PriceDecimals is the number of implied fractional digits in a raw integer
// tick price, used only for human-readable rendering in logs and the
// dashboard; the matching core itself never touches decimal.Decimal.
const PriceDecimals = 2

// RenderPrice converts a raw integer tick price into a decimal string for
// display, e.g. RenderPrice(10050) == "100.50".
func RenderPrice(ticks int64) string {
	return decimal.New(ticks, -PriceDecimals).StringFixed(PriceDecimals)
}

// RenderQuantity converts a raw integer quantity into a decimal string.
// Quantities have no implied fraction; this exists so dashboard JSON and
// log lines render quantities the same way prices do.
func RenderQuantity(qty int64) string {
	return decimal.NewFromInt(qty).String()
}
