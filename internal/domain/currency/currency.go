package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// 通貨コード（小文字で保持）
type Code string

const (
	USD Code = "usd"
	EUR Code = "eur"
)

// チェックアウト時の既定通貨
const Default = USD

// 対応している通貨
var Supported = []Code{USD, EUR}

type pair struct {
	from Code
	to   Code
}

// 固定レート（外部の為替APIは使わない）
var rates = map[pair]decimal.Decimal{
	{from: USD, to: EUR}: decimal.RequireFromString("0.92"),
	{from: EUR, to: USD}: decimal.RequireFromString("1.09"),
}

var (
	cent    = int32(2)
	hundred = decimal.NewFromInt(100)
)

// Parse は大文字小文字を区別せずに通貨を判定する。
func Parse(raw string) (Code, bool) {
	c := Code(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range Supported {
		if c == s {
			return c, true
		}
	}
	return "", false
}

// 不正・未指定ならfallbackを返す（エラーにはしない）
func OrDefault(raw string, fallback Code) Code {
	if c, ok := Parse(raw); ok {
		return c
	}
	return fallback
}

// Convert は金額を別通貨に換算する。
// 同じ通貨ならそのまま（丸めない）。レートが無い組み合わせもそのまま返す。
// レートを掛けた場合は小数2桁に銀行丸め。
func Convert(amount decimal.Decimal, from, to Code) decimal.Decimal {
	if from == to {
		return amount
	}
	rate, ok := rates[pair{from: from, to: to}]
	if !ok {
		return amount
	}
	return amount.Mul(rate).RoundBank(cent)
}

// Quantize は表示用に小数2桁へ丸める。
func Quantize(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(cent)
}

// MinorUnits は決済APIに渡す最小単位（セント）に変換する。
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).RoundBank(0).IntPart()
}
