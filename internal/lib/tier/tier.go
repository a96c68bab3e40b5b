// Package tier реализует ступенчатую политику комиссионной ставки
// для продавцов уровня đại lý: ставка определяется накопленным
// оплаченным оборотом за отчётный период.
package tier

// Пороговые значения оборота в VND. Нижняя граница каждой ступени
// включительно: ровно 20 000 000 даёт 15%, ровно 50 000 000 — 20%.
const (
	ThresholdMid  int64 = 20_000_000
	ThresholdHigh int64 = 50_000_000
)

// Ставки по ступеням в целых процентах.
const (
	RateBase = 10
	RateMid  = 15
	RateHigh = 20
)

// Rate возвращает комиссионную ставку по накопленному оплаченному обороту.
func Rate(revenue int64) int {
	switch {
	case revenue >= ThresholdHigh:
		return RateHigh
	case revenue >= ThresholdMid:
		return RateMid
	default:
		return RateBase
	}
}
