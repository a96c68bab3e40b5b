package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mrkexxx/tifo.vn/internal/lib/tier"
	"github.com/mrkexxx/tifo.vn/internal/models"
)

// FlatCTVRate — фиксированная ставка комиссии для роли ctv.
const FlatCTVRate = 10

// MonthRevenueSummer описывает выборку оплаченного оборота продавца
// за календарный месяц.
type MonthRevenueSummer interface {
	SumResellerMonthRevenue(ctx context.Context, resellerUID, month, tz string) (int64, error)
}

// Rates вычисляет ставку комиссии продавца на момент оформления заказа.
// Для reseller ставка определяется оплаченным оборотом текущего
// календарного месяца в отчётной таймзоне, для ctv она фиксированная.
type Rates struct {
	repo MonthRevenueSummer
	loc  *time.Location
	tz   string
}

// NewRates создает новый экземпляр Rates для отчётной таймзоны tz.
func NewRates(repo MonthRevenueSummer, tz string) (*Rates, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone %q: %w", tz, err)
	}
	return &Rates{repo: repo, loc: loc, tz: tz}, nil
}

// Percent возвращает ставку комиссии в целых процентах для продавца
// с данной ролью на момент at.
func (r *Rates) Percent(ctx context.Context, role, resellerUID string, at time.Time) (int, error) {
	if role == models.RoleCTV {
		return FlatCTVRate, nil
	}

	month := at.In(r.loc).Format("2006-01")
	revenue, err := r.repo.SumResellerMonthRevenue(ctx, resellerUID, month, r.tz)
	if err != nil {
		return 0, err
	}
	return tier.Rate(revenue), nil
}

// Amount вычисляет сумму комиссии с округлением половины вверх.
func Amount(orderAmount int64, percent int) int64 {
	return (orderAmount*int64(percent) + 50) / 100
}
