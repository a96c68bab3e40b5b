package models

import "time"

// DailyRevenue — выручка по оплаченным заказам за календарный день.
type DailyRevenue struct {
	Date    time.Time `json:"date"`    // начало дня в отчётной таймзоне
	Revenue int64     `json:"revenue"` // сумма оплаченных заказов за день
}

// MonthlyRevenue — агрегат по календарному месяцу даты заказа.
// Ставка и комиссия здесь справочные: они вычисляются по месячному
// обороту для отчёта и не влияют на уже зафиксированные комиссии.
type MonthlyRevenue struct {
	Month      string `json:"month"`       // формат YYYY-MM
	Orders     int    `json:"orders"`      // число оплаченных заказов
	Revenue    int64  `json:"revenue"`     // сумма оплаченных заказов
	Percent    int    `json:"percent"`     // ставка по месячному обороту
	Commission int64  `json:"commission"`  // revenue * percent / 100
}

// ResellerTotal — суммарная оплаченная выручка продавца.
type ResellerTotal struct {
	ResellerUID string `json:"reseller_uid"`
	Name        string `json:"name"`
	Total       int64  `json:"total"`
}

// RangeSummary — итоги произвольного периода для административного отчёта.
type RangeSummary struct {
	From       time.Time `json:"from"`       // начало периода (включительно)
	To         time.Time `json:"to"`         // конец периода (включительно)
	Orders     int       `json:"orders"`     // число оплаченных заказов
	Revenue    int64     `json:"revenue"`    // сумма оплаченных заказов
	Commission int64     `json:"commission"` // сумма комиссий по этим заказам
}

// Overview — сводные показатели для панели администратора.
type Overview struct {
	TotalRevenue       int64 `json:"total_revenue"`       // сумма оплаченных заказов
	TotalOrders        int   `json:"total_orders"`        // все заказы, любой статус
	TotalUsers         int   `json:"total_users"`         // все пользователи
	PendingCommissions int64 `json:"pending_commissions"` // сумма комиссий в статусе pending
}
