package models

import "time"

// Статусы комиссионной записи. Переходы строго последовательные:
// pending -> approved -> paid, без пропусков и возвратов.
const (
	CommissionPending  = "pending"
	CommissionApproved = "approved"
	CommissionPaid     = "paid"
)

var commissionTransitions = map[string]map[string]bool{
	CommissionPending:  {CommissionApproved: true},
	CommissionApproved: {CommissionPaid: true},
	CommissionPaid:     {},
}

// CanTransitCommission сообщает, допустим ли переход статуса комиссии from -> to.
func CanTransitCommission(from, to string) bool {
	return commissionTransitions[from][to]
}

// IsCommissionStatus сообщает, является ли значение известным статусом комиссии.
func IsCommissionStatus(s string) bool {
	_, ok := commissionTransitions[s]
	return ok
}

// Commission представляет вознаграждение продавца за оплаченный заказ.
// Ровно одна запись на заказ с ненулевым продавцом; Percent и Amount
// фиксируются при создании и не пересчитываются.
type Commission struct {
	ID          string     // Уникальный идентификатор
	OrderID     string     // Заказ (1:1)
	ResellerUID string     // Продавец, совпадает с продавцом заказа
	Percent     int        // Применённая ставка, целый процент
	Amount      int64      // Сумма = round(order.amount * percent / 100)
	Status      string     // Статус, см. Commission*
	PaidAt      *time.Time // Момент выплаты, заполняется при переходе в paid
	CreatedAt   time.Time  // Дата создания

	// Встраиваемые связанные строки (заполняются join-запросами чтения).
	Order    *Order // Заказ
	Reseller *User  // Продавец
}

// CommissionFilter задаёт параметры выборки комиссий.
type CommissionFilter struct {
	ResellerUID *string // nil — комиссии всех продавцов
	Status      *string // nil — любой статус
	Limit       int
	Offset      int
}
