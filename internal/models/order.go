package models

import "time"

// Статусы оплаты заказа.
const (
	OrderPending   = "pending"   // ожидает оплаты
	OrderPaid      = "paid"      // оплачен (терминальный)
	OrderCancelled = "cancelled" // отменён (терминальный)
)

// Способы оплаты, принимаемые при оформлении заказа.
var PaymentMethods = map[string]bool{
	"bank_transfer": true,
	"cash":          true,
	"momo":          true,
	"zalopay":       true,
}

// orderTransitions задаёт граф допустимых переходов статуса оплаты.
// paid и cancelled — терминальные состояния, из них переходов нет.
var orderTransitions = map[string]map[string]bool{
	OrderPending:   {OrderPaid: true, OrderCancelled: true},
	OrderPaid:      {},
	OrderCancelled: {},
}

// CanTransitOrder сообщает, допустим ли переход статуса заказа from -> to.
func CanTransitOrder(from, to string) bool {
	return orderTransitions[from][to]
}

// IsOrderStatus сообщает, является ли значение известным статусом заказа.
func IsOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// Order представляет заказ клиента на пакет.
// Поле Amount — снимок цены пакета на момент оформления,
// ExpiryDate вычисляется один раз и далее не пересчитывается.
type Order struct {
	ID             string    // Уникальный идентификатор заказа
	CustomerUID    string    // Клиент (роль customer)
	PackageID      string    // Пакет
	ResellerUID    *string   // Продавец; nil для прямой продажи администратором
	Amount         int64     // Сумма в VND, снимок цены пакета
	PaymentStatus  string    // Статус оплаты, см. Order*
	PaymentMethod  string    // Способ оплаты
	OrderDate      time.Time // Дата оформления (неизменяемая)
	ActivationDate time.Time // Дата активации
	ExpiryDate     time.Time // Дата окончания = активация + срок пакета в месяцах
	Notes          *string   // Примечания (опционально)
	CreatedAt      time.Time // Дата создания записи

	// Встраиваемые связанные строки (заполняются join-запросами чтения).
	Customer *User    // Клиент
	Package  *Package // Пакет
	Reseller *User    // Продавец
}

// DummyOrder используется для приёма данных нового заказа из JSON-запроса.
type DummyOrder struct {
	CustomerUID   string `json:"customer_uid" validate:"required,uuid"` // Клиент
	PackageID     string `json:"package_id" validate:"required,uuid"`   // Пакет
	PaymentMethod string `json:"payment_method" validate:"required"`    // Способ оплаты
	Notes         string `json:"notes,omitempty"`                       // Примечания
}

// OrderFilter задаёт параметры выборки заказов.
type OrderFilter struct {
	ResellerUID *string // nil — заказы всех продавцов
	CustomerUID *string // nil — заказы всех клиентов
	Status      *string // nil — любой статус
	Limit       int
	Offset      int
}
