// Package models содержит доменные структуры платформы продаж:
// пользователей, пакеты, заказы и комиссионные записи,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей системы. Роль назначается при регистрации
// и в бизнес-логике не меняется.
const (
	RoleAdmin    = "admin"    // администратор платформы
	RoleReseller = "reseller" // đại lý, ставка комиссии зависит от оборота
	RoleCTV      = "ctv"      // CTV (субагент), фиксированная ставка
	RoleCustomer = "customer" // конечный клиент
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	PasswordHash string    // Хэш пароля пользователя
	Name         string    // Отображаемое имя
	Phone        *string   // Телефон (опционально)
	Role         string    // Роль пользователя, см. константы Role*
	CreatedAt    time.Time // Дата регистрации
}

// DummyUser используется для приёма данных регистрации из JSON-запроса.
// Роль admin через регистрацию не назначается.
type DummyUser struct {
	Email    string `json:"email" validate:"required,email"`      // Электронная почта
	Username string `json:"username" validate:"required,min=3"`   // Имя пользователя
	Password string `json:"password" validate:"required,min=8"`   // Пароль
	Name     string `json:"name" validate:"required"`             // Отображаемое имя
	Phone    string `json:"phone,omitempty"`                      // Телефон (опционально)
	Role     string `json:"role,omitempty"`                       // Роль, по умолчанию customer
}

// Actor описывает аутентифицированного инициатора операции.
// Передаётся в сервисы явно, глобального "текущего пользователя" нет.
type Actor struct {
	UID  string
	Role string
}

// IsAdmin сообщает, является ли инициатор администратором.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsSeller сообщает, может ли инициатор оформлять заказы за клиентов.
func (a Actor) IsSeller() bool {
	return a.Role == RoleReseller || a.Role == RoleCTV
}
