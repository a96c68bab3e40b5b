package models

import "time"

// Package представляет продаваемый пакет: цена фиксируется в заказе
// на момент оформления, срок действия задаётся в целых месяцах.
type Package struct {
	ID          string    // Уникальный идентификатор пакета
	Name        string    // Название пакета
	Duration    int       // Срок действия в месяцах (>= 1)
	Price       int64     // Цена в VND (целое, без минорных единиц)
	Description *string   // Описание (опционально)
	IsActive    bool      // Доступен ли пакет для продажи
	CreatedAt   time.Time // Дата создания
}

// DummyPackage используется для приёма данных пакета из JSON-запроса
// до валидации и преобразования в Package.
type DummyPackage struct {
	Name        string `json:"name" validate:"required"`              // Название пакета
	Duration    int    `json:"duration" validate:"required,gte=1"`    // Срок в месяцах (>= 1)
	Price       int64  `json:"price" validate:"gte=0"`                // Цена в VND (>= 0)
	Description string `json:"description,omitempty"`                 // Описание (опционально)
	IsActive    *bool  `json:"is_active,omitempty" validate:"omitempty"` // Флаг активности
}
