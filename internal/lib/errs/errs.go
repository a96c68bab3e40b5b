// Package errs определяет доменные ошибки ядра заказов и комиссий.
// Сервисы возвращают их завёрнутыми через fmt.Errorf("%s: %w", op, err),
// HTTP-слой сопоставляет их со статусами через errors.Is.
package errs

import "errors"

var (
	// ErrValidation — входные данные нарушают бизнес-правило
	// (неактивный пакет, неизвестный способ оплаты и т.п.).
	ErrValidation = errors.New("validation failed")
	// ErrNotFound — сущность по ссылке не существует.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition — запрошенный переход статуса вне допустимого графа.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict — запись изменена конкурентно, переход применён к устаревшему состоянию.
	ErrConflict = errors.New("concurrent modification")
)
