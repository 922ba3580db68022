package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lexfield/practice-core/internal/apperr"
)

// storeErr переводит ошибку хранилища в типизированную: таймауты и отмена
// контекста — повторяемая недоступность, остальное — внутренняя ошибка.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Unavailable(op, err)
	}
	return apperr.Internal(op, err)
}

// lookupErr — то же, но запись могла отсутствовать.
func lookupErr(op, what, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(what, id)
	}
	return storeErr(op, err)
}
