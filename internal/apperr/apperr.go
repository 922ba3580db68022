package apperr

import (
	"errors"
	"fmt"
)

// Kind — машинно-читаемый код ошибки.
type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT" // 400
	KindNotFound        Kind = "NOT_FOUND"        // 404
	KindConflict        Kind = "CONFLICT"         // 409
	KindUnavailable     Kind = "UNAVAILABLE"      // 503, имеет смысл повторить
	KindInternal        Kind = "INTERNAL"         // 500
)

// Error — структурная ошибка с кодом, HTTP-статусом и человекочитаемым
// сообщением. Хранилищные ошибки заворачиваются с сохранением цепочки.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid — ошибка валидации: запрос отклонён до обращения к хранилищу.
func Invalid(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Status: 400, Message: msg}
}

func Invalidf(format string, args ...any) *Error {
	return Invalid(fmt.Sprintf(format, args...))
}

// NotFound — сущность не найдена; отличается от валидации,
// чтобы фасад мог отдать 404.
func NotFound(what, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", what, id),
	}
}

// Conflict — пересечение по календарю при записи.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Status: 409, Message: msg}
}

// Unavailable — временная недоступность хранилища/транспорта,
// вызывающая сторона может повторить.
func Unavailable(op string, err error) *Error {
	return &Error{Kind: KindUnavailable, Status: 503, Message: op, Err: err}
}

// Internal — прочие ошибки хранилища.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Status: 500, Message: op, Err: err}
}

// KindOf возвращает код ошибки; для незнакомых ошибок — INTERNAL.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusOf возвращает HTTP-статус ошибки.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 500
}

// Retryable — стоит ли повторять операцию.
func Retryable(err error) bool {
	return KindOf(err) == KindUnavailable
}
