package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//400 解決できる明細がない
	ErrEmptyCart = errors.New("empty cart")
	//404
	ErrNotFound = errors.New("not found")
	//500 保存失敗（rollback済み）
	ErrPersistence = errors.New("persistence error")
	//ログに出すだけで呼び出し元には返さない
	ErrNotification = errors.New("notification error")
	//401
	ErrUnauthorized = errors.New("unauthorized")
	//403
	ErrForbidden = errors.New("forbidden")
	//500
	ErrInternal = errors.New("internal error")
)

// handlerがそのままJSONにする
type HTTPError struct {
	Status  int
	Message string
	Kind    error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// errors.Is(err, ErrEmptyCart) などで判定できる
func (e *HTTPError) Unwrap() error {
	return e.Kind
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Kind:    kindForStatus(status),
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func validationError(message string) error {
	return &HTTPError{Status: http.StatusBadRequest, Message: message, Kind: ErrValidation}
}

func emptyCartError() error {
	return &HTTPError{Status: http.StatusBadRequest, Message: "cart is empty", Kind: ErrEmptyCart}
}

func notFoundError() error {
	return &HTTPError{Status: http.StatusNotFound, Message: "not found", Kind: ErrNotFound}
}

// 内部の詳細は返さない
func persistenceError() error {
	return &HTTPError{Status: http.StatusInternalServerError, Message: "db error", Kind: ErrPersistence}
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrInternal
	}
}
