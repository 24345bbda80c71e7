package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrRestricted        = errors.New("restricted by reference")
	ErrUnknown           = errors.New("unknown error")

	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrNotEnoughBalance = errors.New("not enough balance")

	// ErrGatewayNotConfigured возвращается когда в настройках отсутствуют
	// merchant/service id платежного шлюза.
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured")

	// ErrInvalidTransition возвращается при попытке недопустимого перехода
	// статуса заказа (в т.ч. повторный перевод в paid).
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// InsufficientFundsError несет контекст нехватки средств для сообщения
// пользователю. Is-совместим с ErrNotEnoughBalance.
type InsufficientFundsError struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf(
		"not enough balance: have %s UZS, need %s UZS",
		e.Balance.StringFixed(0),
		e.Required.StringFixed(0),
	)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrNotEnoughBalance
}

// Shortfall возвращает недостающую сумму.
func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Balance)
}

// ProductNotFoundError указывает какая именно позиция корзины не найдена в каталоге.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound
}
