package repoargs

import (
	"github.com/layzzbe/market/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateOrder - параметры создания заказа с денормализованным снимком товара.
type CreateOrder struct {
	UserID          int64
	ProductTitle    string
	ProductImage    string
	ProductCategory string
	AmountUSD       decimal.Decimal
	Status          domain.OrderStatusType
}

// OrderWithBuyer - заказ вместе с email покупателя (админская выдача).
type OrderWithBuyer struct {
	Order      domain.Order
	BuyerEmail string
}

type CreateTransaction struct {
	UserID      int64
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// UserSpending - агрегат трат пользователя по заказам.
type UserSpending struct {
	OrdersCount   int64
	TotalSpentUSD decimal.Decimal
}
