package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	Email     string
	Password  string
	Role      RoleType
	FullName  string
	Phone     string
	// Balance хранится в суммах (UZS), целых единицах. Мутируется исключительно
	// через UserRepository.AdjustBalance.
	Balance decimal.Decimal
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Product struct {
	ID          int64
	Title       string
	Description string
	// Price хранится как отображаемая строка вида "$49". Числовое значение
	// извлекается через money.ParsePrice.
	Price     string
	Image     string
	Category  string
	TechStack []string
	Features  []string
}

// Order - неизменяемая квитанция покупки. Поля ProductTitle/ProductImage/
// ProductCategory - денормализованный снимок каталога на момент покупки:
// последующее редактирование товара не меняет историю.
type Order struct {
	ID              int64
	CreatedAt       time.Time
	UserID          int64
	ProductTitle    string
	ProductImage    string
	ProductCategory string
	AmountUSD       decimal.Decimal
	Status          OrderStatusType
}

// Transaction - append-only запись журнала баланса. Amount всегда положительный,
// направление определяется полем Type.
type Transaction struct {
	ID          int64
	CreatedAt   time.Time
	UserID      int64
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    string
	Description string
}

type CartItem struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int32
}

type WishlistItem struct {
	ID        int64
	UserID    int64
	ProductID int64
}

type SystemSetting struct {
	ID    int64
	Key   string
	Value string
}
