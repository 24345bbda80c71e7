package repoargs

import (
	"github.com/layzzbe/market/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateUser struct {
	Email    string
	Password string
	Role     domain.RoleType
}

type UpdateProfile struct {
	UserID   int64
	FullName *string
	Phone    *string
}

// AdminStats - агрегаты для админской статистики. Выручка считается по всем
// заказам независимо от статуса, как и в остальной отчетности.
type AdminStats struct {
	UsersCount      int64
	ProductsCount   int64
	OrdersCount     int64
	TotalRevenueUSD decimal.Decimal
}
