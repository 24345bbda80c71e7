package service

import (
	"context"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error)
	UpdateProfile(ctx context.Context, args repoargs.UpdateProfile) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error
	UpdateRole(ctx context.Context, userID int64, role domain.RoleType) (*domain.User, error)
	Delete(ctx context.Context, userID int64) error
}

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	GetAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetAllWithBuyers(ctx context.Context) ([]repoargs.OrderWithBuyer, error)
	TransitionStatus(ctx context.Context, orderID int64, from, to domain.OrderStatusType) (*domain.Order, error)
	Delete(ctx context.Context, orderID int64) error
	GetUserSpending(ctx context.Context, userID int64) (*repoargs.UserSpending, error)
	GetAdminStats(ctx context.Context) (*repoargs.AdminStats, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, args repoargs.CreateTransaction) (*domain.Transaction, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error)
}

type CartRepository interface {
	GetByUserID(ctx context.Context, userID int64) ([]domain.CartItem, error)
	Upsert(ctx context.Context, userID, productID int64, quantity int32) error
	SetQuantity(ctx context.Context, userID, productID int64, quantity int32) error
	Delete(ctx context.Context, userID, productID int64) error
}

type WishlistRepository interface {
	GetByUserID(ctx context.Context, userID int64) ([]domain.WishlistItem, error)
	Exists(ctx context.Context, userID, productID int64) (bool, error)
	Add(ctx context.Context, userID, productID int64) error
	Delete(ctx context.Context, userID, productID int64) error
}

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	GetAll(ctx context.Context) (map[string]string, error)
	GetByKeys(ctx context.Context, keys []string) (map[string]string, error)
	Upsert(ctx context.Context, key, value string) error
}

// Notifier - best-effort канал уведомлений. Реализация обязана поглощать
// собственные ошибки: сбой доставки никогда не распространяется на операцию.
type Notifier interface {
	Notify(ctx context.Context, text string)
}
