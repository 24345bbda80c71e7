package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/internal/service"
	"github.com/layzzbe/market/internal/transport/click"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	GetProfile(ctx context.Context, userID int64) (*service.Profile, error)
	UpdateProfile(ctx context.Context, args service.UpdateProfileArgs) (*service.Profile, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	ResetPassword(ctx context.Context, userID int64, newPassword string) (*domain.User, error)
	UpdateRole(ctx context.Context, userID int64, role domain.RoleType) (*domain.User, error)
	Delete(ctx context.Context, userID int64) error
	GetAll(ctx context.Context) ([]service.Profile, error)
	GetDetail(ctx context.Context, userID int64) (*service.UserDetail, error)
}

type ProductServicer interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type CartServicer interface {
	Get(ctx context.Context, userID int64) (*service.Cart, error)
	Add(ctx context.Context, userID, productID int64, quantity int32) error
	SetQuantity(ctx context.Context, userID, productID int64, quantity int32) error
	Remove(ctx context.Context, userID, productID int64) error
}

type WishlistServicer interface {
	Get(ctx context.Context, userID int64) ([]domain.Product, error)
	Toggle(ctx context.Context, userID, productID int64) (bool, error)
	Remove(ctx context.Context, userID, productID int64) error
}

type WalletServicer interface {
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	GetTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error)
	TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
}

type OrderServicer interface {
	GetUserOrders(ctx context.Context, userID int64) ([]domain.Order, error)
	GetAllOrders(ctx context.Context) ([]repoargs.OrderWithBuyer, error)
	GetAdminStats(ctx context.Context) (*service.AdminStats, error)
}

type CheckoutServicer interface {
	PayWithWallet(ctx context.Context, userID int64, lines []service.CartLine) (*service.WalletCheckoutResult, error)
	CreatePaymentLink(ctx context.Context, userID int64, lines []service.CartLine) (*service.PaymentLinkResult, error)
}

type PaymentServicer interface {
	HandleCallback(ctx context.Context, cb click.Callback) (click.Reply, error)
}

type SettingsServicer interface {
	GetAll(ctx context.Context) (map[string]string, error)
	GetPublic(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, values map[string]string) error
}
