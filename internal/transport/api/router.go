package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layzzbe/market/internal/transport/api/middlewares"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup = "/api"

	RegisterRoute        = "/auth/register"
	LoginRoute           = "/auth/login"
	ProfileRoute         = "/profile"
	ProfilePasswordRoute = "/profile/password"

	ProductsRoute    = "/products"
	ProductItemRoute = "/products/:id"

	CartRoute     = "/cart"
	CartItemRoute = "/cart/:productID"

	WishlistRoute     = "/wishlist"
	WishlistItemRoute = "/wishlist/:productID"

	WalletBalanceRoute      = "/wallet/balance"
	WalletTransactionsRoute = "/wallet/transactions"
	WalletTopUpRoute        = "/wallet/topup"

	OrdersRoute        = "/orders"
	WalletPaymentRoute = "/orders/process-wallet-payment"
	PaymentLinkRoute   = "/orders/generate-payment-link"

	ClickWebhookRoute   = "/payments/click/webhook"
	PublicSettingsRoute = "/settings/public"

	AdminRouteGroup        = "/admin"
	AdminStatsRoute        = "/stats"
	AdminUsersRoute        = "/users"
	AdminUserItemRoute     = "/users/:id"
	AdminUserRoleRoute     = "/users/:id/role"
	AdminUserPasswordRoute = "/users/:id/password"
	AdminOrdersRoute       = "/orders"
	AdminSettingsRoute     = "/settings"
	AdminProductsRoute     = "/products"
	AdminProductItemRoute  = "/products/:id"
)

type RouterArgs struct {
	Logger          *logrus.Logger
	UserService     UserServicer
	ProductService  ProductServicer
	CartService     CartServicer
	WishlistService WishlistServicer
	WalletService   WalletServicer
	OrderService    OrderServicer
	CheckoutService CheckoutServicer
	PaymentService  PaymentServicer
	SettingsService SettingsServicer
	JWTSecretKey    []byte
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	productsHandler := NewProductsHandler(args.ProductService)
	cartHandler := NewCartHandler(args.CartService)
	wishlistHandler := NewWishlistHandler(args.WishlistService)
	walletHandler := NewWalletHandler(args.WalletService)
	ordersHandler := NewOrdersHandler(args.OrderService, args.CheckoutService)
	paymentsHandler := NewPaymentsHandler(args.PaymentService)
	settingsHandler := NewSettingsHandler(args.SettingsService)
	adminHandler := NewAdminHandler(args.UserService, args.OrderService)

	api := r.Group(RouteGroup)

	// публичные роуты: каталог, публичные настройки и колбэк шлюза.
	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)
	api.GET(ProductsRoute, productsHandler.Index)
	api.GET(ProductItemRoute, productsHandler.Show)
	api.GET(PublicSettingsRoute, settingsHandler.Public)
	api.POST(ClickWebhookRoute, paymentsHandler.Webhook)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(ProfileRoute, authHandler.Me)
	api.PUT(ProfileRoute, authHandler.UpdateMe)
	api.PUT(ProfilePasswordRoute, authHandler.ChangePassword)

	api.GET(CartRoute, cartHandler.Index)
	api.POST(CartRoute, cartHandler.Add)
	api.PUT(CartItemRoute, cartHandler.SetQuantity)
	api.DELETE(CartItemRoute, cartHandler.Remove)

	api.GET(WishlistRoute, wishlistHandler.Index)
	api.POST(WishlistItemRoute, wishlistHandler.Toggle)
	api.DELETE(WishlistItemRoute, wishlistHandler.Remove)

	api.GET(WalletBalanceRoute, walletHandler.Balance)
	api.GET(WalletTransactionsRoute, walletHandler.Transactions)
	api.POST(WalletTopUpRoute, walletHandler.TopUp)

	api.GET(OrdersRoute, ordersHandler.Index)
	api.POST(WalletPaymentRoute, ordersHandler.PayWithWallet)
	api.POST(PaymentLinkRoute, ordersHandler.GeneratePaymentLink)

	// админская группа: роль проверяется свежим чтением профиля.
	admin := api.Group(AdminRouteGroup)
	admin.Use(middlewares.AdminRequired(func(ctx context.Context, userID int64) (bool, error) {
		profile, err := args.UserService.GetProfile(ctx, userID)
		if err != nil {
			return false, err
		}
		return profile.User.IsAdmin(), nil
	}))

	admin.GET(AdminStatsRoute, adminHandler.Stats)
	admin.GET(AdminUsersRoute, adminHandler.Users)
	admin.GET(AdminUserItemRoute, adminHandler.UserDetail)
	admin.PUT(AdminUserRoleRoute, adminHandler.UpdateUserRole)
	admin.PUT(AdminUserPasswordRoute, adminHandler.ResetUserPassword)
	admin.DELETE(AdminUserItemRoute, adminHandler.DeleteUser)
	admin.GET(AdminOrdersRoute, adminHandler.Orders)
	admin.GET(AdminSettingsRoute, settingsHandler.Index)
	admin.PUT(AdminSettingsRoute, settingsHandler.Update)
	admin.POST(AdminProductsRoute, productsHandler.Create)
	admin.PUT(AdminProductItemRoute, productsHandler.Update)
	admin.DELETE(AdminProductItemRoute, productsHandler.Destroy)

	return r
}
