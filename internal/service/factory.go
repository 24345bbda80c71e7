package service

import (
	"fmt"

	"github.com/layzzbe/market/pkg/money"
	"github.com/layzzbe/market/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	UserService     *UserService
	ProductService  *ProductService
	CartService     *CartService
	WishlistService *WishlistService
	WalletService   *WalletService
	OrderService    *OrderService
	CheckoutService *CheckoutService
	PaymentService  *PaymentService
	SettingsService *SettingsService
}

// FactoryArgs - зависимости сервисного слоя, разрешенные один раз при старте.
type FactoryArgs struct {
	UnitOfWork uow.UOW
	JWTSecret  []byte
	Converter  money.Converter
	Notifier   Notifier
	ReturnURL  string
	Logger     *logrus.Logger
}

func Factory(args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(args.UnitOfWork, args.JWTSecret)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	productService, productServiceErr := NewProductService(args.UnitOfWork)
	if productServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", productServiceErr.Error())
	}

	cartService, cartServiceErr := NewCartService(args.UnitOfWork, args.Converter)
	if cartServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", cartServiceErr.Error())
	}

	wishlistService, wishlistServiceErr := NewWishlistService(args.UnitOfWork)
	if wishlistServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", wishlistServiceErr.Error())
	}

	walletService, walletServiceErr := NewWalletService(args.UnitOfWork)
	if walletServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", walletServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(args.UnitOfWork, args.Converter)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	settingsService, settingsServiceErr := NewSettingsService(args.UnitOfWork)
	if settingsServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", settingsServiceErr.Error())
	}

	checkoutService, checkoutServiceErr := NewCheckoutService(
		args.UnitOfWork,
		settingsService,
		args.Converter,
		args.Notifier,
		args.ReturnURL,
		args.Logger,
	)
	if checkoutServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", checkoutServiceErr.Error())
	}

	paymentService, paymentServiceErr := NewPaymentService(
		args.UnitOfWork,
		settingsService,
		args.Converter,
		args.Notifier,
		args.Logger,
	)
	if paymentServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", paymentServiceErr.Error())
	}

	return &AppServices{
		UserService:     userService,
		ProductService:  productService,
		CartService:     cartService,
		WishlistService: wishlistService,
		WalletService:   walletService,
		OrderService:    orderService,
		CheckoutService: checkoutService,
		PaymentService:  paymentService,
		SettingsService: settingsService,
	}, nil
}
