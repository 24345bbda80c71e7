package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/layzzbe/market/internal/config"
	"github.com/layzzbe/market/internal/repository/pgrepo"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/internal/service"
	"github.com/layzzbe/market/internal/transport/api"
	"github.com/layzzbe/market/internal/transport/telegram"
	"github.com/layzzbe/market/pkg/money"
	"github.com/layzzbe/market/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s", a.Config.RunAddress)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	usdRate, rateErr := decimal.NewFromString(a.Config.USDRate)
	if rateErr != nil || !usdRate.IsPositive() {
		return fmt.Errorf("app run: invalid USD rate %q", a.Config.USDRate)
	}
	converter := money.NewConverter(usdRate)

	settingsService, settingsErr := service.NewSettingsService(unitOfWork)
	if settingsErr != nil {
		return fmt.Errorf("app run: %s", settingsErr.Error())
	}
	notifier := telegram.New(settingsService, a.Logger)

	services, sErr := service.Factory(service.FactoryArgs{
		UnitOfWork: unitOfWork,
		JWTSecret:  []byte(a.Config.JWTUserSecret),
		Converter:  converter,
		Notifier:   notifier,
		ReturnURL:  a.Config.ReturnURL,
		Logger:     a.Logger,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router := api.New(api.RouterArgs{
		Logger:          a.Logger,
		UserService:     services.UserService,
		ProductService:  services.ProductService,
		CartService:     services.CartService,
		WishlistService: services.WishlistService,
		WalletService:   services.WalletService,
		OrderService:    services.OrderService,
		CheckoutService: services.CheckoutService,
		PaymentService:  services.PaymentService,
		SettingsService: services.SettingsService,
		JWTSecretKey:    []byte(a.Config.JWTUserSecret),
	})

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.ProductRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewProductRepository(dbtx)
		},
		repoargs.OrderRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewOrderRepository(dbtx)
		},
		repoargs.TransactionRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewTransactionRepository(dbtx)
		},
		repoargs.CartRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewCartRepository(dbtx)
		},
		repoargs.WishlistRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewWishlistRepository(dbtx)
		},
		repoargs.SettingsRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewSettingsRepository(dbtx)
		},
	}

	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}
	return unitOfWork, nil
}
