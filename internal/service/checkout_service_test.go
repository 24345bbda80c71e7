package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/internal/service/mocks"
	"github.com/layzzbe/market/pkg/money"
	"github.com/layzzbe/market/pkg/uow"
	uowmocks "github.com/layzzbe/market/pkg/uow/mocks"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

// noopNotifier нужен вместо мока: уведомление уходит из горутины после
// коммита и его вызов не должен гонять проверки gomock.
type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) {}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type CheckoutServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockUserRepo     *mocks.MockUserRepository
	mockProductRepo  *mocks.MockProductRepository
	mockOrderRepo    *mocks.MockOrderRepository
	mockTxRepo       *mocks.MockTransactionRepository
	mockCartRepo     *mocks.MockCartRepository
	mockSettingsRepo *mocks.MockSettingsRepository
	service          *CheckoutService
}

func TestCheckoutServiceSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}

func (s *CheckoutServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockProductRepo = mocks.NewMockProductRepository(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.mockTxRepo = mocks.NewMockTransactionRepository(s.mockCtrl)
	s.mockCartRepo = mocks.NewMockCartRepository(s.mockCtrl)
	s.mockSettingsRepo = mocks.NewMockSettingsRepository(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.ProductRepoName)).
		Return(s.mockProductRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.SettingsRepoName)).
		Return(s.mockSettingsRepo, nil).AnyTimes()

	settingsService, settingsErr := NewSettingsService(s.mockUOW)
	s.Require().NoError(settingsErr)

	var err error
	s.service, err = NewCheckoutService(
		s.mockUOW,
		settingsService,
		money.NewConverter(decimal.NewFromInt(12800)),
		noopNotifier{},
		"https://layzzbe.uz/payment/return",
		testLogger(),
	)
	s.Require().NoError(err)
}

func (s *CheckoutServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *CheckoutServiceTestSuite) expectDo(times int) {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	).Times(times)
}

func (s *CheckoutServiceTestSuite) expectTxRepos() {
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTxRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.CartRepoName)).
		Return(s.mockCartRepo, nil).AnyTimes()
}

func (s *CheckoutServiceTestSuite) TestPayWithWallet() {
	user := domain.User{ID: 123, Email: "buyer@example.com"}
	product := domain.Product{ID: 5, Title: "Landing Page", Image: "img.png", Category: "web", Price: "$10"}
	// 2 x $10 по курсу 12800 = 256000 сумов
	totalUZS := decimal.NewFromInt(256000)

	s.mockProductRepo.EXPECT().FindByID(gomock.Any(), product.ID).Return(&product, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(&user, nil)

	s.expectDo(1)
	s.expectTxRepos()

	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), user.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, delta decimal.Decimal) (decimal.Decimal, error) {
			// списание уходит отрицательной дельтой
			s.True(delta.Equal(totalUZS.Neg()), "delta = %s", delta)
			return decimal.NewFromInt(44000), nil
		})

	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
			s.Equal(user.ID, args.UserID)
			s.Equal(product.Title, args.ProductTitle)
			s.Equal(domain.OrderStatusCompleted, args.Status)
			s.True(args.AmountUSD.Equal(decimal.NewFromInt(20)))
			return &domain.Order{ID: 7, UserID: user.ID, Status: args.Status}, nil
		})

	s.mockTxRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateTransaction) (*domain.Transaction, error) {
			s.Equal(domain.TransactionPurchase, args.Type)
			s.True(args.Amount.Equal(totalUZS))
			s.Contains(args.Description, product.Title)
			return &domain.Transaction{ID: 1}, nil
		})

	s.mockCartRepo.EXPECT().Delete(gomock.Any(), user.ID, product.ID).Return(nil)

	result, err := s.service.PayWithWallet(s.T().Context(), user.ID, []CartLine{
		{ProductID: product.ID, Quantity: 2},
	})
	s.Require().NoError(err)
	s.True(result.NewBalance.Equal(decimal.NewFromInt(44000)))
	s.Equal([]int64{7}, result.OrderIDs)
	s.Equal(1, result.ItemsPurchased)
	s.True(result.TotalUZS.Equal(totalUZS))
}

func (s *CheckoutServiceTestSuite) TestPayWithWallet_InsufficientFunds() {
	user := domain.User{ID: 123, Email: "buyer@example.com"}
	product := domain.Product{ID: 5, Title: "Landing Page", Price: "$10"}

	s.mockProductRepo.EXPECT().FindByID(gomock.Any(), product.ID).Return(&product, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(&user, nil)

	s.expectDo(1)
	s.expectTxRepos()

	// условный UPDATE не зацепил строку: средств не хватает
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), user.ID, gomock.Any()).
		Return(decimal.Zero, domain.ErrRecordNotFound)
	s.mockUserRepo.EXPECT().
		GetBalance(gomock.Any(), user.ID).
		Return(decimal.NewFromInt(1000), nil)

	_, err := s.service.PayWithWallet(s.T().Context(), user.ID, []CartLine{
		{ProductID: product.ID, Quantity: 1},
	})
	s.Require().ErrorIs(err, domain.ErrNotEnoughBalance)

	var insufficientErr *domain.InsufficientFundsError
	s.Require().ErrorAs(err, &insufficientErr)
	s.True(insufficientErr.Balance.Equal(decimal.NewFromInt(1000)))
	s.True(insufficientErr.Required.Equal(decimal.NewFromInt(128000)))
}

func (s *CheckoutServiceTestSuite) TestPayWithWallet_LedgerWriteFails() {
	user := domain.User{ID: 123, Email: "buyer@example.com"}
	product := domain.Product{ID: 5, Title: "Landing Page", Price: "$10"}

	s.mockProductRepo.EXPECT().FindByID(gomock.Any(), product.ID).Return(&product, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(&user, nil)

	s.expectDo(1)
	s.expectTxRepos()

	// баланс уже списан и заказ создан, падает запись в журнал
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), user.ID, gomock.Any()).
		Return(decimal.NewFromInt(44000), nil)
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.Order{ID: 7, UserID: user.ID, Status: domain.OrderStatusCompleted}, nil)
	s.mockTxRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrUnknown)

	// ошибка из замыкания выходит наружу и откатывает транзакцию целиком:
	// очистка корзины не вызывается, результата нет
	result, err := s.service.PayWithWallet(s.T().Context(), user.ID, []CartLine{
		{ProductID: product.ID, Quantity: 2},
	})
	s.Require().ErrorIs(err, domain.ErrUnknown)
	s.Nil(result)
}

func (s *CheckoutServiceTestSuite) TestPayWithWallet_OrderWriteFails() {
	user := domain.User{ID: 123, Email: "buyer@example.com"}
	product := domain.Product{ID: 5, Title: "Landing Page", Price: "$10"}

	s.mockProductRepo.EXPECT().FindByID(gomock.Any(), product.ID).Return(&product, nil)
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(&user, nil)

	s.expectDo(1)
	s.expectTxRepos()

	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), user.ID, gomock.Any()).
		Return(decimal.NewFromInt(44000), nil)
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrUnknown)

	result, err := s.service.PayWithWallet(s.T().Context(), user.ID, []CartLine{
		{ProductID: product.ID, Quantity: 2},
	})
	s.Require().ErrorIs(err, domain.ErrUnknown)
	s.Nil(result)
}

func (s *CheckoutServiceTestSuite) TestPayWithWallet_Validation() {
	s.Run("empty cart", func() {
		_, err := s.service.PayWithWallet(s.T().Context(), 1, nil)
		s.Require().ErrorIs(err, domain.ErrEmptyCart)
	})

	s.Run("non positive quantity", func() {
		_, err := s.service.PayWithWallet(s.T().Context(), 1, []CartLine{{ProductID: 5, Quantity: 0}})
		s.Require().ErrorIs(err, domain.ErrInvalidQuantity)
	})

	s.Run("unknown product", func() {
		s.mockProductRepo.EXPECT().
			FindByID(gomock.Any(), int64(99)).
			Return(nil, domain.ErrRecordNotFound)

		_, err := s.service.PayWithWallet(s.T().Context(), 1, []CartLine{{ProductID: 99, Quantity: 1}})
		s.Require().ErrorIs(err, domain.ErrRecordNotFound)

		var notFoundErr *domain.ProductNotFoundError
		s.Require().ErrorAs(err, &notFoundErr)
		s.Equal(int64(99), notFoundErr.ProductID)
	})
}

func (s *CheckoutServiceTestSuite) TestCreatePaymentLink() {
	userID := int64(123)
	products := []domain.Product{
		{ID: 5, Title: "Landing Page", Image: "img.png", Category: "web", Price: "$10"},
		{ID: 6, Title: "Telegram Bot", Image: "bot.png", Category: "bots", Price: "$5"},
	}
	s.mockProductRepo.EXPECT().FindByID(gomock.Any(), products[0].ID).Return(&products[0], nil)
	s.mockProductRepo.EXPECT().FindByID(gomock.Any(), products[1].ID).Return(&products[1], nil)

	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
			s.Equal(domain.OrderStatusPending, args.Status)
			s.Equal("Landing Page va yana 1 ta", args.ProductTitle)
			s.True(args.AmountUSD.Equal(decimal.NewFromInt(15)))
			return &domain.Order{ID: 42, UserID: userID, Status: args.Status}, nil
		})

	s.mockSettingsRepo.EXPECT().
		GetByKeys(gomock.Any(), []string{SettingClickServiceID, SettingClickMerchantID}).
		Return(map[string]string{
			SettingClickServiceID:  "777",
			SettingClickMerchantID: "888",
		}, nil)

	result, err := s.service.CreatePaymentLink(s.T().Context(), userID, []CartLine{
		{ProductID: 5, Quantity: 1},
		{ProductID: 6, Quantity: 1},
	})
	s.Require().NoError(err)
	s.Equal(int64(42), result.OrderID)
	// $15 * 12800
	s.True(result.TotalUZS.Equal(decimal.NewFromInt(192000)))
	s.True(strings.HasPrefix(result.PaymentURL, "https://my.click.uz/services/pay?"))
	s.Contains(result.PaymentURL, "service_id=777")
	s.Contains(result.PaymentURL, "merchant_id=888")
	s.Contains(result.PaymentURL, "transaction_param=42")
	s.Contains(result.PaymentURL, "amount=192000")
}

func (s *CheckoutServiceTestSuite) TestCreatePaymentLink_GatewayNotConfigured() {
	product := domain.Product{ID: 5, Title: "Landing Page", Price: "$10"}
	s.mockProductRepo.EXPECT().FindByID(gomock.Any(), product.ID).Return(&product, nil)

	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.Order{ID: 42, Status: domain.OrderStatusPending}, nil)

	s.mockSettingsRepo.EXPECT().
		GetByKeys(gomock.Any(), gomock.Any()).
		Return(map[string]string{}, nil)

	// компенсация: заказ без ссылки удаляется
	s.mockOrderRepo.EXPECT().Delete(gomock.Any(), int64(42)).Return(nil)

	_, err := s.service.CreatePaymentLink(s.T().Context(), 123, []CartLine{
		{ProductID: product.ID, Quantity: 1},
	})
	s.Require().ErrorIs(err, domain.ErrGatewayNotConfigured)
}
