package service

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/internal/service/mocks"
	"github.com/layzzbe/market/internal/transport/click"
	"github.com/layzzbe/market/pkg/money"
	"github.com/layzzbe/market/pkg/uow"
	uowmocks "github.com/layzzbe/market/pkg/uow/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-secret"

type PaymentServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockUOW          *uowmocks.MockUOW
	mockOrderRepo    *mocks.MockOrderRepository
	mockSettingsRepo *mocks.MockSettingsRepository
	service          *PaymentService
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.mockSettingsRepo = mocks.NewMockSettingsRepository(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.SettingsRepoName)).
		Return(s.mockSettingsRepo, nil).AnyTimes()

	settingsService, settingsErr := NewSettingsService(s.mockUOW)
	s.Require().NoError(settingsErr)

	var err error
	s.service, err = NewPaymentService(
		s.mockUOW,
		settingsService,
		money.NewConverter(decimal.NewFromInt(12800)),
		noopNotifier{},
		testLogger(),
	)
	s.Require().NoError(err)
}

func (s *PaymentServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *PaymentServiceTestSuite) expectSecret(secret string) {
	s.mockSettingsRepo.EXPECT().
		Get(gomock.Any(), SettingClickSecretKey).
		Return(secret, nil)
}

// signedCallback собирает колбэк с корректной подписью под testSecret.
func (s *PaymentServiceTestSuite) signedCallback(merchantTransID string, amount float64, action int) click.Callback {
	cb := click.Callback{
		ClickTransID:    900123,
		ServiceID:       777,
		ClickPaydocID:   555,
		MerchantTransID: merchantTransID,
		Amount:          amount,
		Action:          action,
		SignTime:        "2024-05-01 12:00:00",
	}
	cb.SignString = cb.Sign(testSecret)
	return cb
}

func (s *PaymentServiceTestSuite) TestHandleCallback_SignatureRejected() {
	s.expectSecret(testSecret)

	cb := s.signedCallback("42", 128000, int(click.ActionPrepare))
	cb.SignString = "deadbeef"

	reply, err := s.service.HandleCallback(s.T().Context(), cb)
	s.Require().NoError(err)
	s.Equal(click.CodeSignatureFailed, reply.Error)
	s.Equal("SIGN CHECK FAILED", reply.ErrorNote)
}

func (s *PaymentServiceTestSuite) TestHandleCallback_NoSecretFailsClosed() {
	// секрет не настроен: даже "корректная" подпись под пустым секретом
	// отклоняется
	s.mockSettingsRepo.EXPECT().
		Get(gomock.Any(), SettingClickSecretKey).
		Return("", domain.ErrRecordNotFound)

	cb := s.signedCallback("42", 128000, int(click.ActionPrepare))
	cb.SignString = cb.Sign("")

	reply, err := s.service.HandleCallback(s.T().Context(), cb)
	s.Require().NoError(err)
	s.Equal(click.CodeSignatureFailed, reply.Error)
}

func (s *PaymentServiceTestSuite) TestHandleCallback_InvalidMerchantTransID() {
	s.expectSecret(testSecret)

	cb := s.signedCallback("not-a-number", 128000, int(click.ActionPrepare))

	reply, err := s.service.HandleCallback(s.T().Context(), cb)
	s.Require().NoError(err)
	s.Equal(click.CodeInvalidMerchantID, reply.Error)
}

func (s *PaymentServiceTestSuite) TestHandleCallback_OrderNotFound() {
	s.expectSecret(testSecret)
	s.mockOrderRepo.EXPECT().
		FindByID(gomock.Any(), int64(42)).
		Return(nil, domain.ErrRecordNotFound)

	cb := s.signedCallback("42", 128000, int(click.ActionPrepare))

	reply, err := s.service.HandleCallback(s.T().Context(), cb)
	s.Require().NoError(err)
	s.Equal(click.CodeOrderNotFound, reply.Error)
}

func (s *PaymentServiceTestSuite) pendingOrder() *domain.Order {
	return &domain.Order{
		ID:           42,
		UserID:       123,
		ProductTitle: "Landing Page",
		AmountUSD:    decimal.NewFromInt(10),
		Status:       domain.OrderStatusPending,
	}
}

func (s *PaymentServiceTestSuite) TestHandleCallback_Prepare() {
	cases := []struct {
		name     string
		status   domain.OrderStatusType
		amount   float64
		wantCode int
	}{
		// $10 * 12800 = 128000; допуск один сум
		{name: "success", status: domain.OrderStatusPending, amount: 128000, wantCode: click.CodeSuccess},
		{name: "rounding within tolerance", status: domain.OrderStatusPending, amount: 128001, wantCode: click.CodeSuccess},
		{name: "amount mismatch", status: domain.OrderStatusPending, amount: 130000, wantCode: click.CodeIncorrectAmount},
		{name: "already paid", status: domain.OrderStatusPaid, amount: 128000, wantCode: click.CodeAlreadyPaid},
		{name: "cancelled", status: domain.OrderStatusCancelled, amount: 128000, wantCode: click.CodeTransactionCanceled},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			order := s.pendingOrder()
			order.Status = tc.status

			s.expectSecret(testSecret)
			s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)

			cb := s.signedCallback("42", tc.amount, int(click.ActionPrepare))

			reply, err := s.service.HandleCallback(s.T().Context(), cb)
			s.Require().NoError(err)
			s.Equal(tc.wantCode, reply.Error)
			s.Require().NotNil(reply.MerchantPrepareID)
			s.Equal(order.ID, *reply.MerchantPrepareID)
			s.Equal(cb.ClickTransID, reply.ClickTransID)
		})
	}
}

func (s *PaymentServiceTestSuite) TestHandleCallback_CompleteSuccess() {
	order := s.pendingOrder()

	s.expectSecret(testSecret)
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)

	paid := *order
	paid.Status = domain.OrderStatusPaid
	s.mockOrderRepo.EXPECT().
		TransitionStatus(gomock.Any(), order.ID, domain.OrderStatusPending, domain.OrderStatusPaid).
		Return(&paid, nil)

	cb := s.signedCallback("42", 128000, int(click.ActionComplete))

	reply, err := s.service.HandleCallback(s.T().Context(), cb)
	s.Require().NoError(err)
	s.Equal(click.CodeSuccess, reply.Error)
	s.Require().NotNil(reply.MerchantConfirmID)
	s.Equal(order.ID, *reply.MerchantConfirmID)
}

func (s *PaymentServiceTestSuite) TestHandleCallback_CompleteReplay() {
	order := s.pendingOrder()
	order.Status = domain.OrderStatusPaid

	s.expectSecret(testSecret)
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)

	cb := s.signedCallback("42", 128000, int(click.ActionComplete))

	reply, err := s.service.HandleCallback(s.T().Context(), cb)
	s.Require().NoError(err)
	s.Equal(click.CodeAlreadyPaid, reply.Error)
}

func (s *PaymentServiceTestSuite) TestHandleCallback_CompleteLostRace() {
	// между FindByID и условным UPDATE заказ успел стать paid
	order := s.pendingOrder()

	s.expectSecret(testSecret)
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)
	s.mockOrderRepo.EXPECT().
		TransitionStatus(gomock.Any(), order.ID, domain.OrderStatusPending, domain.OrderStatusPaid).
		Return(nil, domain.ErrRecordNotFound)

	paid := *order
	paid.Status = domain.OrderStatusPaid
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), order.ID).Return(&paid, nil)

	cb := s.signedCallback("42", 128000, int(click.ActionComplete))

	reply, err := s.service.HandleCallback(s.T().Context(), cb)
	s.Require().NoError(err)
	s.Equal(click.CodeAlreadyPaid, reply.Error)
}

func (s *PaymentServiceTestSuite) TestHandleCallback_CompleteGatewayError() {
	order := s.pendingOrder()

	s.expectSecret(testSecret)
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)
	s.mockOrderRepo.EXPECT().
		TransitionStatus(gomock.Any(), order.ID, domain.OrderStatusPending, domain.OrderStatusCancelled).
		Return(&domain.Order{ID: order.ID, Status: domain.OrderStatusCancelled}, nil)

	cb := s.signedCallback("42", 128000, int(click.ActionComplete))
	cb.Error = -1
	cb.SignString = cb.Sign(testSecret)

	reply, err := s.service.HandleCallback(s.T().Context(), cb)
	s.Require().NoError(err)
	s.Equal(click.CodeSuccess, reply.Error)
	s.Equal("Cancelled", reply.ErrorNote)
}

func (s *PaymentServiceTestSuite) TestHandleCallback_UnknownAction() {
	order := s.pendingOrder()

	s.expectSecret(testSecret)
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil)

	cb := s.signedCallback("42", 128000, 5)

	reply, err := s.service.HandleCallback(s.T().Context(), cb)
	s.Require().NoError(err)
	s.Equal(click.CodeUnknownAction, reply.Error)
}

func (s *PaymentServiceTestSuite) TestHandleCallback_InfraError() {
	s.mockSettingsRepo.EXPECT().
		Get(gomock.Any(), SettingClickSecretKey).
		Return("", domain.ErrUnknown)

	cb := s.signedCallback("42", 128000, int(click.ActionPrepare))

	_, err := s.service.HandleCallback(s.T().Context(), cb)
	s.Require().ErrorIs(err, domain.ErrUnknown)
}
