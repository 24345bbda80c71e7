package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/internal/service/mocks"
	"github.com/layzzbe/market/pkg/uow"
	uowmocks "github.com/layzzbe/market/pkg/uow/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type WalletServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUOW      *uowmocks.MockUOW
	mockTX       *uowmocks.MockTX
	mockUserRepo *mocks.MockUserRepository
	mockTxRepo   *mocks.MockTransactionRepository
	service      *WalletService
}

func TestWalletServiceSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}

func (s *WalletServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockTxRepo = mocks.NewMockTransactionRepository(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTxRepo, nil).AnyTimes()

	var err error
	s.service, err = NewWalletService(s.mockUOW)
	s.Require().NoError(err)
}

func (s *WalletServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *WalletServiceTestSuite) TestTopUp() {
	userID := int64(123)
	amount := decimal.NewFromInt(50000)

	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	)
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil)
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTxRepo, nil)

	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, delta decimal.Decimal) (decimal.Decimal, error) {
			s.True(delta.Equal(amount))
			return decimal.NewFromInt(150000), nil
		})

	s.mockTxRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateTransaction) (*domain.Transaction, error) {
			s.Equal(domain.TransactionTopup, args.Type)
			s.Equal(domain.CurrencyUZS, args.Currency)
			s.True(args.Amount.Equal(amount))
			return &domain.Transaction{ID: 1}, nil
		})

	newBalance, err := s.service.TopUp(s.T().Context(), userID, amount)
	s.Require().NoError(err)
	s.True(newBalance.Equal(decimal.NewFromInt(150000)))
}

func (s *WalletServiceTestSuite) TestTopUp_InvalidAmount() {
	cases := []struct {
		name   string
		amount decimal.Decimal
	}{
		{name: "zero", amount: decimal.Zero},
		{name: "negative", amount: decimal.NewFromInt(-100)},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.TopUp(s.T().Context(), 123, tc.amount)
			s.Require().ErrorIs(err, domain.ErrInvalidAmount)
		})
	}
}

func (s *WalletServiceTestSuite) TestGetBalance() {
	s.mockUserRepo.EXPECT().
		GetBalance(gomock.Any(), int64(123)).
		Return(decimal.NewFromInt(77000), nil)

	balance, err := s.service.GetBalance(s.T().Context(), 123)
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(77000)))
}

func (s *WalletServiceTestSuite) TestGetTransactions() {
	expected := []domain.Transaction{
		{ID: 2, Type: domain.TransactionPurchase},
		{ID: 1, Type: domain.TransactionTopup},
	}
	s.mockTxRepo.EXPECT().
		GetByUserID(gomock.Any(), int64(123)).
		Return(expected, nil)

	transactions, err := s.service.GetTransactions(s.T().Context(), 123)
	s.Require().NoError(err)
	s.Equal(expected, transactions)
}
