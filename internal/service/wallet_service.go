package service

import (
	"context"
	"fmt"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/pkg/uow"
	"github.com/shopspring/decimal"
)

// WalletService управляет балансом кошелька и журналом транзакций.
// Баланс меняется только через условный UPDATE в репозитории, поэтому
// параллельные операции не могут увести его в минус.
type WalletService struct {
	uow      uow.UOW
	userRepo UserRepository
	txRepo   TransactionRepository
}

func NewWalletService(u uow.UOW) (*WalletService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	txRepo, txRepoErr := uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if txRepoErr != nil {
		return nil, txRepoErr
	}
	return &WalletService{
		uow:      u,
		userRepo: userRepo,
		txRepo:   txRepo,
	}, nil
}

// GetBalance читает актуальный баланс напрямую из базы.
func (s *WalletService) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("getting balance: %w", err)
	}
	return balance, nil
}

func (s *WalletService) GetTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	transactions, err := s.txRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return transactions, nil
}

// TopUp пополняет кошелек на amount сумов. Начисление и запись в журнал
// фиксируются одной транзакцией.
func (s *WalletService) TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("topping up wallet: %w", domain.ErrInvalidAmount)
	}

	var newBalance decimal.Decimal
	doErr := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr
		}
		txRepo, txRepoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if txRepoErr != nil {
			return txRepoErr
		}

		balance, adjErr := userRepo.AdjustBalance(ctx, userID, amount)
		if adjErr != nil {
			return adjErr
		}
		newBalance = balance

		_, createErr := txRepo.Create(ctx, repoargs.CreateTransaction{
			UserID:      userID,
			Type:        domain.TransactionTopup,
			Amount:      amount,
			Currency:    domain.CurrencyUZS,
			Description: fmt.Sprintf("Hamyonga +%s so'm qo'shildi", amount.StringFixed(0)),
		})
		return createErr
	})
	if doErr != nil {
		return decimal.Zero, fmt.Errorf("topping up wallet: %w", doErr)
	}
	return newBalance, nil
}
