package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/internal/transport/click"
	"github.com/layzzbe/market/pkg/money"
	"github.com/layzzbe/market/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CartLine - позиция чекаута в том виде, в каком ее присылает клиент.
// Цены клиенту не доверяются: все суммы пересчитываются из каталога.
type CartLine struct {
	ProductID int64
	Quantity  int32
}

// CheckoutService проводит покупки: мгновенное списание с кошелька либо
// выпуск платежной ссылки внешнего шлюза с отложенным подтверждением.
type CheckoutService struct {
	uow         uow.UOW
	userRepo    UserRepository
	productRepo ProductRepository
	orderRepo   OrderRepository
	settings    *SettingsService
	converter   money.Converter
	notifier    Notifier
	returnURL   string
	l           *logrus.Entry
}

func NewCheckoutService(
	u uow.UOW,
	settings *SettingsService,
	converter money.Converter,
	notifier Notifier,
	returnURL string,
	l *logrus.Logger,
) (*CheckoutService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	productRepo, productRepoErr := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if productRepoErr != nil {
		return nil, productRepoErr
	}
	orderRepo, orderRepoErr := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr
	}
	return &CheckoutService{
		uow:         u,
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		settings:    settings,
		converter:   converter,
		notifier:    notifier,
		returnURL:   returnURL,
		l:           l.WithField("component", "checkout"),
	}, nil
}

// pricedLine - позиция после сверки с каталогом.
type pricedLine struct {
	product  domain.Product
	quantity int32
	totalUSD decimal.Decimal
}

// priceLines валидирует позиции и пересчитывает суммы по текущим ценам каталога.
func (s *CheckoutService) priceLines(ctx context.Context, lines []CartLine) ([]pricedLine, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, domain.ErrEmptyCart
	}

	priced := make([]pricedLine, 0, len(lines))
	totalUSD := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, decimal.Zero, domain.ErrInvalidQuantity
		}
		product, productErr := s.productRepo.FindByID(ctx, line.ProductID)
		if productErr != nil {
			if errors.Is(productErr, domain.ErrRecordNotFound) {
				return nil, decimal.Zero, &domain.ProductNotFoundError{ProductID: line.ProductID}
			}
			return nil, decimal.Zero, productErr
		}

		lineTotal := money.ParsePrice(product.Price).Mul(decimal.NewFromInt32(line.Quantity)).Round(4)
		priced = append(priced, pricedLine{
			product:  *product,
			quantity: line.Quantity,
			totalUSD: lineTotal,
		})
		totalUSD = totalUSD.Add(lineTotal)
	}
	return priced, totalUSD, nil
}

// summarize собирает краткое описание покупки: первые три названия и счетчик
// остальных.
func summarize(lines []pricedLine) string {
	titles := make([]string, 0, 3)
	for i, line := range lines {
		if i == 3 {
			break
		}
		titles = append(titles, line.product.Title)
	}
	summary := strings.Join(titles, ", ")
	if rest := len(lines) - 3; rest > 0 {
		summary += fmt.Sprintf(" va yana %d ta", rest)
	}
	return summary
}

// WalletCheckoutResult - итог мгновенной покупки с кошелька.
type WalletCheckoutResult struct {
	NewBalance     decimal.Decimal
	OrderIDs       []int64
	ItemsPurchased int
	TotalUZS       decimal.Decimal
}

// PayWithWallet списывает стоимость корзины с кошелька и создает по заказу на
// каждую позицию плюс одну запись PURCHASE в журнале. Все записи фиксируются
// одной транзакцией; недостаток средств откатывает все целиком.
func (s *CheckoutService) PayWithWallet(ctx context.Context, userID int64, lines []CartLine) (*WalletCheckoutResult, error) {
	priced, totalUSD, priceErr := s.priceLines(ctx, lines)
	if priceErr != nil {
		return nil, fmt.Errorf("wallet checkout: %w", priceErr)
	}
	totalUZS := s.converter.UZSFromUSD(totalUSD)

	user, userErr := s.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("wallet checkout: %w", userErr)
	}

	summary := summarize(priced)
	result := &WalletCheckoutResult{
		ItemsPurchased: len(priced),
		TotalUZS:       totalUZS,
	}

	doErr := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr
		}
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr
		}
		txRepo, txRepoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if txRepoErr != nil {
			return txRepoErr
		}
		cartRepo, cartRepoErr := uow.GetAs[CartRepository](tx, uow.RepositoryName(repoargs.CartRepoName))
		if cartRepoErr != nil {
			return cartRepoErr
		}

		// Условное списание: при нехватке средств строка не обновится и
		// придет ErrRecordNotFound. Юзер существует (проверен выше), значит
		// причина ровно одна.
		newBalance, adjErr := userRepo.AdjustBalance(ctx, userID, totalUZS.Neg())
		if adjErr != nil {
			if errors.Is(adjErr, domain.ErrRecordNotFound) {
				balance, balanceErr := userRepo.GetBalance(ctx, userID)
				if balanceErr != nil {
					return balanceErr
				}
				return &domain.InsufficientFundsError{Balance: balance, Required: totalUZS}
			}
			return adjErr
		}
		result.NewBalance = newBalance

		for _, line := range priced {
			order, createErr := orderRepo.Create(ctx, repoargs.CreateOrder{
				UserID:          userID,
				ProductTitle:    line.product.Title,
				ProductImage:    line.product.Image,
				ProductCategory: line.product.Category,
				AmountUSD:       line.totalUSD,
				Status:          domain.OrderStatusCompleted,
			})
			if createErr != nil {
				return createErr
			}
			result.OrderIDs = append(result.OrderIDs, order.ID)
		}

		_, txErr := txRepo.Create(ctx, repoargs.CreateTransaction{
			UserID:      userID,
			Type:        domain.TransactionPurchase,
			Amount:      totalUZS,
			Currency:    domain.CurrencyUZS,
			Description: fmt.Sprintf("Xarid: %s - %s so'm", summary, totalUZS.StringFixed(0)),
		})
		if txErr != nil {
			return txErr
		}

		for _, line := range priced {
			if delErr := cartRepo.Delete(ctx, userID, line.product.ID); delErr != nil &&
				!errors.Is(delErr, domain.ErrRecordNotFound) {
				return delErr
			}
		}
		return nil
	})
	if doErr != nil {
		return nil, fmt.Errorf("wallet checkout: %w", doErr)
	}

	// Уведомление после коммита: его судьба не влияет на покупку.
	go s.notifier.Notify(context.WithoutCancel(ctx), fmt.Sprintf(
		"🛒 <b>Yangi xarid!</b>\n👤 Foydalanuvchi: %s\n📦 Mahsulotlar: %s\n💰 Jami: %s so'm ($%s)\n💳 Qoldiq: %s so'm",
		user.Email,
		summary,
		totalUZS.StringFixed(0),
		totalUSD.Round(2).String(),
		result.NewBalance.StringFixed(0),
	))

	return result, nil
}

// PaymentLinkResult - выпущенная ссылка и созданный под нее pending-заказ.
type PaymentLinkResult struct {
	PaymentURL string
	OrderID    int64
	TotalUZS   decimal.Decimal
}

// CreatePaymentLink создает один агрегированный pending-заказ на всю корзину и
// строит ссылку оплаты Click. Если учетные данные шлюза не настроены, заказ
// удаляется компенсирующим действием и возвращается ErrGatewayNotConfigured.
func (s *CheckoutService) CreatePaymentLink(ctx context.Context, userID int64, lines []CartLine) (*PaymentLinkResult, error) {
	priced, totalUSD, priceErr := s.priceLines(ctx, lines)
	if priceErr != nil {
		return nil, fmt.Errorf("creating payment link: %w", priceErr)
	}
	totalUZS := s.converter.UZSFromUSD(totalUSD)

	title := priced[0].product.Title
	if rest := len(priced) - 1; rest > 0 {
		title += fmt.Sprintf(" va yana %d ta", rest)
	}

	order, createErr := s.orderRepo.Create(ctx, repoargs.CreateOrder{
		UserID:          userID,
		ProductTitle:    title,
		ProductImage:    priced[0].product.Image,
		ProductCategory: priced[0].product.Category,
		AmountUSD:       totalUSD,
		Status:          domain.OrderStatusPending,
	})
	if createErr != nil {
		return nil, fmt.Errorf("creating payment link: %w", createErr)
	}

	serviceID, merchantID, credErr := s.settings.GatewayCredentials(ctx)
	if credErr != nil {
		// Заказ без ссылки оплачен не будет, подчищаем за собой.
		if delErr := s.orderRepo.Delete(ctx, order.ID); delErr != nil {
			s.l.WithError(delErr).WithField("order_id", order.ID).
				Warn("deleting orphaned pending order")
		}
		return nil, fmt.Errorf("creating payment link: %w", credErr)
	}

	return &PaymentLinkResult{
		PaymentURL: click.PaymentLink(click.PaymentLinkArgs{
			ServiceID:  serviceID,
			MerchantID: merchantID,
			AmountUZS:  totalUZS,
			OrderID:    order.ID,
			ReturnURL:  s.returnURL,
		}),
		OrderID:  order.ID,
		TotalUZS: totalUZS,
	}, nil
}
