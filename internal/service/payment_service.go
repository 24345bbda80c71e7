package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/internal/transport/click"
	"github.com/layzzbe/market/pkg/money"
	"github.com/layzzbe/market/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Шлюз присылает сумму в целых сумах, мы пересчитываем ее из USD - допускаем
// расхождение в один сум на округление.
var amountTolerance = decimal.NewFromInt(1)

// PaymentService сверяет prepare/complete колбэки шлюза с нашими заказами.
// Бизнес-исходы кодируются в Reply; ошибка возвращается только при сбое
// инфраструктуры, чтобы шлюз получил 5xx и повторил доставку.
type PaymentService struct {
	uow       uow.UOW
	orderRepo OrderRepository
	settings  *SettingsService
	converter money.Converter
	notifier  Notifier
	l         *logrus.Entry
}

func NewPaymentService(
	u uow.UOW,
	settings *SettingsService,
	converter money.Converter,
	notifier Notifier,
	l *logrus.Logger,
) (*PaymentService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &PaymentService{
		uow:       u,
		orderRepo: orderRepo,
		settings:  settings,
		converter: converter,
		notifier:  notifier,
		l:         l.WithField("component", "payment"),
	}, nil
}

// HandleCallback обрабатывает колбэк шлюза. Подпись проверяется до любого
// обращения к заказу; неподписанные и неподписываемые (нет секрета) запросы
// отклоняются одинаково.
func (s *PaymentService) HandleCallback(ctx context.Context, cb click.Callback) (click.Reply, error) {
	secret, secretErr := s.settings.GatewaySecret(ctx)
	if secretErr != nil {
		return click.Reply{}, fmt.Errorf("handling gateway callback: %w", secretErr)
	}
	if !cb.VerifySign(secret) {
		s.l.WithField("click_trans_id", cb.ClickTransID).Warn("callback signature rejected")
		return cb.Reply(click.CodeSignatureFailed, "SIGN CHECK FAILED"), nil
	}

	orderID, parseErr := strconv.ParseInt(cb.MerchantTransID, 10, 64)
	if parseErr != nil {
		return cb.Reply(click.CodeInvalidMerchantID, "Invalid merchant_trans_id"), nil
	}

	order, findErr := s.orderRepo.FindByID(ctx, orderID)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			return cb.Reply(click.CodeOrderNotFound, "Order not found"), nil
		}
		return click.Reply{}, fmt.Errorf("handling gateway callback: %w", findErr)
	}

	switch click.ActionType(cb.Action) {
	case click.ActionPrepare:
		return s.prepare(cb, order), nil
	case click.ActionComplete:
		return s.complete(ctx, cb, order)
	}
	return cb.Reply(click.CodeUnknownAction, "Unknown action"), nil
}

// prepare проверяет, что заказ готов к оплате и сумма совпадает с нашей.
func (s *PaymentService) prepare(cb click.Callback, order *domain.Order) click.Reply {
	switch order.Status {
	case domain.OrderStatusPaid:
		return cb.Reply(click.CodeAlreadyPaid, "Already paid").WithPrepareID(order.ID)
	case domain.OrderStatusPending:
	default:
		return cb.Reply(click.CodeTransactionCanceled, "Transaction cancelled").WithPrepareID(order.ID)
	}

	expectedUZS := s.converter.UZSFromUSD(order.AmountUSD)
	gotUZS := decimal.NewFromFloat(cb.Amount)
	if gotUZS.Sub(expectedUZS).Abs().GreaterThan(amountTolerance) {
		return cb.Reply(click.CodeIncorrectAmount, "Incorrect parameter amount").WithPrepareID(order.ID)
	}
	return cb.Reply(click.CodeSuccess, "Success").WithPrepareID(order.ID)
}

// complete закрывает заказ. Переход pending->paid выполняется условным UPDATE,
// поэтому повторная доставка колбэка не подтвердит заказ дважды.
func (s *PaymentService) complete(ctx context.Context, cb click.Callback, order *domain.Order) (click.Reply, error) {
	if cb.Error < 0 {
		// Шлюз сам сообщил об отмене. Если заказ уже не pending, переход
		// молча не сработает, ответ от этого не меняется.
		if _, trErr := s.orderRepo.TransitionStatus(
			ctx, order.ID, domain.OrderStatusPending, domain.OrderStatusCancelled,
		); trErr != nil && !errors.Is(trErr, domain.ErrRecordNotFound) {
			return click.Reply{}, fmt.Errorf("handling gateway callback: %w", trErr)
		}
		return cb.Reply(click.CodeSuccess, "Cancelled").WithConfirmID(order.ID), nil
	}

	if order.Status == domain.OrderStatusPaid {
		return cb.Reply(click.CodeAlreadyPaid, "Already paid").WithConfirmID(order.ID), nil
	}

	paid, trErr := s.orderRepo.TransitionStatus(ctx, order.ID, domain.OrderStatusPending, domain.OrderStatusPaid)
	if trErr != nil {
		if !errors.Is(trErr, domain.ErrRecordNotFound) {
			return click.Reply{}, fmt.Errorf("handling gateway callback: %w", trErr)
		}
		// Переход не сработал: заказ ушел из pending между чтением и UPDATE.
		current, refetchErr := s.orderRepo.FindByID(ctx, order.ID)
		if refetchErr != nil {
			return click.Reply{}, fmt.Errorf("handling gateway callback: %w", refetchErr)
		}
		if current.Status == domain.OrderStatusPaid {
			return cb.Reply(click.CodeAlreadyPaid, "Already paid").WithConfirmID(order.ID), nil
		}
		return cb.Reply(click.CodeTransactionCanceled, "Transaction cancelled").WithConfirmID(order.ID), nil
	}

	go s.notifier.Notify(context.WithoutCancel(ctx), fmt.Sprintf(
		"✅ <b>To'lov tasdiqlandi!</b>\n🆔 Order: #%d\n📦 %s\n💰 %s so'm\n🏦 Click Trans: %d",
		paid.ID,
		paid.ProductTitle,
		decimal.NewFromFloat(cb.Amount).StringFixed(0),
		cb.ClickTransID,
	))

	return cb.Reply(click.CodeSuccess, "Success").WithConfirmID(order.ID), nil
}
