package service

import (
	"context"
	"fmt"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/pkg/money"
	"github.com/layzzbe/market/pkg/uow"
	"github.com/shopspring/decimal"
)

// OrderService отдает историю заказов и админскую отчетность. Создание и
// переходы статусов заказов принадлежат CheckoutService и PaymentService.
type OrderService struct {
	orderRepo OrderRepository
	converter money.Converter
}

func NewOrderService(u uow.UOW, converter money.Converter) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{orderRepo: orderRepo, converter: converter}, nil
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]repoargs.OrderWithBuyer, error) {
	orders, err := s.orderRepo.GetAllWithBuyers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing all orders: %w", err)
	}
	return orders, nil
}

// AdminStats - статистика панели с выручкой в обеих валютах.
type AdminStats struct {
	UsersCount      int64
	ProductsCount   int64
	OrdersCount     int64
	TotalRevenueUSD decimal.Decimal
	TotalRevenueUZS decimal.Decimal
}

func (s *OrderService) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	stats, err := s.orderRepo.GetAdminStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting admin stats: %w", err)
	}
	revenueUSD := stats.TotalRevenueUSD.Round(2)
	return &AdminStats{
		UsersCount:      stats.UsersCount,
		ProductsCount:   stats.ProductsCount,
		OrdersCount:     stats.OrdersCount,
		TotalRevenueUSD: revenueUSD,
		TotalRevenueUZS: s.converter.UZSFromUSD(revenueUSD),
	}, nil
}
