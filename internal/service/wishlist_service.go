package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/pkg/uow"
)

type WishlistService struct {
	wishlistRepo WishlistRepository
	productRepo  ProductRepository
}

func NewWishlistService(u uow.UOW) (*WishlistService, error) {
	wishlistRepo, wishlistRepoErr := uow.GetRepositoryAs[WishlistRepository](u, uow.RepositoryName(repoargs.WishlistRepoName))
	if wishlistRepoErr != nil {
		return nil, wishlistRepoErr
	}
	productRepo, productRepoErr := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if productRepoErr != nil {
		return nil, productRepoErr
	}
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}, nil
}

// Get возвращает избранное с данными каталога. Удаленные из каталога товары
// выбрасываются из выдачи.
func (s *WishlistService) Get(ctx context.Context, userID int64) ([]domain.Product, error) {
	items, itemsErr := s.wishlistRepo.GetByUserID(ctx, userID)
	if itemsErr != nil {
		return nil, fmt.Errorf("getting wishlist: %w", itemsErr)
	}

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		product, productErr := s.productRepo.FindByID(ctx, item.ProductID)
		if productErr != nil {
			if errors.Is(productErr, domain.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("getting wishlist: %w", productErr)
		}
		products = append(products, *product)
	}
	return products, nil
}

// Toggle добавляет товар в избранное либо убирает, если он уже там.
// Возвращает true, если товар оказался в избранном после вызова.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID int64) (bool, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return false, fmt.Errorf("toggling wishlist: %w", &domain.ProductNotFoundError{ProductID: productID})
		}
		return false, fmt.Errorf("toggling wishlist: %w", err)
	}

	exists, existsErr := s.wishlistRepo.Exists(ctx, userID, productID)
	if existsErr != nil {
		return false, fmt.Errorf("toggling wishlist: %w", existsErr)
	}

	if exists {
		if err := s.wishlistRepo.Delete(ctx, userID, productID); err != nil {
			return false, fmt.Errorf("toggling wishlist: %w", err)
		}
		return false, nil
	}
	if err := s.wishlistRepo.Add(ctx, userID, productID); err != nil {
		return false, fmt.Errorf("toggling wishlist: %w", err)
	}
	return true, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID int64) error {
	if err := s.wishlistRepo.Delete(ctx, userID, productID); err != nil {
		return fmt.Errorf("removing from wishlist: %w", err)
	}
	return nil
}
