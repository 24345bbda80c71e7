package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/pkg/money"
	"github.com/layzzbe/market/pkg/uow"
	"github.com/shopspring/decimal"
)

// CartService управляет корзиной. Корзина хранит только ссылки на каталог,
// цены подставляются при чтении и при чекауте.
type CartService struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	converter   money.Converter
}

func NewCartService(u uow.UOW, converter money.Converter) (*CartService, error) {
	cartRepo, cartRepoErr := uow.GetRepositoryAs[CartRepository](u, uow.RepositoryName(repoargs.CartRepoName))
	if cartRepoErr != nil {
		return nil, cartRepoErr
	}
	productRepo, productRepoErr := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if productRepoErr != nil {
		return nil, productRepoErr
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		converter:   converter,
	}, nil
}

// CartEntry - позиция корзины, обогащенная данными каталога и актуальной ценой.
type CartEntry struct {
	Product  domain.Product
	Quantity int32
	PriceUSD decimal.Decimal
	TotalUSD decimal.Decimal
	TotalUZS decimal.Decimal
}

// Cart - корзина целиком с итоговыми суммами в обеих валютах.
type Cart struct {
	Entries  []CartEntry
	TotalUSD decimal.Decimal
	TotalUZS decimal.Decimal
}

// Get возвращает корзину с актуальными ценами каталога. Позиции, чьи товары
// удалены из каталога, молча выбрасываются из выдачи.
func (s *CartService) Get(ctx context.Context, userID int64) (*Cart, error) {
	items, itemsErr := s.cartRepo.GetByUserID(ctx, userID)
	if itemsErr != nil {
		return nil, fmt.Errorf("getting cart: %w", itemsErr)
	}

	cart := &Cart{Entries: make([]CartEntry, 0, len(items))}
	for _, item := range items {
		product, productErr := s.productRepo.FindByID(ctx, item.ProductID)
		if productErr != nil {
			if errors.Is(productErr, domain.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("getting cart: %w", productErr)
		}

		priceUSD := money.ParsePrice(product.Price)
		totalUSD := priceUSD.Mul(decimal.NewFromInt32(item.Quantity))
		entry := CartEntry{
			Product:  *product,
			Quantity: item.Quantity,
			PriceUSD: priceUSD,
			TotalUSD: totalUSD,
			TotalUZS: s.converter.UZSFromUSD(totalUSD),
		}
		cart.Entries = append(cart.Entries, entry)
		cart.TotalUSD = cart.TotalUSD.Add(entry.TotalUSD)
	}
	cart.TotalUZS = s.converter.UZSFromUSD(cart.TotalUSD)
	return cart, nil
}

// Add добавляет товар в корзину. Повторное добавление увеличивает количество.
func (s *CartService) Add(ctx context.Context, userID, productID int64, quantity int32) error {
	if quantity <= 0 {
		return fmt.Errorf("adding to cart: %w", domain.ErrInvalidQuantity)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("adding to cart: %w", &domain.ProductNotFoundError{ProductID: productID})
		}
		return fmt.Errorf("adding to cart: %w", err)
	}
	if err := s.cartRepo.Upsert(ctx, userID, productID, quantity); err != nil {
		return fmt.Errorf("adding to cart: %w", err)
	}
	return nil
}

// SetQuantity выставляет точное количество. Ноль удаляет позицию.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID int64, quantity int32) error {
	if quantity < 0 {
		return fmt.Errorf("updating cart quantity: %w", domain.ErrInvalidQuantity)
	}
	if quantity == 0 {
		return s.Remove(ctx, userID, productID)
	}
	if err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return fmt.Errorf("updating cart quantity: %w", err)
	}
	return nil
}

func (s *CartService) Remove(ctx context.Context, userID, productID int64) error {
	if err := s.cartRepo.Delete(ctx, userID, productID); err != nil {
		return fmt.Errorf("removing from cart: %w", err)
	}
	return nil
}
