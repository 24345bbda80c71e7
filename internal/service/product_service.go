package service

import (
	"context"
	"fmt"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/repository/repoargs"
	"github.com/layzzbe/market/pkg/uow"
)

// ProductService - CRUD каталога. С точки зрения чекаута каталог только
// читается; мутации доступны администраторам.
type ProductService struct {
	productRepo ProductRepository
}

func NewProductService(u uow.UOW) (*ProductService, error) {
	productRepo, err := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if err != nil {
		return nil, err
	}
	return &ProductService{productRepo: productRepo}, nil
}

func (s *ProductService) GetAll(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, product domain.Product) (*domain.Product, error) {
	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}
