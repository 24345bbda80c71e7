package api

import (
	"time"

	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/service"
)

type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		FullName:  u.FullName,
		Phone:     u.Phone,
		Balance:   u.Balance.StringFixed(0),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

type ProfileResponse struct {
	UserResponse
	OrdersCount   int64  `json:"orders_count"`
	TotalSpentUSD string `json:"total_spent_usd"`
}

func newProfileResponse(p service.Profile) ProfileResponse {
	return ProfileResponse{
		UserResponse:  newUserResponse(p.User),
		OrdersCount:   p.OrdersCount,
		TotalSpentUSD: p.TotalSpentUSD.StringFixed(2),
	}
}

type ProductResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	TechStack   []string `json:"techStack"`
	Features    []string `json:"features"`
}

func newProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		TechStack:   p.TechStack,
		Features:    p.Features,
	}
}

func newProductListResponse(products []domain.Product) []ProductResponse {
	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = newProductResponse(p)
	}
	return response
}

type OrderResponse struct {
	ID              int64  `json:"id"`
	ProductTitle    string `json:"product_title"`
	ProductImage    string `json:"product_image"`
	ProductCategory string `json:"product_category"`
	AmountUSD       string `json:"amount_usd"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
}

func newOrderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		ProductTitle:    o.ProductTitle,
		ProductImage:    o.ProductImage,
		ProductCategory: o.ProductCategory,
		AmountUSD:       o.AmountUSD.Round(2).StringFixed(2),
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}

func newOrderListResponse(orders []domain.Order) []OrderResponse {
	response := make([]OrderResponse, len(orders))
	for i, o := range orders {
		response[i] = newOrderResponse(o)
	}
	return response
}

type TransactionResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func newTransactionListResponse(transactions []domain.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		response[i] = TransactionResponse{
			ID:          t.ID,
			Type:        string(t.Type),
			Amount:      t.Amount.StringFixed(0),
			Currency:    t.Currency,
			Description: t.Description,
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		}
	}
	return response
}
