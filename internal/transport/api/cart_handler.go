package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/service"
)

type CartHandler struct {
	svs CartServicer
}

func NewCartHandler(svs CartServicer) *CartHandler {
	return &CartHandler{
		svs: svs,
	}
}

type CartEntryResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int32           `json:"quantity"`
	PriceUSD string          `json:"price_usd"`
	TotalUSD string          `json:"total_usd"`
	TotalUZS string          `json:"total_uzs"`
}

type CartResponse struct {
	Items    []CartEntryResponse `json:"items"`
	TotalUSD string              `json:"total_usd"`
	TotalUZS string              `json:"total_uzs"`
}

func newCartResponse(cart service.Cart) CartResponse {
	items := make([]CartEntryResponse, len(cart.Entries))
	for i, entry := range cart.Entries {
		items[i] = CartEntryResponse{
			Product:  newProductResponse(entry.Product),
			Quantity: entry.Quantity,
			PriceUSD: entry.PriceUSD.StringFixed(2),
			TotalUSD: entry.TotalUSD.StringFixed(2),
			TotalUZS: entry.TotalUZS.StringFixed(0),
		}
	}
	return CartResponse{
		Items:    items,
		TotalUSD: cart.TotalUSD.StringFixed(2),
		TotalUZS: cart.TotalUZS.StringFixed(0),
	}
}

func (h *CartHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	cart, err := h.svs.Get(ctx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newCartResponse(*cart))
}

type AddToCartParams struct {
	ProductID int64 `binding:"required,gt=0" json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

func (h *CartHandler) Add(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params AddToCartParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if params.Quantity == 0 {
		params.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Add(ctx, currentUserID, params.ProductID, params.Quantity); err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Mahsulot topilmadi"})
		case errors.Is(err, domain.ErrInvalidQuantity):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Miqdor 0 dan katta bo'lishi kerak"})
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Savatchaga qo'shildi"})
}

type SetQuantityParams struct {
	Quantity int32 `json:"quantity"`
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	var params SetQuantityParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.SetQuantity(ctx, currentUserID, productID, params.Quantity); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuantity):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Miqdor manfiy bo'lishi mumkin emas"})
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Savatchada bunday mahsulot yo'q"})
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Miqdor yangilandi"})
}

func (h *CartHandler) Remove(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Remove(ctx, currentUserID, productID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Savatchada bunday mahsulot yo'q"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Savatchadan o'chirildi"})
}
