package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layzzbe/market/internal/domain"
)

type WishlistHandler struct {
	svs WishlistServicer
}

func NewWishlistHandler(svs WishlistServicer) *WishlistHandler {
	return &WishlistHandler{
		svs: svs,
	}
}

func (h *WishlistHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	products, err := h.svs.Get(ctx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newProductListResponse(products))
}

// Toggle POST RouteGroup + WishlistItemRoute. Добавляет товар в избранное
// либо убирает, если он уже там.
func (h *WishlistHandler) Toggle(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	added, err := h.svs.Toggle(ctx, currentUserID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Mahsulot topilmadi"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"in_wishlist": added})
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Remove(ctx, currentUserID, productID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Sevimlilarda bunday mahsulot yo'q"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sevimlilardan o'chirildi"})
}
