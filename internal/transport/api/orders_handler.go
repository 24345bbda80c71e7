package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layzzbe/market/internal/domain"
	"github.com/layzzbe/market/internal/service"
)

type OrdersHandler struct {
	orderSvs    OrderServicer
	checkoutSvs CheckoutServicer
}

func NewOrdersHandler(orderSvs OrderServicer, checkoutSvs CheckoutServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs:    orderSvs,
		checkoutSvs: checkoutSvs,
	}
}

// Index GET RouteGroup + OrdersRoute. История заказов текущего пользователя.
func (h *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := h.orderSvs.GetUserOrders(ctx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newOrderListResponse(orders))
}

type CartLineParams struct {
	ProductID int64 `binding:"required,gt=0" json:"product_id"`
	Quantity  int32 `binding:"required"      json:"quantity"`
}

type CheckoutParams struct {
	CartItems []CartLineParams `binding:"required" json:"cart_items"`
}

func (p CheckoutParams) toLines() []service.CartLine {
	lines := make([]service.CartLine, len(p.CartItems))
	for i, item := range p.CartItems {
		lines[i] = service.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return lines
}

// PayWithWallet POST RouteGroup + WalletPaymentRoute. Мгновенная покупка
// корзины с кошелька. Суммы пересчитываются сервером из каталога.
func (h *OrdersHandler) PayWithWallet(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params CheckoutParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	result, err := h.checkoutSvs.PayWithWallet(ctx, currentUserID, params.toLines())
	if err != nil {
		var insufficientErr *domain.InsufficientFundsError
		switch {
		case errors.As(err, &insufficientErr):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":    "Hamyonda mablag' yetarli emas",
				"balance":  insufficientErr.Balance.StringFixed(0),
				"required": insufficientErr.Required.StringFixed(0),
			})
		case errors.Is(err, domain.ErrEmptyCart):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Savatcha bo'sh"})
		case errors.Is(err, domain.ErrInvalidQuantity):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Miqdor 0 dan katta bo'lishi kerak"})
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Mahsulot topilmadi"})
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Xarid muvaffaqiyatli amalga oshirildi!",
		"new_balance":     result.NewBalance.StringFixed(0),
		"total_uzs":       result.TotalUZS.StringFixed(0),
		"items_purchased": result.ItemsPurchased,
		"order_ids":       result.OrderIDs,
	})
}

// GeneratePaymentLink POST RouteGroup + PaymentLinkRoute. Создает pending-заказ
// и возвращает ссылку на страницу оплаты Click.
func (h *OrdersHandler) GeneratePaymentLink(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params CheckoutParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	result, err := h.checkoutSvs.CreatePaymentLink(ctx, currentUserID, params.toLines())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGatewayNotConfigured):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Click tizimi sozlanmagan. Admin panelda Click sozlamalarini kiriting.",
			})
		case errors.Is(err, domain.ErrEmptyCart):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Savatcha bo'sh"})
		case errors.Is(err, domain.ErrInvalidQuantity):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Miqdor 0 dan katta bo'lishi kerak"})
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Mahsulot topilmadi"})
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_url": result.PaymentURL,
		"order_id":    result.OrderID,
		"total_uzs":   result.TotalUZS.StringFixed(0),
	})
}
