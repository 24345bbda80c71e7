package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layzzbe/market/internal/domain"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	svs WalletServicer
}

func NewWalletHandler(svs WalletServicer) *WalletHandler {
	return &WalletHandler{
		svs: svs,
	}
}

func (h *WalletHandler) Balance(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := h.svs.GetBalance(ctx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance.StringFixed(0)})
}

func (h *WalletHandler) Transactions(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := h.svs.GetTransactions(ctx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newTransactionListResponse(transactions))
}

type TopUpParams struct {
	AmountUZS decimal.Decimal `binding:"required" json:"amount_uzs"`
}

// TopUp POST RouteGroup + WalletTopUpRoute. Пополнение кошелька.
func (h *WalletHandler) TopUp(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params TopUpParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	newBalance, err := h.svs.TopUp(ctx, currentUserID, params.AmountUZS)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Summa 0 dan katta bo'lishi kerak"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Hamyon to'ldirildi",
		"new_balance": newBalance.StringFixed(0),
	})
}
