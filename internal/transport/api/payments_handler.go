package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layzzbe/market/internal/transport/click"
)

type PaymentsHandler struct {
	svs PaymentServicer
}

func NewPaymentsHandler(svs PaymentServicer) *PaymentsHandler {
	return &PaymentsHandler{
		svs: svs,
	}
}

// Webhook POST RouteGroup + ClickWebhookRoute. Принимает form-encoded колбэк
// шлюза. Бизнес-исходы уходят кодами в JSON-ответе со статусом 200; 5xx
// возвращается только при сбое инфраструктуры, чтобы шлюз повторил доставку.
func (h *PaymentsHandler) Webhook(c *gin.Context) {
	var cb click.Callback
	if bindErr := c.ShouldBind(&cb); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	// binding не может требовать action: ноль (Prepare) для валидатора
	// неотличим от пропущенного поля, поэтому присутствие проверяется явно.
	if _, ok := c.GetPostForm("action"); !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	reply, err := h.svs.HandleCallback(ctx, cb)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, reply)
}
