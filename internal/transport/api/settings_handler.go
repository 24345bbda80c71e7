package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	svs SettingsServicer
}

func NewSettingsHandler(svs SettingsServicer) *SettingsHandler {
	return &SettingsHandler{
		svs: svs,
	}
}

// Public GET RouteGroup + PublicSettingsRoute. Без авторизации отдаются только
// ключи из фиксированного allowlist.
func (h *SettingsHandler) Public(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	settings, err := h.svs.GetPublic(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Index GET админского роута настроек. Отдает все ключи, включая секреты шлюза.
func (h *SettingsHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	settings, err := h.svs.GetAll(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update PUT админского роута настроек. Сохраняет пачку ключей одной
// транзакцией.
func (h *SettingsHandler) Update(c *gin.Context) {
	var params map[string]string
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if len(params) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "empty settings payload"})
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Update(ctx, params); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sozlamalar muvaffaqiyatli saqlandi!", "count": len(params)})
}
