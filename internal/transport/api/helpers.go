package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/layzzbe/market/internal/transport/api/middlewares"
)

func getUserIDFromContext(c *gin.Context) int64 {
	userIDVal, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDVal.(int64)
	if !ok {
		return 0
	}
	return userID
}

// pathID разбирает числовой параметр пути. При мусоре в параметре пишет 400 и
// возвращает false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
