package middlewares

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminRequired пускает дальше только администраторов. Роль проверяется свежим
// чтением из базы: разжалованный админ теряет доступ без перевыпуска токена.
// Ставится после AuthRequired.
func AdminRequired(isAdmin func(ctx context.Context, userID int64) (bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exist := c.Get(CurrentUserIDKey)
		userID, ok := userIDVal.(int64)
		if !exist || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		admin, err := isAdmin(c, userID)
		if err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
			return
		}
		if !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Faqat adminlar uchun"})
			return
		}
		c.Next()
	}
}
