package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger пишет access-лог в структурированном виде. Приватные ошибки хендлеров
// попадают сюда же, а не в тело ответа.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := l.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"size":     c.Writer.Size(),
		})

		if privateErrs := c.Errors.ByType(gin.ErrorTypePrivate); len(privateErrs) > 0 {
			entry = entry.WithField("errors", privateErrs.String())
		}

		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}
