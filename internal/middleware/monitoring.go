package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"aliasgate/backend/internal/monitoring"
)

// Metrics 记录请求计数与耗时指标的中间件。
// endpoint 维度用路由模板而不是原始路径，避免高基数标签。
func Metrics(m *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}
