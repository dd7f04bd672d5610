package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duc135790/smartstore/pkg/metrics"
)

// Metrics HTTP指标中间件
// 教学要点:
// 1. path标签使用路由模板(c.FullPath())而不是真实URL,
//    否则/orders/1、/orders/2会产生无界的标签基数
// 2. 未匹配到路由的请求(404)统一归到"unmatched"
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.HTTPRequestsInProgress.Inc()
		defer metrics.HTTPRequestsInProgress.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
