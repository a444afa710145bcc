package middleware

import (
	"time"

	"github.com/LovationAdmin/device-compare-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs it once served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		c.Next()

		utils.LogAPIRequest(c.Request.Method, c.Request.URL.RequestURI(), c.ClientIP(), c.Writer.Status(), time.Since(start))
	}
}
