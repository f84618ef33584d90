package middleware

import (
	"context"
	"strings"

	"github.com/zihao-lin/photoframe/internal/pkg/ctxkey"
	"github.com/zihao-lin/photoframe/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns every request an id and injects a request-scoped logger
// into the request context. The id is echoed back in the response header so
// frontend reports can be matched against server logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request == nil {
			c.Next()
			return
		}

		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		requestLogger := logger.L().With(
			zap.String("component", "http"),
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)

		ctx := context.WithValue(c.Request.Context(), ctxkey.RequestID, requestID)
		ctx = logger.WithContext(ctx, requestLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
