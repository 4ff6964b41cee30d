package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestTimeout puts a deadline of limit on the request context. Handlers see it
// through ctx.Request.Context(); a non-positive limit leaves the context untouched.
func RequestTimeout(limit time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if limit <= 0 {
			ctx.Next()
			return
		}
		reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), limit)
		defer cancel()
		ctx.Request = ctx.Request.WithContext(reqCtx)
		ctx.Next()
	}
}
