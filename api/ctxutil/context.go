// Package ctxutil carries the request id from a gin context into the
// plain context.Context that the service layer and journal backends
// accept, so it shows up in logs emitted far below the HTTP handler.
//
// The context key itself lives in pkg/logger rather than here, so a
// gorm query issued deep inside a journal backend can recover the same
// request id through logger.RequestIDFromContext without this package
// needing to be imported below the HTTP layer.
package ctxutil

import (
	"context"

	"ordercore/api/response"
	"ordercore/pkg/logger"

	"github.com/gin-gonic/gin"
)

// WithRequestID returns ctx.Request.Context() annotated with the
// request id gin's context carries.
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return logger.ContextWithRequestID(ctx.Request.Context(), requestID)
}

// RequestIDFromContext returns the request id WithRequestID attached,
// or "" if none was attached.
func RequestIDFromContext(ctx context.Context) string {
	return logger.RequestIDFromContext(ctx)
}
