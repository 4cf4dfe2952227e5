package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"accountapp/internal/adapter/http/helper"
)

// RecoveryMiddleware turns a panic in any handler into the generic 500.
func RecoveryMiddleware(logger *otelzap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		helper.SendInternalError(c, logger, fmt.Errorf("panic: %v", recovered))
	})
}
