package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"accountapp/internal/core/apperror"
	"accountapp/internal/core/model/response"
)

const MsgInternal = "Internal server error"

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, response.ErrorResponse{Error: message})
}

func SendBadRequestError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

// SendInternalError logs err and answers with the generic message only.
func SendInternalError(c *gin.Context, logger *otelzap.Logger, err error) {
	logger.Ctx(c.Request.Context()).Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))

	SendError(c, http.StatusInternalServerError, MsgInternal)
}

// SendAppError picks the status from the error kind. Anything that is not an
// AppError, and every internal AppError, is logged and reported as a 500.
func SendAppError(c *gin.Context, logger *otelzap.Logger, err error) {
	appErr, ok := apperror.As(err)

	if !ok {
		SendInternalError(c, logger, err)
		return
	}

	status := StatusFor(appErr)

	if status == http.StatusInternalServerError {
		logger.Ctx(c.Request.Context()).Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}

	SendError(c, status, appErr.Message)
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
