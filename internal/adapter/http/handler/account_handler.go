package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	. "accountapp/internal/adapter/http/helper"
	"accountapp/internal/core/model/request"
	"accountapp/internal/core/model/response"
	"accountapp/internal/core/port"
	"accountapp/internal/core/util"
)

const (
	MsgSignedUp        = "User created successfully"
	MsgLoggedIn        = "Login successful"
	MsgProfileUpdated  = "Profile updated successfully"
	MsgPasswordChanged = "Password changed successfully"
	MsgUserRetrieved   = "User retrieved successfully"
	MsgInvalidUserID   = "Valid User ID is required"
)

type AccountHandler struct {
	svc    port.AccountService
	logger *otelzap.Logger
}

func NewAccountHandler(svc port.AccountService, logger *otelzap.Logger) *AccountHandler {
	return &AccountHandler{
		svc:    svc,
		logger: logger,
	}
}

func (h *AccountHandler) SignUp(c *gin.Context) {
	params, err := util.ParamsToMap[request.SignUpRequest](c)

	if err != nil {
		SendInternalError(c, h.logger, err)
		return
	}

	user, err := h.svc.SignUp(c.Request.Context(), &params)

	if err != nil {
		SendAppError(c, h.logger, err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.UserEnvelope{
		Message: MsgSignedUp,
		User:    response.NewUserResponse(user),
	})
}

func (h *AccountHandler) Login(c *gin.Context) {
	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		SendInternalError(c, h.logger, err)
		return
	}

	user, err := h.svc.Login(c.Request.Context(), &params)

	if err != nil {
		SendAppError(c, h.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.UserEnvelope{
		Message: MsgLoggedIn,
		User:    response.NewUserResponse(user),
	})
}

func (h *AccountHandler) EditProfile(c *gin.Context) {
	id, ok := userID(c)

	if !ok {
		SendBadRequestError(c, MsgInvalidUserID)
		return
	}

	params, err := util.ParamsToMap[request.EditProfileRequest](c)

	if err != nil {
		SendInternalError(c, h.logger, err)
		return
	}

	user, err := h.svc.EditProfile(c.Request.Context(), id, &params)

	if err != nil {
		SendAppError(c, h.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.UserEnvelope{
		Message: MsgProfileUpdated,
		User:    response.NewUserResponse(user),
	})
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	id, ok := userID(c)

	if !ok {
		SendBadRequestError(c, MsgInvalidUserID)
		return
	}

	params, err := util.ParamsToMap[request.ChangePasswordRequest](c)

	if err != nil {
		SendInternalError(c, h.logger, err)
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), id, &params); err != nil {
		SendAppError(c, h.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.MessageResponse{Message: MsgPasswordChanged})
}

func (h *AccountHandler) GetUser(c *gin.Context) {
	id, ok := userID(c)

	if !ok {
		SendBadRequestError(c, MsgInvalidUserID)
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), id)

	if err != nil {
		SendAppError(c, h.logger, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.UserEnvelope{
		Message: MsgUserRetrieved,
		User:    response.NewUserResponse(user),
	})
}

func (h *AccountHandler) Health(c *gin.Context) {
	SendSuccess(c, http.StatusOK, response.HealthResponse{
		Status:  "OK",
		Message: "API is running",
	})
}

// userID reads the segment after the last "/" of the catch-all id param.
func userID(c *gin.Context) (int, bool) {
	raw := c.Param("id")

	if i := strings.LastIndex(raw, "/"); i >= 0 {
		raw = raw[i+1:]
	}

	return util.ParseUserID(raw)
}
