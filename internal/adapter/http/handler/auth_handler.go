package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	. "storefront/internal/adapter/http/helper"
	"storefront/internal/core/domain"
	"storefront/internal/core/model/request"
	"storefront/internal/core/model/response"
	"storefront/internal/core/port"
	"storefront/internal/core/service"
)

type AuthHandler struct {
	svc port.AuthService
}

func NewAuthHandler(svc port.AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := BindParams[request.SignUpRequest](c)

	if err != nil {
		SendValidationError(c, err)
		return
	}

	account, err := a.svc.Registration(ctx, domain.AccountDraft{
		Email:                params.Email,
		Password:             params.Password,
		PasswordConfirmation: params.PasswordConfirmation,
		FirstName:            params.FirstName,
		LastName:             params.LastName,
	})

	var violations domain.Violations

	if errors.As(err, &violations) {
		SendViolations(c, violations)
		return
	}

	if err != nil {
		slog.Error("RegisterByEmailAndPassword", "error", err)
		SendInternalError(c, "Unable to create account")
		return
	}

	SendSuccess(c, http.StatusCreated, service.AccountToResponse(*account))
}

func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := BindParams[request.LoginRequest](c)

	if err != nil {
		SendValidationError(c, err)
		return
	}

	account, err := a.svc.Authenticate(ctx, params.Email, params.Password)

	if errors.Is(err, domain.ErrInvalidCredentials) {
		SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	if err != nil {
		slog.Error("AuthByEmailAndPassword", "after_authenticate", err)
		SendInternalError(c, "Unable to authenticate")
		return
	}

	token, err := a.svc.IssueToken(account)

	if err != nil {
		slog.Error("AuthByEmailAndPassword", "issue_token", err)
		SendInternalError(c, "Failed to generate access token")
		return
	}

	c.JSON(http.StatusOK, response.TokenResponse{Token: token})
}
