package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "storefront/internal/adapter/http/helper"
	"storefront/internal/adapter/http/middleware"
	"storefront/internal/adapter/logger"
	"storefront/internal/core/domain"
	"storefront/internal/core/model/request"
	"storefront/internal/core/model/response"
	"storefront/internal/core/port"
	"storefront/internal/core/service"
)

const (
	rootPath  = "/"
	loginPath = "/login"
)

type SessionHandler struct {
	svc    port.SessionService
	Logger *logger.Logger
}

func NewSessionHandler(svc port.SessionService, logger *logger.Logger) *SessionHandler {
	return &SessionHandler{
		svc:    svc,
		Logger: logger,
	}
}

// LoginForm describes the fields POST /login expects.
func (s *SessionHandler) LoginForm(c *gin.Context) {
	SendSuccess(c, http.StatusOK, gin.H{
		"action": loginPath,
		"method": http.MethodPost,
		"fields": []string{"email", "password"},
	})
}

// Login accepts form or JSON credentials and redirects either way: to the
// root on success, back to the form on failure.
func (s *SessionHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	gw := middleware.Gateway(c)
	if gw == nil {
		SendInternalError(c, "Session unavailable")
		return
	}

	params, err := BindParams[request.LoginRequest](c)

	if err != nil {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	account, err := s.svc.Login(ctx, gw, params.Email, params.Password)

	if errors.Is(err, domain.ErrInvalidCredentials) {
		s.Logger.WarnWithTrace(ctx, "Login failed", zap.String("client_ip", GetClientIP(c)))
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	if err != nil {
		s.Logger.ErrorWithTrace(ctx, "Login error", zap.Error(err))
		SendInternalError(c, "Unable to sign in")
		return
	}

	s.Logger.InfoWithTrace(ctx, "Login succeeded", zap.String("account_id", account.UUID.String()))

	c.Redirect(http.StatusFound, rootPath)
}

func (s *SessionHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	gw := middleware.Gateway(c)
	if gw == nil {
		SendInternalError(c, "Session unavailable")
		return
	}

	if err := s.svc.Logout(ctx, gw); err != nil {
		s.Logger.ErrorWithTrace(ctx, "Logout error", zap.Error(err))
		SendInternalError(c, "Unable to sign out")
		return
	}

	c.Redirect(http.StatusFound, rootPath)
}

// Show reports the current session state.
func (s *SessionHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()

	gw := middleware.Gateway(c)
	if gw == nil {
		SendSuccess(c, http.StatusOK, response.SessionResponse{})
		return
	}

	account, err := s.svc.Current(ctx, gw)

	if err != nil {
		s.Logger.ErrorWithTrace(ctx, "Session lookup error", zap.Error(err))
		SendInternalError(c, "Unable to load session")
		return
	}

	if account == nil {
		SendSuccess(c, http.StatusOK, response.SessionResponse{})
		return
	}

	accountResponse := service.AccountToResponse(*account)

	SendSuccess(c, http.StatusOK, response.SessionResponse{
		Authenticated: true,
		Account:       &accountResponse,
	})
}
