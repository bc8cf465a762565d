package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"CryptoDash/internal/domain/models"
	xhttp "CryptoDash/pkg/http"
	xlogger "CryptoDash/pkg/logger"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	logger *xlogger.Logger
	auth   AuthService
	cookie CookieConfig
}

func NewAuthHandler(logger *xlogger.Logger, auth AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{logger: logger, auth: auth, cookie: cookie}
}

func (h *AuthHandler) Register(c echo.Context) error {
	req := &models.RegisterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "register", err)
	}
	h.setCookie(c, res.Token, res.ExpiresAt)
	return xhttp.CreatedResponse(c, res)
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := &models.LoginRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "login", err)
	}
	h.setCookie(c, res.Token, res.ExpiresAt)
	return xhttp.SuccessResponse(c, res)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.setCookie(c, "", time.Unix(0, 0))
	return xhttp.SuccessResponse(c, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	u, err := h.auth.Me(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "me", err)
	}
	return xhttp.SuccessResponse(c, u)
}

func (h *AuthHandler) UpdateMe(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.UpdateProfileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	u, err := h.auth.UpdateProfile(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "update profile", err)
	}
	return xhttp.SuccessResponse(c, u)
}

func (h *AuthHandler) fail(c echo.Context, op string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" usecase error", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func (h *AuthHandler) setCookie(c echo.Context, token string, expires time.Time) {
	if h.cookie.Name == "" {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
