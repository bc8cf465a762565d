package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"CryptoDash/internal/domain/models"
	"CryptoDash/internal/middleware"
	"CryptoDash/internal/usecase"
	xhttp "CryptoDash/pkg/http"
)

var assetSymbol = regexp.MustCompile(`^[A-Za-z0-9]{2,10}$`)

func init() {
	mustRegister("asset_symbol", assetSymbol.MatchString, "%s must be a ticker of 2 to 10 letters or digits")
	mustRegister("investor_type", models.IsInvestorType, "%s must be one of: "+strings.Join(models.InvestorTypes, ", "))
	mustRegister("content_type", models.IsContentType, "%s must be one of: "+strings.Join(models.ContentTypes, ", "))
}

func mustRegister(tag string, fn func(string) bool, msg string) {
	if err := xhttp.RegisterValidation(tag, fn, msg); err != nil {
		panic(err)
	}
}

// toAppError maps use case errors onto HTTP errors.
func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		return xhttp.NotFoundError("user not found")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return xhttp.UnauthorizedError("invalid email or password")
	case errors.Is(err, usecase.ErrEmailTaken):
		return xhttp.ConflictError("email already registered").WithParam("field", "email")
	case errors.Is(err, usecase.ErrWrongPassword):
		return xhttp.NewAppError("ERR_WRONG_PASSWORD", "currentPassword", "current password is incorrect", http.StatusBadRequest)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}

func currentUser(c echo.Context) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, xhttp.UnauthorizedError("authentication required")
	}
	return id, nil
}
