package api

import (
	"github.com/labstack/echo/v4"

	"CryptoDash/internal/domain/models"
	xhttp "CryptoDash/pkg/http"
	xlogger "CryptoDash/pkg/logger"
)

type PreferencesHandler struct {
	logger *xlogger.Logger
	prefs  PreferencesService
}

func NewPreferencesHandler(logger *xlogger.Logger, prefs PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{logger: logger, prefs: prefs}
}

func (h *PreferencesHandler) Get(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	p, err := h.prefs.Get(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("preferences usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, p)
}

// Save serves both POST and PUT; the record is replaced either way.
func (h *PreferencesHandler) Save(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.SavePreferencesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	p, err := h.prefs.Save(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Error("preferences usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, p)
}
