package api

import (
	"github.com/labstack/echo/v4"

	"CryptoDash/internal/domain/models"
	xhttp "CryptoDash/pkg/http"
	xlogger "CryptoDash/pkg/logger"
)

type FeedbackHandler struct {
	logger   *xlogger.Logger
	feedback FeedbackService
}

func NewFeedbackHandler(logger *xlogger.Logger, feedback FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{logger: logger, feedback: feedback}
}

func (h *FeedbackHandler) Submit(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.FeedbackRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rec, err := h.feedback.Submit(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Error("feedback usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.CreatedResponse(c, rec)
}

func (h *FeedbackHandler) List(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.FeedbackListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.feedback.ListMine(c.Request().Context(), id, req.Limit)
	if err != nil {
		h.logger.Error("feedback usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}
