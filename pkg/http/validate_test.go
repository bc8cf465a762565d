package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voteRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=up down"`
	Note  string `json:"note" validate:"omitempty,max=5"`
	Limit int    `json:"limit" default:"20" validate:"gte=1,lte=100"`
}

func bindJSON(t *testing.T, body string, dest interface{}) interface{} {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	return ReadAndValidateRequest(c, dest)
}

func TestReadAndValidateRequestAppliesDefaults(t *testing.T) {
	req := &voteRequest{}
	verr := bindJSON(t, `{"kind":"up"}`, req)
	require.Nil(t, verr)
	assert.Equal(t, 20, req.Limit)
}

func TestReadAndValidateRequestOneOfMessage(t *testing.T) {
	verr := bindJSON(t, `{"kind":"sideways"}`, &voteRequest{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_ONEOF", errs[0].Code)
	assert.Equal(t, "kind", errs[0].Field)
	assert.Equal(t, "kind must be one of: up, down", errs[0].Message)
	assert.Equal(t, []string{"up", "down"}, errs[0].Params["options"])
}

func TestReadAndValidateRequestMaxLength(t *testing.T) {
	verr := bindJSON(t, `{"kind":"down","note":"toolong"}`, &voteRequest{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_MAX", errs[0].Code)
	assert.Equal(t, "note", errs[0].Field)
}

func TestReadAndValidateRequestMalformedBody(t *testing.T) {
	verr := bindJSON(t, `{"kind":`, &voteRequest{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	assert.Equal(t, "ERR_UNKNOWN", errs[0].Code)
}

func TestRegisterValidationCustomMessage(t *testing.T) {
	require.NoError(t, RegisterValidation("shouty", func(s string) bool {
		return s == strings.ToUpper(s)
	}, "%s must be upper case"))

	type shoutRequest struct {
		Word string `json:"word" validate:"shouty"`
	}
	verr := bindJSON(t, `{"word":"quiet"}`, &shoutRequest{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	assert.Equal(t, "word must be upper case", errs[0].Message)
	assert.Nil(t, bindJSON(t, `{"word":"LOUD"}`, &shoutRequest{}))
}

func TestDataResponseUsesStatusCode(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, AppErrorResponse(c, NotFoundError("user not found")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":404`)
	assert.Contains(t, rec.Body.String(), "user not found")
}
