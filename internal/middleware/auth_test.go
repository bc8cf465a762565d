package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeTokens struct {
	valid string
	id    uuid.UUID
}

func (f fakeTokens) Issue(uuid.UUID, string) (string, time.Time, error) {
	return f.valid, time.Now(), nil
}

func (f fakeTokens) Parse(tok string) (uuid.UUID, error) {
	if tok != f.valid {
		return uuid.Nil, errors.New("bad token")
	}
	return f.id, nil
}

func serve(t *testing.T, tokens fakeTokens, setup func(*http.Request)) (*httptest.ResponseRecorder, uuid.UUID) {
	t.Helper()
	e := echo.New()
	var seen uuid.UUID
	e.GET("/private", func(c echo.Context) error {
		seen, _ = UserID(c)
		return c.NoContent(http.StatusNoContent)
	}, Auth(tokens, "token"))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	setup(req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthBearer(t *testing.T) {
	tokens := fakeTokens{valid: "good", id: uuid.New()}
	rec, seen := serve(t, tokens, func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") })
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, tokens.id, seen)
}

func TestAuthCookie(t *testing.T) {
	tokens := fakeTokens{valid: "good", id: uuid.New()}
	rec, seen := serve(t, tokens, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: "good"}) })
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, tokens.id, seen)
}

func TestAuthRejects(t *testing.T) {
	tokens := fakeTokens{valid: "good", id: uuid.New()}
	cases := map[string]func(*http.Request){
		"missing":   func(*http.Request) {},
		"bad token": func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
		"no scheme": func(r *http.Request) { r.Header.Set("Authorization", "good") },
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			rec, _ := serve(t, tokens, setup)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "ERR_UNAUTHORIZED")
		})
	}
}
