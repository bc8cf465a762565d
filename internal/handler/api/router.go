package api

import (
	"github.com/labstack/echo/v4"

	dservice "CryptoDash/internal/domain/service"
	"CryptoDash/internal/middleware"
)

// StaticConfig points the public meme path at its directory on disk.
type StaticConfig struct {
	PublicPath string
	Dir        string
}

// Router registers every CryptoDash route on echo.
type Router struct {
	tokens      dservice.TokenIssuer
	cookieName  string
	static      StaticConfig
	health      *HealthHandler
	auth        *AuthHandler
	preferences *PreferencesHandler
	dashboard   *DashboardHandler
	feedback    *FeedbackHandler
	memes       *MemeHandler
}

func NewRouter(
	tokens dservice.TokenIssuer,
	cookie CookieConfig,
	static StaticConfig,
	health *HealthHandler,
	auth *AuthHandler,
	preferences *PreferencesHandler,
	dashboard *DashboardHandler,
	feedback *FeedbackHandler,
	memes *MemeHandler,
) *Router {
	return &Router{
		tokens:      tokens,
		cookieName:  cookie.Name,
		static:      static,
		health:      health,
		auth:        auth,
		preferences: preferences,
		dashboard:   dashboard,
		feedback:    feedback,
		memes:       memes,
	}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.health.Health)
	if r.static.PublicPath != "" && r.static.Dir != "" {
		e.Static(r.static.PublicPath, r.static.Dir)
	}

	g := e.Group("/api")
	g.POST("/auth/register", r.auth.Register)
	g.POST("/auth/login", r.auth.Login)
	g.POST("/auth/logout", r.auth.Logout)

	authed := g.Group("", middleware.Auth(r.tokens, r.cookieName))
	authed.GET("/auth/me", r.auth.Me)
	authed.PATCH("/auth/me", r.auth.UpdateMe)

	authed.GET("/preferences", r.preferences.Get)
	authed.POST("/preferences", r.preferences.Save)
	authed.PUT("/preferences", r.preferences.Save)

	authed.GET("/dashboard", r.dashboard.Get)
	authed.GET("/dashboard/stream", r.dashboard.Stream)

	authed.POST("/feedback", r.feedback.Submit)
	authed.GET("/feedback", r.feedback.List)

	authed.GET("/memes/random", r.memes.Random)
}
