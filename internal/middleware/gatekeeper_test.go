package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagelink/api/internal/config"
	"stagelink/api/internal/middleware"
	"stagelink/api/internal/models"
	"stagelink/api/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionFor(role models.Role, status models.AccountStatus) *session.Claims {
	return &session.Claims{UserID: "u1", Email: "x@stagelink.io", Role: role, Status: status}
}

func TestDecideBypass(t *testing.T) {
	paths := []string{
		"/api/anything",
		"/api/auth/login",
		"/_next/x",
		"/favicon.ico",
		"/static/app.css",
		"/assets/logo.svg",
		"/images/banner.png",
	}

	for _, path := range paths {
		assert.True(t, middleware.Decide(path, nil).Forward(), "bypass path %s with no session", path)
		assert.True(t, middleware.Decide(path, sessionFor(models.RoleDJ, models.StatusSuspended)).Forward(),
			"bypass path %s ignores session state", path)
	}
}

func TestDecidePublicForwards(t *testing.T) {
	for _, path := range []string{"/", "/register", "/unauthorized", "/login"} {
		assert.True(t, middleware.Decide(path, nil).Forward(), "public path %s", path)
	}
}

func TestDecideLoginRedirectsSessionToDashboard(t *testing.T) {
	cases := map[models.Role]string{
		models.RoleSuperAdmin:   "/super-admin",
		models.RoleStageManager: "/stage-manager",
		models.RoleDJ:           "/dj",
		models.RoleArtist:       "/",
	}

	for role, dashboard := range cases {
		decision := middleware.Decide("/login", sessionFor(role, models.StatusActive))
		assert.Equal(t, dashboard, decision.Redirect, "role %s", role)
		// The same mapping the login handler uses.
		assert.Equal(t, models.DashboardPath(role), decision.Redirect)
	}
}

func TestDecideUnauthenticatedRedirectsToLogin(t *testing.T) {
	decision := middleware.Decide("/stage-manager/foo", nil)
	assert.Equal(t, "/login?redirect=%2Fstage-manager%2Ffoo", decision.Redirect)
}

func TestDecideStatusGate(t *testing.T) {
	suspended := sessionFor(models.RoleDJ, models.StatusSuspended)

	assert.Equal(t, "/account-suspended", middleware.Decide("/dj", suspended).Redirect)
	assert.True(t, middleware.Decide("/account-suspended", suspended).Forward(), "no redirect loop on own status page")

	pending := sessionFor(models.RoleStageManager, models.StatusPending)
	assert.Equal(t, "/account-pending", middleware.Decide("/stage-manager", pending).Redirect,
		"status outranks role gating")

	deactivated := sessionFor(models.RoleSuperAdmin, models.StatusDeactivated)
	assert.Equal(t, "/account-deactivated", middleware.Decide("/super-admin", deactivated).Redirect)
}

func TestDecideRoleGate(t *testing.T) {
	artist := sessionFor(models.RoleArtist, models.StatusActive)
	assert.Equal(t, "/unauthorized", middleware.Decide("/super-admin", artist).Redirect)
	assert.Equal(t, "/unauthorized", middleware.Decide("/dj/sets", artist).Redirect)

	// Hierarchy: a higher role passes lower gates.
	admin := sessionFor(models.RoleSuperAdmin, models.StatusActive)
	assert.True(t, middleware.Decide("/dj", admin).Forward())
	assert.True(t, middleware.Decide("/stage-manager/roster", admin).Forward())

	sm := sessionFor(models.RoleStageManager, models.StatusActive)
	assert.True(t, middleware.Decide("/stage-manager", sm).Forward())
	assert.Equal(t, "/unauthorized", middleware.Decide("/super-admin", sm).Redirect)
}

func TestDecideAuthRequiredWithSessionForwards(t *testing.T) {
	artist := sessionFor(models.RoleArtist, models.StatusActive)
	for _, path := range []string{"/profile", "/settings", "/events/ev-1"} {
		assert.True(t, middleware.Decide(path, artist).Forward(), "path %s", path)
	}
}

func TestGatekeeperMiddleware(t *testing.T) {
	manager := session.NewManager(config.SessionConfig{MaxAge: time.Hour}, "test", zerolog.Nop())
	codec := session.NewCodec(config.SessionConfig{})

	engine := gin.New()
	engine.Use(middleware.Gatekeeper(manager, zerolog.Nop()))
	engine.GET("/stage-manager", func(c *gin.Context) { c.String(http.StatusOK, "dashboard") })
	engine.GET("/api/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	t.Run("no session redirects to login", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stage-manager", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?redirect=%2Fstage-manager", w.Header().Get("Location"))
	})

	t.Run("valid session forwards", func(t *testing.T) {
		token, err := codec.Encode(*sessionFor(models.RoleStageManager, models.StatusActive))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/stage-manager", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "dashboard", w.Body.String())
	})

	t.Run("api routes bypass the gatekeeper", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("suspended session is confined to its status page", func(t *testing.T) {
		token, err := codec.Encode(*sessionFor(models.RoleStageManager, models.StatusSuspended))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/stage-manager", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/account-suspended", w.Header().Get("Location"))
	})
}
