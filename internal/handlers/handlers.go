package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"stagelink/api/internal/config"
	"stagelink/api/internal/middleware"
	"stagelink/api/internal/models"
	"stagelink/api/internal/rbac"
	"stagelink/api/internal/service"
	"stagelink/api/internal/session"
	"stagelink/api/internal/store"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	sessions *session.Manager
	rbac     *rbac.Engine
	auth     *service.AuthService
	events   *store.EventStore
	cache    *redis.Client
	db       *pgxpool.Pool
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	sessions *session.Manager,
	engine *rbac.Engine,
	auth *service.AuthService,
	events *store.EventStore,
	cache *redis.Client,
	db *pgxpool.Pool,
) HandlerSet {
	return HandlerSet{
		log:      log,
		cfg:      cfg,
		sessions: sessions,
		rbac:     engine,
		auth:     auth,
		events:   events,
		cache:    cache,
		db:       db,
	}
}

func (h HandlerSet) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.Register)
	auth.GET("/logout", h.Logout)
	auth.POST("/logout", h.Logout)
	auth.GET("/verify", h.Verify)
	auth.GET("/me", middleware.WithAuth(h.sessions, h.Me))
	auth.GET("/check-status", middleware.WithAuth(h.sessions, h.CheckStatus))
	auth.POST("/refresh-session", middleware.WithAuth(h.sessions, h.RefreshSession))

	admin := router.Group("/admin")
	admin.GET("/pending",
		middleware.WithAuth(h.sessions, h.AdminListPending, middleware.RequiredRole(models.RoleSuperAdmin)))
	admin.POST("/users/:id/approve",
		middleware.WithAuth(h.sessions, h.AdminApproveUser, middleware.RequiredRole(models.RoleSuperAdmin)))
	admin.POST("/users/:id/status",
		middleware.WithAuth(h.sessions, h.AdminUpdateStatus, middleware.RequiredRole(models.RoleSuperAdmin)))

	events := router.Group("/events")
	events.GET("", middleware.WithAuth(h.sessions, h.ListEvents))
	events.POST("", middleware.WithAuth(h.sessions, h.CreateEvent))
	events.GET("/:id", middleware.WithAuth(h.sessions, h.GetEvent))
}
