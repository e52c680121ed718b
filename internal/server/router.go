package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/ipdesk-backend/internal/handlers"
	"github.com/yungbote/ipdesk-backend/internal/middleware"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	UserHandler       *handlers.UserHandler
	DisclosureHandler *handlers.DisclosureHandler
	ProjectHandler    *handlers.ProjectHandler
	AgreementHandler  *handlers.AgreementHandler
	StartupHandler    *handlers.StartupHandler
	InventorHandler   *handlers.InventorHandler
	TeamMemberHandler *handlers.TeamMemberHandler
	FilingHandler     *handlers.FilingHandler
	LinkHandler       *handlers.LinkHandler
	ActivityHandler   *handlers.ActivityHandler
	ChecklistHandler  *handlers.ChecklistHandler
	AlertHandler      *handlers.AlertHandler
	StatsHandler      *handlers.StatsHandler
	SSEHandler        *handlers.SSEHandler
	AllowOrigins      []string
	MediaDir          string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/register", cfg.AuthHandler.Register)
	router.POST("/api/login", cfg.AuthHandler.Login)
	if cfg.MediaDir != "" {
		router.Static("/media", cfg.MediaDir)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.POST("/user/avatar", cfg.UserHandler.UploadAvatar)

	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)

	api := protected.Group("/api")
	canDelete := cfg.AuthMiddleware.RequireRole(types.RoleAdmin, types.RoleManager)

	// Collections
	collections := []struct {
		path string
		h    collectionHandler
	}{
		{"disclosures", cfg.DisclosureHandler},
		{"projects", cfg.ProjectHandler},
		{"agreements", cfg.AgreementHandler},
		{"startups", cfg.StartupHandler},
		{"inventors", cfg.InventorHandler},
		{"team-members", cfg.TeamMemberHandler},
		{"filings", cfg.FilingHandler},
	}
	for _, coll := range collections {
		group := api.Group("/" + coll.path)
		group.GET("", coll.h.List)
		group.POST("", coll.h.Create)
		group.GET("/:id", coll.h.Get)
		group.PUT("/:id", coll.h.Update)
		group.DELETE("/:id", canDelete, coll.h.Delete)
	}

	// Links
	api.POST("/links", cfg.LinkHandler.Create)
	api.DELETE("/links/:id", cfg.LinkHandler.Delete)
	api.GET("/links/entity/:entityType/:entityId", cfg.LinkHandler.ListForEntity)

	// Activity
	api.GET("/activity/:entityType/:entityId", cfg.ActivityHandler.Timeline)
	api.POST("/activity/:entityType/:entityId", cfg.ActivityHandler.AddNote)

	// Checklist
	api.GET("/checklist/:entityType/:entityId", cfg.ChecklistHandler.List)
	api.POST("/checklist/:entityType/:entityId", cfg.ChecklistHandler.Create)
	api.POST("/checklist/:entityType/:entityId/apply-template", cfg.ChecklistHandler.ApplyTemplate)
	api.PATCH("/checklist/items/:id", cfg.ChecklistHandler.Update)
	api.DELETE("/checklist/items/:id", cfg.ChecklistHandler.Delete)

	// Alerts
	api.GET("/alerts", cfg.AlertHandler.List)
	api.PATCH("/alerts/:id/read", cfg.AlertHandler.MarkRead)
	api.POST("/alerts/:id/dismiss", cfg.AlertHandler.Dismiss)

	// Stats
	api.GET("/stats/dashboard", cfg.StatsHandler.Dashboard)

	return router
}

// collectionHandler is the shape every entity handler shares.
type collectionHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}
