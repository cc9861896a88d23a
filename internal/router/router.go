package router

import (
	"github.com/gin-gonic/gin"

	"labmark/internal/handler"
	"labmark/internal/middleware"
	"labmark/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	fileH *handler.FileHandler,
	draftH *handler.DraftHandler,
	aliasH *handler.AliasHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// File routes
	files := protected.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("", fileH.List)
	files.GET("/:id", fileH.Get)
	files.GET("/:id/download-url", fileH.DownloadURL)
	files.DELETE("/:id", fileH.Delete)
	files.POST("/:id/extract", draftH.Extract)
	files.GET("/:id/drafts", draftH.ListByFile)

	// Draft routes
	drafts := protected.Group("/drafts")
	drafts.GET("", draftH.List)
	drafts.GET("/:id", draftH.Get)
	drafts.GET("/:id/diff/:otherId", draftH.Diff)
	drafts.GET("/:id/export", draftH.Export)

	// Alias override routes
	aliases := protected.Group("/aliases")
	aliases.GET("", aliasH.List)
	aliases.PUT("", aliasH.Put)
	aliases.DELETE("/:id", aliasH.Delete)

	return r
}
