package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mci-lab/avatarforge/internal/api/handler"
	"github.com/mci-lab/avatarforge/internal/api/middleware"
	"github.com/mci-lab/avatarforge/internal/logger"
	"github.com/mci-lab/avatarforge/internal/service"
)

// SetupRouter configures the Gin router with both variant surfaces.
func SetupRouter(
	yearbook *service.SubmissionService,
	adventurer *service.SubmissionService,
	cors middleware.CORSConfig,
	mode string,
	log *logger.Logger,
) *gin.Engine {
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = handler.MaxImageSize

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cors))

	healthHandler := handler.NewHealthHandler()
	r.GET("/health", healthHandler.Health)

	registerVariant(r.Group("/yearbook"), handler.NewVariantHandler(yearbook))
	registerVariant(r.Group("/adventurer"), handler.NewVariantHandler(adventurer))

	// Legacy delete path kept for the yearbook admin frontend
	r.DELETE("/yearbook/delete/:id", handler.NewVariantHandler(yearbook).DeleteResult)

	return r
}

func registerVariant(g *gin.RouterGroup, h *handler.VariantHandler) {
	g.GET("/config", h.GetConfig)
	g.POST("/config", h.UpdateConfig)
	g.POST("/submit", h.Submit)
	g.GET("/results", h.Results)
	g.DELETE("/results/:id", h.DeleteResult)
}
