package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/member-matcher/app/controllers"
)

// SetupAPIRoutes wires the versioned API surface.
func SetupAPIRoutes(router *gin.Engine, analysis *controllers.AnalysisController) {
	v1 := router.Group("/v1")
	{
		datasets := v1.Group("/datasets")
		{
			datasets.POST("/survey", analysis.LoadSurvey)
			datasets.POST("/registrations/:year", analysis.LoadRegistrations)
		}

		v1.POST("/match/:year", analysis.Match)
		v1.GET("/report/:year", analysis.Report)
		v1.GET("/diagnostics/:year", analysis.Diagnostics)

		retention := v1.Group("/retention")
		{
			retention.GET("/compare", analysis.CompareRetention)
			retention.GET("/:year", analysis.Retention)
		}

		v1.GET("/health", analysis.HealthCheck)
	}
}

// SetupHealthRoutes exposes the unversioned probes.
func SetupHealthRoutes(router *gin.Engine, analysis *controllers.AnalysisController) {
	router.GET("/health", analysis.HealthCheck)
	router.GET("/ready", analysis.HealthCheck)
	router.GET("/live", analysis.HealthCheck)
}

// SetupAllRoutes wires middleware and every route group.
func SetupAllRoutes(router *gin.Engine, analysis *controllers.AnalysisController) {
	setupMiddleware(router)
	SetupHealthRoutes(router, analysis)
	SetupAPIRoutes(router, analysis)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

func setupMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
}
