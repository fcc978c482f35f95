package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/slicer-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "slicer-service",
		})
	})

	// Initialize slice handler
	sliceHandler := handler.NewSliceHandler(deps)

	// Slicing API routes
	api := r.Group("/api/slice")
	{
		// POST /api/slice/start - Upload a mesh and start a slicing job
		api.POST("/start", sliceHandler.StartSlice)

		// GET /api/slice/progress/:job_id - Stream job progress as SSE
		api.GET("/progress/:job_id", sliceHandler.StreamProgress)
	}

	return r
}
