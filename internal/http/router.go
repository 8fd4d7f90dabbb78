package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"go.ngs.io/vsop87-api/internal/logging"
	"go.ngs.io/vsop87-api/internal/usecase"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// SetupRouter creates and configures the Gin router.
// An empty allowedOrigins list allows all origins.
func SetupRouter(positionUC *usecase.PositionUseCase, allowedOrigins []string, log logr.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(log.WithName("http")))

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}

	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(positionUC)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.GET("/positions", handler.GetPositions)
	v1.GET("/bodies", handler.GetBodies)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}

// requestID propagates or assigns an X-Request-ID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log logr.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"requestID", c.GetString(RequestIDHeader),
		}
		if c.Writer.Status() >= 500 {
			log.Info("Request failed", append(kv, "errors", c.Errors.String())...)
			return
		}
		log.V(logging.DEBUG).Info("Request served", kv...)
	}
}
