package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pilot-pulse/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas del pulse.
// Si jwtSvc es nil el dashboard queda abierto y las respuestas usan el rol del body.
func NewRouter(
	logger *zap.Logger,
	pulseH *PulseHandler,
	jwtSvc *service.JWTService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pulse := r.Group("/pulse")
	pulse.POST("", OptionalJWTMiddleware(jwtSvc), pulseH.SubmitPulse)
	if jwtSvc != nil {
		pulse.GET("/trends", JWTAuthMiddleware(jwtSvc), pulseH.GetTrends)
	} else {
		pulse.GET("/trends", pulseH.GetTrends)
	}

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
