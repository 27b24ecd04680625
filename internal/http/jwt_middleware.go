package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pilot-pulse/internal/service"
)

const authClaimsKey = "auth_claims"

// JWTAuthMiddleware valida JWT access tokens y guarda claims en el contexto.
func JWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			c.Abort()
			return
		}

		claims, ok := bearerClaims(c, jwtSvc)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// OptionalJWTMiddleware guarda claims si hay un token valido, sin bloquear la request.
// Un token presente pero invalido si se rechaza.
func OptionalJWTMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil || strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			c.Next()
			return
		}
		claims, ok := bearerClaims(c, jwtSvc)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, jwtSvc *service.JWTService) (service.Claims, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return service.Claims{}, false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	claims, err := jwtSvc.ParseAccessToken(token)
	if err != nil {
		return service.Claims{}, false
	}
	return claims, true
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}
