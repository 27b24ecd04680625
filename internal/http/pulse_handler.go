package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pilot-pulse/internal/service"
)

// PulseHandler mantiene dependencias para los endpoints del pulse.
type PulseHandler struct {
	logger   *zap.Logger
	pulseSvc *service.PulseService
}

// NewPulseHandler crea una instancia de PulseHandler con dependencias necesarias.
func NewPulseHandler(logger *zap.Logger, pulseSvc *service.PulseService) *PulseHandler {
	return &PulseHandler{
		logger:   logger,
		pulseSvc: pulseSvc,
	}
}

// SubmitPulse maneja POST /pulse. El body es plano: role, comment y q1..q12.
// Si la request trae un token valido, el rol del token tiene prioridad.
func (h *PulseHandler) SubmitPulse(c *gin.Context) {
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid pulse request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	role, _ := req["role"].(string)
	comment, _ := req["comment"].(string)
	respondent := c.ClientIP()
	if claims, ok := GetAuthClaims(c); ok {
		respondent = claims.UserID
		if claims.Role != "" {
			role = claims.Role
		}
	}

	response, err := h.pulseSvc.Submit(c.Request.Context(), service.SubmitPulseInput{
		RespondentID: respondent,
		Role:         role,
		Questions:    req,
		Comment:      comment,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": vErr.Fields})
		case errors.Is(err, service.ErrPulseRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		default:
			h.logger.Error("submit pulse failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store pulse response"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"response": response})
}

// GetTrends maneja GET /pulse/trends.
func (h *PulseHandler) GetTrends(c *gin.Context) {
	trends, err := h.pulseSvc.Trends(c.Request.Context())
	if err != nil {
		h.logger.Error("pulse trends failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute trends"})
		return
	}
	c.JSON(http.StatusOK, trends)
}
