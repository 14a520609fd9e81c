package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastellanos/roadmapr-backend/internal/middleware"
	"github.com/ncastellanos/roadmapr-backend/internal/services"
)

type GenerationHandler struct {
	generationService services.GenerationService
}

func NewGenerationHandler(generationService services.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

// Generate asks the AI provider for a roadmap on the given topic and persists
// it unsaved with a seven-day expiry. Callers at the unsaved-roadmap cap are
// rejected before the provider is called.
func (gh *GenerationHandler) Generate(c *gin.Context) {
	var req struct {
		Topic string `json:"topic" binding:"required"`
		Level string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := gh.generationService.GenerateRoadmap(c.Request.Context(), middleware.UserID(c), req.Topic, req.Level)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, result)
}
